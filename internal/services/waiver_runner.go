package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/dmcalister/gridiron/internal/models"
	"github.com/dmcalister/gridiron/internal/roster"
	"github.com/dmcalister/gridiron/pkg/database"
)

// WaiverRunner processes each league's pending waiver claims on a schedule.
// Roster moves, budget deductions, and priority rotation for one league are
// committed in a single transaction.
type WaiverRunner struct {
	db        *database.DB
	cache     *CacheService
	hub       *LiveHub
	notifier  *Notifier
	logger    *logrus.Logger
	cron      *cron.Cron
	cronSpec  string
	mu        sync.Mutex
	isRunning bool
}

func NewWaiverRunner(
	db *database.DB,
	cache *CacheService,
	hub *LiveHub,
	notifier *Notifier,
	logger *logrus.Logger,
	cronSpec string,
) *WaiverRunner {
	return &WaiverRunner{
		db:       db,
		cache:    cache,
		hub:      hub,
		notifier: notifier,
		logger:   logger,
		cron:     cron.New(),
		cronSpec: cronSpec,
	}
}

// Start schedules the weekly waiver run.
func (s *WaiverRunner) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("waiver runner is already running")
	}

	_, err := s.cron.AddFunc(s.cronSpec, s.processAllLeagues)
	if err != nil {
		return fmt.Errorf("failed to schedule waiver runner: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	s.logger.Info("Waiver runner started")
	return nil
}

// Stop halts scheduled processing, waiting for an in-flight run to finish.
func (s *WaiverRunner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Waiver runner stopped")
}

func (s *WaiverRunner) processAllLeagues() {
	s.logger.Info("Starting scheduled waiver processing")

	var leagues []models.League
	if err := s.db.DB.Find(&leagues).Error; err != nil {
		s.logger.Errorf("Failed to load leagues: %v", err)
		return
	}

	for _, league := range leagues {
		if _, err := s.ProcessLeague(league.ID); err != nil {
			s.logger.Errorf("Waiver processing failed for league %d: %v", league.ID, err)
		}
	}

	s.logger.Info("Completed scheduled waiver processing")
}

// ProcessLeague settles every pending claim in the league and returns the
// outcomes. Safe to call on demand from the admin endpoint.
func (s *WaiverRunner) ProcessLeague(leagueID uint) ([]roster.ClaimOutcome, error) {
	var league models.League
	if err := s.db.DB.First(&league, leagueID).Error; err != nil {
		return nil, fmt.Errorf("league not found: %w", err)
	}

	var teams []models.Team
	if err := s.db.DB.Where("league_id = ?", leagueID).Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}

	var claims []models.WaiverClaim
	err := s.db.DB.Preload("Player").Preload("Team").
		Where("league_id = ? AND status = ?", leagueID, models.ClaimPending).
		Order("created_at ASC, id ASC").
		Find(&claims).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load claims: %w", err)
	}

	if len(claims) == 0 {
		s.logger.Debugf("League %d has no pending claims", leagueID)
		return nil, nil
	}

	state := &roster.WaiverState{
		Budgets:    make(map[uint]int, len(teams)),
		Priorities: make(map[uint]int, len(teams)),
	}
	for _, t := range teams {
		state.Budgets[t.ID] = t.FAABBudget
		state.Priorities[t.ID] = t.WaiverPriority
	}

	outcomes := roster.ResolveClaims(claims, league.WaiverMode, state)

	if err := s.persistOutcomes(leagueID, outcomes, state); err != nil {
		return nil, err
	}

	s.cache.Delete(context.Background(), StandingsCacheKey(leagueID))
	s.hub.Broadcast(EventWaiverResults, leagueID, outcomes)
	s.notifyManagers(outcomes)

	s.logger.Infof("Processed %d waiver claims for league %d", len(outcomes), leagueID)
	return outcomes, nil
}

// persistOutcomes commits all roster moves and state updates atomically.
func (s *WaiverRunner) persistOutcomes(leagueID uint, outcomes []roster.ClaimOutcome, state *roster.WaiverState) error {
	now := time.Now().UTC()

	return s.db.DB.Transaction(func(tx *gorm.DB) error {
		for _, outcome := range outcomes {
			claim := outcome.Claim

			status := models.ClaimLost
			if outcome.Won {
				status = models.ClaimWon
			}
			updates := map[string]interface{}{
				"status":       status,
				"lost_reason":  outcome.Reason,
				"processed_at": now,
			}
			if err := tx.Model(&models.WaiverClaim{}).Where("id = ?", claim.ID).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update claim %d: %w", claim.ID, err)
			}

			if !outcome.Won {
				continue
			}

			if claim.DropPlayerID != nil {
				err := tx.Where("team_id = ? AND player_id = ?", claim.TeamID, *claim.DropPlayerID).
					Delete(&models.RosterPlayer{}).Error
				if err != nil {
					return fmt.Errorf("failed to drop player for claim %d: %w", claim.ID, err)
				}
			}

			add := models.RosterPlayer{
				TeamID:      claim.TeamID,
				PlayerID:    claim.PlayerID,
				Slot:        models.SlotBench,
				AcquiredVia: models.AcquiredWaiver,
				AcquiredAt:  now,
			}
			if err := tx.Create(&add).Error; err != nil {
				return fmt.Errorf("failed to add player for claim %d: %w", claim.ID, err)
			}
		}

		// Write back the rotated priorities and spent budgets.
		for teamID, priority := range state.Priorities {
			updates := map[string]interface{}{
				"waiver_priority": priority,
				"faab_budget":     state.Budgets[teamID],
			}
			if err := tx.Model(&models.Team{}).Where("id = ?", teamID).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update team %d waiver state: %w", teamID, err)
			}
		}

		return nil
	})
}

func (s *WaiverRunner) notifyManagers(outcomes []roster.ClaimOutcome) {
	for _, outcome := range outcomes {
		phone := outcome.Claim.Team.OwnerPhone
		player := outcome.Claim.Player.Name

		var err error
		if outcome.Won {
			err = s.notifier.WaiverWon(phone, player, outcome.Claim.Bid)
		} else {
			err = s.notifier.WaiverLost(phone, player, outcome.Reason)
		}
		if err != nil {
			s.logger.Warnf("Failed to notify team %d: %v", outcome.Claim.TeamID, err)
		}
	}
}

// GetStatus reports scheduler state for the health endpoint.
func (s *WaiverRunner) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	nextRuns := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		nextRuns = append(nextRuns, entry.Next)
	}

	return map[string]interface{}{
		"is_running": s.isRunning,
		"cron_spec":  s.cronSpec,
		"next_runs":  nextRuns,
	}
}
