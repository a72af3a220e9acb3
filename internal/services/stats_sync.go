package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/dmcalister/gridiron/internal/ffl"
	"github.com/dmcalister/gridiron/internal/models"
	"github.com/dmcalister/gridiron/pkg/database"
)

// StatsSyncService pulls projections, results, and injury designations from
// the external feed into the player table on a schedule.
type StatsSyncService struct {
	db           *database.DB
	cache        *CacheService
	provider     ffl.StatsProvider
	hub          *LiveHub
	logger       *logrus.Logger
	cron         *cron.Cron
	syncInterval time.Duration
	mu           sync.Mutex
	isRunning    bool
}

func NewStatsSyncService(
	db *database.DB,
	cache *CacheService,
	provider ffl.StatsProvider,
	hub *LiveHub,
	logger *logrus.Logger,
	syncInterval time.Duration,
) *StatsSyncService {
	return &StatsSyncService{
		db:           db,
		cache:        cache,
		provider:     provider,
		hub:          hub,
		logger:       logger,
		cron:         cron.New(),
		syncInterval: syncInterval,
	}
}

// Start begins scheduled syncing and kicks off an initial run.
func (s *StatsSyncService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("stats sync is already running")
	}

	schedule := fmt.Sprintf("@every %s", s.syncInterval.String())
	if _, err := s.cron.AddFunc(schedule, s.syncAllLeagues); err != nil {
		return fmt.Errorf("failed to schedule stats sync: %w", err)
	}

	// Injury report refreshes more often during game days.
	if _, err := s.cron.AddFunc("0 9-23 * * 0,1,4", s.syncInjuries); err != nil {
		return fmt.Errorf("failed to schedule injury sync: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	go s.syncAllLeagues()

	s.logger.Info("Stats sync service started")
	return nil
}

// Stop halts scheduled syncing.
func (s *StatsSyncService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Stats sync service stopped")
}

func (s *StatsSyncService) syncAllLeagues() {
	var leagues []models.League
	if err := s.db.DB.Find(&leagues).Error; err != nil {
		s.logger.Errorf("Failed to load leagues for stats sync: %v", err)
		return
	}

	synced := make(map[string]bool)
	for _, league := range leagues {
		key := fmt.Sprintf("%d:%d", league.Season, league.CurrentWeek)
		if synced[key] {
			continue
		}
		synced[key] = true

		if err := s.SyncWeek(context.Background(), league.Season, league.CurrentWeek); err != nil {
			s.logger.Errorf("Stats sync failed for season %d week %d: %v", league.Season, league.CurrentWeek, err)
			continue
		}
		s.hub.Broadcast(EventScoreUpdate, league.ID, map[string]int{"week": league.CurrentWeek})
	}
}

// SyncWeek fetches one week's player lines and writes them into WeekStats.
func (s *StatsSyncService) SyncWeek(ctx context.Context, season, week int) error {
	updates, err := s.provider.WeekUpdates(ctx, season, week)
	if err != nil {
		return fmt.Errorf("provider fetch failed: %w", err)
	}

	updated := 0
	for _, u := range updates {
		var player models.Player
		err := s.db.DB.Where("external_id = ?", u.ExternalID).First(&player).Error
		if err != nil {
			continue // not rostered anywhere we track
		}

		if player.WeekStats == nil {
			player.WeekStats = make(models.WeekStats)
		}
		player.WeekStats[week] = models.WeekLine{
			Projected: u.Projected,
			Actual:    u.Actual,
			Final:     u.Final,
		}
		player.ByeWeek = u.ByeWeek
		if u.InjuryStatus != "" {
			player.InjuryStatus = models.InjuryStatus(u.InjuryStatus)
		}

		if err := s.db.DB.Save(&player).Error; err != nil {
			s.logger.Warnf("Failed to save stats for player %s: %v", player.Name, err)
			continue
		}
		updated++
	}

	s.cache.Delete(ctx, WeekStatsCacheKey(season, week))
	s.logger.Infof("Synced %d player lines for season %d week %d", updated, season, week)
	return nil
}

func (s *StatsSyncService) syncInjuries() {
	updates, err := s.provider.InjuryReport(context.Background())
	if err != nil {
		s.logger.Errorf("Injury report fetch failed: %v", err)
		return
	}

	changed := 0
	for _, u := range updates {
		result := s.db.DB.Model(&models.Player{}).
			Where("external_id = ? AND injury_status != ?", u.ExternalID, u.InjuryStatus).
			Update("injury_status", u.InjuryStatus)
		if result.Error != nil {
			s.logger.Warnf("Failed to update injury status for %s: %v", u.Name, result.Error)
			continue
		}
		changed += int(result.RowsAffected)
	}

	if changed > 0 {
		s.logger.Infof("Updated injury status for %d players", changed)
	}
}

// GetStatus reports scheduler state for the health endpoint.
func (s *StatsSyncService) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	nextRuns := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		nextRuns = append(nextRuns, entry.Next)
	}

	return map[string]interface{}{
		"is_running":    s.isRunning,
		"sync_interval": s.syncInterval.String(),
		"next_runs":     nextRuns,
	}
}
