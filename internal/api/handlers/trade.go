package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmcalister/gridiron/internal/models"
	"github.com/dmcalister/gridiron/internal/roster"
	"github.com/dmcalister/gridiron/internal/services"
	"github.com/dmcalister/gridiron/pkg/database"
	"github.com/dmcalister/gridiron/pkg/utils"
)

type TradeHandler struct {
	db       *database.DB
	cache    *services.CacheService
	hub      *services.LiveHub
	notifier *services.Notifier
}

func NewTradeHandler(db *database.DB, cache *services.CacheService, hub *services.LiveHub, notifier *services.Notifier) *TradeHandler {
	return &TradeHandler{
		db:       db,
		cache:    cache,
		hub:      hub,
		notifier: notifier,
	}
}

type proposeTradeRequest struct {
	FromTeamID uint   `json:"from_team_id" binding:"required"`
	ToTeamID   uint   `json:"to_team_id" binding:"required"`
	Offered    []uint `json:"offered" binding:"required"`
	Requested  []uint `json:"requested" binding:"required"`
}

// ProposeTrade records a pending offer between two teams
func (h *TradeHandler) ProposeTrade(c *gin.Context) {
	var req proposeTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if req.FromTeamID == req.ToTeamID {
		utils.SendValidationError(c, "Invalid trade", "a team cannot trade with itself")
		return
	}

	var from, to models.Team
	if err := h.db.First(&from, req.FromTeamID).Error; err != nil {
		utils.SendNotFound(c, "Proposing team not found")
		return
	}
	if err := h.db.First(&to, req.ToTeamID).Error; err != nil {
		utils.SendNotFound(c, "Receiving team not found")
		return
	}
	if from.LeagueID != to.LeagueID {
		utils.SendValidationError(c, "Invalid trade", "teams are not in the same league")
		return
	}

	if err := h.verifyOwnership(req.FromTeamID, req.Offered); err != nil {
		utils.SendValidationError(c, "Invalid offered players", err.Error())
		return
	}
	if err := h.verifyOwnership(req.ToTeamID, req.Requested); err != nil {
		utils.SendValidationError(c, "Invalid requested players", err.Error())
		return
	}

	offer := models.TradeOffer{
		Reference:  uuid.NewString(),
		LeagueID:   from.LeagueID,
		FromTeamID: req.FromTeamID,
		ToTeamID:   req.ToTeamID,
		Offered:    models.IDList(req.Offered),
		Requested:  models.IDList(req.Requested),
		Status:     models.TradePending,
	}
	if err := h.db.Create(&offer).Error; err != nil {
		utils.SendInternalError(c, "Failed to save trade offer")
		return
	}

	h.hub.Broadcast(services.EventTradeUpdate, offer.LeagueID, gin.H{
		"trade_id": offer.ID,
		"status":   offer.Status,
	})

	utils.SendSuccess(c, offer)
}

// GetTrade returns a single offer with both teams loaded
func (h *TradeHandler) GetTrade(c *gin.Context) {
	offer, ok := h.loadTrade(c)
	if !ok {
		return
	}
	utils.SendSuccess(c, offer)
}

// ValidateTrade evaluates an offer against league rules without accepting it
func (h *TradeHandler) ValidateTrade(c *gin.Context) {
	offer, ok := h.loadTrade(c)
	if !ok {
		return
	}

	violations, err := h.evaluate(offer)
	if err != nil {
		utils.SendInternalError(c, "Failed to evaluate trade")
		return
	}

	h.recordDecision(offer, violations)

	utils.SendSuccess(c, gin.H{
		"trade_id":   offer.ID,
		"valid":      len(violations) == 0,
		"violations": violations,
	})
}

// AcceptTrade re-validates the offer and swaps the players in one transaction
func (h *TradeHandler) AcceptTrade(c *gin.Context) {
	offer, ok := h.loadTrade(c)
	if !ok {
		return
	}
	if offer.Status != models.TradePending {
		utils.SendConflict(c, "Trade is no longer pending")
		return
	}

	violations, err := h.evaluate(offer)
	if err != nil {
		utils.SendInternalError(c, "Failed to evaluate trade")
		return
	}
	if len(violations) > 0 {
		h.recordDecision(offer, violations)
		h.db.Model(offer).Update("status", models.TradeInvalid)
		utils.SendSuccess(c, gin.H{
			"trade_id":   offer.ID,
			"accepted":   false,
			"violations": violations,
		})
		return
	}

	now := time.Now().UTC()
	err = h.db.Transaction(func(tx *gorm.DB) error {
		// Swap ownership; everything arrives on the bench
		if err := tx.Model(&models.RosterPlayer{}).
			Where("id IN ? AND team_id = ?", []uint(offer.Offered), offer.FromTeamID).
			Updates(map[string]interface{}{
				"team_id":      offer.ToTeamID,
				"slot":         models.SlotBench,
				"lineup_slot":  "",
				"acquired_via": models.AcquiredTrade,
			}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.RosterPlayer{}).
			Where("id IN ? AND team_id = ?", []uint(offer.Requested), offer.ToTeamID).
			Updates(map[string]interface{}{
				"team_id":      offer.FromTeamID,
				"slot":         models.SlotBench,
				"lineup_slot":  "",
				"acquired_via": models.AcquiredTrade,
			}).Error; err != nil {
			return err
		}

		return tx.Model(offer).Updates(map[string]interface{}{
			"status":     models.TradeAccepted,
			"decided_at": now,
		}).Error
	})
	if err != nil {
		utils.SendInternalError(c, "Failed to execute trade")
		return
	}

	ctx := context.Background()
	h.cache.Delete(ctx,
		services.RosterCacheKey(offer.FromTeamID),
		services.RosterCacheKey(offer.ToTeamID))

	h.hub.Broadcast(services.EventTradeUpdate, offer.LeagueID, gin.H{
		"trade_id": offer.ID,
		"status":   models.TradeAccepted,
	})
	h.notifier.TradeDecided(offer.FromTeam.OwnerPhone, offer.ToTeam.Name, "accepted")
	h.notifier.TradeDecided(offer.ToTeam.OwnerPhone, offer.FromTeam.Name, "accepted")

	utils.SendSuccess(c, gin.H{
		"trade_id": offer.ID,
		"accepted": true,
	})
}

// evaluate builds the validation input from current rosters and league settings
func (h *TradeHandler) evaluate(offer *models.TradeOffer) ([]roster.Violation, error) {
	var league models.League
	if err := h.db.First(&league, offer.LeagueID).Error; err != nil {
		return nil, err
	}

	fromOut, err := h.rosterPlayers(offer.FromTeamID, offer.Offered)
	if err != nil {
		return nil, err
	}
	toOut, err := h.rosterPlayers(offer.ToTeamID, offer.Requested)
	if err != nil {
		return nil, err
	}

	// Players that left a roster since the offer was made invalidate it
	if len(fromOut) != len(offer.Offered) || len(toOut) != len(offer.Requested) {
		return []roster.Violation{{
			Code:    roster.CodePlayerNotFound,
			Message: "one or more players are no longer on the expected roster",
		}}, nil
	}

	fromActive, err := h.activeCount(offer.FromTeamID)
	if err != nil {
		return nil, err
	}
	toActive, err := h.activeCount(offer.ToTeamID)
	if err != nil {
		return nil, err
	}

	return roster.ValidateTrade(roster.TradeInput{
		FromOut:        fromOut,
		ToOut:          toOut,
		FromActiveSize: fromActive,
		ToActiveSize:   toActive,
		Deadline:       league.TradeDeadline,
		Now:            time.Now().UTC(),
	}), nil
}

func (h *TradeHandler) rosterPlayers(teamID uint, ids models.IDList) ([]models.RosterPlayer, error) {
	var players []models.RosterPlayer
	err := h.db.Preload("Player").
		Where("id IN ? AND team_id = ?", []uint(ids), teamID).
		Find(&players).Error
	return players, err
}

func (h *TradeHandler) activeCount(teamID uint) (int, error) {
	var count int64
	err := h.db.Model(&models.RosterPlayer{}).
		Where("team_id = ? AND slot <> ?", teamID, models.SlotIR).
		Count(&count).Error
	return int(count), err
}

func (h *TradeHandler) recordDecision(offer *models.TradeOffer, violations []roster.Violation) {
	decision, err := json.Marshal(gin.H{
		"valid":        len(violations) == 0,
		"violations":   violations,
		"evaluated_at": time.Now().UTC(),
	})
	if err != nil {
		return
	}
	h.db.Model(offer).Update("decision", decision)
}

func (h *TradeHandler) verifyOwnership(teamID uint, rosterPlayerIDs []uint) error {
	if len(rosterPlayerIDs) == 0 {
		return nil
	}
	var count int64
	if err := h.db.Model(&models.RosterPlayer{}).
		Where("id IN ? AND team_id = ?", rosterPlayerIDs, teamID).
		Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(rosterPlayerIDs) {
		return errNotOnRoster
	}
	return nil
}

var errNotOnRoster = errors.New("one or more players are not on the named team's roster")

func (h *TradeHandler) loadTrade(c *gin.Context) (*models.TradeOffer, bool) {
	tradeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid trade ID", err.Error())
		return nil, false
	}

	var offer models.TradeOffer
	if err := h.db.Preload("FromTeam").Preload("ToTeam").
		First(&offer, tradeID).Error; err != nil {
		utils.SendNotFound(c, "Trade not found")
		return nil, false
	}

	return &offer, true
}
