package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dmcalister/gridiron/internal/models"
	"github.com/dmcalister/gridiron/internal/roster"
	"github.com/dmcalister/gridiron/internal/services"
	"github.com/dmcalister/gridiron/pkg/database"
	"github.com/dmcalister/gridiron/pkg/utils"
)

type LineupHandler struct {
	db    *database.DB
	cache *services.CacheService
	hub   *services.LiveHub
}

func NewLineupHandler(db *database.DB, cache *services.CacheService, hub *services.LiveHub) *LineupHandler {
	return &LineupHandler{
		db:    db,
		cache: cache,
		hub:   hub,
	}
}

// GetLineup returns a team's current starting lineup with weekly points
func (h *LineupHandler) GetLineup(c *gin.Context) {
	teamID, week, ok := h.teamAndWeek(c)
	if !ok {
		return
	}

	var entries []models.RosterPlayer
	if err := h.db.Preload("Player").
		Where("team_id = ? AND slot = ?", teamID, models.SlotStarter).
		Find(&entries).Error; err != nil {
		utils.SendInternalError(c, "Failed to fetch lineup")
		return
	}

	slots := make(map[models.LineupSlot]gin.H, len(entries))
	total := 0.0
	for i := range entries {
		rp := &entries[i]
		pts := rp.Player.PointsForWeek(week)
		total += pts
		slots[rp.LineupSlot] = gin.H{
			"player_id": rp.PlayerID,
			"name":      rp.Player.Name,
			"position":  rp.Player.Position,
			"points":    pts,
			"on_bye":    rp.Player.OnBye(week),
		}
	}

	utils.SendSuccess(c, gin.H{
		"team_id":      teamID,
		"week":         week,
		"slots":        slots,
		"total_points": total,
	})
}

// OptimizeLineup computes the best legal lineup for a week without saving it
func (h *LineupHandler) OptimizeLineup(c *gin.Context) {
	teamID, week, ok := h.teamAndWeek(c)
	if !ok {
		return
	}

	cacheKey := services.LineupCacheKey(teamID, week)
	var result roster.LineupResult

	ctx := context.Background()
	if err := h.cache.Get(ctx, cacheKey, &result); err == nil {
		utils.SendSuccess(c, result)
		return
	}

	var entries []models.RosterPlayer
	if err := h.db.Preload("Player").
		Where("team_id = ?", teamID).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		utils.SendInternalError(c, "Failed to fetch roster")
		return
	}
	if len(entries) == 0 {
		utils.SendNotFound(c, "Team has no roster")
		return
	}

	result = roster.OptimizeLineup(entries, week)
	h.cache.Set(ctx, cacheKey, result, 2*time.Minute)

	utils.SendSuccess(c, result)
}

type setLineupRequest struct {
	Week  int                        `json:"week" binding:"required,min=1,max=18"`
	Slots map[models.LineupSlot]uint `json:"slots" binding:"required"`
}

// SetLineup assigns starters for the week after re-validating the roster
func (h *LineupHandler) SetLineup(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid team ID", err.Error())
		return
	}

	var req setLineupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	var team models.Team
	if err := h.db.First(&team, teamID).Error; err != nil {
		utils.SendNotFound(c, "Team not found")
		return
	}

	var entries []models.RosterPlayer
	if err := h.db.Preload("Player").
		Where("team_id = ?", teamID).
		Find(&entries).Error; err != nil {
		utils.SendInternalError(c, "Failed to fetch roster")
		return
	}
	if len(entries) == 0 {
		utils.SendNotFound(c, "Team has no roster")
		return
	}

	byPlayer := make(map[uint]*models.RosterPlayer, len(entries))
	for i := range entries {
		byPlayer[entries[i].PlayerID] = &entries[i]
	}

	// Apply the requested assignments in memory, then validate before saving
	for i := range entries {
		if entries[i].Slot == models.SlotStarter {
			entries[i].Slot = models.SlotBench
			entries[i].LineupSlot = ""
		}
	}
	for slot, playerID := range req.Slots {
		rp, found := byPlayer[playerID]
		if !found {
			utils.SendValidationError(c, "Player not on roster",
				"player "+strconv.FormatUint(uint64(playerID), 10)+" is not on this team")
			return
		}
		if rp.Slot == models.SlotIR {
			utils.SendValidationError(c, "Player on IR",
				rp.Player.Name+" must be activated before starting")
			return
		}
		rp.Slot = models.SlotStarter
		rp.LineupSlot = slot
	}

	if violations := roster.ValidateRoster(entries); len(violations) > 0 {
		messages := make([]string, len(violations))
		for i, v := range violations {
			messages[i] = v.Message
		}
		utils.SendValidationError(c, "Lineup is not legal", strings.Join(messages, "; "))
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		for i := range entries {
			if err := tx.Model(&models.RosterPlayer{}).
				Where("id = ?", entries[i].ID).
				Updates(map[string]interface{}{
					"slot":        entries[i].Slot,
					"lineup_slot": entries[i].LineupSlot,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.SendInternalError(c, "Failed to save lineup")
		return
	}

	ctx := context.Background()
	h.cache.Delete(ctx,
		services.RosterCacheKey(uint(teamID)),
		services.LineupCacheKey(uint(teamID), req.Week))

	h.hub.Broadcast(services.EventLineupSet, team.LeagueID, gin.H{
		"team_id": teamID,
		"week":    req.Week,
	})

	utils.SendSuccess(c, gin.H{
		"team_id": teamID,
		"week":    req.Week,
		"saved":   true,
	})
}

func (h *LineupHandler) teamAndWeek(c *gin.Context) (uint, int, bool) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid team ID", err.Error())
		return 0, 0, false
	}

	week, err := strconv.Atoi(c.DefaultQuery("week", "1"))
	if err != nil || week < 1 || week > 18 {
		utils.SendValidationError(c, "Invalid week", "week must be between 1 and 18")
		return 0, 0, false
	}

	return uint(teamID), week, true
}
