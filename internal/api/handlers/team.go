package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmcalister/gridiron/internal/models"
	"github.com/dmcalister/gridiron/internal/roster"
	"github.com/dmcalister/gridiron/internal/services"
	"github.com/dmcalister/gridiron/pkg/database"
	"github.com/dmcalister/gridiron/pkg/utils"
)

type TeamHandler struct {
	db    *database.DB
	cache *services.CacheService
}

func NewTeamHandler(db *database.DB, cache *services.CacheService) *TeamHandler {
	return &TeamHandler{
		db:    db,
		cache: cache,
	}
}

// GetTeams returns all teams in the league
func (h *TeamHandler) GetTeams(c *gin.Context) {
	var teams []models.Team
	if err := h.db.Order("waiver_priority ASC").Find(&teams).Error; err != nil {
		utils.SendInternalError(c, "Failed to fetch teams")
		return
	}
	utils.SendSuccess(c, teams)
}

// GetTeam returns a single team by ID
func (h *TeamHandler) GetTeam(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid team ID", err.Error())
		return
	}

	var team models.Team
	if err := h.db.First(&team, teamID).Error; err != nil {
		utils.SendNotFound(c, "Team not found")
		return
	}

	utils.SendSuccess(c, team)
}

// GetRoster returns a team's roster with player details
func (h *TeamHandler) GetRoster(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid team ID", err.Error())
		return
	}

	cacheKey := services.RosterCacheKey(uint(teamID))
	var entries []models.RosterPlayer

	ctx := context.Background()
	if err := h.cache.Get(ctx, cacheKey, &entries); err == nil {
		utils.SendSuccess(c, entries)
		return
	}

	var team models.Team
	if err := h.db.First(&team, teamID).Error; err != nil {
		utils.SendNotFound(c, "Team not found")
		return
	}

	if err := h.db.Preload("Player").
		Where("team_id = ?", teamID).
		Order("slot ASC, lineup_slot ASC").
		Find(&entries).Error; err != nil {
		utils.SendInternalError(c, "Failed to fetch roster")
		return
	}

	h.cache.Set(ctx, cacheKey, entries, 2*time.Minute)
	utils.SendSuccess(c, entries)
}

// ValidateRoster runs the legality checks against a team's current roster
func (h *TeamHandler) ValidateRoster(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid team ID", err.Error())
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

	violations := roster.ValidateRoster(entries)
	utils.SendSuccess(c, gin.H{
		"team_id":    team.ID,
		"legal":      len(violations) == 0,
		"violations": violations,
	})
}
