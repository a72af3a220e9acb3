package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmcalister/gridiron/internal/models"
	"github.com/dmcalister/gridiron/internal/services"
	"github.com/dmcalister/gridiron/pkg/database"
	"github.com/dmcalister/gridiron/pkg/utils"
)

type WaiverHandler struct {
	db     *database.DB
	cache  *services.CacheService
	runner *services.WaiverRunner
}

func NewWaiverHandler(db *database.DB, cache *services.CacheService, runner *services.WaiverRunner) *WaiverHandler {
	return &WaiverHandler{
		db:     db,
		cache:  cache,
		runner: runner,
	}
}

type submitClaimRequest struct {
	TeamID       uint  `json:"team_id" binding:"required"`
	PlayerID     uint  `json:"player_id" binding:"required"`
	DropPlayerID *uint `json:"drop_player_id"`
	Bid          int   `json:"bid" binding:"min=0"`
}

// SubmitClaim records a pending waiver claim for the next processing cycle
func (h *WaiverHandler) SubmitClaim(c *gin.Context) {
	var req submitClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	var team models.Team
	if err := h.db.First(&team, req.TeamID).Error; err != nil {
		utils.SendNotFound(c, "Team not found")
		return
	}

	var league models.League
	if err := h.db.First(&league, team.LeagueID).Error; err != nil {
		utils.SendNotFound(c, "League not found")
		return
	}

	var player models.Player
	if err := h.db.First(&player, req.PlayerID).Error; err != nil {
		utils.SendNotFound(c, "Player not found")
		return
	}

	// The claimed player must be a free agent
	var rostered int64
	h.db.Model(&models.RosterPlayer{}).
		Where("player_id = ?", req.PlayerID).
		Count(&rostered)
	if rostered > 0 {
		utils.SendConflict(c, "Player is already on a roster")
		return
	}

	if req.DropPlayerID != nil {
		var owned int64
		h.db.Model(&models.RosterPlayer{}).
			Where("team_id = ? AND player_id = ?", req.TeamID, *req.DropPlayerID).
			Count(&owned)
		if owned == 0 {
			utils.SendValidationError(c, "Invalid drop player",
				"drop player is not on the claiming team's roster")
			return
		}
	}

	if league.WaiverMode == models.WaiverModeFAAB {
		if req.Bid < 0 || req.Bid > team.FAABBudget {
			utils.SendValidationError(c, "Invalid bid",
				"bid must be between 0 and the team's remaining budget")
			return
		}
	}

	claim := models.WaiverClaim{
		Reference:    uuid.NewString(),
		LeagueID:     team.LeagueID,
		TeamID:       req.TeamID,
		PlayerID:     req.PlayerID,
		DropPlayerID: req.DropPlayerID,
		Priority:     team.WaiverPriority,
		Bid:          req.Bid,
		Status:       models.ClaimPending,
	}
	if err := h.db.Create(&claim).Error; err != nil {
		utils.SendInternalError(c, "Failed to save claim")
		return
	}

	utils.SendSuccess(c, claim)
}

// GetClaims lists waiver claims, newest cycle first
func (h *WaiverHandler) GetClaims(c *gin.Context) {
	query := h.db.Model(&models.WaiverClaim{}).
		Preload("Team").
		Preload("Player")

	if teamID := c.Query("team_id"); teamID != "" {
		query = query.Where("team_id = ?", teamID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var claims []models.WaiverClaim
	if err := query.Order("created_at DESC").Limit(200).Find(&claims).Error; err != nil {
		utils.SendInternalError(c, "Failed to fetch claims")
		return
	}

	utils.SendSuccess(c, claims)
}

// ProcessClaims runs the waiver cycle for a league immediately (commissioner only)
func (h *WaiverHandler) ProcessClaims(c *gin.Context) {
	leagueID, err := strconv.ParseUint(c.DefaultQuery("league_id", "1"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid league ID", err.Error())
		return
	}

	outcomes, err := h.runner.ProcessLeague(uint(leagueID))
	if err != nil {
		utils.SendInternalError(c, "Waiver processing failed")
		return
	}

	utils.SendSuccess(c, gin.H{
		"league_id": leagueID,
		"processed": len(outcomes),
		"outcomes":  outcomes,
	})
}
