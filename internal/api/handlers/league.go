package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmcalister/gridiron/internal/models"
	"github.com/dmcalister/gridiron/internal/services"
	"github.com/dmcalister/gridiron/pkg/database"
	"github.com/dmcalister/gridiron/pkg/utils"
)

type LeagueHandler struct {
	db    *database.DB
	cache *services.CacheService
}

func NewLeagueHandler(db *database.DB, cache *services.CacheService) *LeagueHandler {
	return &LeagueHandler{
		db:    db,
		cache: cache,
	}
}

// GetLeague returns league settings and the current week
func (h *LeagueHandler) GetLeague(c *gin.Context) {
	var league models.League
	if err := h.db.First(&league).Error; err != nil {
		utils.SendNotFound(c, "League not found")
		return
	}

	utils.SendSuccess(c, gin.H{
		"league":       league,
		"trading_open": league.TradingOpen(time.Now().UTC()),
	})
}

type standingsRow struct {
	TeamID         uint    `json:"team_id"`
	Name           string  `json:"name"`
	OwnerName      string  `json:"owner_name"`
	Record         string  `json:"record"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	Ties           int     `json:"ties"`
	PointsFor      float64 `json:"points_for"`
	PointsAgainst  float64 `json:"points_against"`
	WaiverPriority int     `json:"waiver_priority"`
	FAABBudget     int     `json:"faab_budget"`
}

// GetStandings returns teams ranked by record then points scored
func (h *LeagueHandler) GetStandings(c *gin.Context) {
	var league models.League
	if err := h.db.First(&league).Error; err != nil {
		utils.SendNotFound(c, "League not found")
		return
	}

	cacheKey := services.StandingsCacheKey(league.ID)
	var rows []standingsRow

	ctx := context.Background()
	if err := h.cache.Get(ctx, cacheKey, &rows); err == nil {
		utils.SendSuccess(c, rows)
		return
	}

	var teams []models.Team
	if err := h.db.Where("league_id = ?", league.ID).Find(&teams).Error; err != nil {
		utils.SendInternalError(c, "Failed to fetch teams")
		return
	}

	rows = make([]standingsRow, 0, len(teams))
	for _, t := range teams {
		rows = append(rows, standingsRow{
			TeamID:         t.ID,
			Name:           t.Name,
			OwnerName:      t.OwnerName,
			Record:         t.Record(),
			Wins:           t.Wins,
			Losses:         t.Losses,
			Ties:           t.Ties,
			PointsFor:      t.PointsFor,
			PointsAgainst:  t.PointsAgainst,
			WaiverPriority: t.WaiverPriority,
			FAABBudget:     t.FAABBudget,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Wins != rows[j].Wins {
			return rows[i].Wins > rows[j].Wins
		}
		return rows[i].PointsFor > rows[j].PointsFor
	})

	h.cache.Set(ctx, cacheKey, rows, 5*time.Minute)
	utils.SendSuccess(c, rows)
}
