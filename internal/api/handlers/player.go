package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmcalister/gridiron/internal/models"
	"github.com/dmcalister/gridiron/internal/services"
	"github.com/dmcalister/gridiron/pkg/database"
	"github.com/dmcalister/gridiron/pkg/utils"
)

type PlayerHandler struct {
	db    *database.DB
	cache *services.CacheService
}

func NewPlayerHandler(db *database.DB, cache *services.CacheService) *PlayerHandler {
	return &PlayerHandler{
		db:    db,
		cache: cache,
	}
}

// GetPlayers returns the player pool with optional filters
func (h *PlayerHandler) GetPlayers(c *gin.Context) {
	position := c.Query("position")
	team := c.Query("team")
	search := c.Query("search")
	status := c.Query("status")
	available := c.Query("available")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	query := h.db.Model(&models.Player{})

	if position != "" {
		query = query.Where("position = ?", position)
	}
	if team != "" {
		query = query.Where("nfl_team = ?", team)
	}
	if status != "" {
		query = query.Where("injury_status = ?", status)
	}
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if available == "true" {
		query = query.Where("id NOT IN (?)",
			h.db.Model(&models.RosterPlayer{}).Select("player_id"))
	}

	var total int64
	query.Count(&total)

	var players []models.Player
	if err := query.Order("name ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&players).Error; err != nil {
		utils.SendInternalError(c, "Failed to fetch players")
		return
	}

	utils.SendSuccessWithMeta(c, players, &utils.Meta{
		Page:    page,
		PerPage: perPage,
		Total:   total,
	})
}

// GetPlayer returns a single player by ID
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	playerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid player ID", err.Error())
		return
	}

	var player models.Player
	if err := h.db.First(&player, playerID).Error; err != nil {
		utils.SendNotFound(c, "Player not found")
		return
	}

	utils.SendSuccess(c, player)
}

// GetWeekScores returns every player's line for a given week
func (h *PlayerHandler) GetWeekScores(c *gin.Context) {
	week, err := strconv.Atoi(c.Param("week"))
	if err != nil || week < 1 || week > 18 {
		utils.SendValidationError(c, "Invalid week", "week must be between 1 and 18")
		return
	}
	season, _ := strconv.Atoi(c.DefaultQuery("season", strconv.Itoa(time.Now().Year())))

	cacheKey := services.WeekStatsCacheKey(season, week)
	var players []models.Player

	ctx := context.Background()
	if err := h.cache.Get(ctx, cacheKey, &players); err == nil {
		utils.SendSuccess(c, weekScores(players, week))
		return
	}

	if err := h.db.Order("name ASC").Find(&players).Error; err != nil {
		utils.SendInternalError(c, "Failed to fetch players")
		return
	}
	h.cache.Set(ctx, cacheKey, players, 5*time.Minute)

	utils.SendSuccess(c, weekScores(players, week))
}

type playerWeekScore struct {
	PlayerID  uint    `json:"player_id"`
	Name      string  `json:"name"`
	Position  string  `json:"position"`
	NFLTeam   string  `json:"nfl_team"`
	OnBye     bool    `json:"on_bye"`
	Projected float64 `json:"projected"`
	Actual    float64 `json:"actual"`
	Final     bool    `json:"final"`
	Points    float64 `json:"points"`
}

func weekScores(players []models.Player, week int) []playerWeekScore {
	scores := make([]playerWeekScore, 0, len(players))
	for i := range players {
		p := &players[i]
		line := p.WeekStats[week]
		scores = append(scores, playerWeekScore{
			PlayerID:  p.ID,
			Name:      p.Name,
			Position:  string(p.Position),
			NFLTeam:   p.NFLTeam,
			OnBye:     p.OnBye(week),
			Projected: line.Projected,
			Actual:    line.Actual,
			Final:     line.Final,
			Points:    p.PointsForWeek(week),
		})
	}
	return scores
}
