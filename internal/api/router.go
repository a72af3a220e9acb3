package api

import (
	"github.com/gin-gonic/gin"

	"github.com/dmcalister/gridiron/internal/api/handlers"
	"github.com/dmcalister/gridiron/internal/api/middleware"
	"github.com/dmcalister/gridiron/internal/services"
	"github.com/dmcalister/gridiron/pkg/config"
	"github.com/dmcalister/gridiron/pkg/database"
)

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, db *database.DB, cache *services.CacheService, hub *services.LiveHub, notifier *services.Notifier, waiverRunner *services.WaiverRunner, cfg *config.Config) {
	healthHandler := handlers.NewHealthHandler(db)
	playerHandler := handlers.NewPlayerHandler(db, cache)
	teamHandler := handlers.NewTeamHandler(db, cache)
	lineupHandler := handlers.NewLineupHandler(db, cache, hub)
	waiverHandler := handlers.NewWaiverHandler(db, cache, waiverRunner)
	tradeHandler := handlers.NewTradeHandler(db, cache, hub, notifier)
	leagueHandler := handlers.NewLeagueHandler(db, cache)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// Health endpoints
	group.GET("/health", healthHandler.GetHealth)
	group.GET("/ready", healthHandler.GetReady)

	// Player pool
	group.GET("/players", playerHandler.GetPlayers)
	group.GET("/players/:id", playerHandler.GetPlayer)
	group.GET("/scores/:week", playerHandler.GetWeekScores)

	// Teams and rosters
	group.GET("/teams", teamHandler.GetTeams)
	group.GET("/teams/:id", teamHandler.GetTeam)
	group.GET("/teams/:id/roster", teamHandler.GetRoster)
	group.POST("/teams/:id/roster/validate", teamHandler.ValidateRoster)

	// Lineups
	group.GET("/teams/:id/lineup", lineupHandler.GetLineup)
	group.POST("/teams/:id/lineup/optimize", lineupHandler.OptimizeLineup)
	group.PUT("/teams/:id/lineup", lineupHandler.SetLineup)

	// Waivers
	group.POST("/waivers/claims", waiverHandler.SubmitClaim)
	group.GET("/waivers/claims", waiverHandler.GetClaims)

	// Trades
	group.POST("/trades", tradeHandler.ProposeTrade)
	group.GET("/trades/:id", tradeHandler.GetTrade)
	group.POST("/trades/:id/validate", tradeHandler.ValidateTrade)

	// League
	group.GET("/league", leagueHandler.GetLeague)
	group.GET("/league/standings", leagueHandler.GetStandings)

	// Live updates
	group.GET("/ws", middleware.OptionalAuth(cfg.JWTSecret), wsHandler.Connect)

	// Authenticated routes
	authed := group.Group("")
	authed.Use(middleware.AuthRequired(cfg.JWTSecret))
	{
		authed.POST("/trades/:id/accept", tradeHandler.AcceptTrade)
	}

	// Commissioner routes
	admin := group.Group("")
	admin.Use(middleware.AdminRequired(cfg.JWTSecret))
	{
		admin.POST("/waivers/process", waiverHandler.ProcessClaims)
	}
}
