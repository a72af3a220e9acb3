package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dmcalister/gridiron/internal/models"
	"github.com/dmcalister/gridiron/internal/services"
	"github.com/dmcalister/gridiron/pkg/database"
)

type HandlerTestSuite struct {
	suite.Suite
	db     *database.DB
	router *gin.Engine
	hub    *services.LiveHub
	runner *services.WaiverRunner
}

func (s *HandlerTestSuite) SetupSuite() {
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	s.Require().NoError(err)

	s.db = &database.DB{DB: gormDB}

	err = s.db.AutoMigrate(
		&models.League{},
		&models.Team{},
		&models.Player{},
		&models.RosterPlayer{},
		&models.WaiverClaim{},
		&models.TradeOffer{},
	)
	s.Require().NoError(err)

	cache := services.NewCacheService(nil)
	s.hub = services.NewLiveHub()
	go s.hub.Run()
	notifier := services.NewNotifier(services.NewMockSMSService())
	s.runner = services.NewWaiverRunner(s.db, cache, s.hub, notifier, logrus.New(), "0 3 * * 3")

	teamHandler := NewTeamHandler(s.db, cache)
	lineupHandler := NewLineupHandler(s.db, cache, s.hub)
	waiverHandler := NewWaiverHandler(s.db, cache, s.runner)
	tradeHandler := NewTradeHandler(s.db, cache, s.hub, notifier)
	leagueHandler := NewLeagueHandler(s.db, cache)

	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.GET("/teams/:id/roster", teamHandler.GetRoster)
	s.router.POST("/teams/:id/roster/validate", teamHandler.ValidateRoster)
	s.router.GET("/teams/:id/lineup", lineupHandler.GetLineup)
	s.router.POST("/teams/:id/lineup/optimize", lineupHandler.OptimizeLineup)
	s.router.PUT("/teams/:id/lineup", lineupHandler.SetLineup)
	s.router.POST("/waivers/claims", waiverHandler.SubmitClaim)
	s.router.GET("/waivers/claims", waiverHandler.GetClaims)
	s.router.POST("/waivers/process", waiverHandler.ProcessClaims)
	s.router.POST("/trades", tradeHandler.ProposeTrade)
	s.router.POST("/trades/:id/validate", tradeHandler.ValidateTrade)
	s.router.POST("/trades/:id/accept", tradeHandler.AcceptTrade)
	s.router.GET("/league/standings", leagueHandler.GetStandings)
}

func (s *HandlerTestSuite) SetupTest() {
	s.db.Exec("DELETE FROM trade_offers")
	s.db.Exec("DELETE FROM waiver_claims")
	s.db.Exec("DELETE FROM roster_players")
	s.db.Exec("DELETE FROM players")
	s.db.Exec("DELETE FROM teams")
	s.db.Exec("DELETE FROM leagues")
}

// seedLeague creates a league with four empty teams in waiver order.
func (s *HandlerTestSuite) seedLeague(mode models.WaiverMode) (models.League, []models.Team) {
	league := models.League{
		Name:          "Test League",
		Season:        2025,
		CurrentWeek:   3,
		WaiverMode:    mode,
		FAABStart:     100,
		TradeDeadline: time.Now().UTC().Add(30 * 24 * time.Hour),
	}
	s.Require().NoError(s.db.Create(&league).Error)

	teams := make([]models.Team, 4)
	for i := range teams {
		teams[i] = models.Team{
			LeagueID:       league.ID,
			Name:           fmt.Sprintf("Team %d", i+1),
			OwnerName:      fmt.Sprintf("Owner %d", i+1),
			WaiverPriority: i + 1,
			FAABBudget:     100,
			Wins:           4 - i,
			PointsFor:      float64(400 + 10*i),
		}
		s.Require().NoError(s.db.Create(&teams[i]).Error)
	}

	return league, teams
}

type seededPlayer struct {
	pos    models.Position
	slot   models.RosterSlot
	lineup models.LineupSlot
}

// seedRoster fills a team with a legal 16-man roster and returns the entries
// in creation order.
func (s *HandlerTestSuite) seedRoster(teamID uint) []models.RosterPlayer {
	layout := []seededPlayer{
		{models.PositionQB, models.SlotStarter, models.LineupQB},
		{models.PositionRB, models.SlotStarter, models.LineupRB1},
		{models.PositionRB, models.SlotStarter, models.LineupRB2},
		{models.PositionWR, models.SlotStarter, models.LineupWR1},
		{models.PositionWR, models.SlotStarter, models.LineupWR2},
		{models.PositionTE, models.SlotStarter, models.LineupTE},
		{models.PositionRB, models.SlotStarter, models.LineupFLEX},
		{models.PositionK, models.SlotStarter, models.LineupK},
		{models.PositionDST, models.SlotStarter, models.LineupDST},
		{models.PositionQB, models.SlotBench, ""},
		{models.PositionRB, models.SlotBench, ""},
		{models.PositionRB, models.SlotBench, ""},
		{models.PositionWR, models.SlotBench, ""},
		{models.PositionWR, models.SlotBench, ""},
		{models.PositionTE, models.SlotBench, ""},
		{models.PositionWR, models.SlotBench, ""},
	}

	entries := make([]models.RosterPlayer, 0, len(layout))
	for i, sp := range layout {
		player := models.Player{
			ExternalID: fmt.Sprintf("t%d-p%d", teamID, i),
			Name:       fmt.Sprintf("Player %d-%d", teamID, i),
			Position:   sp.pos,
			NFLTeam:    "BUF",
			ByeWeek:    12,
			WeekStats: models.WeekStats{
				3: {Projected: float64(20 - i), Final: false},
			},
		}
		s.Require().NoError(s.db.Create(&player).Error)

		entry := models.RosterPlayer{
			TeamID:      teamID,
			PlayerID:    player.ID,
			Slot:        sp.slot,
			LineupSlot:  sp.lineup,
			AcquiredVia: models.AcquiredDraft,
			AcquiredAt:  time.Now().UTC(),
		}
		s.Require().NoError(s.db.Create(&entry).Error)
		entry.Player = player
		entries = append(entries, entry)
	}

	return entries
}

func (s *HandlerTestSuite) freeAgent(name string, pos models.Position) models.Player {
	player := models.Player{
		ExternalID: "fa-" + name,
		Name:       name,
		Position:   pos,
		NFLTeam:    "DET",
		ByeWeek:    9,
	}
	s.Require().NoError(s.db.Create(&player).Error)
	return player
}

func (s *HandlerTestSuite) request(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func (s *HandlerTestSuite) TestValidateRoster_Legal() {
	_, teams := s.seedLeague(models.WaiverModePriority)
	s.seedRoster(teams[0].ID)

	w := s.request(http.MethodPost, fmt.Sprintf("/teams/%d/roster/validate", teams[0].ID), nil)
	s.Equal(http.StatusOK, w.Code)

	data := s.decode(w)
	s.Equal(true, data["legal"])
}

func (s *HandlerTestSuite) TestValidateRoster_TooSmall() {
	_, teams := s.seedLeague(models.WaiverModePriority)
	entries := s.seedRoster(teams[0].ID)

	// Drop two bench players to fall below the minimum
	s.db.Delete(&models.RosterPlayer{}, entries[14].ID)
	s.db.Delete(&models.RosterPlayer{}, entries[15].ID)

	w := s.request(http.MethodPost, fmt.Sprintf("/teams/%d/roster/validate", teams[0].ID), nil)
	s.Equal(http.StatusOK, w.Code)

	data := s.decode(w)
	s.Equal(false, data["legal"])
	s.NotEmpty(data["violations"])
}

func (s *HandlerTestSuite) TestOptimizeLineup_FillsAllSlots() {
	_, teams := s.seedLeague(models.WaiverModePriority)
	s.seedRoster(teams[0].ID)

	w := s.request(http.MethodPost, fmt.Sprintf("/teams/%d/lineup/optimize?week=3", teams[0].ID), nil)
	s.Equal(http.StatusOK, w.Code)

	data := s.decode(w)
	slots, ok := data["slots"].(map[string]interface{})
	s.Require().True(ok)
	s.Len(slots, 9)
	for slot, assignment := range slots {
		s.NotNil(assignment, "slot %s should be filled", slot)
	}
}

func (s *HandlerTestSuite) TestSetLineup_RejectsIneligibleSlot() {
	_, teams := s.seedLeague(models.WaiverModePriority)
	entries := s.seedRoster(teams[0].ID)

	// Kicker into the QB slot
	slots := map[string]uint{
		"QB":   entries[7].PlayerID,
		"RB1":  entries[1].PlayerID,
		"RB2":  entries[2].PlayerID,
		"WR1":  entries[3].PlayerID,
		"WR2":  entries[4].PlayerID,
		"TE":   entries[5].PlayerID,
		"FLEX": entries[6].PlayerID,
		"K":    entries[0].PlayerID,
		"DST":  entries[8].PlayerID,
	}

	w := s.request(http.MethodPut, fmt.Sprintf("/teams/%d/lineup", teams[0].ID), gin.H{
		"week":  3,
		"slots": slots,
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestSetLineup_SavesLegalLineup() {
	_, teams := s.seedLeague(models.WaiverModePriority)
	entries := s.seedRoster(teams[0].ID)

	// Swap the FLEX starter for a bench running back
	slots := map[string]uint{
		"QB":   entries[0].PlayerID,
		"RB1":  entries[1].PlayerID,
		"RB2":  entries[2].PlayerID,
		"WR1":  entries[3].PlayerID,
		"WR2":  entries[4].PlayerID,
		"TE":   entries[5].PlayerID,
		"FLEX": entries[10].PlayerID,
		"K":    entries[7].PlayerID,
		"DST":  entries[8].PlayerID,
	}

	w := s.request(http.MethodPut, fmt.Sprintf("/teams/%d/lineup", teams[0].ID), gin.H{
		"week":  3,
		"slots": slots,
	})
	s.Equal(http.StatusOK, w.Code)

	var updated models.RosterPlayer
	s.Require().NoError(s.db.Where("team_id = ? AND player_id = ?",
		teams[0].ID, entries[10].PlayerID).First(&updated).Error)
	s.Equal(models.SlotStarter, updated.Slot)
	s.Equal(models.LineupFLEX, updated.LineupSlot)

	var benched models.RosterPlayer
	s.Require().NoError(s.db.Where("team_id = ? AND player_id = ?",
		teams[0].ID, entries[6].PlayerID).First(&benched).Error)
	s.Equal(models.SlotBench, benched.Slot)
}

func (s *HandlerTestSuite) TestSubmitClaim_RejectsRosteredPlayer() {
	_, teams := s.seedLeague(models.WaiverModePriority)
	entries := s.seedRoster(teams[0].ID)

	w := s.request(http.MethodPost, "/waivers/claims", gin.H{
		"team_id":   teams[1].ID,
		"player_id": entries[0].PlayerID,
	})
	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlerTestSuite) TestSubmitClaim_RejectsOverBudgetBid() {
	_, teams := s.seedLeague(models.WaiverModeFAAB)
	target := s.freeAgent("Jameson Williams", models.PositionWR)

	w := s.request(http.MethodPost, "/waivers/claims", gin.H{
		"team_id":   teams[0].ID,
		"player_id": target.ID,
		"bid":       150,
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestProcessClaims_PriorityOrder() {
	league, teams := s.seedLeague(models.WaiverModePriority)
	target := s.freeAgent("Jordan Addison", models.PositionWR)

	// Team 3 (rank 3) and team 2 (rank 2) both claim; rank 2 wins
	for _, team := range []models.Team{teams[2], teams[1]} {
		w := s.request(http.MethodPost, "/waivers/claims", gin.H{
			"team_id":   team.ID,
			"player_id": target.ID,
		})
		s.Require().Equal(http.StatusOK, w.Code)
	}

	w := s.request(http.MethodPost, fmt.Sprintf("/waivers/process?league_id=%d", league.ID), nil)
	s.Equal(http.StatusOK, w.Code)

	var added models.RosterPlayer
	s.Require().NoError(s.db.Where("player_id = ?", target.ID).First(&added).Error)
	s.Equal(teams[1].ID, added.TeamID)

	// Winner rotates to the back of the waiver order
	var winner models.Team
	s.Require().NoError(s.db.First(&winner, teams[1].ID).Error)
	s.Equal(len(teams), winner.WaiverPriority)
}

func (s *HandlerTestSuite) TestProcessClaims_FAABDeductsBudget() {
	league, teams := s.seedLeague(models.WaiverModeFAAB)
	target := s.freeAgent("Tank Bigsby", models.PositionRB)

	claims := []struct {
		team models.Team
		bid  int
	}{
		{teams[0], 35},
		{teams[1], 48},
		{teams[2], 20},
	}
	for _, cl := range claims {
		w := s.request(http.MethodPost, "/waivers/claims", gin.H{
			"team_id":   cl.team.ID,
			"player_id": target.ID,
			"bid":       cl.bid,
		})
		s.Require().Equal(http.StatusOK, w.Code)
	}

	w := s.request(http.MethodPost, fmt.Sprintf("/waivers/process?league_id=%d", league.ID), nil)
	s.Equal(http.StatusOK, w.Code)

	var added models.RosterPlayer
	s.Require().NoError(s.db.Where("player_id = ?", target.ID).First(&added).Error)
	s.Equal(teams[1].ID, added.TeamID)

	var winner models.Team
	s.Require().NoError(s.db.First(&winner, teams[1].ID).Error)
	s.Equal(52, winner.FAABBudget)
}

func (s *HandlerTestSuite) TestTradeLifecycle_EvenSwapAccepted() {
	_, teams := s.seedLeague(models.WaiverModePriority)
	fromEntries := s.seedRoster(teams[0].ID)
	toEntries := s.seedRoster(teams[1].ID)

	w := s.request(http.MethodPost, "/trades", gin.H{
		"from_team_id": teams[0].ID,
		"to_team_id":   teams[1].ID,
		"offered":      []uint{fromEntries[10].ID},
		"requested":    []uint{toEntries[12].ID},
	})
	s.Require().Equal(http.StatusOK, w.Code)
	data := s.decode(w)
	tradeID := uint(data["id"].(float64))

	w = s.request(http.MethodPost, fmt.Sprintf("/trades/%d/validate", tradeID), nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(true, s.decode(w)["valid"])

	w = s.request(http.MethodPost, fmt.Sprintf("/trades/%d/accept", tradeID), nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(true, s.decode(w)["accepted"])

	var moved models.RosterPlayer
	s.Require().NoError(s.db.First(&moved, fromEntries[10].ID).Error)
	s.Equal(teams[1].ID, moved.TeamID)
	s.Equal(models.AcquiredTrade, moved.AcquiredVia)

	var offer models.TradeOffer
	s.Require().NoError(s.db.First(&offer, tradeID).Error)
	s.Equal(models.TradeAccepted, offer.Status)
}

func (s *HandlerTestSuite) TestTrade_RejectedAfterDeadline() {
	league, teams := s.seedLeague(models.WaiverModePriority)
	fromEntries := s.seedRoster(teams[0].ID)
	toEntries := s.seedRoster(teams[1].ID)

	s.db.Model(&models.League{}).Where("id = ?", league.ID).
		Update("trade_deadline", time.Now().UTC().Add(-24*time.Hour))

	w := s.request(http.MethodPost, "/trades", gin.H{
		"from_team_id": teams[0].ID,
		"to_team_id":   teams[1].ID,
		"offered":      []uint{fromEntries[10].ID},
		"requested":    []uint{toEntries[12].ID},
	})
	s.Require().Equal(http.StatusOK, w.Code)
	tradeID := uint(s.decode(w)["id"].(float64))

	w = s.request(http.MethodPost, fmt.Sprintf("/trades/%d/validate", tradeID), nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(false, s.decode(w)["valid"])
}

func (s *HandlerTestSuite) TestStandings_RankedByWins() {
	s.seedLeague(models.WaiverModePriority)

	w := s.request(http.MethodGet, "/league/standings", nil)
	s.Equal(http.StatusOK, w.Code)

	var envelope struct {
		Data []struct {
			Name string `json:"name"`
			Wins int    `json:"wins"`
		} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &envelope))
	s.Require().Len(envelope.Data, 4)
	s.Equal("Team 1", envelope.Data[0].Name)
	for i := 1; i < len(envelope.Data); i++ {
		s.GreaterOrEqual(envelope.Data[i-1].Wins, envelope.Data[i].Wins)
	}
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
