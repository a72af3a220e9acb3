package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/dmcalister/gridiron/internal/models"
	"github.com/dmcalister/gridiron/pkg/config"
	"github.com/dmcalister/gridiron/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedData(db, cfg); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	// Enable UUID extension for PostgreSQL
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Auto migrate all models
	if err := db.AutoMigrate(
		&models.League{},
		&models.Team{},
		&models.Player{},
		&models.RosterPlayer{},
		&models.WaiverClaim{},
		&models.TradeOffer{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	// Create indexes
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_players_position ON players(position)",
		"CREATE INDEX IF NOT EXISTS idx_players_nfl_team ON players(nfl_team)",
		"CREATE INDEX IF NOT EXISTS idx_roster_players_team_slot ON roster_players(team_id, slot)",
		"CREATE INDEX IF NOT EXISTS idx_waiver_claims_league_status ON waiver_claims(league_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_waiver_claims_player ON waiver_claims(player_id)",
		"CREATE INDEX IF NOT EXISTS idx_trade_offers_league_status ON trade_offers(league_id, status)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	// Drop tables in reverse order to handle foreign key constraints
	tables := []string{
		"trade_offers",
		"waiver_claims",
		"roster_players",
		"players",
		"teams",
		"leagues",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}

func seedData(db *database.DB, cfg *config.Config) error {
	// Create the league
	deadline := time.Date(cfg.Season, time.November, 15, 17, 0, 0, 0, time.UTC)
	league := &models.League{
		Name:          "Sunday Couch League",
		Season:        cfg.Season,
		CurrentWeek:   1,
		WaiverMode:    models.WaiverMode(cfg.WaiverMode),
		FAABStart:     cfg.FAABStartBudget,
		TradeDeadline: deadline,
		Divisions:     pq.StringArray{"East", "West"},
	}

	if err := db.Create(league).Error; err != nil {
		return fmt.Errorf("failed to create league: %w", err)
	}

	// Create teams with initial waiver order
	teamNames := []struct {
		name  string
		owner string
	}{
		{"Gridiron Gurus", "Alex Mercer"},
		{"Blitz Brigade", "Sam Okafor"},
		{"End Zone Elite", "Jordan Liu"},
		{"Pocket Presence", "Casey Donahue"},
		{"Red Zone Raiders", "Morgan Patel"},
		{"Fourth and Long", "Riley Jensen"},
		{"Hail Mary Heroes", "Devon Brooks"},
		{"Shotgun Formation", "Taylor Reyes"},
		{"Flea Flickers", "Quinn Abbott"},
		{"Prevent Defense", "Jamie Castile"},
	}

	teams := make([]models.Team, 0, len(teamNames))
	for i, tn := range teamNames {
		teams = append(teams, models.Team{
			LeagueID:       league.ID,
			Name:           tn.name,
			OwnerName:      tn.owner,
			WaiverPriority: i + 1,
			FAABBudget:     cfg.FAABStartBudget,
		})
	}

	if err := db.Create(&teams).Error; err != nil {
		return fmt.Errorf("failed to create teams: %w", err)
	}

	// Create a starter player pool
	samplePlayers := []models.Player{
		{ExternalID: "sf_0001", Name: "Josh Allen", Position: models.PositionQB, NFLTeam: "BUF", ByeWeek: 12},
		{ExternalID: "sf_0002", Name: "Jalen Hurts", Position: models.PositionQB, NFLTeam: "PHI", ByeWeek: 5},
		{ExternalID: "sf_0003", Name: "Lamar Jackson", Position: models.PositionQB, NFLTeam: "BAL", ByeWeek: 14},
		{ExternalID: "sf_0004", Name: "Jared Goff", Position: models.PositionQB, NFLTeam: "DET", ByeWeek: 9},
		{ExternalID: "sf_0005", Name: "Bijan Robinson", Position: models.PositionRB, NFLTeam: "ATL", ByeWeek: 12},
		{ExternalID: "sf_0006", Name: "Saquon Barkley", Position: models.PositionRB, NFLTeam: "PHI", ByeWeek: 5},
		{ExternalID: "sf_0007", Name: "Christian McCaffrey", Position: models.PositionRB, NFLTeam: "SF", ByeWeek: 9},
		{ExternalID: "sf_0008", Name: "Derrick Henry", Position: models.PositionRB, NFLTeam: "BAL", ByeWeek: 14},
		{ExternalID: "sf_0009", Name: "James Cook", Position: models.PositionRB, NFLTeam: "BUF", ByeWeek: 12},
		{ExternalID: "sf_0010", Name: "Jahmyr Gibbs", Position: models.PositionRB, NFLTeam: "DET", ByeWeek: 9},
		{ExternalID: "sf_0011", Name: "Justin Jefferson", Position: models.PositionWR, NFLTeam: "MIN", ByeWeek: 6},
		{ExternalID: "sf_0012", Name: "CeeDee Lamb", Position: models.PositionWR, NFLTeam: "DAL", ByeWeek: 7},
		{ExternalID: "sf_0013", Name: "Ja'Marr Chase", Position: models.PositionWR, NFLTeam: "CIN", ByeWeek: 12},
		{ExternalID: "sf_0014", Name: "Amon-Ra St. Brown", Position: models.PositionWR, NFLTeam: "DET", ByeWeek: 9},
		{ExternalID: "sf_0015", Name: "A.J. Brown", Position: models.PositionWR, NFLTeam: "PHI", ByeWeek: 5},
		{ExternalID: "sf_0016", Name: "Puka Nacua", Position: models.PositionWR, NFLTeam: "LAR", ByeWeek: 6},
		{ExternalID: "sf_0017", Name: "Travis Kelce", Position: models.PositionTE, NFLTeam: "KC", ByeWeek: 10},
		{ExternalID: "sf_0018", Name: "Sam LaPorta", Position: models.PositionTE, NFLTeam: "DET", ByeWeek: 9},
		{ExternalID: "sf_0019", Name: "Mark Andrews", Position: models.PositionTE, NFLTeam: "BAL", ByeWeek: 14},
		{ExternalID: "sf_0020", Name: "Justin Tucker", Position: models.PositionK, NFLTeam: "BAL", ByeWeek: 14},
		{ExternalID: "sf_0021", Name: "Harrison Butker", Position: models.PositionK, NFLTeam: "KC", ByeWeek: 10},
		{ExternalID: "sf_0022", Name: "Jake Bates", Position: models.PositionK, NFLTeam: "DET", ByeWeek: 9},
		{ExternalID: "sf_0023", Name: "49ers D/ST", Position: models.PositionDST, NFLTeam: "SF", ByeWeek: 9},
		{ExternalID: "sf_0024", Name: "Ravens D/ST", Position: models.PositionDST, NFLTeam: "BAL", ByeWeek: 14},
		{ExternalID: "sf_0025", Name: "Eagles D/ST", Position: models.PositionDST, NFLTeam: "PHI", ByeWeek: 5},
	}

	if err := db.Create(&samplePlayers).Error; err != nil {
		return fmt.Errorf("failed to create players: %w", err)
	}

	logrus.Infof("Seeded league %q with %d teams and %d players",
		league.Name, len(teams), len(samplePlayers))

	return nil
}
