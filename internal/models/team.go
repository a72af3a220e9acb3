package models

import (
	"fmt"
	"time"

	"github.com/lib/pq"
)

// WaiverMode selects how waiver claims are resolved
type WaiverMode string

const (
	WaiverModePriority WaiverMode = "priority"
	WaiverModeFAAB     WaiverMode = "faab"
)

type Team struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	LeagueID       uint      `gorm:"not null;index" json:"league_id"`
	Name           string    `gorm:"not null" json:"name"`
	OwnerName      string    `json:"owner_name"`
	OwnerPhone     string    `json:"owner_phone,omitempty"`
	Division       string    `gorm:"size:50" json:"division,omitempty"`
	Wins           int       `gorm:"default:0" json:"wins"`
	Losses         int       `gorm:"default:0" json:"losses"`
	Ties           int       `gorm:"default:0" json:"ties"`
	PointsFor      float64   `gorm:"default:0" json:"points_for"`
	PointsAgainst  float64   `gorm:"default:0" json:"points_against"`
	WaiverPriority int       `gorm:"not null" json:"waiver_priority"`
	FAABBudget     int       `gorm:"not null;column:faab_budget" json:"faab_budget"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Roster []RosterPlayer `gorm:"foreignKey:TeamID" json:"roster,omitempty"`
}

func (Team) TableName() string {
	return "teams"
}

// Record returns the team's win-loss-tie record as a display string.
func (t *Team) Record() string {
	if t.Ties > 0 {
		return fmt.Sprintf("%d-%d-%d", t.Wins, t.Losses, t.Ties)
	}
	return fmt.Sprintf("%d-%d", t.Wins, t.Losses)
}

type League struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"not null" json:"name"`
	Season        int            `gorm:"not null" json:"season"`
	CurrentWeek   int            `gorm:"default:1" json:"current_week"`
	WaiverMode    WaiverMode     `gorm:"size:10;default:priority" json:"waiver_mode"`
	FAABStart     int            `gorm:"default:100;column:faab_start" json:"faab_start"`
	TradeDeadline time.Time      `json:"trade_deadline"`
	Divisions     pq.StringArray `gorm:"type:text[]" json:"divisions"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	Teams []Team `gorm:"foreignKey:LeagueID" json:"teams,omitempty"`
}

func (League) TableName() string {
	return "leagues"
}

// TradingOpen reports whether trades may still be proposed at the given time.
func (l *League) TradingOpen(now time.Time) bool {
	return !now.After(l.TradeDeadline)
}
