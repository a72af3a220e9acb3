package models

import (
	"time"
)

// ClaimStatus tracks a waiver claim through its cycle
type ClaimStatus string

const (
	ClaimPending ClaimStatus = "pending"
	ClaimWon     ClaimStatus = "won"
	ClaimLost    ClaimStatus = "lost"
)

// WaiverClaim is one team's bid on a waiver-wire player for the next cycle.
type WaiverClaim struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Reference string      `gorm:"size:36;uniqueIndex" json:"reference"`
	LeagueID  uint        `gorm:"not null;index" json:"league_id"`
	TeamID    uint        `gorm:"not null;index" json:"team_id"`
	PlayerID  uint        `gorm:"not null;index" json:"player_id"`
	// DropPlayerID identifies the roster player released if the claim wins.
	DropPlayerID *uint       `json:"drop_player_id,omitempty"`
	Priority     int         `json:"priority"`
	Bid          int         `gorm:"default:0" json:"bid"`
	Status       ClaimStatus `gorm:"size:10;default:pending" json:"status"`
	LostReason   string      `json:"lost_reason,omitempty"`
	ProcessedAt  *time.Time  `json:"processed_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`

	Team   Team   `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Player Player `gorm:"foreignKey:PlayerID" json:"player,omitempty"`
}

func (WaiverClaim) TableName() string {
	return "waiver_claims"
}
