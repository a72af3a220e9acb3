package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// TradeStatus tracks an offer's lifecycle
type TradeStatus string

const (
	TradePending  TradeStatus = "pending"
	TradeAccepted TradeStatus = "accepted"
	TradeRejected TradeStatus = "rejected"
	TradeInvalid  TradeStatus = "invalid"
)

// IDList is a JSONB-backed list of roster-player IDs
type IDList []uint

// Scan implements the sql.Scanner interface for JSONB
func (l *IDList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into IDList", value)
	}
}

// Value implements the driver.Valuer interface for JSONB
func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// TradeOffer is a proposed exchange of roster players between two teams.
type TradeOffer struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Reference  string      `gorm:"size:36;uniqueIndex" json:"reference"`
	LeagueID   uint        `gorm:"not null;index" json:"league_id"`
	FromTeamID uint        `gorm:"not null;index" json:"from_team_id"`
	ToTeamID   uint        `gorm:"not null;index" json:"to_team_id"`
	// Offered lists roster players leaving the proposing team; Requested lists
	// roster players leaving the receiving team.
	Offered   IDList      `gorm:"type:jsonb" json:"offered"`
	Requested IDList      `gorm:"type:jsonb" json:"requested"`
	Status    TradeStatus `gorm:"size:10;default:pending" json:"status"`
	// Decision captures the validation verdict recorded when the offer was last
	// evaluated, kept for league-office review.
	Decision  datatypes.JSON `json:"decision,omitempty"`
	DecidedAt *time.Time     `json:"decided_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	FromTeam Team `gorm:"foreignKey:FromTeamID" json:"from_team,omitempty"`
	ToTeam   Team `gorm:"foreignKey:ToTeamID" json:"to_team,omitempty"`
}

func (TradeOffer) TableName() string {
	return "trade_offers"
}
