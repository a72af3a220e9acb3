package models

import (
	"time"
)

// RosterSlot is the roster category a player occupies on a team
type RosterSlot string

const (
	SlotStarter RosterSlot = "STARTER"
	SlotBench   RosterSlot = "BENCH"
	SlotIR      RosterSlot = "IR"
)

// LineupSlot is one of the nine starting positions in the fixed lineup template
type LineupSlot string

const (
	LineupQB   LineupSlot = "QB"
	LineupRB1  LineupSlot = "RB1"
	LineupRB2  LineupSlot = "RB2"
	LineupWR1  LineupSlot = "WR1"
	LineupWR2  LineupSlot = "WR2"
	LineupTE   LineupSlot = "TE"
	LineupFLEX LineupSlot = "FLEX"
	LineupK    LineupSlot = "K"
	LineupDST  LineupSlot = "DST"
)

// AcquisitionType records how a player joined a roster
type AcquisitionType string

const (
	AcquiredDraft     AcquisitionType = "draft"
	AcquiredWaiver    AcquisitionType = "waiver"
	AcquiredTrade     AcquisitionType = "trade"
	AcquiredFreeAgent AcquisitionType = "free_agent"
)

// Roster size limits and the starter template are league-wide constants.
const (
	MinRosterSize = 15
	MaxRosterSize = 16
	MaxIRSlots    = 2
	StarterSlots  = 9
)

// LineupTemplate is the fixed starter template in fill order. FLEX is listed last
// so fixed slots claim their position pools first.
var LineupTemplate = []LineupSlot{
	LineupQB,
	LineupRB1,
	LineupRB2,
	LineupWR1,
	LineupWR2,
	LineupTE,
	LineupK,
	LineupDST,
	LineupFLEX,
}

// SlotEligibility maps each lineup slot to the positions that may fill it
var SlotEligibility = map[LineupSlot][]Position{
	LineupQB:   {PositionQB},
	LineupRB1:  {PositionRB},
	LineupRB2:  {PositionRB},
	LineupWR1:  {PositionWR},
	LineupWR2:  {PositionWR},
	LineupTE:   {PositionTE},
	LineupFLEX: {PositionRB, PositionWR, PositionTE},
	LineupK:    {PositionK},
	LineupDST:  {PositionDST},
}

// EligibleForSlot reports whether a position may occupy the given lineup slot.
func EligibleForSlot(slot LineupSlot, pos Position) bool {
	for _, p := range SlotEligibility[slot] {
		if p == pos {
			return true
		}
	}
	return false
}

// RosterPlayer associates a Player with a Team and a roster slot.
type RosterPlayer struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	TeamID      uint            `gorm:"not null;index:idx_team_player,unique" json:"team_id"`
	PlayerID    uint            `gorm:"not null;index:idx_team_player,unique" json:"player_id"`
	Slot        RosterSlot      `gorm:"size:10;not null;default:BENCH" json:"slot"`
	LineupSlot  LineupSlot      `gorm:"size:5" json:"lineup_slot,omitempty"`
	AcquiredVia AcquisitionType `gorm:"size:12;not null;default:draft" json:"acquired_via"`
	AcquiredAt  time.Time       `json:"acquired_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Player Player `gorm:"foreignKey:PlayerID" json:"player"`
}

func (RosterPlayer) TableName() string {
	return "roster_players"
}

// OnIR reports whether the entry occupies an IR slot.
func (rp *RosterPlayer) OnIR() bool {
	return rp.Slot == SlotIR
}

// ActiveCount returns the number of non-IR roster spots in the collection. IR
// entries do not count against the roster size limits.
func ActiveCount(roster []RosterPlayer) int {
	count := 0
	for _, rp := range roster {
		if !rp.OnIR() {
			count++
		}
	}
	return count
}
