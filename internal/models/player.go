package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Position is an NFL player position
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDST Position = "DST"
)

// InjuryStatus tracks a player's health designation
type InjuryStatus string

const (
	InjuryHealthy      InjuryStatus = "healthy"
	InjuryQuestionable InjuryStatus = "questionable"
	InjuryDoubtful     InjuryStatus = "doubtful"
	InjuryOut          InjuryStatus = "out"
	InjuryIR           InjuryStatus = "ir"
)

// IREligible reports whether the status allows the player to occupy an IR slot.
func (s InjuryStatus) IREligible() bool {
	return s == InjuryIR || s == InjuryOut
}

type Player struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	ExternalID   string       `gorm:"index" json:"external_id"`
	Name         string       `gorm:"not null" json:"name"`
	Position     Position     `gorm:"size:5;not null;index" json:"position"`
	NFLTeam      string       `gorm:"size:5;index" json:"nfl_team"`
	ByeWeek      int          `json:"bye_week"`
	InjuryStatus InjuryStatus `gorm:"size:15;default:healthy" json:"injury_status"`
	ImageURL     string       `json:"image_url,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Per-week projections and results stored as JSONB
	WeekStats WeekStats `gorm:"type:jsonb" json:"week_stats"`
}

func (Player) TableName() string {
	return "players"
}

// WeekLine holds one week's projection and (once the week concludes) actual points.
type WeekLine struct {
	Projected float64 `json:"projected"`
	Actual    float64 `json:"actual"`
	Final     bool    `json:"final"`
}

// WeekStats maps week number to that week's line
type WeekStats map[int]WeekLine

// Scan implements the sql.Scanner interface for JSONB
func (ws *WeekStats) Scan(value interface{}) error {
	if value == nil {
		*ws = make(WeekStats)
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into WeekStats", value)
	}

	var raw map[string]WeekLine
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	result := make(WeekStats, len(raw))
	for k, v := range raw {
		week, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("invalid week key %q: %w", k, err)
		}
		result[week] = v
	}

	*ws = result
	return nil
}

// Value implements the driver.Valuer interface for JSONB
func (ws WeekStats) Value() (driver.Value, error) {
	if ws == nil {
		return nil, nil
	}
	raw := make(map[string]WeekLine, len(ws))
	for week, line := range ws {
		raw[strconv.Itoa(week)] = line
	}
	return json.Marshal(raw)
}

// PointsForWeek returns the applicable score for the week: actual points once the
// week is final, projected points otherwise. Bye weeks score zero.
func (p *Player) PointsForWeek(week int) float64 {
	if p.ByeWeek == week {
		return 0
	}
	line, ok := p.WeekStats[week]
	if !ok {
		return 0
	}
	if line.Final {
		return line.Actual
	}
	return line.Projected
}

// OnBye reports whether the player's NFL team does not play the given week.
func (p *Player) OnBye(week int) bool {
	return p.ByeWeek == week
}

// Unavailable reports whether the player cannot start (out or on IR).
func (p *Player) Unavailable() bool {
	return p.InjuryStatus == InjuryOut || p.InjuryStatus == InjuryIR
}
