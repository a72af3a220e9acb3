package ffl

import (
	"context"
	"time"
)

// PlayerUpdate represents one player's data from the external stats feed
type PlayerUpdate struct {
	ExternalID   string  `json:"external_id"`
	Name         string  `json:"name"`
	Team         string  `json:"team"`
	Position     string  `json:"position"`
	ByeWeek      int     `json:"bye_week"`
	InjuryStatus string  `json:"injury_status"`
	Projected    float64 `json:"projected"`
	Actual       float64 `json:"actual"`
	// Final marks the player's game for the week as concluded.
	Final       bool      `json:"final"`
	ImageURL    string    `json:"image_url,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}

// StatsProvider is implemented by external NFL data feeds
type StatsProvider interface {
	WeekUpdates(ctx context.Context, season, week int) ([]PlayerUpdate, error)
	InjuryReport(ctx context.Context) ([]PlayerUpdate, error)
}

// CacheProvider interface for cache operations
type CacheProvider interface {
	SetSimple(key string, value interface{}, expiration time.Duration) error
	GetSimple(key string, dest interface{}) error
}
