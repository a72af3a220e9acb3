package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/dmcalister/gridiron/internal/ffl"
)

// SportsfeedClient fetches NFL projections, results, and injury designations
// from the sportsfeed API. Calls go through a rate limiter and a circuit
// breaker so a degraded feed cannot stall the sync jobs.
type SportsfeedClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	cache      ffl.CacheProvider
	logger     *logrus.Logger
}

func NewSportsfeedClient(baseURL, apiKey string, requestsPerSecond int, timeout time.Duration, cache ffl.CacheProvider, logger *logrus.Logger) *SportsfeedClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "sportsfeed",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &SportsfeedClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		breaker:    breaker,
		cache:      cache,
		logger:     logger,
	}
}

// Sportsfeed API response structures
type feedPlayersResponse struct {
	Season  int `json:"season"`
	Week    int `json:"week"`
	Players []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Team     string `json:"team"`
		Position string `json:"position"`
		ByeWeek  int    `json:"bye_week"`
		Status   string `json:"status"`
		Photo    string `json:"photo,omitempty"`
		Stats    struct {
			Projected float64 `json:"projected_points"`
			Actual    float64 `json:"actual_points"`
			Final     bool    `json:"final"`
		} `json:"stats"`
	} `json:"players"`
}

// WeekUpdates returns every player's projection/result line for a week.
func (c *SportsfeedClient) WeekUpdates(ctx context.Context, season, week int) ([]ffl.PlayerUpdate, error) {
	cacheKey := fmt.Sprintf("sportsfeed:week:%d:%d", season, week)
	if c.cache != nil {
		var cached []ffl.PlayerUpdate
		if err := c.cache.GetSimple(cacheKey, &cached); err == nil && len(cached) > 0 {
			c.logger.Debugf("Sportsfeed cache hit for season %d week %d", season, week)
			return cached, nil
		}
	}

	url := fmt.Sprintf("%s/nfl/%d/weeks/%d/players", c.baseURL, season, week)
	var response feedPlayersResponse
	if err := c.get(ctx, url, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch week %d updates: %w", week, err)
	}

	updates := make([]ffl.PlayerUpdate, 0, len(response.Players))
	now := time.Now().UTC()
	for _, p := range response.Players {
		updates = append(updates, ffl.PlayerUpdate{
			ExternalID:   p.ID,
			Name:         p.Name,
			Team:         p.Team,
			Position:     p.Position,
			ByeWeek:      p.ByeWeek,
			InjuryStatus: p.Status,
			Projected:    p.Stats.Projected,
			Actual:       p.Stats.Actual,
			Final:        p.Stats.Final,
			ImageURL:     p.Photo,
			LastUpdated:  now,
		})
	}

	if c.cache != nil {
		if err := c.cache.SetSimple(cacheKey, updates, 15*time.Minute); err != nil {
			c.logger.Warnf("Failed to cache sportsfeed week data: %v", err)
		}
	}

	return updates, nil
}

// InjuryReport returns the current league-wide injury designations.
func (c *SportsfeedClient) InjuryReport(ctx context.Context) ([]ffl.PlayerUpdate, error) {
	url := fmt.Sprintf("%s/nfl/injuries", c.baseURL)
	var response feedPlayersResponse
	if err := c.get(ctx, url, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch injury report: %w", err)
	}

	updates := make([]ffl.PlayerUpdate, 0, len(response.Players))
	now := time.Now().UTC()
	for _, p := range response.Players {
		updates = append(updates, ffl.PlayerUpdate{
			ExternalID:   p.ID,
			Name:         p.Name,
			Team:         p.Team,
			Position:     p.Position,
			ByeWeek:      p.ByeWeek,
			InjuryStatus: p.Status,
			LastUpdated:  now,
		})
	}

	return updates, nil
}

// get performs one rate-limited, breaker-guarded request and decodes the body.
func (c *SportsfeedClient) get(ctx context.Context, url string, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("sportsfeed returned status %d", resp.StatusCode)
		}

		return nil, json.NewDecoder(resp.Body).Decode(dest)
	})
	return err
}
