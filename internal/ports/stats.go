package ports

import (
	"context"
	"time"

	domainstats "github.com/corderos/corderos-go/internal/domain/stats"
)

// StatsSource fetches raw per-game statistics from the upstream stats
// provider. Implementations must apply a finite timeout per call.
type StatsSource interface {
	// TeamAdvanced returns advanced per-game metrics for every team.
	TeamAdvanced(ctx context.Context, season string) ([]domainstats.TeamForm, error)

	// PlayerAdvanced returns advanced per-game metrics for players,
	// optionally restricted to rookies.
	PlayerAdvanced(ctx context.Context, season string, rookiesOnly bool) ([]domainstats.PlayerLine, error)

	// Standings returns each team's win percentage keyed by team ID.
	Standings(ctx context.Context, season string) (map[int64]float64, error)
}

// StatsCache stores computed tracker boards keyed by season and board name.
type StatsCache interface {
	// Get unmarshals the cached value for key into dst and reports whether a
	// live entry was found.
	Get(ctx context.Context, key string, dst any) (bool, error)

	// Set stores v under key for the given TTL.
	Set(ctx context.Context, key string, v any, ttl time.Duration) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
