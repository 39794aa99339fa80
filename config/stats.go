package config

import "time"

// StatsConfig contains NBA tracker configuration.
type StatsConfig struct {
	// Enabled toggles the tracker endpoints and their Redis dependency.
	Enabled bool `env:"TRACKER_ENABLED" envDefault:"true"`

	// BaseURL is the upstream stats API root.
	BaseURL string `env:"STATS_BASE_URL" envDefault:"https://stats.nba.com/stats"`

	// Season in 'YYYY-YY' format, e.g. '2025-26'.
	Season string `env:"SEASON" envDefault:"2025-26"`

	// CacheTTL is how long computed boards stay cached.
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"15m"`

	// Timeout bounds each upstream request.
	Timeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"6s"`
}

// Sanitize applies guardrails to tracker configuration values.
func (s *StatsConfig) Sanitize() {
	if s.CacheTTL <= 0 {
		s.CacheTTL = 15 * time.Minute
	}
	if s.Timeout <= 0 {
		s.Timeout = 6 * time.Second
	}
}

// RedisConfig contains Redis connection settings for the tracker cache.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}
