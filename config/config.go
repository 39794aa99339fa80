package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Directory and session configuration
//   - http.go: HTTP server configuration
//   - stats.go: NBA tracker and cache configuration
//
// The struct is built once at process start and handed to each component's
// constructor; nothing reads ambient environment state after load.
type AppConfig struct {
	// IsDev controls development mode behavior.
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Directory and session configuration
	LDAP    LDAPConfig    `envPrefix:"LDAP_"`
	Session SessionConfig `envPrefix:"SESSION_"`

	// Cache configuration
	Redis RedisConfig `envPrefix:"REDIS_"`

	// NBA tracker configuration
	Stats StatsConfig `envPrefix:"NBA_"`

	// HTTP server configuration
	HTTP HTTPConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.LDAP.Sanitize()
	c.Session.Sanitize()
	c.Stats.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
