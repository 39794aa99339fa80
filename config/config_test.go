package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_ParseFromEnv(t *testing.T) {
	t.Setenv("LDAP_URI", "ldap://ldap.example.com:389")
	t.Setenv("LDAP_BASE_DN", "ou=people,dc=example,dc=com")
	t.Setenv("LDAP_BIND_DN", "cn=svc,dc=example,dc=com")
	t.Setenv("LDAP_BIND_PASSWORD", "svc-secret")
	t.Setenv("LDAP_GROUP_DN", "ou=groups,dc=example,dc=com")
	t.Setenv("SESSION_SECRET", "carrier-key")
	t.Setenv("SESSION_TTL", "6h")
	t.Setenv("NBA_SEASON", "2024-25")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.LDAP.URI != "ldap://ldap.example.com:389" {
		t.Errorf("LDAP.URI = %q", cfg.LDAP.URI)
	}
	if cfg.LDAP.UserAttr != "uid" {
		t.Errorf("LDAP.UserAttr default = %q, want uid", cfg.LDAP.UserAttr)
	}
	if cfg.LDAP.AdminGroup != "administrators" {
		t.Errorf("LDAP.AdminGroup default = %q", cfg.LDAP.AdminGroup)
	}
	if cfg.Session.TTL != 6*time.Hour {
		t.Errorf("Session.TTL = %v, want 6h", cfg.Session.TTL)
	}
	if cfg.Session.CookieName != "corderos_session" {
		t.Errorf("Session.CookieName default = %q", cfg.Session.CookieName)
	}
	if cfg.Stats.Season != "2024-25" {
		t.Errorf("Stats.Season = %q", cfg.Stats.Season)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr default = %q", cfg.HTTP.Addr)
	}
}

func TestAppConfig_ParseMissingRequired(t *testing.T) {
	// None of the required LDAP/session variables are set.
	var cfg AppConfig
	if err := env.Parse(&cfg); err == nil {
		t.Fatalf("expected error for missing required env vars")
	}
}

func TestSessionConfig_SanitizeFloorsTTL(t *testing.T) {
	s := SessionConfig{TTL: 5 * time.Second}
	s.Sanitize()
	if s.TTL != time.Minute {
		t.Errorf("TTL = %v, want floor of 1m", s.TTL)
	}
	if s.CookieName != "corderos_session" {
		t.Errorf("CookieName = %q, want default restored", s.CookieName)
	}
}

func TestLDAPConfig_SanitizeDefaults(t *testing.T) {
	l := LDAPConfig{Timeout: -time.Second}
	l.Sanitize()
	if l.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", l.Timeout)
	}
	if l.UserAttr != "uid" {
		t.Errorf("UserAttr = %q, want uid", l.UserAttr)
	}
}

func TestStatsConfig_SanitizeDefaults(t *testing.T) {
	s := StatsConfig{}
	s.Sanitize()
	if s.CacheTTL != 15*time.Minute {
		t.Errorf("CacheTTL = %v, want 15m", s.CacheTTL)
	}
	if s.Timeout != 6*time.Second {
		t.Errorf("Timeout = %v, want 6s", s.Timeout)
	}
}
