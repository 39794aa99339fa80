package config

import "time"

// LDAPConfig contains directory service configuration.
//
// The service account (BindDN/BindPassword) is used for the first phase of
// every login and for group lookups; end-user credentials are only ever used
// for the verification bind against the user's own entry.
type LDAPConfig struct {
	// URI is the directory endpoint, e.g. "ldaps://ldap.example.com:636".
	URI string `env:"URI,required"`

	// BaseDN is the search base for user entries.
	BaseDN string `env:"BASE_DN,required"`

	// BindDN and BindPassword identify the service account.
	BindDN       string `env:"BIND_DN,required"`
	BindPassword string `env:"BIND_PASSWORD,required"`

	// GroupBaseDN is the container searched for group entries.
	GroupBaseDN string `env:"GROUP_DN,required"`

	// AdminGroup is the cn of the group whose members get the admin role.
	AdminGroup string `env:"ADMIN_GROUP" envDefault:"administrators"`

	// UserAttr is the canonical identity attribute matched at login.
	UserAttr string `env:"USER_ATTR" envDefault:"uid"`

	// Timeout bounds every directory round-trip (dial and operation).
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

// Sanitize applies guardrails to directory configuration values.
func (l *LDAPConfig) Sanitize() {
	if l.UserAttr == "" {
		l.UserAttr = "uid"
	}
	if l.Timeout <= 0 {
		l.Timeout = 5 * time.Second
	}
}

// SessionConfig contains session issuance configuration.
type SessionConfig struct {
	// Secret is the HMAC key protecting the session carrier.
	Secret string `env:"SECRET,required"`

	// TTL is the session lifetime. Sessions renew on use once less than half
	// the TTL remains.
	TTL time.Duration `env:"TTL" envDefault:"12h"`

	// CookieName is the name of the session cookie.
	CookieName string `env:"COOKIE_NAME" envDefault:"corderos_session"`

	// CookieDomain is the domain for the session cookie.
	// Leave empty to use the request domain.
	CookieDomain string `env:"COOKIE_DOMAIN" envDefault:""`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	// Floor the TTL at one minute so a typo'd env value cannot issue
	// already-dead or sub-minute sessions.
	if s.TTL < time.Minute {
		s.TTL = time.Minute
	}
	if s.CookieName == "" {
		s.CookieName = "corderos_session"
	}
}
