package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStandard Role = "standard"
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStandard
}

// Credentials is the transient login input. It is never persisted and must
// never appear in logs.
type Credentials struct {
	Username string
	Password string
}

// DirectoryEntry is a user entry resolved from a directory search.
// It lives only for the duration of a login attempt.
type DirectoryEntry struct {
	DN       string // distinguished name, unique within the directory
	Username string // canonical identity attribute value (e.g., uid)
}

// Session is the authenticated state carried between requests.
// There is no server-side session table; a Session is reconstructed entirely
// from its signed carrier, so the carrier must be verified intact before any
// field is trusted.
type Session struct {
	Subject   string    `json:"subject"`
	Role      Role      `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsAdmin returns true if the session carries the admin role.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// ExpiredAt reports whether the session has expired as of now.
// A session whose expiry equals now is already expired.
func (s Session) ExpiredAt(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// RemainingAt returns the lifetime left as of now. Negative once expired.
func (s Session) RemainingAt(now time.Time) time.Duration {
	return s.ExpiresAt.Sub(now)
}
