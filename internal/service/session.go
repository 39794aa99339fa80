package service

import (
	"fmt"
	"time"

	domainauth "github.com/corderos/corderos-go/internal/domain/auth"
	"github.com/corderos/corderos-go/internal/ports"
)

// SessionManager issues and validates session carriers. It performs no I/O
// and keeps no per-session state; everything lives in the carrier, so the
// manager needs no locking and is safe for concurrent use.
type SessionManager struct {
	codec ports.SessionCodec
	ttl   time.Duration
	now   func() time.Time
}

// NewSessionManager constructs a manager issuing sessions with the given TTL.
func NewSessionManager(codec ports.SessionCodec, ttl time.Duration) *SessionManager {
	return &SessionManager{codec: codec, ttl: ttl, now: time.Now}
}

// TTL returns the configured session lifetime.
func (m *SessionManager) TTL() time.Duration { return m.ttl }

// Issue creates a fresh session for subject with the given role and returns
// it together with its signed carrier.
func (m *SessionManager) Issue(subject string, role domainauth.Role) (domainauth.Session, string, error) {
	now := m.now()
	sess := domainauth.Session{
		Subject:   subject,
		Role:      role,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}
	carrier, err := m.codec.Encode(sess)
	if err != nil {
		return domainauth.Session{}, "", fmt.Errorf("issue session: %w", err)
	}
	return sess, carrier, nil
}

// ValidateResult is the outcome of validating a carrier.
//
// Present=false means the carrier was missing, malformed, tampered with, or
// expired; the caller must treat the request as anonymous and clear the
// carrier. The distinction between those cases is deliberately not exposed:
// a broken carrier is never a degraded session, it is no session.
type ValidateResult struct {
	Session domainauth.Session

	// RefreshedCarrier is set when sliding renewal replaced the carrier;
	// the transport must send it back to the client.
	RefreshedCarrier string

	Present bool
}

// Validate checks a carrier and applies sliding renewal: once less than half
// the TTL remains, the session is re-issued with a fresh window for the same
// subject and role. Renewal never consults the directory; it trusts the role
// verified at original login for the life of the session chain.
func (m *SessionManager) Validate(carrier string) ValidateResult {
	if carrier == "" {
		return ValidateResult{}
	}

	sess, err := m.codec.Decode(carrier)
	if err != nil {
		return ValidateResult{}
	}

	now := m.now()
	if sess.ExpiredAt(now) {
		return ValidateResult{}
	}

	if sess.RemainingAt(now) <= m.ttl/2 {
		refreshed, refreshedCarrier, issueErr := m.Issue(sess.Subject, sess.Role)
		if issueErr != nil {
			// Renewal is best-effort; the current session is still valid.
			return ValidateResult{Session: sess, Present: true}
		}
		return ValidateResult{Session: refreshed, RefreshedCarrier: refreshedCarrier, Present: true}
	}

	return ValidateResult{Session: sess, Present: true}
}
