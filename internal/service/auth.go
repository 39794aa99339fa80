package service

import (
	"context"
	"log/slog"
	"time"

	domainauth "github.com/corderos/corderos-go/internal/domain/auth"
	apperrors "github.com/corderos/corderos-go/internal/errors"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Verifier *CredentialVerifier
	Roles    *RoleResolver
	Sessions *SessionManager
	Logger   *slog.Logger
}

// AuthService orchestrates login: credential verification, role resolution,
// and session issuance, in that order. Guarded requests go through Validate
// and never touch the directory again until the session chain ends.
type AuthService struct {
	verifier *CredentialVerifier
	roles    *RoleResolver
	sessions *SessionManager
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		verifier: opts.Verifier,
		roles:    opts.Roles,
		sessions: opts.Sessions,
		logger:   logger,
	}
}

// LoginResult contains the issued session and its carrier.
type LoginResult struct {
	Session domainauth.Session
	Carrier string
}

// Login runs the full authentication flow. On any verification failure it
// returns an invalid-credentials error with no further detail; no session is
// ever issued from a partially completed flow.
func (s *AuthService) Login(ctx context.Context, creds domainauth.Credentials) (*LoginResult, error) {
	entry, err := s.verifier.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}

	role := s.roles.Resolve(ctx, entry)

	sess, carrier, err := s.sessions.Issue(entry.Username, role)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "issue session")
	}

	s.logger.InfoContext(ctx, "login succeeded", "subject", sess.Subject, "role", sess.Role)
	return &LoginResult{Session: sess, Carrier: carrier}, nil
}

// Validate checks an inbound carrier, applying sliding renewal.
func (s *AuthService) Validate(carrier string) ValidateResult {
	return s.sessions.Validate(carrier)
}

// TTL exposes the configured session lifetime for cookie Max-Age decisions.
func (s *AuthService) TTL() time.Duration {
	return s.sessions.TTL()
}
