package service

import (
	"context"
	"log/slog"

	domainauth "github.com/corderos/corderos-go/internal/domain/auth"
	apperrors "github.com/corderos/corderos-go/internal/errors"
	"github.com/corderos/corderos-go/internal/ports"
)

// CredentialVerifier implements the two-phase bind protocol: locate the
// user's entry under the service account, then prove the password by binding
// as that entry. Every failure collapses into one opaque invalid-credentials
// outcome so callers cannot tell an unknown user from a wrong password from a
// directory outage. Underlying detail goes to the log only.
type CredentialVerifier struct {
	dir    ports.Directory
	logger *slog.Logger
}

// NewCredentialVerifier constructs a verifier over the given directory.
func NewCredentialVerifier(dir ports.Directory, logger *slog.Logger) *CredentialVerifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &CredentialVerifier{dir: dir, logger: logger}
}

// errInvalidCredentials is deliberately cause-free: its message is what a
// caller may surface, and it must carry no phase information.
func errInvalidCredentials() error {
	return apperrors.InvalidCredentials("invalid credentials")
}

// Authenticate verifies the supplied credentials and returns the matching
// directory entry. The phases are ordered and each depends on the previous
// result; they must never be reordered or run concurrently.
func (v *CredentialVerifier) Authenticate(ctx context.Context, creds domainauth.Credentials) (domainauth.DirectoryEntry, error) {
	if creds.Username == "" || creds.Password == "" {
		return domainauth.DirectoryEntry{}, errInvalidCredentials()
	}

	// Phase 1+2: service bind and exact-match search. A service bind failure
	// is a misconfiguration, but to the caller it is indistinguishable from
	// bad credentials.
	entries, err := v.dir.FindUser(ctx, creds.Username)
	if err != nil {
		v.logger.WarnContext(ctx, "directory unavailable during login", "error", err)
		return domainauth.DirectoryEntry{}, errInvalidCredentials()
	}

	switch {
	case len(entries) == 0:
		return domainauth.DirectoryEntry{}, errInvalidCredentials()
	case len(entries) > 1:
		// Ambiguity is never resolved by picking the first match.
		v.logger.WarnContext(ctx, "ambiguous directory match during login", "matches", len(entries))
		return domainauth.DirectoryEntry{}, errInvalidCredentials()
	}
	entry := entries[0]

	// Phase 3: bind as the resolved entry with the supplied password.
	ok, err := v.dir.VerifyBind(ctx, entry.DN, creds.Password)
	if err != nil {
		v.logger.WarnContext(ctx, "directory unavailable during verification bind", "error", err)
		return domainauth.DirectoryEntry{}, errInvalidCredentials()
	}
	if !ok {
		return domainauth.DirectoryEntry{}, errInvalidCredentials()
	}

	return entry, nil
}
