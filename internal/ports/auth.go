package ports

// Package ports defines interfaces (hexagonal ports) for the application's
// behavior. Implementations live in internal/adapters; orchestration in
// internal/service.

import (
	"context"

	domainauth "github.com/corderos/corderos-go/internal/domain/auth"
)

// Directory abstracts the external LDAP-style identity store. The adapter owns
// the service-account bind and the filter syntax; callers speak in domain
// terms only. Every method opens a fresh connection for the duration of the
// call, so implementations hold no shared connection state and calls from
// different requests may run fully in parallel.
type Directory interface {
	// FindUser searches for entries whose canonical identity attribute equals
	// username (case-sensitive exact match). It returns every match; deciding
	// what multiple matches mean is the caller's concern.
	FindUser(ctx context.Context, username string) ([]domainauth.DirectoryEntry, error)

	// VerifyBind attempts to bind as dn with the supplied password.
	// It returns (false, nil) when the directory rejected the credentials and
	// a non-nil error only for transport or protocol failures.
	VerifyBind(ctx context.Context, dn, password string) (bool, error)

	// IsGroupMember reports whether memberDN is listed as a member of the
	// named group inside the configured groups container.
	IsGroupMember(ctx context.Context, groupName, memberDN string) (bool, error)
}

// SessionCodec serializes a Session into its tamper-evident carrier and back.
// Decode must fail on any structural or integrity defect; it never repairs a
// partial carrier.
type SessionCodec interface {
	Encode(sess domainauth.Session) (string, error)
	Decode(carrier string) (domainauth.Session, error)
}
