package service

import (
	"context"
	"log/slog"

	domainauth "github.com/corderos/corderos-go/internal/domain/auth"
	"github.com/corderos/corderos-go/internal/ports"
)

// RoleResolver decides the role for a freshly verified identity by checking
// membership in the configured admin group.
type RoleResolver struct {
	dir        ports.Directory
	adminGroup string
	logger     *slog.Logger
}

// NewRoleResolver constructs a resolver for the named admin group.
func NewRoleResolver(dir ports.Directory, adminGroup string, logger *slog.Logger) *RoleResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoleResolver{dir: dir, adminGroup: adminGroup, logger: logger}
}

// Resolve returns RoleAdmin when the entry's DN is a member of the admin
// group. A directory error degrades the result to RoleStandard (least
// privilege) rather than failing the login that already succeeded.
func (r *RoleResolver) Resolve(ctx context.Context, entry domainauth.DirectoryEntry) domainauth.Role {
	isAdmin, err := r.dir.IsGroupMember(ctx, r.adminGroup, entry.DN)
	if err != nil {
		r.logger.WarnContext(ctx, "role resolution failed, defaulting to standard",
			"subject", entry.Username, "error", err)
		return domainauth.RoleStandard
	}
	if isAdmin {
		return domainauth.RoleAdmin
	}
	return domainauth.RoleStandard
}
