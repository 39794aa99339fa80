package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/corderos/corderos-go/config"
	ldapadapter "github.com/corderos/corderos-go/internal/adapters/ldap"
	"github.com/corderos/corderos-go/internal/adapters/sessionjwt"
	"github.com/corderos/corderos-go/internal/service"
)

// BuildAuthService wires the directory client, the session codec, and the
// auth service. The session secret never leaves the codec.
func BuildAuthService(cfg *config.AppConfig, logger *slog.Logger) (*service.AuthService, error) {
	codec, err := sessionjwt.NewCodec(cfg.Session.Secret)
	if err != nil {
		return nil, fmt.Errorf("session codec: %w", err)
	}

	directory := ldapadapter.NewClient(cfg.LDAP, logger)

	return service.NewAuthService(service.AuthServiceOptions{
		Verifier: service.NewCredentialVerifier(directory, logger),
		Roles:    service.NewRoleResolver(directory, cfg.LDAP.AdminGroup, logger),
		Sessions: service.NewSessionManager(codec, cfg.Session.TTL),
		Logger:   logger,
	}), nil
}
