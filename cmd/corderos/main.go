package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/corderos/corderos-go/internal/bootstrap"
	"github.com/corderos/corderos-go/internal/service"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting corderos service",
		"addr", cfg.HTTP.Addr,
		"ldap_uri", cfg.LDAP.URI,
		"tracker_enabled", cfg.Stats.Enabled,
		"is_dev", cfg.IsDev)

	auth, err := bootstrap.BuildAuthService(&cfg, logger)
	if err != nil {
		return err
	}

	var statsSvc *service.StatsService
	if cfg.Stats.Enabled {
		redisClient, redisErr := bootstrap.ConnectRedis(ctx, cfg.Redis, logger)
		if redisErr != nil {
			return redisErr
		}
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
		statsSvc = bootstrap.BuildStatsService(&cfg, redisClient, logger)
	}

	server := bootstrap.StartHTTPServer(bootstrap.HTTPServerConfig{
		Config: &cfg,
		Auth:   auth,
		Stats:  statsSvc,
		Logger: logger,
	})

	// Wait for shutdown signal
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	return bootstrap.ShutdownHTTPServer(ctx, server, logger)
}
