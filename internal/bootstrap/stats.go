package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/corderos/corderos-go/config"
	"github.com/corderos/corderos-go/internal/adapters/nbastats"
	redisadapter "github.com/corderos/corderos-go/internal/adapters/redis"
	"github.com/corderos/corderos-go/internal/service"
)

// ConnectRedis connects the tracker cache and verifies the connection with a
// ping.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (redis.UniversalClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		if cerr := client.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close redis after ping failure", "error", cerr)
		}
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.InfoContext(ctx, "connected to redis", "addr", cfg.Addr)
	return client, nil
}

// BuildStatsService wires the stats upstream client and the Redis cache.
// Returns nil when the tracker is disabled; callers skip the routes then.
func BuildStatsService(cfg *config.AppConfig, redisClient redis.UniversalClient, logger *slog.Logger) *service.StatsService {
	if !cfg.Stats.Enabled {
		logger.Info("nba tracker disabled")
		return nil
	}

	source := nbastats.NewClient(cfg.Stats.BaseURL, cfg.Stats.Timeout, logger)
	cache := redisadapter.NewStatsCache(redisClient)

	return service.NewStatsService(service.StatsServiceOptions{
		Source:   source,
		Cache:    cache,
		Season:   cfg.Stats.Season,
		CacheTTL: cfg.Stats.CacheTTL,
		Logger:   logger,
	})
}
