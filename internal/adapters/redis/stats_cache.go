package redis

// Package redis provides Redis-based adapters for the corderos system.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/corderos/corderos-go/internal/ports"
)

// Compile-time conformance to the StatsCache port.
var _ ports.StatsCache = (*StatsCache)(nil)

// StatsCache stores computed tracker boards in Redis with a TTL. Values are
// JSON-encoded; expiry is enforced by Redis itself.
type StatsCache struct {
	client redis.UniversalClient
	prefix string
}

// NewStatsCache creates a Redis-backed stats cache.
func NewStatsCache(client redis.UniversalClient) *StatsCache {
	return &StatsCache{client: client, prefix: "nba:"}
}

// NewStatsCacheWithPrefix creates a stats cache with a custom key prefix.
func NewStatsCacheWithPrefix(client redis.UniversalClient, prefix string) *StatsCache {
	return &StatsCache{client: client, prefix: prefix}
}

// Get unmarshals the cached value for key into dst. A miss is (false, nil).
func (c *StatsCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return false, fmt.Errorf("unmarshal cached value: %w", err)
	}
	return true, nil
}

// Set stores v under key for the given TTL.
func (c *StatsCache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("cache ttl must be positive")
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	return c.client.Set(ctx, c.prefix+key, data, ttl).Err()
}

// Delete removes keys. Missing keys are not an error.
func (c *StatsCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = c.prefix + k
	}
	return c.client.Del(ctx, prefixed...).Err()
}
