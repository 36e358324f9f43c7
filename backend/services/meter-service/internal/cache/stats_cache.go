package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "solarmon:stats"

// StatsCache stores computed stats in Redis. Keys embed a generation number
// that Invalidate bumps, so stale entries are never read and simply expire.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache returns redis-backed cache.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

func (c *StatsCache) generationKey() string {
	return keyPrefix + ":gen"
}

func (c *StatsCache) key(ctx context.Context, name string) (string, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("%s:v%d:%s", keyPrefix, gen, name), nil
}

// Get decodes the cached value for name into dest and reports whether it was
// found. The returned key is bound to the generation current at lookup time;
// pass it to Set so a value computed before an Invalidate lands under the
// retired generation and is never served.
func (c *StatsCache) Get(ctx context.Context, name string, dest any) (string, bool, error) {
	key, err := c.key(ctx, name)
	if err != nil {
		return "", false, err
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return key, false, nil
	}
	if err != nil {
		return key, false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return key, false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return key, true, nil
}

// Set caches value under a key returned by Get for the configured TTL.
func (c *StatsCache) Set(ctx context.Context, key string, value any) error {
	if key == "" {
		return errors.New("cache: empty key")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Invalidate drops every cached entry by moving to a new generation.
func (c *StatsCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, c.generationKey()).Err()
}
