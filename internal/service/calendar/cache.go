package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores unfiltered merged event lists per window. Entries are grouped
// under a version number; Invalidate bumps the version so every older entry
// becomes unreachable at once and expires on its own TTL.
type Cache interface {
	Version(ctx context.Context) (int64, error)
	Get(ctx context.Context, version int64, w Window) ([]Event, bool, error)
	Set(ctx context.Context, version int64, w Window, events []Event) error
	Invalidate(ctx context.Context) error
}

// NopCache never hits.
type NopCache struct{}

func (NopCache) Version(context.Context) (int64, error) { return 0, nil }

func (NopCache) Get(context.Context, int64, Window) ([]Event, bool, error) { return nil, false, nil }

func (NopCache) Set(context.Context, int64, Window, []Event) error { return nil }

func (NopCache) Invalidate(context.Context) error { return nil }

const defaultCachePrefix = "vitum:calendar"

type RedisCache struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisCache(rdb redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, prefix: defaultCachePrefix, ttl: ttl}
}

func (c *RedisCache) versionKey() string {
	return c.prefix + ":version"
}

func (c *RedisCache) key(version int64, w Window) string {
	return fmt.Sprintf("%s:v%d:%s:%s", c.prefix, version, w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
}

func (c *RedisCache) Version(ctx context.Context) (int64, error) {
	v, err := c.rdb.Get(ctx, c.versionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("calendar cache version: %w", err)
	}
	return v, nil
}

func (c *RedisCache) Get(ctx context.Context, version int64, w Window) ([]Event, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(version, w)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("calendar cache get: %w", err)
	}

	var events []Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, false, fmt.Errorf("calendar cache decode: %w", err)
	}
	return events, true, nil
}

func (c *RedisCache) Set(ctx context.Context, version int64, w Window, events []Event) error {
	raw, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("calendar cache encode: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key(version, w), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("calendar cache set: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, c.versionKey()).Err(); err != nil {
		return fmt.Errorf("calendar cache invalidate: %w", err)
	}
	return nil
}
