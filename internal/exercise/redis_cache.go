package exercise

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a DedupStore shared between server instances.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCache stores hashes under prefix with the given ttl.
func NewRedisCache(rdb *redis.Client, ttl time.Duration, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "exercise:seen:"
	}
	return &RedisCache{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (c *RedisCache) Seen(ctx context.Context, hash string) (bool, error) {
	n, err := c.rdb.Exists(ctx, c.prefix+hash).Result()
	if err != nil {
		return false, fmt.Errorf("checking exercise hash: %w", err)
	}
	return n > 0, nil
}

func (c *RedisCache) Remember(ctx context.Context, hash string) error {
	if err := c.rdb.Set(ctx, c.prefix+hash, 1, c.ttl).Err(); err != nil {
		return fmt.Errorf("storing exercise hash: %w", err)
	}
	return nil
}
