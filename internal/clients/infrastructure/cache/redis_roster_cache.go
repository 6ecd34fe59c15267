package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRosterKey is the Redis key holding the encoded roster.
const DefaultRosterKey = "trainbook:roster"

// RedisRosterCache keeps the roster in Redis with a TTL.
type RedisRosterCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisRosterCache creates a Redis-backed roster cache. A zero ttl keeps
// the entry until it is invalidated.
func NewRedisRosterCache(client *redis.Client, key string, ttl time.Duration) *RedisRosterCache {
	if key == "" {
		key = DefaultRosterKey
	}
	return &RedisRosterCache{client: client, key: key, ttl: ttl}
}

// Load returns the cached roster, or false on a miss.
func (c *RedisRosterCache) Load(ctx context.Context) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Store replaces the cached roster.
func (c *RedisRosterCache) Store(ctx context.Context, roster []byte) error {
	return c.client.Set(ctx, c.key, roster, c.ttl).Err()
}

// Invalidate drops the cached roster.
func (c *RedisRosterCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
