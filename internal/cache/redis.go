package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisCache is the concrete Cache backed by a go-redis client, grounded
// in the host's own use of github.com/redis/go-redis/v9 as its shared
// cache client.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an existing *redis.Client as a Cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Rawdel deletes key. A missing key is not an error: deletion is
// idempotent invalidation, not a correctness check.
func (c *RedisCache) Rawdel(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
