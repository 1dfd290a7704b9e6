package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache shares the catalog cache between instances. Entries are written
// under a generation number; Clear bumps the generation so every previous
// entry becomes unreachable at once and ages out through its TTL.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

var _ Store = (*RedisCache)(nil)

func NewRedisCache(rdb *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &RedisCache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) genKey() string {
	return c.prefix + ":gen"
}

func (c *RedisCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, c.genKey()).Int64()

	if errors.Is(err, redis.Nil) {
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("cache generation: %w", err)
	}

	return gen, nil
}

func (c *RedisCache) entryKey(gen int64, key string) string {
	return c.prefix + ":" + strconv.FormatInt(gen, 10) + ":" + key
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, false, err
	}

	val, err := c.rdb.Get(ctx, c.entryKey(gen, key)).Bytes()

	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, val []byte) error {
	gen, err := c.generation(ctx)
	if err != nil {
		return err
	}

	if err := c.rdb.Set(ctx, c.entryKey(gen, key), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}

	return nil
}

func (c *RedisCache) Clear(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, c.genKey()).Err(); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}

	return nil
}
