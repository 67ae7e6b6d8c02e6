package token

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache é o cache persistente: sobrevive a reinícios do processo.
type RedisCache struct {
	rdb redis.Cmdable
	key string
	ttl time.Duration
}

type RedisCacheOption func(*RedisCache)

func WithCacheKey(key string) RedisCacheOption {
	return func(c *RedisCache) {
		if k := strings.TrimSpace(key); k != "" {
			c.key = k
		}
	}
}

// WithCacheTTL define a expiração da chave; 0 mantém sem expiração.
func WithCacheTTL(d time.Duration) RedisCacheOption {
	return func(c *RedisCache) { c.ttl = d }
}

func NewRedisCache(rdb redis.Cmdable, opts ...RedisCacheOption) *RedisCache {
	c := &RedisCache{rdb: rdb, key: "reservas:token", ttl: time.Hour}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) Get(ctx context.Context) (string, bool, error) {
	tok, err := c.rdb.Get(ctx, c.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read cached token: %w", err)
	}
	return tok, tok != "", nil
}

func (c *RedisCache) Set(ctx context.Context, tok string) error {
	if err := c.rdb.Set(ctx, c.key, tok, c.ttl).Err(); err != nil {
		return fmt.Errorf("write cached token: %w", err)
	}
	return nil
}

func (c *RedisCache) Clear(ctx context.Context) error {
	if err := c.rdb.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("clear cached token: %w", err)
	}
	return nil
}
