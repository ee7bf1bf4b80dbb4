// Package redis caches validated auth principals in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/adyela/payments/internal/adapters/auth"
	"github.com/redis/go-redis/v9"
)

// Connect parses url, dials Redis and pings it.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// TokenCache implements auth.TokenCache. Redis failures degrade to cache
// misses so authentication keeps working without Redis.
type TokenCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

var _ auth.TokenCache = (*TokenCache)(nil)

func NewTokenCache(client *redis.Client, prefix string, logger *slog.Logger) *TokenCache {
	return &TokenCache{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (c *TokenCache) Get(ctx context.Context, key string) (*auth.Principal, bool) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("token cache read failed", "error", err)
		}
		return nil, false
	}

	var p auth.Principal
	if err := json.Unmarshal(data, &p); err != nil {
		c.logger.Warn("discarding corrupt token cache entry", "error", err)
		return nil, false
	}
	return &p, true
}

func (c *TokenCache) Set(ctx context.Context, key string, principal *auth.Principal, ttl time.Duration) {
	data, err := json.Marshal(principal)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		c.logger.Warn("token cache write failed", "error", err)
	}
}
