// Package cache provides the Redis-backed caching layer.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client with the link caching operations.
type Cache struct {
	client *redis.Client
}

// New connects to Redis from a redis:// URL and verifies the connection
// before returning.
func New(ctx context.Context, redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Pool sized for the redirect hot path.
	opt.PoolSize = 16
	opt.MinIdleConns = 4
	opt.PoolTimeout = 3 * time.Second
	opt.ConnMaxIdleTime = 10 * time.Minute

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Ping reports Redis connectivity, used by the readiness probe.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying client and its pool.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Client exposes the raw client for test helpers.
func (c *Cache) Client() *redis.Client {
	return c.client
}
