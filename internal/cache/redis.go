// Package cache keeps short-lived gateway state: issued sessions and
// rate limit buckets, in Redis or in process.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client settings for the session store and auth throttle.
const (
	redisPoolSize        = 20
	redisMinIdleConns    = 4
	redisPoolTimeout     = 2 * time.Second
	redisConnMaxIdleTime = 5 * time.Minute
	redisConnectTimeout  = 5 * time.Second
)

// Cache stores sessions and rate limit buckets in Redis.
type Cache struct {
	rdb *redis.Client
}

// New connects to redisURL and checks the connection. The client is closed
// again when the check fails.
func New(ctx context.Context, redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.PoolSize = redisPoolSize
	opt.MinIdleConns = redisMinIdleConns
	opt.PoolTimeout = redisPoolTimeout
	opt.ConnMaxIdleTime = redisConnMaxIdleTime

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping Redis at %s: %w", opt.Addr, err)
	}

	return &Cache{rdb: rdb}, nil
}

// Ping reports whether Redis answers. Used by the readiness check.
func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *Cache) Close() error {
	return c.rdb.Close()
}

// Redis exposes the client to integration tests.
func (c *Cache) Redis() *redis.Client {
	return c.rdb
}
