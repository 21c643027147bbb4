package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/petgateway/petgateway/internal/model"
)

// sessionKeyPrefix is the Redis key prefix for issued sessions.
const sessionKeyPrefix = "session:"

// SaveSession stores s until it expires. An already expired session is not
// stored.
func (c *Cache) SaveSession(ctx context.Context, s *model.Session) error {
	key := sessionKeyPrefix + s.AccessKeyID

	if !time.Now().Before(s.ExpiresAt) {
		return nil
	}

	cached := s.ToCachedSession()

	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, key, cached)
	pipe.PExpireAt(ctx, key, s.ExpiresAt)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// GetSession retrieves a session by access key.
// Returns nil if not found (cache miss).
func (c *Cache) GetSession(ctx context.Context, accessKeyID string) (*model.Session, error) {
	key := sessionKeyPrefix + accessKeyID

	var cached model.CachedSession
	res := c.rdb.HGetAll(ctx, key)
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}
	if len(res.Val()) == 0 {
		return nil, nil
	}
	if err := res.Scan(&cached); err != nil {
		// Corrupted entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return cached.ToSession(accessKeyID), nil
}

// DeleteSession revokes a session.
func (c *Cache) DeleteSession(ctx context.Context, accessKeyID string) error {
	if err := c.rdb.Del(ctx, sessionKeyPrefix+accessKeyID).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
