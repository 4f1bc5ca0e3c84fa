package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConfirmGuard deduplicates confirm requests across terminals.  A client
// may send an idempotency key with a confirm; the first request claims the
// key with SETNX and every retry within the TTL is rejected as a
// duplicate, so a flaky network cannot double-add a cart.
type ConfirmGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewConfirmGuard builds a guard.  rdb may be nil, which disables
// deduplication (every request is treated as first).
func NewConfirmGuard(rdb *redis.Client, ttl time.Duration) *ConfirmGuard {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ConfirmGuard{rdb: rdb, ttl: ttl}
}

// Reserve claims the idempotency key.  It returns true when the caller is
// the first to use the key, false when the key was already claimed.
func (g *ConfirmGuard) Reserve(ctx context.Context, key string) (bool, error) {
	if g.rdb == nil || key == "" {
		return true, nil
	}
	return g.rdb.SetNX(ctx, "confirm:idem:"+key, 1, g.ttl).Result()
}
