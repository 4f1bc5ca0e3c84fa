// Package cache puts redis in front of the hot read paths of the POS:
// menu catalog lookups (every cart line triggers one) and the idempotency
// guard for confirm requests.  All functions degrade gracefully when redis
// is unavailable — a nil client simply disables the cache.
package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-pos/internal/model"
)

const (
	productKeyPrefix = "catalog:product:"
	menuKey          = "catalog:menu"
)

// productSource is the underlying catalog the cache decorates.
type productSource interface {
	GetByID(ctx context.Context, productID uint64) (*model.Product, error)
	ListActive(ctx context.Context) ([]model.Product, error)
}

// CatalogCache is a read-through redis cache over the product catalog.
// Entries expire after the configured TTL; the menu is treated as
// read-only data here, so no invalidation path exists beyond expiry.
type CatalogCache struct {
	rdb *redis.Client
	src productSource
	ttl time.Duration
}

// NewCatalogCache wraps src with a redis cache.  rdb may be nil, in which
// case every call goes straight to the source.
func NewCatalogCache(rdb *redis.Client, src productSource, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CatalogCache{rdb: rdb, src: src, ttl: ttl}
}

// GetByID returns the product from cache when present, loading and
// caching it otherwise.  Cache errors are ignored: a broken cache must
// not break ordering.
func (c *CatalogCache) GetByID(ctx context.Context, productID uint64) (*model.Product, error) {
	key := productKeyPrefix + strconv.FormatUint(productID, 10)
	if c.rdb != nil {
		if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
			var p model.Product
			if json.Unmarshal(raw, &p) == nil {
				return &p, nil
			}
		}
	}
	p, err := c.src.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if c.rdb != nil {
		if raw, err := json.Marshal(p); err == nil {
			_ = c.rdb.Set(ctx, key, raw, c.ttl).Err()
		}
	}
	return p, nil
}

// ListActive returns the full menu, cached under a single key.
func (c *CatalogCache) ListActive(ctx context.Context) ([]model.Product, error) {
	if c.rdb != nil {
		if raw, err := c.rdb.Get(ctx, menuKey).Bytes(); err == nil {
			var menu []model.Product
			if json.Unmarshal(raw, &menu) == nil {
				return menu, nil
			}
		}
	}
	menu, err := c.src.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if c.rdb != nil {
		if raw, err := json.Marshal(menu); err == nil {
			_ = c.rdb.Set(ctx, menuKey, raw, c.ttl).Err()
		}
	}
	return menu, nil
}
