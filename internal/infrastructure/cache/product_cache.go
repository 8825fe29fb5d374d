package cache

import (
	"context"
	"errors"
	"time"

	"github.com/Yousefaborizk/moonstar/internal/domain/catalog"
	"github.com/google/uuid"
)

// ErrCacheMiss is returned when a key is not present in the cache
var ErrCacheMiss = errors.New("cache miss")

// ProductCache caches public catalog reads. Entries expire on their TTL and
// are invalidated eagerly whenever the catalog changes, so a stale price is
// bounded by the TTL in the worst case.
type ProductCache interface {
	// GetProduct returns a cached product, or ErrCacheMiss
	GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error)

	// SetProduct caches a single product
	SetProduct(ctx context.Context, product *catalog.Product, ttl time.Duration) error

	// GetList returns a cached catalog listing for the key, or ErrCacheMiss
	GetList(ctx context.Context, key string) ([]catalog.Product, error)

	// SetList caches a catalog listing under the key
	SetList(ctx context.Context, key string, products []catalog.Product, ttl time.Duration) error

	// Invalidate drops every cached catalog entry
	Invalidate(ctx context.Context) error
}

// ListKey builds the cache key for a catalog listing, optionally scoped to a
// category
func ListKey(category *catalog.ProductCategory) string {
	if category == nil {
		return "catalog:list:all"
	}
	return "catalog:list:" + string(*category)
}
