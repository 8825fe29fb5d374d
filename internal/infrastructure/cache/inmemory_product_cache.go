package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Yousefaborizk/moonstar/internal/domain/catalog"
	"github.com/google/uuid"
)

type memoryEntry struct {
	product   *catalog.Product
	list      []catalog.Product
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// InMemoryProductCache is a process-local ProductCache for development and
// tests. It is safe for concurrent use.
type InMemoryProductCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewInMemoryProductCache creates a new in-memory product cache
func NewInMemoryProductCache() *InMemoryProductCache {
	return &InMemoryProductCache{entries: make(map[string]memoryEntry)}
}

// GetProduct returns a cached product, or ErrCacheMiss
func (c *InMemoryProductCache) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	c.mu.RLock()
	entry, ok := c.entries[productKeyPrefix+id.String()]
	c.mu.RUnlock()

	if !ok || entry.expired(time.Now()) || entry.product == nil {
		return nil, ErrCacheMiss
	}
	copied := *entry.product
	return &copied, nil
}

// SetProduct caches a single product
func (c *InMemoryProductCache) SetProduct(ctx context.Context, product *catalog.Product, ttl time.Duration) error {
	copied := *product
	c.mu.Lock()
	c.entries[productKeyPrefix+product.ID.String()] = memoryEntry{
		product:   &copied,
		expiresAt: expiry(ttl),
	}
	c.mu.Unlock()
	return nil
}

// GetList returns a cached catalog listing, or ErrCacheMiss
func (c *InMemoryProductCache) GetList(ctx context.Context, key string) ([]catalog.Product, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || entry.expired(time.Now()) || entry.list == nil {
		return nil, ErrCacheMiss
	}
	copied := make([]catalog.Product, len(entry.list))
	copy(copied, entry.list)
	return copied, nil
}

// SetList caches a catalog listing under the key
func (c *InMemoryProductCache) SetList(ctx context.Context, key string, products []catalog.Product, ttl time.Duration) error {
	copied := make([]catalog.Product, len(products))
	copy(copied, products)

	c.mu.Lock()
	c.entries[key] = memoryEntry{list: copied, expiresAt: expiry(ttl)}
	c.mu.Unlock()
	return nil
}

// Invalidate drops every cached catalog entry
func (c *InMemoryProductCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}

func expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}
