package catalog

import (
	"context"
	"sync"
	"time"
)

// DefaultCacheTTL is how long catalog data is served before reloading.
const DefaultCacheTTL = 7 * 24 * time.Hour

// Clock returns the current time.
type Clock func() time.Time

// Entry is a cached value and the moment it was fetched.
type Entry[T any] struct {
	Value     T
	FetchedAt time.Time
}

// Cache holds one value until its TTL runs out.
type Cache[T any] struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   Clock
	entry *Entry[T]
}

// NewCache creates a cache. A nil clock uses time.Now.
func NewCache[T any](ttl time.Duration, now Clock) *Cache[T] {
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache[T]{ttl: ttl, now: now}
}

// Get returns the cached value, or calls load and caches its result when the
// entry is missing or expired. Errors from load are not cached.
func (c *Cache[T]) Get(ctx context.Context, load func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entry != nil && c.now().Sub(c.entry.FetchedAt) < c.ttl {
		return c.entry.Value, nil
	}

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.entry = &Entry[T]{Value: v, FetchedAt: c.now()}
	return v, nil
}

// Invalidate drops the cached entry.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	c.entry = nil
	c.mu.Unlock()
}
