// Package cachemanager wraps an in-memory TTL cache behind a typed
// interface. The demo app memoizes anchor measurements through it so
// repeated bounds queries within one frame don't rescan the screen.
package cachemanager

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"scrim/internal/log"
)

const DefaultExpiration = 100 * time.Millisecond
const DefaultCleanupInterval = time.Minute

// CacheManager is a typed TTL cache.
type CacheManager[V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	Set(ctx context.Context, key string, value V)
	Delete(ctx context.Context, key string)
	Flush(ctx context.Context)
}

// InMemoryCacheManager is the go-cache backed implementation.
type InMemoryCacheManager[V any] struct {
	useCase string
	cache   *gocache.Cache
}

// NewInMemoryCacheManager initializes the in-memory cache.
// useCase labels log lines so overlapping caches stay tellable apart.
func NewInMemoryCacheManager[V any](useCase string, defaultExpiration, cleanupInterval time.Duration) *InMemoryCacheManager[V] {
	return &InMemoryCacheManager[V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
	}
}

// Get retrieves an item from the cache by its key.
func (c *InMemoryCacheManager[V]) Get(_ context.Context, key string) (V, bool) {
	var zeroValue V

	value, found := c.cache.Get(key)
	if !found {
		return zeroValue, false
	}

	v, ok := value.(V)
	if !ok {
		log.Error(log.CatCache, "wrong type assertion when getting value", "use_case", c.useCase, "key", key)
		return zeroValue, false
	}

	return v, true
}

// Set stores an item with the cache's default expiration.
func (c *InMemoryCacheManager[V]) Set(_ context.Context, key string, value V) {
	c.cache.SetDefault(key, value)
}

// Delete evicts a single key.
func (c *InMemoryCacheManager[V]) Delete(_ context.Context, key string) {
	c.cache.Delete(key)
}

// Flush evicts everything, used when a reflow invalidates all
// measurements at once.
func (c *InMemoryCacheManager[V]) Flush(_ context.Context) {
	c.cache.Flush()
}
