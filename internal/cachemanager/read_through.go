package cachemanager

import (
	"context"
)

// ReadThroughCache wraps a CacheManager with a loader: cache misses
// fall through to the loader and the result is cached for next time.
type ReadThroughCache[V any] struct {
	cache           CacheManager[V]
	fn              func(ctx context.Context, key string) (V, error)
	shouldSkipCache bool
}

func NewReadThroughCache[V any](
	cache CacheManager[V],
	fn func(ctx context.Context, key string) (V, error),
	shouldSkipCache bool,
) *ReadThroughCache[V] {
	return &ReadThroughCache[V]{
		cache:           cache,
		fn:              fn,
		shouldSkipCache: shouldSkipCache,
	}
}

func (r *ReadThroughCache[V]) Get(ctx context.Context, key string) (V, error) {
	if r.shouldSkipCache {
		return r.fn(ctx, key)
	}

	if value, ok := r.cache.Get(ctx, key); ok {
		return value, nil
	}

	value, err := r.fn(ctx, key)
	if err != nil {
		return value, err
	}

	r.cache.Set(ctx, key, value)

	return value, nil
}

// Invalidate drops a single key so the next Get reloads it.
func (r *ReadThroughCache[V]) Invalidate(ctx context.Context, key string) {
	r.cache.Delete(ctx, key)
}
