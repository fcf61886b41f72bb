package cachemanager

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// ReadThroughCache loads missing values with fn and stores them. Concurrent
// misses for the same key share one call to fn.
type ReadThroughCache[K ~string, V any] struct {
	cache           CacheManager[K, V]
	fn              func(ctx context.Context, key K) (V, error)
	ttl             time.Duration
	shouldSkipCache bool
	group           singleflight.Group
}

func NewReadThroughCache[K ~string, V any](
	cache CacheManager[K, V],
	fn func(ctx context.Context, key K) (V, error),
	ttl time.Duration,
	shouldSkipCache bool,
) *ReadThroughCache[K, V] {
	return &ReadThroughCache[K, V]{
		cache:           cache,
		fn:              fn,
		ttl:             ttl,
		shouldSkipCache: shouldSkipCache,
	}
}

// Get returns the cached value for key, loading it on a miss. Errors are
// never cached.
func (r *ReadThroughCache[K, V]) Get(ctx context.Context, key K) (V, error) {
	if r.shouldSkipCache {
		return r.fn(ctx, key)
	}

	if value, ok := r.cache.Get(ctx, key); ok {
		return value, nil
	}

	result, err, _ := r.group.Do(string(key), func() (any, error) {
		value, err := r.fn(ctx, key)
		if err != nil {
			return value, err
		}
		r.cache.Set(ctx, key, value, r.ttl)
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	value, ok := result.(V)
	if !ok {
		var zero V
		return zero, fmt.Errorf("read-through cache: unexpected value type %T", result)
	}
	return value, nil
}

// Invalidate drops key so the next Get reloads it.
func (r *ReadThroughCache[K, V]) Invalidate(ctx context.Context, key K) error {
	return r.cache.Delete(ctx, key)
}
