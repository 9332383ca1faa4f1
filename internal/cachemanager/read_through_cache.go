package cachemanager

import (
	"context"
	"time"
)

// ReadThroughCache answers from the cache and falls back to fn on a miss,
// storing fn's successful results. Errors are never cached.
type ReadThroughCache[K comparable, V any, I any] struct {
	cache CacheManager[K, V]
	fn    func(ctx context.Context, input I) (V, error)
	skip  bool
}

// NewReadThroughCache wraps fn. With skip set every call goes to fn.
func NewReadThroughCache[K comparable, V any, I any](
	cache CacheManager[K, V],
	fn func(ctx context.Context, input I) (V, error),
	skip bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{cache: cache, fn: fn, skip: skip}
}

// Get returns the value for key, computing it from input on a miss.
// The bool reports a cache hit.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, bool, error) {
	if r.skip {
		v, err := r.fn(ctx, input)
		return v, false, err
	}

	if value, ok := r.cache.Get(ctx, key); ok {
		return value, true, nil
	}

	value, err := r.fn(ctx, input)
	if err != nil {
		return value, false, err
	}

	r.cache.Set(ctx, key, value, ttl)
	return value, false, nil
}

// Invalidate drops key so the next Get recomputes it.
func (r *ReadThroughCache[K, V, I]) Invalidate(ctx context.Context, key K) {
	r.cache.Delete(ctx, key)
}
