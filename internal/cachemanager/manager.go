// Package cachemanager caches expensive lookups, chiefly critique responses
// from an LLM backend, keyed by a digest of the request.
package cachemanager

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// CacheManager is a typed key/value cache with per-entry expiry.
type CacheManager[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K)
	Flush(ctx context.Context)
	Len() int
}

// Key builds a stable cache key from request parts. Parts are separated so
// ("ab", "c") and ("a", "bc") differ.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
