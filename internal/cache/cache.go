// Package cache is the read-through cache port used by the taxonomy service.
// Values are stored as JSON with a per-entry TTL.
package cache

import (
	"context"
	"time"
)

// Cache stores JSON-encodable values under string keys.
// Implementations must be safe for concurrent use. Concurrent writers of
// the same key race; the last write wins.
type Cache interface {
	// Get decodes the value stored under key into dest. It reports false
	// when the key is missing or expired.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Remember returns the cached value for key, or calls load and caches its
// result for ttl. Cache failures fall through to load; a failing load is not
// cached.
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if ok, err := c.Get(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	_ = c.Set(ctx, key, value, ttl)
	return value, nil
}
