package core

import (
	"context"
	"time"
)

// Cache[T] is the key-value cache behind event pages.
type Cache[T any] interface {
	// Get returns ErrCacheMiss when the key is absent or expired.
	Get(ctx context.Context, key string) (T, error)

	Set(ctx context.Context, key string, value T, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	Close() error

	Health(ctx context.Context) error

	// GetWithFetch is cache-aside: on a miss fetchFunc loads the value, which
	// is then stored with ttl. Implementations may collapse concurrent misses.
	GetWithFetch(
		ctx context.Context,
		key string,
		ttl time.Duration,
		fetchFunc func(ctx context.Context, key string) (T, error),
	) (T, error)
}
