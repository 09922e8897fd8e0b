package cache

import (
	"context"
	"sync"
	"time"

	"github.com/go-authgate/eventgate/internal/core"

	"golang.org/x/sync/singleflight"
)

var _ core.Cache[struct{}] = (*MemoryCache[struct{}])(nil)

type entry[T any] struct {
	value    T
	deadline time.Time
}

func (e entry[T]) live(now time.Time) bool {
	return now.Before(e.deadline)
}

// MemoryCache keeps values in process memory. Expired entries are hidden from
// readers immediately and reclaimed by Sweep. It is only correct for a single
// instance: a change on one replica is invisible to the others.
type MemoryCache[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
	flight  singleflight.Group
	now     func() time.Time
}

func NewMemoryCache[T any]() *MemoryCache[T] {
	return &MemoryCache[T]{entries: map[string]entry[T]{}, now: time.Now}
}

func (m *MemoryCache[T]) lookup(key string) (T, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || !e.live(m.now()) {
		var zero T
		return zero, false
	}
	return e.value, true
}

func (m *MemoryCache[T]) Get(_ context.Context, key string) (T, error) {
	if v, ok := m.lookup(key); ok {
		return v, nil
	}
	var zero T
	return zero, ErrCacheMiss
}

func (m *MemoryCache[T]) Set(_ context.Context, key string, value T, ttl time.Duration) error {
	m.mu.Lock()
	m.entries[key] = entry[T]{value: value, deadline: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache[T]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Sweep reclaims expired entries and reports how many it dropped.
func (m *MemoryCache[T]) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.entries)
	for key, e := range m.entries {
		if !e.live(now) {
			delete(m.entries, key)
		}
	}
	return before - len(m.entries)
}

// Close empties the cache. It stays usable afterwards.
func (m *MemoryCache[T]) Close() error {
	m.mu.Lock()
	clear(m.entries)
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache[T]) Health(context.Context) error { return nil }

// GetWithFetch lets one caller per key run fetchFunc while the others wait
// for its result.
func (m *MemoryCache[T]) GetWithFetch(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fetchFunc func(ctx context.Context, key string) (T, error),
) (T, error) {
	if v, ok := m.lookup(key); ok {
		return v, nil
	}

	shared, err, _ := m.flight.Do(key, func() (any, error) {
		fresh, err := fetchFunc(ctx, key)
		if err != nil {
			return nil, err
		}
		_ = m.Set(ctx, key, fresh, ttl)
		return fresh, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return shared.(T), nil
}
