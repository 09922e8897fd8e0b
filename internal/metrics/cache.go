package metrics

import (
	"context"
	"time"

	"github.com/go-authgate/eventgate/internal/core"
)

// CacheWrapper reads gauge counts through a shared cache so that several
// instances polling on the same interval hit the database once per TTL.
type CacheWrapper struct {
	store core.MetricsStore
	cache core.Cache[int64]
	now   func() time.Time
}

func NewCacheWrapper(store core.MetricsStore, cache core.Cache[int64]) *CacheWrapper {
	return &CacheWrapper{store: store, cache: cache, now: time.Now}
}

func (m *CacheWrapper) GetUsersCount(ctx context.Context, ttl time.Duration) (int64, error) {
	return m.cache.GetWithFetch(ctx, "users:total", ttl,
		func(ctx context.Context, _ string) (int64, error) {
			return m.store.CountUsers(ctx)
		},
	)
}

func (m *CacheWrapper) GetUpcomingEventsCount(ctx context.Context, ttl time.Duration) (int64, error) {
	return m.cache.GetWithFetch(ctx, "events:upcoming", ttl,
		func(ctx context.Context, _ string) (int64, error) {
			return m.store.CountUpcomingEvents(ctx, m.now())
		},
	)
}
