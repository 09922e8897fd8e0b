package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-authgate/eventgate/internal/cache"
	"github.com/go-authgate/eventgate/internal/metrics"
	"github.com/go-authgate/eventgate/internal/models"
	"github.com/go-authgate/eventgate/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

// disabledAudit drops every entry.
func disabledAudit(s *store.Store) *AuditService {
	return NewAuditService(s, false, 0)
}

func makeTestUser(t *testing.T, s *store.Store, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	u := &models.User{
		ID:           uuid.New().String(),
		Email:        uuid.New().String()[:8] + "@example.com",
		PasswordHash: string(hash),
		FullName:     "Test User",
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func newTestEventService(t *testing.T, s *store.Store) *EventService {
	t.Helper()
	return NewEventService(
		s,
		cache.NewMemoryCache[models.Event](),
		time.Minute,
		disabledAudit(s),
		metrics.NewNoopMetrics(),
	)
}

// callFetchFn is a DoAndReturn helper that invokes the cache fetch function,
// simulating a cache miss where the real DB fetch is executed.
func callFetchFn[T any](
	ctx context.Context,
	key string,
	_ time.Duration,
	fn func(context.Context, string) (T, error),
) (T, error) {
	return fn(ctx, key)
}
