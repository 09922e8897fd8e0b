package middleware

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-authgate/eventgate/internal/models"
	"github.com/go-authgate/eventgate/internal/services"
	"github.com/go-authgate/eventgate/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func limitedRouter(t *testing.T, limiter gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(limiter)
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return router
}

func fromIP(r http.Handler, ip, accept string) int {
	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Forwarded-For", ip)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return do(r, req, nil).Code
}

func TestNewMemoryRateLimiter(t *testing.T) {
	limiter, err := NewMemoryRateLimiter("login", 5)
	require.NoError(t, err)
	router := limitedRouter(t, limiter)

	for i := range 5 {
		assert.Equal(t, http.StatusOK, fromIP(router, "192.168.1.100", ""), "request %d", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, fromIP(router, "192.168.1.100", ""))
}

func TestNewRateLimiter_RejectsNonPositiveLimit(t *testing.T) {
	_, err := NewRateLimiter(RateLimitConfig{Name: "login", RequestsPerMinute: 0})
	assert.Error(t, err)
}

func TestNewRateLimiter_RedisNeedsClient(t *testing.T) {
	_, err := NewRateLimiter(RateLimitConfig{
		Name:              "login",
		RequestsPerMinute: 5,
		StoreType:         RateLimitStoreRedis,
	})
	assert.ErrorContains(t, err, "redis client")
}

func TestRateLimiter_DifferentIPs(t *testing.T) {
	limiter, err := NewRateLimiter(RateLimitConfig{
		Name:              "signup",
		RequestsPerMinute: 2,
		StoreType:         RateLimitStoreMemory,
	})
	require.NoError(t, err)
	router := limitedRouter(t, limiter)

	for _, ip := range []string{"192.168.1.1", "192.168.1.2", "192.168.1.3"} {
		for i := range 2 {
			assert.Equal(t, http.StatusOK, fromIP(router, ip, ""), "request %d from %s", i+1, ip)
		}
		assert.Equal(t, http.StatusTooManyRequests, fromIP(router, ip, ""), "third request from %s", ip)
	}
}

func TestRateLimiter_Responses(t *testing.T) {
	tests := []struct {
		name        string
		accept      string
		contentType string
		contains    []string
		notContains string
	}{
		{
			name:        "browser gets an HTML page",
			accept:      "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			contentType: "text/html; charset=utf-8",
			contains:    []string{"Rate Limit Exceeded", "Too many requests. Please try again later.", "<html"},
		},
		{
			name:        "API client gets JSON",
			accept:      "application/json",
			contentType: "application/json; charset=utf-8",
			contains:    []string{"rate_limit_exceeded", "Too many requests"},
			notContains: "<html",
		},
		{
			name:        "no Accept header gets JSON",
			contentType: "application/json; charset=utf-8",
			contains:    []string{"rate_limit_exceeded"},
			notContains: "<html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter, err := NewMemoryRateLimiter("forgot-password", 1)
			require.NoError(t, err)
			router := limitedRouter(t, limiter)

			assert.Equal(t, http.StatusOK, fromIP(router, "192.168.1.50", tt.accept))

			req, _ := http.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("X-Forwarded-For", "192.168.1.50")
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			w := do(router, req, nil)

			assert.Equal(t, http.StatusTooManyRequests, w.Code)
			assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
			for _, s := range tt.contains {
				assert.Contains(t, w.Body.String(), s)
			}
			if tt.notContains != "" {
				assert.NotContains(t, w.Body.String(), tt.notContains)
			}
		})
	}
}

func TestRateLimiter_AuditsRejections(t *testing.T) {
	s := setupTestStore(t)
	audit := services.NewAuditService(s, true, 10)

	limiter, err := NewRateLimiter(RateLimitConfig{
		Name:              "login",
		RequestsPerMinute: 1,
		StoreType:         RateLimitStoreMemory,
		Audit:             audit,
	})
	require.NoError(t, err)
	router := limitedRouter(t, limiter)

	assert.Equal(t, http.StatusOK, fromIP(router, "198.51.100.9", ""))
	assert.Equal(t, http.StatusTooManyRequests, fromIP(router, "198.51.100.9", ""))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, audit.Shutdown(ctx))

	logs, _, err := audit.GetAuditLogs(
		context.Background(),
		store.NewPaginationParams(1, 10, ""),
		store.AuditLogFilters{EventType: models.EventRateLimitExceeded},
	)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "login", logs[0].ResourceName)
	assert.Equal(t, models.SeverityWarning, logs[0].Severity)
	assert.False(t, logs[0].Success)
}

// TestRedisRateLimiter_SharedAcrossInstances simulates two replicas sharing
// one Redis-backed budget.
func TestRedisRateLimiter_SharedAcrossInstances(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping Redis integration test in short mode")
	}

	// testcontainers panics when no Docker daemon is reachable
	defer func() {
		if r := recover(); r != nil {
			t.Skipf("Skipping Redis test: Docker not available (panic: %v)", r)
		}
	}()

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("Skipping Redis test: Docker not available (%v)", err)
		return
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	addr, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())

	newLimiter := func() gin.HandlerFunc {
		limiter, err := NewRateLimiter(RateLimitConfig{
			Name:              "login",
			RequestsPerMinute: 5,
			StoreType:         RateLimitStoreRedis,
			RedisClient:       client,
		})
		require.NoError(t, err)
		return limiter
	}
	pod1 := limitedRouter(t, newLimiter())
	pod2 := limitedRouter(t, newLimiter())

	const ip = "192.168.88.1"
	for i := range 3 {
		assert.Equal(t, http.StatusOK, fromIP(pod1, ip, ""), "pod1 request %d", i+1)
	}
	for i := range 2 {
		assert.Equal(t, http.StatusOK, fromIP(pod2, ip, ""), "pod2 request %d", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, fromIP(pod1, ip, ""))
	assert.Equal(t, http.StatusTooManyRequests, fromIP(pod2, ip, ""))
}
