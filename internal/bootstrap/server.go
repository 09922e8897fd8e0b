package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-authgate/eventgate/internal/config"
	"github.com/go-authgate/eventgate/internal/core"
	"github.com/go-authgate/eventgate/internal/metrics"
	"github.com/go-authgate/eventgate/internal/services"
	"github.com/go-authgate/eventgate/internal/store"
	"github.com/go-authgate/eventgate/internal/tracing"

	"github.com/appleboy/graceful"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	auditCleanupInterval = 24 * time.Hour
	resetCleanupInterval = time.Hour
	cacheSweepInterval   = 10 * time.Minute
)

// createHTTPServer creates the HTTP server instance. Every request gets an
// OpenTelemetry server span.
func createHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           otelhttp.NewHandler(handler, "eventgate"),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// addServerRunningJob adds the HTTP server running job
func addServerRunningJob(m *graceful.Manager, srv *http.Server) {
	m.AddRunningJob(func(ctx context.Context) error {
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("failed to start server", "error", err)
				os.Exit(1)
			}
		}()
		<-ctx.Done()
		return nil
	})
}

// addServerShutdownJob adds HTTP server shutdown handler
func addServerShutdownJob(m *graceful.Manager, cfg *config.Config, srv *http.Server) {
	m.AddShutdownJob(func() error {
		slog.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
			return err
		}

		slog.Info("server exited")
		return nil
	})
}

// addRedisClientShutdownJob adds Redis client shutdown handler
func addRedisClientShutdownJob(m *graceful.Manager, cfg *config.Config, redisClient *redis.Client) {
	if redisClient == nil {
		return
	}

	m.AddShutdownJob(func() error {
		done := make(chan error, 1)
		go func() { done <- redisClient.Close() }()

		select {
		case err := <-done:
			if err != nil {
				slog.Error("error closing redis client", "error", err)
				return err
			}
			slog.Info("redis connection closed")
			return nil
		case <-time.After(cfg.RedisCloseTimeout):
			slog.Warn("redis close timed out", "timeout", cfg.RedisCloseTimeout)
			return nil
		}
	})
}

// addAuditServiceShutdownJob flushes buffered audit entries
func addAuditServiceShutdownJob(
	m *graceful.Manager,
	cfg *config.Config,
	auditService *services.AuditService,
) {
	m.AddShutdownJob(func() error {
		slog.Info("shutting down audit service")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.AuditShutdownTimeout)
		defer cancel()

		if err := auditService.Shutdown(ctx); err != nil {
			slog.Error("error shutting down audit service", "error", err)
			return err
		}
		return nil
	})
}

// addDatabaseShutdownJob closes the connection pool
func addDatabaseShutdownJob(m *graceful.Manager, cfg *config.Config, db *store.Store) {
	m.AddShutdownJob(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.DBCloseTimeout)
		defer cancel()

		if err := db.Close(ctx); err != nil {
			slog.Error("error closing database", "error", err)
			return err
		}
		slog.Info("database closed")
		return nil
	})
}

// addTracingShutdownJob flushes pending spans
func addTracingShutdownJob(m *graceful.Manager, shutdown tracing.ShutdownFunc) {
	if shutdown == nil {
		return
	}

	m.AddShutdownJob(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := shutdown(ctx); err != nil {
			slog.Error("error shutting down tracer provider", "error", err)
			return err
		}
		return nil
	})
}

// addCacheCleanupJob closes a cache on shutdown
func addCacheCleanupJob[T any](m *graceful.Manager, name string, c core.Cache[T]) {
	if c == nil {
		return
	}

	m.AddShutdownJob(func() error {
		if err := c.Close(); err != nil {
			slog.Error("error closing cache", "cache", name, "error", err)
		} else {
			slog.Info("cache closed", "cache", name)
		}
		return nil
	})
}

// sweeper is implemented by in-process caches that only drop expired
// entries lazily
type sweeper interface {
	Sweep() int
}

// addCacheSweepJob periodically evicts expired entries from an in-memory
// cache. Redis-backed caches expire keys themselves and are skipped.
func addCacheSweepJob[T any](m *graceful.Manager, name string, c core.Cache[T]) {
	s, ok := c.(sweeper)
	if !ok {
		return
	}

	m.AddRunningJob(func(ctx context.Context) error {
		ticker := time.NewTicker(cacheSweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if removed := s.Sweep(); removed > 0 {
					slog.Debug("swept expired cache entries", "cache", name, "removed", removed)
				}
			case <-ctx.Done():
				return nil
			}
		}
	})
}

// runEvery calls fn immediately and then on every tick until ctx ends.
func runEvery(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fn(ctx)
	for {
		select {
		case <-ticker.C:
			fn(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// addAuditLogCleanupJob adds periodic audit log cleanup job
func addAuditLogCleanupJob(
	m *graceful.Manager,
	cfg *config.Config,
	auditService *services.AuditService,
) {
	if !cfg.EnableAuditLogging || cfg.AuditLogRetention <= 0 {
		return
	}

	m.AddRunningJob(func(ctx context.Context) error {
		runEvery(ctx, auditCleanupInterval, func(ctx context.Context) {
			deleted, err := auditService.CleanupOldLogs(ctx, cfg.AuditLogRetention)
			switch {
			case err != nil:
				slog.ErrorContext(ctx, "failed to clean up old audit logs", "error", err)
			case deleted > 0:
				slog.InfoContext(ctx, "cleaned up old audit logs", "deleted", deleted)
			}
		})
		return nil
	})
}

// resetCleaner is the part of AccountService the cleanup job needs
type resetCleaner interface {
	CleanupExpiredResets(ctx context.Context) (int64, error)
}

// addPasswordResetCleanupJob deletes expired password reset rows
func addPasswordResetCleanupJob(m *graceful.Manager, accounts resetCleaner) {
	m.AddRunningJob(func(ctx context.Context) error {
		runEvery(ctx, resetCleanupInterval, func(ctx context.Context) {
			deleted, err := accounts.CleanupExpiredResets(ctx)
			switch {
			case err != nil:
				slog.ErrorContext(ctx, "failed to clean up expired password resets", "error", err)
			case deleted > 0:
				slog.InfoContext(ctx, "cleaned up expired password resets", "deleted", deleted)
			}
		})
		return nil
	})
}

// addMetricsGaugeUpdateJob adds periodic metrics gauge update job
func addMetricsGaugeUpdateJob(
	m *graceful.Manager,
	cfg *config.Config,
	db core.MetricsStore,
	recorder core.Recorder,
	metricsCache core.Cache[int64],
) {
	if !cfg.MetricsEnabled || !cfg.MetricsGaugeUpdateEnabled || metricsCache == nil {
		return
	}

	m.AddRunningJob(func(ctx context.Context) error {
		wrapper := metrics.NewCacheWrapper(db, metricsCache)
		runEvery(ctx, cfg.MetricsGaugeUpdateInterval, func(ctx context.Context) {
			updateGaugeMetricsWithCache(ctx, wrapper, recorder, cfg.MetricsCacheTTL)
		})
		return nil
	})
}

// errorLogger handles rate-limited error logging
type errorLogger struct {
	mu              sync.Mutex
	lastErrorTimes  map[string]time.Time
	rateLimitWindow time.Duration
}

// newErrorLogger creates a new error logger with rate limiting
func newErrorLogger() *errorLogger {
	return &errorLogger{
		lastErrorTimes:  make(map[string]time.Time),
		rateLimitWindow: 5 * time.Minute, // Log at most once per 5 minutes per operation
	}
}

// logIfNeeded logs an error only if rate limit allows. It reports whether
// the error was logged.
func (e *errorLogger) logIfNeeded(operation string, err error) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()
	lastTime, exists := e.lastErrorTimes[operation]
	if exists && now.Sub(lastTime) < e.rateLimitWindow {
		return false
	}

	slog.Error("gauge query failed, further errors suppressed",
		"operation", operation,
		"error", err,
		"suppressed_for", e.rateLimitWindow,
	)
	e.lastErrorTimes[operation] = now
	return true
}

var gaugeErrorLogger = newErrorLogger()

// updateGaugeMetricsWithCache refreshes gauges through the shared cache, so
// several instances hit the database once per TTL.
func updateGaugeMetricsWithCache(
	ctx context.Context,
	wrapper *metrics.CacheWrapper,
	recorder core.Recorder,
	cacheTTL time.Duration,
) {
	users, err := wrapper.GetUsersCount(ctx, cacheTTL)
	if err != nil {
		recorder.RecordDatabaseQueryError("count_users")
		gaugeErrorLogger.logIfNeeded("count_users", err)
	} else {
		recorder.SetUsersCount(users)
	}

	upcoming, err := wrapper.GetUpcomingEventsCount(ctx, cacheTTL)
	if err != nil {
		recorder.RecordDatabaseQueryError("count_upcoming_events")
		gaugeErrorLogger.logIfNeeded("count_upcoming_events", err)
	} else {
		recorder.SetUpcomingEventsCount(upcoming)
	}
}
