package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-authgate/eventgate/internal/config"
	"github.com/go-authgate/eventgate/internal/core"
	"github.com/go-authgate/eventgate/internal/handlers"
	"github.com/go-authgate/eventgate/internal/models"
	"github.com/go-authgate/eventgate/internal/store"
	"github.com/go-authgate/eventgate/internal/tracing"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config

	// Core infrastructure
	DB              *store.Store
	MetricsRecorder core.Recorder
	MetricsCache    core.Cache[int64] // nil unless gauge updates are enabled
	EventCache      core.Cache[models.Event]
	RedisClient     *redis.Client // nil unless rate limiting uses Redis
	TracingShutdown tracing.ShutdownFunc

	// Business layer
	Mailer   core.Mailer
	Services serviceSet

	// HTTP
	Handlers handlerSet
	Router   *gin.Engine
	Server   *http.Server
}

// Run initializes every component and serves until SIGINT or SIGTERM.
func Run(ctx context.Context, cfg *config.Config) error {
	app := &Application{Config: cfg}

	// Phase 1: Validate configuration
	if err := validateAllConfiguration(cfg); err != nil {
		return err
	}

	// Phase 2: Initialize infrastructure
	if err := app.initializeInfrastructure(ctx); err != nil {
		app.closeInfrastructure()
		return err
	}

	// Phase 3: Initialize business layer
	if err := app.initializeBusinessLayer(); err != nil {
		app.closeInfrastructure()
		return err
	}

	// Phase 4: Initialize HTTP layer
	if err := app.initializeHTTPLayer(); err != nil {
		app.closeInfrastructure()
		return err
	}

	// Phase 5: Start server with graceful shutdown
	app.startWithGracefulShutdown()

	return nil
}

// initializeInfrastructure sets up tracing, database, metrics, caches and Redis
func (app *Application) initializeInfrastructure(ctx context.Context) error {
	var err error

	app.TracingShutdown, err = initializeTracing(ctx, app.Config)
	if err != nil {
		return err
	}

	app.DB, err = initializeDatabase(ctx, app.Config)
	if err != nil {
		return err
	}

	app.MetricsRecorder = initializeMetrics(app.Config)
	app.MetricsCache, err = initializeMetricsCache(ctx, app.Config)
	if err != nil {
		return err
	}

	app.EventCache, err = initializeEventCache(ctx, app.Config)
	if err != nil {
		return err
	}

	app.RedisClient, err = initializeRateLimitRedisClient(ctx, app.Config)
	if err != nil {
		return err
	}

	return nil
}

// initializeBusinessLayer sets up the mailer and services
func (app *Application) initializeBusinessLayer() error {
	var err error

	app.Mailer, err = initializeMailer(app.Config, app.MetricsRecorder)
	if err != nil {
		return err
	}

	app.Services = initializeServices(
		app.Config,
		app.DB,
		app.EventCache,
		app.Mailer,
		app.MetricsRecorder,
	)
	return nil
}

// initializeHTTPLayer sets up handlers, rate limiters, router, and server
func (app *Application) initializeHTTPLayer() error {
	app.Handlers = initializeHandlers(app.DB, app.Services, app.MetricsRecorder, app.healthComponents())

	limiters, err := setupRateLimiting(app.Config, app.Services.audit, app.RedisClient)
	if err != nil {
		return err
	}

	app.Router = setupRouter(app.Config, app.Handlers, app.Services, app.MetricsRecorder, limiters)
	app.Server = createHTTPServer(app.Config, app.Router)
	return nil
}

// healthComponents lists the optional dependencies reported by /health.
func (app *Application) healthComponents() map[string]handlers.HealthChecker {
	components := map[string]handlers.HealthChecker{
		"event_cache": app.EventCache,
	}
	if app.RedisClient != nil {
		components["rate_limit_redis"] = redisHealth{client: app.RedisClient}
	}
	return components
}

// closeInfrastructure releases whatever initializeInfrastructure opened when
// a later phase fails.
func (app *Application) closeInfrastructure() {
	var errs []error
	if app.RedisClient != nil {
		errs = append(errs, app.RedisClient.Close())
	}
	if app.EventCache != nil {
		errs = append(errs, app.EventCache.Close())
	}
	if app.MetricsCache != nil {
		errs = append(errs, app.MetricsCache.Close())
	}
	if app.DB != nil {
		ctx, cancel := context.WithTimeout(context.Background(), app.Config.DBCloseTimeout)
		errs = append(errs, app.DB.Close(ctx))
		cancel()
	}
	if app.TracingShutdown != nil {
		errs = append(errs, app.TracingShutdown(context.Background()))
	}
	if err := errors.Join(errs...); err != nil {
		slog.Error("cleanup after failed startup", "error", err)
	}
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager()

	// Running jobs
	addServerRunningJob(m, app.Server)
	addAuditLogCleanupJob(m, app.Config, app.Services.audit)
	addPasswordResetCleanupJob(m, app.Services.accounts)
	addMetricsGaugeUpdateJob(m, app.Config, app.DB, app.MetricsRecorder, app.MetricsCache)
	addCacheSweepJob(m, "event", app.EventCache)
	addCacheSweepJob(m, "metrics", app.MetricsCache)

	// Shutdown jobs
	addServerShutdownJob(m, app.Config, app.Server)
	addAuditServiceShutdownJob(m, app.Config, app.Services.audit)
	addRedisClientShutdownJob(m, app.Config, app.RedisClient)
	addCacheCleanupJob(m, "event", app.EventCache)
	addCacheCleanupJob(m, "metrics", app.MetricsCache)
	addDatabaseShutdownJob(m, app.Config, app.DB)
	addTracingShutdownJob(m, app.TracingShutdown)

	<-m.Done()
}
