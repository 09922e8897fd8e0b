package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-authgate/eventgate/internal/cache"
	"github.com/go-authgate/eventgate/internal/config"
	"github.com/go-authgate/eventgate/internal/core"
	"github.com/go-authgate/eventgate/internal/metrics"
	"github.com/go-authgate/eventgate/internal/models"
)

const (
	eventCacheKeyPrefix   = "eventgate:events:"
	metricsCacheKeyPrefix = "eventgate:metrics:"
)

// initializeMetrics initializes Prometheus metrics
func initializeMetrics(cfg *config.Config) core.Recorder {
	recorder := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		slog.Info("prometheus metrics initialized")
	} else {
		slog.Info("metrics disabled (using noop implementation)")
	}
	return recorder
}

// initializeMetricsCache builds the cache shared by gauge updates. It returns
// nil when gauges are not collected.
func initializeMetricsCache(ctx context.Context, cfg *config.Config) (core.Cache[int64], error) {
	if !cfg.MetricsEnabled || !cfg.MetricsGaugeUpdateEnabled {
		return nil, nil //nolint:nilnil // no cache needed in this configuration
	}
	return newCache[int64](ctx, cfg, "metrics", metricsCacheKeyPrefix)
}

// initializeEventCache builds the event page cache (always enabled, defaults
// to memory).
func initializeEventCache(ctx context.Context, cfg *config.Config) (core.Cache[models.Event], error) {
	return newCache[models.Event](ctx, cfg, "event", eventCacheKeyPrefix)
}

// newCache creates a cache of the type selected by EVENT_CACHE_TYPE.
func newCache[T any](
	ctx context.Context,
	cfg *config.Config,
	name, keyPrefix string,
) (core.Cache[T], error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.CacheInitTimeout)
	defer cancel()

	redisOpts := cache.RedisOptions{
		Addr:      cfg.RedisAddr,
		Password:  cfg.RedisPassword,
		DB:        cfg.RedisDB,
		KeyPrefix: keyPrefix,
	}

	switch cfg.EventCacheType {
	case config.EventCacheTypeRedisAside:
		c, err := cache.NewRueidisAsideCache[T](redisOpts, cache.AsideOptions{
			ClientTTL:     cfg.EventCacheClientTTL,
			SizePerConnMB: cfg.EventCacheSizePerConnMB,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis-aside %s cache: %w", name, err)
		}
		slog.Info(name+" cache: redis-aside",
			"addr", cfg.RedisAddr,
			"db", cfg.RedisDB,
			"client_ttl", cfg.EventCacheClientTTL,
			"cache_size_per_conn_mb", cfg.EventCacheSizePerConnMB,
		)
		return c, nil

	case config.EventCacheTypeRedis:
		c, err := cache.NewRueidisCache[T](ctx, redisOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis %s cache: %w", name, err)
		}
		slog.Info(name+" cache: redis", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return c, nil

	default: // memory
		slog.Info(name + " cache: memory (single instance only)")
		return cache.NewMemoryCache[T](), nil
	}
}
