package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-authgate/eventgate/internal/models"
	"github.com/go-authgate/eventgate/internal/services"
	"github.com/go-authgate/eventgate/internal/templates"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	limiterRedis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimitStoreType defines the type of rate limit store
type RateLimitStoreType string

const (
	// RateLimitStoreMemory uses in-memory storage (single instance only)
	RateLimitStoreMemory RateLimitStoreType = "memory"
	// RateLimitStoreRedis uses Redis storage (shared across instances)
	RateLimitStoreRedis RateLimitStoreType = "redis"
)

// RateLimitConfig configures one limiter. Each limited route gets its own
// limiter so a burst on /login does not eat the /signup budget.
type RateLimitConfig struct {
	Name              string // key prefix and audit label, e.g. "login"
	RequestsPerMinute int
	CleanupInterval   time.Duration

	StoreType   RateLimitStoreType
	RedisClient *redis.Client // required for the redis store; owned by the caller

	Audit *services.AuditService // optional
}

// NewRateLimiter creates a per-IP rate limiter backed by memory or Redis.
func NewRateLimiter(config RateLimitConfig) (gin.HandlerFunc, error) {
	if config.RequestsPerMinute <= 0 {
		return nil, fmt.Errorf("rate limit for %q must be positive", config.Name)
	}

	rate := limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  int64(config.RequestsPerMinute),
	}

	prefix := "ratelimit"
	if config.Name != "" {
		prefix += ":" + config.Name
	}
	options := limiter.StoreOptions{
		Prefix:          prefix,
		CleanUpInterval: config.CleanupInterval,
	}

	var store limiter.Store
	switch config.StoreType {
	case RateLimitStoreRedis:
		if config.RedisClient == nil {
			return nil, errors.New("redis rate limit store requires a redis client")
		}
		var err error
		store, err = limiterRedis.NewStoreWithOptions(config.RedisClient, options)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
	default:
		if options.CleanUpInterval > 0 {
			store = memory.NewStoreWithOptions(options)
		} else {
			store = memory.NewStore()
		}
	}

	instance := limiter.New(store, rate)

	return mgin.NewMiddleware(instance, mgin.WithLimitReachedHandler(func(c *gin.Context) {
		if config.Audit != nil {
			config.Audit.Log(c.Request.Context(), services.AuditLogEntry{
				EventType:    models.EventRateLimitExceeded,
				Severity:     models.SeverityWarning,
				ResourceType: models.ResourceRequest,
				ResourceName: config.Name,
				Action:       "Rate limit exceeded",
				Details:      models.AuditDetails{"limit_per_minute": config.RequestsPerMinute},
				Success:      false,
			})
		}
		rateLimited(c)
	})), nil
}

func rateLimited(c *gin.Context) {
	const message = "Too many requests. Please try again later."

	if strings.Contains(c.GetHeader("Accept"), "text/html") {
		templates.RenderTempl(c, http.StatusTooManyRequests, templates.ErrorPage(templates.ErrorPageProps{
			Error:   "Rate Limit Exceeded",
			Message: message,
		}))
	} else {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":             "rate_limit_exceeded",
			"error_description": message,
		})
	}
	c.Abort()
}

// NewMemoryRateLimiter creates an in-memory rate limiter (single instance)
func NewMemoryRateLimiter(name string, requestsPerMinute int) (gin.HandlerFunc, error) {
	return NewRateLimiter(RateLimitConfig{
		Name:              name,
		RequestsPerMinute: requestsPerMinute,
		StoreType:         RateLimitStoreMemory,
		CleanupInterval:   5 * time.Minute,
	})
}
