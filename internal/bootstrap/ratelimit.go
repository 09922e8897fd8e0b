package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/go-authgate/eventgate/internal/config"
	"github.com/go-authgate/eventgate/internal/middleware"
	"github.com/go-authgate/eventgate/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// rateLimitMiddlewares holds rate limiting middlewares for the credential
// endpoints
type rateLimitMiddlewares struct {
	login          gin.HandlerFunc
	signUp         gin.HandlerFunc
	forgotPassword gin.HandlerFunc
}

// setupRateLimiting configures rate limiting middlewares based on
// configuration. redisClient is only used by the redis store.
func setupRateLimiting(
	cfg *config.Config,
	auditService *services.AuditService,
	redisClient *redis.Client,
) (rateLimitMiddlewares, error) {
	if !cfg.EnableRateLimit {
		noop := func(c *gin.Context) { c.Next() }
		slog.Info("rate limiting disabled")
		return rateLimitMiddlewares{login: noop, signUp: noop, forgotPassword: noop}, nil
	}

	storeType := middleware.RateLimitStoreType(cfg.RateLimitStore)
	slog.Info("rate limiting enabled", "store", storeType)

	create := func(name string, requestsPerMinute int) (gin.HandlerFunc, error) {
		limiter, err := middleware.NewRateLimiter(middleware.RateLimitConfig{
			Name:              name,
			RequestsPerMinute: requestsPerMinute,
			CleanupInterval:   cfg.RateLimitCleanupInterval,
			StoreType:         storeType,
			RedisClient:       redisClient,
			Audit:             auditService,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s rate limiter: %w", name, err)
		}
		return limiter, nil
	}

	var (
		limiters rateLimitMiddlewares
		err      error
	)
	if limiters.login, err = create("login", cfg.LoginRateLimit); err != nil {
		return limiters, err
	}
	if limiters.signUp, err = create("signup", cfg.SignUpRateLimit); err != nil {
		return limiters, err
	}
	if limiters.forgotPassword, err = create("forgot_password", cfg.ForgotPasswordRateLimit); err != nil {
		return limiters, err
	}
	return limiters, nil
}
