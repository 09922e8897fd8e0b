package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		DatabaseDriver:   DatabaseDriverSQLite,
		DatabaseDSN:      ":memory:",
		RateLimitStore:   RateLimitStoreMemory,
		EventCacheType:   EventCacheTypeMemory,
		EventCacheTTL:    5 * time.Minute,
		MailerMode:       MailerModeLog,
		PasswordResetTTL: time.Hour,
		SessionSecret:    defaultSessionSecret,
		JWTSecret:        defaultJWTSecret,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		errorMsg string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:     "unknown database driver",
			mutate:   func(c *Config) { c.DatabaseDriver = "mysql" },
			errorMsg: `invalid DATABASE_DRIVER value: "mysql"`,
		},
		{
			name: "postgres without dsn",
			mutate: func(c *Config) {
				c.DatabaseDriver = DatabaseDriverPostgres
				c.DatabaseDSN = ""
			},
			errorMsg: "DATABASE_DSN is required",
		},
		{
			name:     "rate limit store typo",
			mutate:   func(c *Config) { c.RateLimitStore = "reddis" },
			errorMsg: `invalid RATE_LIMIT_STORE value: "reddis"`,
		},
		{
			name:     "rate limit store uppercase",
			mutate:   func(c *Config) { c.RateLimitStore = "MEMORY" },
			errorMsg: `invalid RATE_LIMIT_STORE value: "MEMORY"`,
		},
		{
			name: "redis rate limit without address",
			mutate: func(c *Config) {
				c.EnableRateLimit = true
				c.RateLimitStore = RateLimitStoreRedis
			},
			errorMsg: "REDIS_ADDR is required when RATE_LIMIT_STORE=redis",
		},
		{
			name: "redis rate limit disabled needs no address",
			mutate: func(c *Config) {
				c.EnableRateLimit = false
				c.RateLimitStore = RateLimitStoreRedis
			},
		},
		{
			name: "redis-aside event cache with address",
			mutate: func(c *Config) {
				c.EventCacheType = EventCacheTypeRedisAside
				c.RedisAddr = "localhost:6379"
			},
		},
		{
			name:     "redis event cache without address",
			mutate:   func(c *Config) { c.EventCacheType = EventCacheTypeRedis },
			errorMsg: "REDIS_ADDR is required when EVENT_CACHE_TYPE=redis",
		},
		{
			name:     "unknown event cache type",
			mutate:   func(c *Config) { c.EventCacheType = "memcached" },
			errorMsg: `invalid EVENT_CACHE_TYPE value: "memcached"`,
		},
		{
			name:     "zero event cache ttl",
			mutate:   func(c *Config) { c.EventCacheTTL = 0 },
			errorMsg: "EVENT_CACHE_TTL must be positive",
		},
		{
			name:     "webhook mailer without url",
			mutate:   func(c *Config) { c.MailerMode = MailerModeWebhook },
			errorMsg: "MAILER_WEBHOOK_URL is required",
		},
		{
			name:     "unknown mailer mode",
			mutate:   func(c *Config) { c.MailerMode = "smtp" },
			errorMsg: `invalid MAILER_MODE value: "smtp"`,
		},
		{
			name:     "negative reset ttl",
			mutate:   func(c *Config) { c.PasswordResetTTL = -time.Second },
			errorMsg: "PASSWORD_RESET_TTL must be positive",
		},
		{
			name:     "production with default session secret",
			mutate:   func(c *Config) { c.IsProduction = true },
			errorMsg: "SESSION_SECRET must be set in production",
		},
		{
			name: "production with default jwt secret",
			mutate: func(c *Config) {
				c.IsProduction = true
				c.SessionSecret = "a-real-secret"
			},
			errorMsg: "JWT_SECRET must be set in production",
		},
		{
			name: "production with real secrets",
			mutate: func(c *Config) {
				c.IsProduction = true
				c.SessionSecret = "a-real-secret"
				c.JWTSecret = "another-real-secret"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.errorMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoad_SiteURL(t *testing.T) {
	t.Run("fallback", func(t *testing.T) {
		t.Setenv("SITE_URL", "")
		t.Setenv("DEPLOYMENT_URL", "")

		cfg := Load()
		assert.Equal(t, "http://localhost:8080/", cfg.BaseURL)
		assert.Equal(t, "fallback", cfg.BaseURLSource)
	})

	t.Run("deployment host gets https", func(t *testing.T) {
		t.Setenv("SITE_URL", "")
		t.Setenv("DEPLOYMENT_URL", "eventgate-git-main.example.app")

		cfg := Load()
		assert.Equal(t, "https://eventgate-git-main.example.app/", cfg.BaseURL)
		assert.Equal(t, "DEPLOYMENT_URL", cfg.BaseURLSource)
	})

	t.Run("site url beats deployment url", func(t *testing.T) {
		t.Setenv("SITE_URL", "https://events.example.com//")
		t.Setenv("DEPLOYMENT_URL", "eventgate-git-main.example.app")

		cfg := Load()
		assert.Equal(t, "https://events.example.com/", cfg.BaseURL)
		assert.Equal(t, "SITE_URL", cfg.BaseURLSource)
	})
}

func TestLoad_Environment(t *testing.T) {
	for _, env := range []string{"production", "prod", "PRODUCTION"} {
		t.Run(env, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", env)
			assert.True(t, Load().IsProduction)
		})
	}

	t.Run("development", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "development")
		assert.False(t, Load().IsProduction)
	})
}

func TestLoad_DatabaseDSNDefault(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "")

	cfg := Load()
	assert.Empty(t, cfg.DatabaseDSN)
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_DSN is required")
}

func TestLoad_Timeouts(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.DBInitTimeout)
	assert.Equal(t, 5*time.Second, cfg.DBCloseTimeout)
	assert.Equal(t, 5*time.Second, cfg.RedisConnTimeout)
	assert.Equal(t, 5*time.Second, cfg.RedisCloseTimeout)
	assert.Equal(t, 5*time.Second, cfg.CacheInitTimeout)
	assert.Equal(t, 5*time.Second, cfg.CacheCloseTimeout)
	assert.Equal(t, 5*time.Second, cfg.ServerShutdownTimeout)
	assert.Equal(t, 10*time.Second, cfg.AuditShutdownTimeout)
	assert.Equal(t, time.Hour, cfg.PasswordResetTTL)
}

func TestLoad_DurationsFromEnv(t *testing.T) {
	tests := []struct {
		envKey   string
		envValue string
		getter   func(*Config) time.Duration
		expected time.Duration
	}{
		{"DB_INIT_TIMEOUT", "60s", func(c *Config) time.Duration { return c.DBInitTimeout }, time.Minute},
		{"REDIS_CONN_TIMEOUT", "10s", func(c *Config) time.Duration { return c.RedisConnTimeout }, 10 * time.Second},
		{"SERVER_SHUTDOWN_TIMEOUT", "30s", func(c *Config) time.Duration { return c.ServerShutdownTimeout }, 30 * time.Second},
		{"PASSWORD_RESET_TTL", "15m", func(c *Config) time.Duration { return c.PasswordResetTTL }, 15 * time.Minute},
		{"EVENT_CACHE_TTL", "1m", func(c *Config) time.Duration { return c.EventCacheTTL }, time.Minute},
		{"MAILER_TIMEOUT", "2s", func(c *Config) time.Duration { return c.MailerTimeout }, 2 * time.Second},
		// invalid values fall back to the default
		{"DB_INIT_TIMEOUT", "invalid", func(c *Config) time.Duration { return c.DBInitTimeout }, 30 * time.Second},
		{"CACHE_INIT_TIMEOUT", "", func(c *Config) time.Duration { return c.CacheInitTimeout }, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.envKey+"="+tt.envValue, func(t *testing.T) {
			t.Setenv(tt.envKey, tt.envValue)
			assert.Equal(t, tt.expected, tt.getter(Load()))
		})
	}
}

func TestLoad_RateLimits(t *testing.T) {
	t.Setenv("LOGIN_RATE_LIMIT", "20")
	t.Setenv("FORGOT_PASSWORD_RATE_LIMIT", "not-a-number")
	t.Setenv("ENABLE_RATE_LIMIT", "false")

	cfg := Load()
	assert.Equal(t, 20, cfg.LoginRateLimit)
	assert.Equal(t, 3, cfg.ForgotPasswordRateLimit)
	assert.Equal(t, 5, cfg.SignUpRateLimit)
	assert.False(t, cfg.EnableRateLimit)
}
