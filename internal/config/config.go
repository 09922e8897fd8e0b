package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-authgate/eventgate/internal/siteurl"

	"github.com/joho/godotenv"
)

// Database driver constants
const (
	DatabaseDriverSQLite   = "sqlite"
	DatabaseDriverPostgres = "postgres"
)

// Rate limit store constants
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

// Event page cache constants
const (
	EventCacheTypeMemory     = "memory"
	EventCacheTypeRedis      = "redis"
	EventCacheTypeRedisAside = "redis-aside"
)

// Mailer mode constants
const (
	MailerModeLog     = "log"
	MailerModeWebhook = "webhook"
)

const (
	defaultSessionSecret = "session-secret-change-in-production"
	defaultJWTSecret     = "your-256-bit-secret-change-in-production"
)

type Config struct {
	// Server settings
	ServerAddr   string
	IsProduction bool
	LogLevel     string

	// Public URL resolution, in priority order
	SiteURL       siteurl.Config
	BaseURL       string // resolved from SiteURL, always ends with "/"
	BaseURLSource string

	// Session settings
	SessionSecret      string
	SessionMaxAge      int           // seconds
	SessionIdleTimeout time.Duration // 0 disables

	// Password reset tokens
	JWTSecret        string
	PasswordResetTTL time.Duration

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string

	// Rate limiting
	EnableRateLimit          bool
	RateLimitStore           string // "memory" or "redis"
	RateLimitCleanupInterval time.Duration
	LoginRateLimit           int // requests per minute
	SignUpRateLimit          int
	ForgotPasswordRateLimit  int

	// Redis (shared by rate limiting and event cache)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Event page cache
	EventCacheType          string // "memory", "redis" or "redis-aside"
	EventCacheTTL           time.Duration
	EventCacheClientTTL     time.Duration // local TTL for redis-aside
	EventCacheSizePerConnMB int

	// Metrics
	MetricsEnabled             bool
	MetricsToken               string
	MetricsGaugeUpdateEnabled  bool
	MetricsGaugeUpdateInterval time.Duration
	MetricsCacheTTL            time.Duration

	// Audit logging
	EnableAuditLogging bool
	AuditLogBufferSize int
	AuditLogRetention  time.Duration

	// Mail delivery
	MailerMode              string // "log" or "webhook"
	MailerFrom              string
	MailerWebhookURL        string
	MailerWebhookAuthMode   string // "none", "simple" or "hmac"
	MailerWebhookSecret     string
	MailerTimeout           time.Duration
	MailerMaxRetries        int
	MailerRetryDelay        time.Duration
	MailerMaxRetryDelay     time.Duration
	MailerInsecureSkipCheck bool

	// Tracing (disabled when endpoint is empty)
	OTLPEndpoint    string
	OTLPInsecure    bool
	OTelServiceName string

	// Timeouts
	DBInitTimeout         time.Duration
	DBCloseTimeout        time.Duration
	RedisConnTimeout      time.Duration
	RedisCloseTimeout     time.Duration
	CacheInitTimeout      time.Duration
	CacheCloseTimeout     time.Duration
	ServerShutdownTimeout time.Duration
	AuditShutdownTimeout  time.Duration
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	driver := getEnv("DATABASE_DRIVER", DatabaseDriverSQLite)
	var dsn string
	if driver == DatabaseDriverSQLite {
		dsn = getEnv("DATABASE_DSN", "eventgate.db")
	} else {
		dsn = getEnv("DATABASE_DSN", "")
	}

	site := siteurl.Config{
		Sources: []siteurl.Source{
			{Name: "SITE_URL", Value: os.Getenv("SITE_URL")},
			{Name: "DEPLOYMENT_URL", Value: os.Getenv("DEPLOYMENT_URL")},
		},
		Fallback: siteurl.DefaultFallback,
	}

	env := strings.ToLower(getEnv("ENVIRONMENT", "development"))

	return &Config{
		ServerAddr:   getEnv("SERVER_ADDR", ":8080"),
		IsProduction: env == "production" || env == "prod",
		LogLevel:     getEnv("LOG_LEVEL", ""),

		SiteURL:       site,
		BaseURL:       siteurl.Resolve(site),
		BaseURLSource: site.Winner(),

		SessionSecret:      getEnv("SESSION_SECRET", defaultSessionSecret),
		SessionMaxAge:      getEnvInt("SESSION_MAX_AGE", 86400*7),
		SessionIdleTimeout: getEnvDuration("SESSION_IDLE_TIMEOUT", 0),

		JWTSecret:        getEnv("JWT_SECRET", defaultJWTSecret),
		PasswordResetTTL: getEnvDuration("PASSWORD_RESET_TTL", time.Hour),

		DatabaseDriver: driver,
		DatabaseDSN:    dsn,

		EnableRateLimit:          getEnvBool("ENABLE_RATE_LIMIT", true),
		RateLimitStore:           getEnv("RATE_LIMIT_STORE", RateLimitStoreMemory),
		RateLimitCleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		LoginRateLimit:           getEnvInt("LOGIN_RATE_LIMIT", 5),
		SignUpRateLimit:          getEnvInt("SIGNUP_RATE_LIMIT", 5),
		ForgotPasswordRateLimit:  getEnvInt("FORGOT_PASSWORD_RATE_LIMIT", 3),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		EventCacheType:          getEnv("EVENT_CACHE_TYPE", EventCacheTypeMemory),
		EventCacheTTL:           getEnvDuration("EVENT_CACHE_TTL", 5*time.Minute),
		EventCacheClientTTL:     getEnvDuration("EVENT_CACHE_CLIENT_TTL", 30*time.Second),
		EventCacheSizePerConnMB: getEnvInt("EVENT_CACHE_SIZE_PER_CONN", 32),

		MetricsEnabled:             getEnvBool("METRICS_ENABLED", false),
		MetricsToken:               getEnv("METRICS_TOKEN", ""),
		MetricsGaugeUpdateEnabled:  getEnvBool("METRICS_GAUGE_UPDATE_ENABLED", true),
		MetricsGaugeUpdateInterval: getEnvDuration("METRICS_GAUGE_UPDATE_INTERVAL", 5*time.Minute),
		MetricsCacheTTL:            getEnvDuration("METRICS_CACHE_TTL", 5*time.Minute),

		EnableAuditLogging: getEnvBool("ENABLE_AUDIT_LOGGING", true),
		AuditLogBufferSize: getEnvInt("AUDIT_LOG_BUFFER_SIZE", 1000),
		AuditLogRetention:  getEnvDuration("AUDIT_LOG_RETENTION", 90*24*time.Hour),

		MailerMode:              getEnv("MAILER_MODE", MailerModeLog),
		MailerFrom:              getEnv("MAILER_FROM", "no-reply@localhost"),
		MailerWebhookURL:        getEnv("MAILER_WEBHOOK_URL", ""),
		MailerWebhookAuthMode:   getEnv("MAILER_WEBHOOK_AUTH_MODE", "none"),
		MailerWebhookSecret:     getEnv("MAILER_WEBHOOK_SECRET", ""),
		MailerTimeout:           getEnvDuration("MAILER_TIMEOUT", 10*time.Second),
		MailerMaxRetries:        getEnvInt("MAILER_MAX_RETRIES", 3),
		MailerRetryDelay:        getEnvDuration("MAILER_RETRY_DELAY", time.Second),
		MailerMaxRetryDelay:     getEnvDuration("MAILER_MAX_RETRY_DELAY", 10*time.Second),
		MailerInsecureSkipCheck: getEnvBool("MAILER_INSECURE_SKIP_VERIFY", false),

		OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:    getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", false),
		OTelServiceName: getEnv("OTEL_SERVICE_NAME", "eventgate"),

		DBInitTimeout:         getEnvDuration("DB_INIT_TIMEOUT", 30*time.Second),
		DBCloseTimeout:        getEnvDuration("DB_CLOSE_TIMEOUT", 5*time.Second),
		RedisConnTimeout:      getEnvDuration("REDIS_CONN_TIMEOUT", 5*time.Second),
		RedisCloseTimeout:     getEnvDuration("REDIS_CLOSE_TIMEOUT", 5*time.Second),
		CacheInitTimeout:      getEnvDuration("CACHE_INIT_TIMEOUT", 5*time.Second),
		CacheCloseTimeout:     getEnvDuration("CACHE_CLOSE_TIMEOUT", 5*time.Second),
		ServerShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
		AuditShutdownTimeout:  getEnvDuration("AUDIT_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Validate checks enumerated settings and settings that depend on each other.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DatabaseDriverSQLite, DatabaseDriverPostgres:
	default:
		return fmt.Errorf("invalid DATABASE_DRIVER value: %q (must be sqlite or postgres)",
			c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN is required")
	}

	switch c.RateLimitStore {
	case RateLimitStoreMemory, RateLimitStoreRedis:
	default:
		return fmt.Errorf("invalid RATE_LIMIT_STORE value: %q (must be memory or redis)",
			c.RateLimitStore)
	}
	if c.EnableRateLimit && c.RateLimitStore == RateLimitStoreRedis && c.RedisAddr == "" {
		return errors.New("REDIS_ADDR is required when RATE_LIMIT_STORE=redis")
	}

	switch c.EventCacheType {
	case EventCacheTypeMemory:
	case EventCacheTypeRedis, EventCacheTypeRedisAside:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when EVENT_CACHE_TYPE=%s", c.EventCacheType)
		}
	default:
		return fmt.Errorf(
			"invalid EVENT_CACHE_TYPE value: %q (must be memory, redis or redis-aside)",
			c.EventCacheType,
		)
	}
	if c.EventCacheTTL <= 0 {
		return errors.New("EVENT_CACHE_TTL must be positive")
	}

	switch c.MailerMode {
	case MailerModeLog:
	case MailerModeWebhook:
		if c.MailerWebhookURL == "" {
			return errors.New("MAILER_WEBHOOK_URL is required when MAILER_MODE=webhook")
		}
	default:
		return fmt.Errorf("invalid MAILER_MODE value: %q (must be log or webhook)", c.MailerMode)
	}

	if c.PasswordResetTTL <= 0 {
		return errors.New("PASSWORD_RESET_TTL must be positive")
	}

	if c.IsProduction {
		if c.SessionSecret == defaultSessionSecret {
			return errors.New("SESSION_SECRET must be set in production")
		}
		if c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be set in production")
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
