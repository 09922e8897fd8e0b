package bootstrap

import (
	"log/slog"
	"net/http"

	"github.com/go-authgate/eventgate/internal/config"
	"github.com/go-authgate/eventgate/internal/core"
	"github.com/go-authgate/eventgate/internal/handlers"
	"github.com/go-authgate/eventgate/internal/metrics"
	"github.com/go-authgate/eventgate/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const sessionCookieName = "eventgate_session"

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	h handlerSet,
	s serviceSet,
	recorder core.Recorder,
	limiters rateLimitMiddlewares,
) *gin.Engine {
	setupGinMode(cfg)
	r := gin.New()
	// gin.Context used as a context.Context sees the request's values.
	r.ContextWithFallback = true

	r.Use(metrics.HTTPMetricsMiddleware(recorder))
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.RequestInfoMiddleware())

	setupSessionMiddleware(r, cfg)
	r.Use(middleware.LoadUser(s.accounts), middleware.CSRFMiddleware())

	r.NoRoute(handlers.NotFound)
	r.GET("/health", h.health.Health)
	setupMetricsEndpoint(r, cfg)
	setupAllRoutes(r, h, limiters)

	logServerStartup(cfg)

	return r
}

// setupSessionMiddleware configures cookie sessions and the idle timeout
func setupSessionMiddleware(r *gin.Engine, cfg *config.Config) {
	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionCookieName, sessionStore))
	r.Use(middleware.SessionIdleTimeout(cfg.SessionIdleTimeout))
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	switch {
	case !cfg.MetricsEnabled:
		slog.Info("prometheus metrics endpoint disabled")
	case cfg.MetricsToken != "":
		slog.Info("prometheus metrics enabled at /metrics with bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		slog.Info("prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// setupAllRoutes configures all application routes
func setupAllRoutes(r *gin.Engine, h handlerSet, limiters rateLimitMiddlewares) {
	// Public pages
	r.GET("/", h.home.Home)
	r.GET("/events", h.events.ListEvents)
	r.GET("/events/:slug", h.events.ShowEvent)

	// Credentials
	r.GET("/login", h.auth.LoginPage)
	r.POST("/login", limiters.login, h.auth.Login)
	r.GET("/signup", h.auth.SignUpPage)
	r.POST("/signup", limiters.signUp, h.auth.SignUp)
	r.GET("/logout", h.auth.Logout)

	// Password recovery
	r.GET("/forgot-password", h.password.ForgotPasswordPage)
	r.POST("/forgot-password", limiters.forgotPassword, h.password.ForgotPassword)
	r.GET("/reset-password", h.password.ResetPasswordPage)
	r.POST("/reset-password", h.password.ResetPassword)

	// Protected routes (require login)
	protected := r.Group("", middleware.RequireAuth())
	{
		protected.GET("/account", h.account.AccountPage)
		protected.POST("/account/email", h.account.UpdateEmail)
		protected.POST("/account/profile", h.account.UpdateProfile)
		protected.GET("/account/activity", h.activity.ListActivity)
		protected.GET("/account/activity.csv", h.activity.ExportActivity)

		protected.GET("/events/new", h.events.NewEventPage)
		protected.POST("/events", h.events.CreateEvent)
	}
}

// setupGinMode sets Gin mode based on environment configuration
func setupGinMode(cfg *config.Config) {
	mode := ginModeMap[cfg.IsProduction]
	gin.SetMode(mode)
	slog.Info("gin mode", "mode", mode)
}

var ginModeMap = map[bool]string{
	true:  gin.ReleaseMode,
	false: gin.DebugMode,
}

// logServerStartup logs server startup information
func logServerStartup(cfg *config.Config) {
	slog.Info("eventgate starting",
		"addr", cfg.ServerAddr,
		"base_url", cfg.BaseURL,
		"base_url_source", cfg.BaseURLSource,
		"database", cfg.DatabaseDriver,
		"mailer", cfg.MailerMode,
	)
}
