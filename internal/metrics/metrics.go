package metrics

import (
	"sync"

	"github.com/go-authgate/eventgate/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var _ core.Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Redirect sanitizer
	RedirectsTotal           *prometheus.CounterVec
	RedirectsRejectedTotal   *prometheus.CounterVec
	RedirectsSuspiciousTotal *prometheus.CounterVec

	// Accounts
	SignupsTotal        *prometheus.CounterVec
	LoginsTotal         *prometheus.CounterVec
	LoginDuration       prometheus.Histogram
	LogoutsTotal        prometheus.Counter
	SessionDuration     prometheus.Histogram
	PasswordResetsTotal *prometheus.CounterVec
	AccountUpdatesTotal *prometheus.CounterVec

	// Events
	EventsCreatedTotal *prometheus.CounterVec
	EventsUpcoming     prometheus.Gauge
	UsersTotal         prometheus.Gauge

	// Mail
	MailsSentTotal   *prometheus.CounterVec
	MailSendDuration *prometheus.HistogramVec

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	DatabaseQueryErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init returns the Prometheus recorder when enabled and NoopMetrics
// otherwise. Collectors are registered once per process.
func Init(enabled bool) core.Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

func initMetrics() *Metrics {
	return &Metrics{
		RedirectsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "redirects_total",
				Help: "Redirect targets seen by the sanitizer",
			},
			[]string{"flow", "outcome"}, // outcome: accepted, empty, protocol_relative, not_relative
		),
		RedirectsRejectedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "redirect_rejected_total",
				Help: "Redirect targets replaced by the default path",
			},
			[]string{"reason"},
		),
		RedirectsSuspiciousTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "redirect_suspicious_total",
				Help: "Accepted redirect paths containing backslashes, dot segments or control characters",
			},
			[]string{"flow"},
		),

		SignupsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_signups_total",
				Help: "Total number of sign-up attempts",
			},
			[]string{"result"},
		),
		LoginsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_login_total",
				Help: "Total number of login attempts",
			},
			[]string{"result"},
		),
		LoginDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "auth_login_duration_seconds",
				Help:    "Time spent verifying credentials",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
		),
		LogoutsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "auth_logout_total",
				Help: "Total number of logouts",
			},
		),
		SessionDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "session_duration_seconds",
				Help:    "Duration of user sessions ended by logout",
				Buckets: []float64{60, 300, 1800, 3600, 14400, 86400, 604800}, // 1m .. 7d
			},
		),
		PasswordResetsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "password_resets_total",
				Help: "Password reset requests and completions",
			},
			[]string{"stage", "result"}, // stage: requested, completed
		),
		AccountUpdatesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "account_updates_total",
				Help: "Account setting changes",
			},
			[]string{"field", "result"},
		),

		EventsCreatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_created_total",
				Help: "Total number of event creation attempts",
			},
			[]string{"result"},
		),
		EventsUpcoming: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "events_upcoming",
				Help: "Events that have not started yet",
			},
		),
		UsersTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "users_total",
				Help: "Registered users",
			},
		),

		MailsSentTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mail_sent_total",
				Help: "Outgoing mail by mailer and result",
			},
			[]string{"mailer", "result"},
		),
		MailSendDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mail_send_duration_seconds",
				Help:    "Time spent delivering a message, including retries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mailer"},
		),

		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request latency in seconds",
				Buckets: []float64{
					0.001, 0.005, 0.010, 0.025, 0.050, 0.100,
					0.250, 0.500, 1.0, 2.5, 5.0, 10.0,
				},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),

		DatabaseQueryErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_query_errors_total",
				Help: "Total number of database query errors",
			},
			[]string{"operation"},
		),
	}
}
