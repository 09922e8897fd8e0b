package core

import (
	"context"
	"time"
)

// Recorder defines the interface for recording application metrics.
// Implementations include Metrics (Prometheus-based) and NoopMetrics (no-op).
type Recorder interface {
	// Redirects
	RecordRedirect(flow, outcome string)
	RecordSuspiciousRedirect(flow string)

	// Accounts
	RecordSignup(success bool)
	RecordLogin(success bool, duration time.Duration)
	RecordLogout(sessionDuration time.Duration)
	RecordPasswordReset(stage, result string)
	RecordAccountUpdate(field string, success bool)

	// Events
	RecordEventCreated(success bool)

	// Gauge Setters (for periodic updates)
	SetUpcomingEventsCount(count int64)
	SetUsersCount(count int64)

	// Mail
	RecordMailSent(mailer string, success bool, duration time.Duration)

	// Database Operations
	RecordDatabaseQueryError(operation string)
}

// MetricsStore defines the DB counts behind the gauge metrics.
type MetricsStore interface {
	CountUsers(ctx context.Context) (int64, error)
	CountUpcomingEvents(ctx context.Context, now time.Time) (int64, error)
}
