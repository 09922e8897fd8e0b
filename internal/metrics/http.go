package metrics

import (
	"strconv"
	"time"

	"github.com/go-authgate/eventgate/internal/core"

	"github.com/gin-gonic/gin"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

func result(success bool) string {
	if success {
		return resultSuccess
	}
	return resultFailure
}

// HTTPMetricsMiddleware records request counts and latency by route pattern.
// It is a pass-through for any recorder other than *Metrics.
func HTTPMetricsMiddleware(m core.Recorder) gin.HandlerFunc {
	metrics, ok := m.(*Metrics)
	if !ok {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		c.Next()

		path := c.FullPath() // route pattern, e.g. /events/:slug
		if path == "" {
			path = "unknown"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordRedirect counts a sanitized redirect target. Anything other than
// "accepted" or "empty" is also counted as a rejection.
func (m *Metrics) RecordRedirect(flow, outcome string) {
	m.RedirectsTotal.WithLabelValues(flow, outcome).Inc()
	if outcome != "accepted" && outcome != "empty" {
		m.RedirectsRejectedTotal.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) RecordSuspiciousRedirect(flow string) {
	m.RedirectsSuspiciousTotal.WithLabelValues(flow).Inc()
}

func (m *Metrics) RecordSignup(success bool) {
	m.SignupsTotal.WithLabelValues(result(success)).Inc()
}

func (m *Metrics) RecordLogin(success bool, duration time.Duration) {
	m.LoginsTotal.WithLabelValues(result(success)).Inc()
	m.LoginDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordLogout(sessionDuration time.Duration) {
	m.LogoutsTotal.Inc()
	if sessionDuration > 0 {
		m.SessionDuration.Observe(sessionDuration.Seconds())
	}
}

// RecordPasswordReset counts a reset stage ("requested", "completed") with a
// result such as "sent", "unknown_email", "success" or "invalid_token".
func (m *Metrics) RecordPasswordReset(stage, result string) {
	m.PasswordResetsTotal.WithLabelValues(stage, result).Inc()
}

func (m *Metrics) RecordAccountUpdate(field string, success bool) {
	m.AccountUpdatesTotal.WithLabelValues(field, result(success)).Inc()
}

func (m *Metrics) RecordEventCreated(success bool) {
	m.EventsCreatedTotal.WithLabelValues(result(success)).Inc()
}

func (m *Metrics) SetUpcomingEventsCount(count int64) {
	m.EventsUpcoming.Set(float64(count))
}

func (m *Metrics) SetUsersCount(count int64) {
	m.UsersTotal.Set(float64(count))
}

func (m *Metrics) RecordMailSent(mailer string, success bool, duration time.Duration) {
	m.MailsSentTotal.WithLabelValues(mailer, result(success)).Inc()
	m.MailSendDuration.WithLabelValues(mailer).Observe(duration.Seconds())
}

func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}
