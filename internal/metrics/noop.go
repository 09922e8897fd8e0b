package metrics

import (
	"time"

	"github.com/go-authgate/eventgate/internal/core"
)

// NoopMetrics is used when METRICS_ENABLED is false.
type NoopMetrics struct{}

var _ core.Recorder = (*NoopMetrics)(nil)

func NewNoopMetrics() core.Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordRedirect(flow, outcome string)   {}
func (n *NoopMetrics) RecordSuspiciousRedirect(flow string) {}

func (n *NoopMetrics) RecordSignup(success bool)                        {}
func (n *NoopMetrics) RecordLogin(success bool, duration time.Duration) {}
func (n *NoopMetrics) RecordLogout(sessionDuration time.Duration)       {}
func (n *NoopMetrics) RecordPasswordReset(stage, result string)         {}
func (n *NoopMetrics) RecordAccountUpdate(field string, success bool)   {}

func (n *NoopMetrics) RecordEventCreated(success bool)    {}
func (n *NoopMetrics) SetUpcomingEventsCount(count int64) {}
func (n *NoopMetrics) SetUsersCount(count int64)          {}

func (n *NoopMetrics) RecordMailSent(mailer string, success bool, duration time.Duration) {}

func (n *NoopMetrics) RecordDatabaseQueryError(operation string) {}
