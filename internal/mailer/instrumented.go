package mailer

import (
	"context"
	"time"

	"github.com/go-authgate/eventgate/internal/core"
)

// Instrumented records delivery outcome and latency of every Send.
type Instrumented struct {
	next    core.Mailer
	metrics core.Recorder
}

func WithMetrics(next core.Mailer, metrics core.Recorder) *Instrumented {
	return &Instrumented{next: next, metrics: metrics}
}

func (m *Instrumented) Send(ctx context.Context, msg core.Message) error {
	start := time.Now()
	err := m.next.Send(ctx, msg)
	m.metrics.RecordMailSent(m.next.Name(), err == nil, time.Since(start))
	return err
}

func (m *Instrumented) Name() string { return m.next.Name() }
