// Package mailer delivers transactional email such as password reset links.
package mailer

import (
	"context"
	"log/slog"

	"github.com/go-authgate/eventgate/internal/core"
)

// LogMailer writes messages to the log instead of sending them. It is the
// default for development; the body (which may hold a reset link) is only
// logged at debug level.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, msg core.Message) error {
	m.logger.InfoContext(ctx, "mail queued",
		"to", msg.To,
		"from", msg.From,
		"subject", msg.Subject,
	)
	m.logger.DebugContext(ctx, "mail body", "to", msg.To, "body", msg.Text)
	return nil
}

func (m *LogMailer) Name() string { return "log" }
