package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/go-authgate/eventgate/internal/config"
	"github.com/go-authgate/eventgate/internal/core"
	"github.com/go-authgate/eventgate/internal/mailer"
)

// initializeMailer selects the delivery backend and wraps it with metrics.
func initializeMailer(cfg *config.Config, recorder core.Recorder) (core.Mailer, error) {
	var backend core.Mailer

	switch cfg.MailerMode {
	case config.MailerModeWebhook:
		webhook, err := mailer.NewWebhookMailer(mailer.WebhookConfig{
			URL:                cfg.MailerWebhookURL,
			AuthMode:           cfg.MailerWebhookAuthMode,
			Secret:             cfg.MailerWebhookSecret,
			Timeout:            cfg.MailerTimeout,
			InsecureSkipVerify: cfg.MailerInsecureSkipCheck,
			MaxRetries:         cfg.MailerMaxRetries,
			RetryDelay:         cfg.MailerRetryDelay,
			MaxRetryDelay:      cfg.MailerMaxRetryDelay,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize webhook mailer: %w", err)
		}
		slog.Info("mailer: webhook",
			"url", cfg.MailerWebhookURL,
			"auth_mode", cfg.MailerWebhookAuthMode,
			"max_retries", cfg.MailerMaxRetries,
		)
		backend = webhook

	default:
		slog.Info("mailer: log (messages are not delivered)")
		backend = mailer.NewLogMailer(slog.Default())
	}

	return mailer.WithMetrics(backend, recorder), nil
}
