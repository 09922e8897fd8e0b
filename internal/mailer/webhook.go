package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-authgate/eventgate/internal/core"
	"github.com/go-authgate/eventgate/internal/retry"

	httpclient "github.com/appleboy/go-httpclient"
)

var (
	// ErrDeliveryFailed means the webhook answered with a non-2xx status
	ErrDeliveryFailed = errors.New("mail webhook rejected message")

	// ErrWebhookUnreachable means no response was received
	ErrWebhookUnreachable = errors.New("mail webhook unreachable")
)

// WebhookConfig configures WebhookMailer.
type WebhookConfig struct {
	URL                string
	AuthMode           string // "none", "simple" or "hmac"
	Secret             string
	Timeout            time.Duration
	InsecureSkipVerify bool
	MaxRetries         int
	RetryDelay         time.Duration
	MaxRetryDelay      time.Duration
}

// WebhookMailer POSTs each message as JSON to a delivery service. Requests are
// signed by go-httpclient and retried on network errors, 5xx and 429.
type WebhookMailer struct {
	url    string
	client *retry.Poster
}

func NewWebhookMailer(cfg WebhookConfig) (*WebhookMailer, error) {
	authMode := cfg.AuthMode
	if authMode == "" {
		authMode = httpclient.AuthModeNone
	}

	client, err := httpclient.NewAuthClient(
		authMode,
		cfg.Secret,
		httpclient.WithTimeout(cfg.Timeout),
		httpclient.WithInsecureSkipVerify(cfg.InsecureSkipVerify),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail webhook client: %w", err)
	}

	return newWebhookMailer(cfg, client), nil
}

func newWebhookMailer(cfg WebhookConfig, httpClient *http.Client) *WebhookMailer {
	return &WebhookMailer{
		url: cfg.URL,
		client: retry.NewPoster(httpClient, retry.Policy{
			MaxRetries:   cfg.MaxRetries,
			InitialDelay: cfg.RetryDelay,
			MaxDelay:     cfg.MaxRetryDelay,
		}),
	}
}

func (m *WebhookMailer) Send(ctx context.Context, msg core.Message) error {
	resp, err := m.client.PostJSON(ctx, m.url, msg)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWebhookUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("%w: HTTP %d - %s", ErrDeliveryFailed, resp.StatusCode, preview)
	}

	return nil
}

func (m *WebhookMailer) Name() string { return "webhook" }
