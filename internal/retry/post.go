package retry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Poster sends JSON documents, repeating the POST while Retryable holds.
type Poster struct {
	client *http.Client
	policy Policy
}

// NewPoster uses client for every attempt; pass a go-httpclient client to
// have requests signed. A nil client means http.DefaultClient.
func NewPoster(client *http.Client, policy Policy) *Poster {
	if client == nil {
		client = http.DefaultClient
	}
	return &Poster{client: client, policy: policy.normalized()}
}

// PostJSON returns the first non-retryable response, or the last response once
// retries run out. The caller closes its body. An error means no response
// arrived at all.
func (p *Poster) PostJSON(ctx context.Context, url string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("retry: encode payload: %w", err)
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, p.policy.Delay(attempt)); err != nil {
				if lastErr != nil {
					return nil, fmt.Errorf("gave up after %d attempts: %w", attempt, lastErr)
				}
				return nil, err
			}
		}

		resp, err := p.post(ctx, url, body)
		final := attempt >= p.policy.MaxRetries
		if !Retryable(err, resp) || final {
			if err != nil {
				return nil, fmt.Errorf("request failed after %d attempts: %w", attempt+1, err)
			}
			return resp, nil
		}

		slog.DebugContext(ctx, "retrying delivery",
			"url", url,
			"attempt", attempt+1,
			"status", statusCode(resp),
			"error", err,
		)
		lastErr = err
		if resp != nil {
			lastErr = fmt.Errorf("HTTP %d", resp.StatusCode)
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
	}
}

func (p *Poster) post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return p.client.Do(req)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func statusCode(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
