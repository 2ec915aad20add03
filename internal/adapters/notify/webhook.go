// Package notify delivers rendered notification text to an outbound
// webhook. The sink is an injected dependency of the poll loop, never
// ambient global state.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/hdwatch/pkg/metrics"
	"github.com/okian/hdwatch/pkg/retry"
)

// Default webhook configuration constants.
const (
	defaultTimeout = 15 * time.Second
)

// Sender pushes one formatted notification to the outbound sink.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// payload is the webhook message body.
type payload struct {
	Content string `json:"content"`
}

// Webhook implements Sender against a JSON webhook endpoint. Transient
// failures (network, 429, 5xx) are retried with exponential backoff;
// other HTTP errors fail immediately.
type Webhook struct {
	url    string
	client *http.Client
	retry  retry.Config
}

// NewWebhook creates a webhook sender with configuration options.
func NewWebhook(url string, opts ...Option) *Webhook {
	cfg := retry.DefaultConfig()
	cfg.OnRetry = func(int, error, time.Duration) {
		metrics.RecordWebhookRetry()
	}

	w := &Webhook{
		url:   url,
		retry: cfg,
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.client == nil {
		w.client = &http.Client{Timeout: defaultTimeout}
	}

	return w
}

// Send posts the text, retrying transient failures.
func (w *Webhook) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(payload{Content: text})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	return retry.Do(ctx, w.retry, func(ctx context.Context) error {
		return w.post(ctx, body)
	})
}

// post performs one delivery attempt.
func (w *Webhook) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return retry.Permanent(fmt.Errorf("build webhook request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer func() {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("webhook status %s", resp.Status)
	default:
		return retry.Permanent(fmt.Errorf("webhook status %s", resp.Status))
	}
}
