// Package notify delivers rendered notification text to a webhook.
package notify

import (
	"net/http"

	"github.com/okian/hdwatch/pkg/retry"
)

// Option applies a configuration option to the Webhook.
type Option func(*Webhook)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(w *Webhook) {
		if client != nil {
			w.client = client
		}
	}
}

// WithRetryConfig replaces the backoff policy for transient failures.
func WithRetryConfig(cfg retry.Config) Option {
	return func(w *Webhook) {
		w.retry = cfg
	}
}
