// Package scrape captures the remote leaderboard page.
package scrape

import "net/http"

// Option applies a configuration option to the Scraper.
type Option func(*Scraper)

// WithURL sets the leaderboard page location.
func WithURL(url string) Option {
	return func(s *Scraper) {
		if url != "" {
			s.url = url
		}
	}
}

// WithHTTPClient sets a custom HTTP client, e.g. with a shorter timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Scraper) {
		if client != nil {
			s.client = client
		}
	}
}
