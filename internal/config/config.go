// Package config defines daemon configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers file and environment sources over the defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the ops HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// LeaderboardURL is the page to capture.
	LeaderboardURL string `koanf:"leaderboard_url"`

	// WebhookURL receives one formatted message per personal best.
	WebhookURL string `koanf:"webhook_url"`

	// CachePath locates the baseline snapshot file.
	CachePath string `koanf:"cache_path"`

	// PollIntervalSecs sets the delay between capture cycles.
	PollIntervalSecs int `koanf:"poll_interval_secs"`

	// RequestTimeoutSecs bounds each outbound HTTP request.
	RequestTimeoutSecs int `koanf:"request_timeout_secs"`

	// NotifyQueueSize bounds the outbound notification buffer.
	NotifyQueueSize int `koanf:"notify_queue_size"`

	// NotifyWorkerCount sets the number of delivery workers.
	NotifyWorkerCount int `koanf:"notify_worker_count"`

	// NotifiedCacheSize bounds the re-notify guard.
	NotifiedCacheSize int `koanf:"notified_cache_size"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		LeaderboardURL:     "https://hyprd.mn/leaderboards",
		WebhookURL:         "",
		CachePath:          "cache",
		PollIntervalSecs:   600,
		RequestTimeoutSecs: 30,
		NotifyQueueSize:    4096,
		NotifyWorkerCount:  2,
		NotifiedCacheSize:  10_000,
	}
}
