// Package dedupe tracks achievements that already produced a notification.
package dedupe

// Option applies a configuration option to the InMemoryGuard.
type Option func(*inMemoryGuard)

// WithMaxSize sets the maximum number of achievements to remember.
// If maxSize > 0: bounded mode with FIFO eviction.
// If maxSize <= 0: unbounded mode (no eviction, no size limit).
func WithMaxSize(maxSize int) Option {
	return func(g *inMemoryGuard) {
		g.maxSize = maxSize
	}
}
