package cache

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithPath sets the cache file location.
func WithPath(path string) Option {
	return func(s *Store) {
		if path != "" {
			s.path = path
		}
	}
}
