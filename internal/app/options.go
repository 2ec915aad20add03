// Package app wires capture, diffing, formatting, and delivery.
package app

import (
	"time"

	"github.com/okian/hdwatch/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithInterval sets the delay between poll cycles.
func WithInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithQueueSize bounds the outbound notification buffer.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of delivery workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithGuardSize bounds the re-notify guard.
func WithGuardSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.guardSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
