package session

import "github.com/okian/passmap/pkg/logger"

// Option applies a configuration option to the store.
type Option func(*lruStore)

// WithMaxSessions sets how many sessions are kept before the least recently
// used one is dropped.
func WithMaxSessions(n int) Option {
	return func(s *lruStore) {
		s.maxSize = n
	}
}

// WithLogger sets the store logger.
func WithLogger(log logger.Logger) Option {
	return func(s *lruStore) {
		if log != nil {
			s.log = log
		}
	}
}
