package repository

import "github.com/okian/passmap/pkg/logger"

// Option applies a configuration option to the loader.
type Option func(*loader)

// WithPassesPath sets the pass table location.
func WithPassesPath(path string) Option {
	return func(l *loader) {
		if path != "" {
			l.passesPath = path
		}
	}
}

// WithMatchesPath sets the match table location.
func WithMatchesPath(path string) Option {
	return func(l *loader) {
		if path != "" {
			l.matchesPath = path
		}
	}
}

// WithPitchMargin sets how far outside the pitch a coordinate may fall.
func WithPitchMargin(margin float64) Option {
	return func(l *loader) {
		if margin >= 0 {
			l.margin = margin
		}
	}
}

// WithLogger sets the logger used to report load progress.
func WithLogger(log logger.Logger) Option {
	return func(l *loader) {
		if log != nil {
			l.log = log
		}
	}
}
