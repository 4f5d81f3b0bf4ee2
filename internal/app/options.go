package service

import (
	"github.com/okian/passmap/internal/adapters/repository"
	"github.com/okian/passmap/internal/domain/render"
	"github.com/okian/passmap/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithPassesPath sets the pass table location.
func WithPassesPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.passesPath = path
		}
	}
}

// WithMatchesPath sets the match table location.
func WithMatchesPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.matchesPath = path
		}
	}
}

// WithPitchMargin sets how far off the pitch a coordinate may fall.
func WithPitchMargin(margin float64) Option {
	return func(s *Service) {
		if margin >= 0 {
			s.pitchMargin = margin
		}
	}
}

// WithSlider sets the xT range control. Its value is the start range of
// every new session.
func WithSlider(slider render.Slider) Option {
	return func(s *Service) {
		s.slider = slider
	}
}

// WithMaxSessions bounds the number of live sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithDataset serves an already loaded dataset instead of reading files.
func WithDataset(ds *repository.Dataset) Option {
	return func(s *Service) {
		s.dataset = ds
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}
