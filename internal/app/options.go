package service

import (
	"github.com/okian/gestus/internal/adapters/repository"
	"github.com/okian/gestus/internal/domain/engine"
	"github.com/okian/gestus/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEngine sets the detection engine.
func WithEngine(e *engine.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithQueueSize sets the capacity of the frame queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithTimeline sets the annotation store.
func WithTimeline(store *repository.TimelineStore) Option {
	return func(s *Service) {
		if store != nil {
			s.timeline = store
		}
	}
}

// WithTimelineCapacity sets how many annotations the default store keeps.
// Ignored when WithTimeline is also given.
func WithTimelineCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.timelineCapacity = n
		}
	}
}

// WithProgressEvery logs progress every n frames. Zero disables it.
func WithProgressEvery(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.progressEvery = n
		}
	}
}
