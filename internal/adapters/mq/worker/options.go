// Package worker drains the frame queue through the detection engine.
package worker

import (
	"github.com/okian/gestus/internal/domain/engine"
	"github.com/okian/gestus/pkg/logger"
)

// Option applies a configuration option to the FrameWorker.
type Option func(*FrameWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *FrameWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *FrameWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithRunID tags annotations produced by this worker.
func WithRunID(id string) Option {
	return func(w *FrameWorker) {
		if id != "" {
			w.runID = id
		}
	}
}

// WithSink sets where annotations for notable frames are appended.
func WithSink(s Sink) Option {
	return func(w *FrameWorker) {
		if s != nil {
			w.sink = s
		}
	}
}

// WithObserver registers a callback run after every processed frame.
func WithObserver(o Observer) Option {
	return func(w *FrameWorker) {
		if o != nil {
			w.observer = o
		}
	}
}

// WithProgressEvery logs a progress line every n frames. Zero disables it.
func WithProgressEvery(n int) Option {
	return func(w *FrameWorker) {
		if n >= 0 {
			w.progressEvery = n
		}
	}
}

// WithRunState continues an existing run instead of starting a fresh one.
func WithRunState(run *engine.RunState) Option {
	return func(w *FrameWorker) {
		if run != nil {
			w.run = run
		}
	}
}
