// Package engine turns per-frame perception into debounced activity events.
package engine

import (
	"github.com/okian/gestus/internal/domain/anomaly"
	"github.com/okian/gestus/internal/domain/cooldown"
	"github.com/okian/gestus/internal/domain/gesture"
	"github.com/okian/gestus/internal/domain/history"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithClassifier sets the gesture classifier.
func WithClassifier(c *gesture.Classifier) Option {
	return func(e *Engine) {
		if c != nil {
			e.classifier = c
		}
	}
}

// WithAnomalyDetector sets the anomaly detector.
func WithAnomalyDetector(d *anomaly.Detector) Option {
	return func(e *Engine) {
		if d != nil {
			e.anomalies = d
		}
	}
}

// WithUpperBodyMaxRatio sets the face-to-frame height ratio below which the
// upper body is considered visible.
func WithUpperBodyMaxRatio(ratio float64) Option {
	return func(e *Engine) {
		if ratio > 0 {
			e.upperBodyMaxRatio = ratio
		}
	}
}

// WithCooldownOptions configures the registry created for each run.
func WithCooldownOptions(opts ...cooldown.Option) Option {
	return func(e *Engine) {
		e.cooldownOpts = append(e.cooldownOpts, opts...)
	}
}

// WithHistoryOptions configures the motion history created for each run.
func WithHistoryOptions(opts ...history.Option) Option {
	return func(e *Engine) {
		e.historyOpts = append(e.historyOpts, opts...)
	}
}
