// Package anomaly flags faces whose emotion intensities cross a threshold.
package anomaly

import "github.com/okian/gestus/internal/domain/model"

// Default anomaly configuration.
const (
	defaultThreshold = 60
)

// DefaultEmotions is the default anomaly set, in scan order.
var DefaultEmotions = []string{"disgust", "fear", "surprise"}

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithThreshold sets the minimum intensity that counts as anomalous.
func WithThreshold(threshold float64) Option {
	return func(d *Detector) {
		if threshold > 0 {
			d.threshold = threshold
		}
	}
}

// WithEmotions replaces the anomaly set. Order sets scan priority.
func WithEmotions(emotions ...string) Option {
	return func(d *Detector) {
		if len(emotions) > 0 {
			d.emotions = append([]string(nil), emotions...)
		}
	}
}

// Detector scans face observations for anomalous emotions.
type Detector struct {
	emotions  []string
	threshold float64
}

// New creates a detector with configuration options.
func New(opts ...Option) *Detector {
	d := &Detector{
		emotions:  DefaultEmotions,
		threshold: defaultThreshold,
	}

	// Apply all options
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Scan returns the first anomaly-set emotion whose intensity is at or above
// the threshold, and whether one was found. At most one match per face.
func (d *Detector) Scan(face model.FaceObservation) (string, bool) {
	for _, e := range d.emotions {
		if v, ok := face.Emotions[e]; ok && v >= d.threshold {
			return e, true
		}
	}
	return "", false
}

// Threshold returns the configured intensity threshold.
func (d *Detector) Threshold() float64 {
	return d.threshold
}
