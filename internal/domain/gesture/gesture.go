// Package gesture classifies single poses and pose windows into gesture signals.
//
// Classifiers are stateless. A missing landmark never panics; it yields false.
package gesture

import (
	"math"

	"github.com/okian/gestus/internal/domain/model"
)

// Default classifier thresholds, in normalized frame units.
const (
	defaultHandsProximity    = 0.05
	defaultDanceMinSnapshots = 10
	defaultDanceMinRange     = 0.05
)

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithHandsProximity sets the max wrist distance, per axis, for hands together.
func WithHandsProximity(d float64) Option {
	return func(c *Classifier) {
		if d > 0 {
			c.handsProximity = d
		}
	}
}

// WithDanceMinSnapshots sets how many snapshots a window needs before it is judged.
func WithDanceMinSnapshots(n int) Option {
	return func(c *Classifier) {
		if n > 0 {
			c.danceMinSnapshots = n
		}
	}
}

// WithDanceMinRange sets the vertical range both hips and shoulders must exceed.
func WithDanceMinRange(r float64) Option {
	return func(c *Classifier) {
		if r > 0 {
			c.danceMinRange = r
		}
	}
}

// Classifier holds gesture thresholds.
type Classifier struct {
	handsProximity    float64
	danceMinSnapshots int
	danceMinRange     float64
}

// New creates a classifier with configuration options.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		handsProximity:    defaultHandsProximity,
		danceMinSnapshots: defaultDanceMinSnapshots,
		danceMinRange:     defaultDanceMinRange,
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// HandRaised reports whether either wrist is above the eye on the same side.
func (c *Classifier) HandRaised(lm model.Landmarks) bool {
	return wristAboveEye(lm, model.LeftWrist, model.LeftEye) ||
		wristAboveEye(lm, model.RightWrist, model.RightEye)
}

func wristAboveEye(lm model.Landmarks, wrist, eye model.Landmark) bool {
	w, ok := lm.Get(wrist)
	if !ok {
		return false
	}
	e, ok := lm.Get(eye)
	if !ok {
		return false
	}
	return w.Y < e.Y
}

// HandsTogether reports whether both wrists are within the proximity
// threshold horizontally and vertically.
func (c *Classifier) HandsTogether(lm model.Landmarks) bool {
	l, ok := lm.Get(model.LeftWrist)
	if !ok {
		return false
	}
	r, ok := lm.Get(model.RightWrist)
	if !ok {
		return false
	}
	return math.Abs(l.X-r.X) < c.handsProximity && math.Abs(l.Y-r.Y) < c.handsProximity
}

// SustainedDanceMotion reports whether the window shows vertical oscillation
// of both the hips and the shoulders. Hips are pooled across left and right,
// as are shoulders.
func (c *Classifier) SustainedDanceMotion(window []model.PoseSnapshot) bool {
	if len(window) < c.danceMinSnapshots {
		return false
	}
	hips := verticalRange(window, model.SlotLeftHip, model.SlotRightHip)
	shoulders := verticalRange(window, model.SlotLeftShoulder, model.SlotRightShoulder)
	return hips > c.danceMinRange && shoulders > c.danceMinRange
}

// verticalRange is max(y) - min(y) over the given slots of every snapshot.
func verticalRange(window []model.PoseSnapshot, slots ...int) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range window {
		for _, s := range slots {
			y := window[i][s].Y
			lo = math.Min(lo, y)
			hi = math.Max(hi, y)
		}
	}
	return hi - lo
}
