// Package engine turns per-frame perception into debounced activity events.
//
// The Engine holds only configuration. All mutable state lives in a RunState
// owned by the caller, which is advanced one frame at a time by Step.
package engine

import (
	"sort"

	"github.com/okian/gestus/internal/domain/anomaly"
	"github.com/okian/gestus/internal/domain/cooldown"
	"github.com/okian/gestus/internal/domain/gesture"
	"github.com/okian/gestus/internal/domain/history"
	"github.com/okian/gestus/internal/domain/model"
	"github.com/okian/gestus/internal/domain/report"
)

// Default engine configuration constants.
const (
	defaultUpperBodyMaxRatio = 0.6
	// closeUpRatio is used when no valid face sets the ratio.
	closeUpRatio = 1.0
)

// FrameContext is the face-derived framing computed once per frame.
type FrameContext struct {
	FaceDetected     bool    `json:"face_detected"`
	UpperBodyVisible bool    `json:"upper_body_visible"`
	BBoxHeightRatio  float64 `json:"bbox_height_ratio"`
}

// RunState is everything that changes while a stream is processed.
type RunState struct {
	Stats     *report.Statistics
	Cooldowns *cooldown.Registry
	Motion    *history.Motion
}

// FrameResult is the observable outcome of one Step.
type FrameResult struct {
	Index             int          `json:"index"`
	Context           FrameContext `json:"context"`
	Fired             model.Fired  `json:"fired"`
	Anomalies         int          `json:"anomalies"`
	Emotions          []string     `json:"emotions"`
	HasPose           bool         `json:"has_pose"`
	MalformedPose     bool         `json:"malformed_pose"`
	PerceptionFailure bool         `json:"perception_failure"`
}

// Engine applies the per-frame detection protocol.
type Engine struct {
	classifier        *gesture.Classifier
	anomalies         *anomaly.Detector
	upperBodyMaxRatio float64
	cooldownOpts      []cooldown.Option
	historyOpts       []history.Option
}

// New creates an engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		classifier:        gesture.New(),
		anomalies:         anomaly.New(),
		upperBodyMaxRatio: defaultUpperBodyMaxRatio,
	}

	// Apply all options
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// NewRun returns a fresh RunState: zero counters, all cooldowns ready and an
// empty motion history.
func (e *Engine) NewRun() *RunState {
	return &RunState{
		Stats:     report.NewStatistics(),
		Cooldowns: cooldown.New(e.cooldownOpts...),
		Motion:    history.NewMotion(e.historyOpts...),
	}
}

// Step processes one frame against run. The order of checks is fixed:
// faces and anomalies, wave, dance, handshake, then a single cooldown tick.
func (e *Engine) Step(run *RunState, frame model.Frame) FrameResult {
	run.Stats.Frames++
	res := FrameResult{Index: run.Stats.Frames}

	res.Context, res.Emotions, res.Anomalies, res.PerceptionFailure = e.observeFaces(run, frame, res.Index)

	if frame.Pose != nil {
		res.HasPose = true
		res.Fired, res.MalformedPose = e.detectGestures(run, frame.Pose, res.Context)
	}

	run.Cooldowns.Tick()
	return res
}

// Summary finalizes run into a report summary.
func (e *Engine) Summary(run *RunState) report.Summary {
	return report.Summarize(run.Stats)
}

// observeFaces records emotions and anomalies and derives the frame context.
// A failed face collaborator is treated as zero faces.
func (e *Engine) observeFaces(run *RunState, frame model.Frame, index int) (FrameContext, []string, int, bool) {
	fc := FrameContext{BBoxHeightRatio: closeUpRatio}
	if frame.Faces.Err != nil {
		return fc, nil, 0, true
	}

	seen := make(map[string]struct{})
	anomalies := 0
	for _, face := range frame.Faces.Faces {
		if !face.Region.Valid() {
			continue
		}
		fc.FaceDetected = true
		fc.BBoxHeightRatio = bboxRatio(face.Region, frame.Height)
		if fc.BBoxHeightRatio < e.upperBodyMaxRatio {
			fc.UpperBodyVisible = true
		}

		run.Stats.RecordEmotion(face.Dominant)
		seen[face.Dominant] = struct{}{}

		// Gated by the dance cooldown, not an anomaly-specific one.
		if run.Cooldowns.Ready(cooldown.Dance) {
			if _, ok := e.anomalies.Scan(face); ok {
				run.Stats.RecordAnomaly(index)
				anomalies++
			}
		}
	}

	var emotions []string
	for label := range seen {
		emotions = append(emotions, label)
	}
	sort.Strings(emotions)
	return fc, emotions, anomalies, false
}

// detectGestures runs the wave, dance and handshake checks for one pose.
func (e *Engine) detectGestures(run *RunState, pose model.Landmarks, fc FrameContext) (model.Fired, bool) {
	var fired model.Fired
	snapshot, complete := pose.Snapshot()

	// Wave and dance both require a face framed widely enough to show the
	// arms and torso. Dance with no visible face is never detected.
	if fc.FaceDetected && fc.UpperBodyVisible && fc.BBoxHeightRatio < e.upperBodyMaxRatio {
		if run.Cooldowns.Ready(cooldown.Wave) && e.classifier.HandRaised(pose) {
			run.Stats.RecordEvent(model.EventWave)
			run.Cooldowns.Trigger(cooldown.Wave)
			fired.Wave = true
		}

		// A wave on frame f leaves dance eligible again from frame f+20.
		if complete && run.Cooldowns.Ready(cooldown.DanceIgnore) && run.Cooldowns.Ready(cooldown.Dance) {
			run.Motion.Push(snapshot)
			if e.classifier.SustainedDanceMotion(run.Motion.Items()) {
				run.Stats.RecordEvent(model.EventDance)
				run.Cooldowns.Trigger(cooldown.Dance)
				run.Motion.Clear()
				fired.Dance = true
			}
		}
	}

	if run.Cooldowns.Ready(cooldown.Handshake) && e.classifier.HandsTogether(pose) {
		run.Stats.RecordEvent(model.EventHandshake)
		run.Cooldowns.Trigger(cooldown.Handshake)
		fired.Handshake = true
	}

	return fired, !complete
}

// bboxRatio is face height over frame height. An unknown frame height is
// treated as a close-up.
func bboxRatio(r model.Region, frameHeight int) float64 {
	if frameHeight <= 0 {
		return closeUpRatio
	}
	return float64(r.H) / float64(frameHeight)
}
