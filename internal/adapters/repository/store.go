// Package repository keeps the annotation timeline produced while a stream
// is analyzed.
package repository

import (
	"context"
	"slices"
	"time"

	"github.com/okian/gestus/internal/domain/engine"
	"github.com/okian/gestus/internal/domain/model"
)

// Annotation is one notable frame: at least one event fired or an anomaly
// was recorded. It is what a rendering layer overlays on the frame.
type Annotation struct {
	ID         string              `json:"id"`
	RunID      string              `json:"run_id"`
	Frame      int                 `json:"frame"`
	Kinds      []model.EventKind   `json:"kinds"`
	Anomalies  int                 `json:"anomalies"`
	Emotions   []string            `json:"emotions,omitempty"`
	Context    engine.FrameContext `json:"context"`
	RecordedAt time.Time           `json:"recorded_at"`
}

// NewAnnotation builds the annotation for a frame result. ok is false when
// nothing notable happened on the frame.
func NewAnnotation(runID string, res engine.FrameResult) (Annotation, bool) {
	kinds := res.Fired.Kinds()
	if res.Anomalies > 0 {
		kinds = append(kinds, model.EventAnomaly)
	}
	if len(kinds) == 0 {
		return Annotation{}, false
	}
	return Annotation{
		RunID:     runID,
		Frame:     res.Index,
		Kinds:     kinds,
		Anomalies: res.Anomalies,
		Emotions:  slices.Clone(res.Emotions),
		Context:   res.Context,
	}, true
}

// Has reports whether the annotation carries kind. The empty kind matches
// every annotation.
func (a Annotation) Has(kind model.EventKind) bool {
	return kind == "" || slices.Contains(a.Kinds, kind)
}

// Store provides read/write access to the annotation timeline.
type Store interface {
	// Append stores a, assigning an ID and timestamp when missing.
	Append(ctx context.Context, a Annotation) (Annotation, error)

	// Recent returns up to limit annotations carrying kind, newest first.
	// Returns ErrInvalidLimit when limit is not positive.
	Recent(ctx context.Context, kind model.EventKind, limit int) ([]Annotation, error)

	// Count returns the number of annotations ever appended.
	Count(ctx context.Context) int
}
