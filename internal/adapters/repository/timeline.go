package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/gestus/internal/domain/history"
	"github.com/okian/gestus/internal/domain/model"
	"github.com/okian/gestus/pkg/metrics"
)

// Default timeline configuration constants.
const (
	defaultCapacity = 4096
)

// TimelineStore is a bounded, in-memory Store. It is safe for one writer
// and many readers.
type TimelineStore struct {
	mu       sync.RWMutex
	window   *history.Window[Annotation]
	capacity int
	total    int
	now      func() time.Time
}

var _ Store = (*TimelineStore)(nil)

// NewTimelineStore creates an empty store.
func NewTimelineStore(opts ...Option) *TimelineStore {
	s := &TimelineStore{
		capacity: defaultCapacity,
		now:      time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	s.window = history.New[Annotation](history.WithCapacity(s.capacity))
	return s
}

// Append stores a.
func (s *TimelineStore) Append(_ context.Context, a Annotation) (Annotation, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.RecordedAt.IsZero() {
		a.RecordedAt = s.now()
	}

	s.mu.Lock()
	s.window.Push(a)
	s.total++
	s.mu.Unlock()

	metrics.RecordAnnotation()
	return a, nil
}

// Recent returns up to limit annotations carrying kind, newest first.
func (s *TimelineStore) Recent(_ context.Context, kind model.EventKind, limit int) ([]Annotation, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	if !validKind(kind) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	limit = min(limit, s.capacity)

	s.mu.RLock()
	items := s.window.Items()
	s.mu.RUnlock()

	out := make([]Annotation, 0, min(limit, len(items)))
	for i := len(items) - 1; i >= 0 && len(out) < limit; i-- {
		if items[i].Has(kind) {
			out = append(out, items[i])
		}
	}
	return out, nil
}

// Count returns the number of annotations ever appended.
func (s *TimelineStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// Len returns the number of annotations currently retained.
func (s *TimelineStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.window.Len()
}

func validKind(kind model.EventKind) bool {
	switch kind {
	case "", model.EventWave, model.EventHandshake, model.EventDance, model.EventAnomaly:
		return true
	default:
		return false
	}
}
