// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/gestus/internal/adapters/repository"
	"github.com/okian/gestus/internal/domain/model"
)

// Default timeline handler constants.
const (
	defaultTimelineLimit = 50
	defaultMaxLimit      = 500
)

// TimelineProvider returns recent annotations.
type TimelineProvider interface {
	Recent(ctx context.Context, kind model.EventKind, limit int) ([]repository.Annotation, error)
}

// TimelineOption applies a configuration option to the TimelineHandler.
type TimelineOption func(*TimelineHandler)

// WithMaxLimit caps GET /timeline?limit.
func WithMaxLimit(n int) TimelineOption {
	return func(h *TimelineHandler) {
		if n > 0 {
			h.maxLimit = n
		}
	}
}

// TimelineHandler handles timeline requests.
type TimelineHandler struct {
	timeline TimelineProvider
	maxLimit int
}

// NewTimelineHandler creates a new timeline handler.
func NewTimelineHandler(timeline TimelineProvider, opts ...TimelineOption) *TimelineHandler {
	h := &TimelineHandler{timeline: timeline, maxLimit: defaultMaxLimit}

	// Apply all options
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// HandleTimeline handles GET /timeline?kind=K&limit=N requests.
func (h *TimelineHandler) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	limit := defaultTimelineLimit
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%w: limit above %d", ErrBadRequest, h.maxLimit))
			return
		}
		limit = n
	}

	annotations, err := h.timeline.Recent(r.Context(), model.EventKind(q.Get("kind")), limit)
	switch {
	case errors.Is(err, repository.ErrUnknownKind), errors.Is(err, repository.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	if annotations == nil {
		annotations = []repository.Annotation{}
	}
	writeJSON(w, http.StatusOK, annotations)
}
