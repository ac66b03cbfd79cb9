// Package history provides bounded sliding windows over recent observations.
package history

import (
	"github.com/okian/gestus/internal/domain/model"
)

// Default window configuration constants.
const (
	defaultCapacity = 30
)

// Window is a fixed-capacity FIFO of the most recent items.
// Pushing into a full window evicts the oldest item in O(1).
type Window[T any] struct {
	buf   []T
	head  int // index of the oldest item
	count int
}

// New creates a window with configuration options.
func New[T any](opts ...Option) *Window[T] {
	c := config{capacity: defaultCapacity}

	// Apply all options
	for _, opt := range opts {
		opt(&c)
	}

	return &Window[T]{buf: make([]T, c.capacity)}
}

// Push appends v, evicting the oldest item when the window is full.
func (w *Window[T]) Push(v T) {
	if w.count < len(w.buf) {
		w.buf[(w.head+w.count)%len(w.buf)] = v
		w.count++
		return
	}
	w.buf[w.head] = v
	w.head = (w.head + 1) % len(w.buf)
}

// Len returns the number of items held.
func (w *Window[T]) Len() int {
	return w.count
}

// Cap returns the maximum number of items held.
func (w *Window[T]) Cap() int {
	return len(w.buf)
}

// Clear drops every item.
func (w *Window[T]) Clear() {
	var zero T
	for i := range w.buf {
		w.buf[i] = zero
	}
	w.head = 0
	w.count = 0
}

// Items returns a copy of the held items, oldest first.
func (w *Window[T]) Items() []T {
	out := make([]T, w.count)
	for i := 0; i < w.count; i++ {
		out[i] = w.buf[(w.head+i)%len(w.buf)]
	}
	return out
}

// Motion is the pose window used for dance detection.
type Motion = Window[model.PoseSnapshot]

// NewMotion creates a pose window.
func NewMotion(opts ...Option) *Motion {
	return New[model.PoseSnapshot](opts...)
}
