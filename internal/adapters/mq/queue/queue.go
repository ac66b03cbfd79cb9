// Package queue carries frames from the stream reader to the frame worker.
//
// The queue is bounded and order preserving. Enqueue blocks while the queue
// is full, so a slow worker applies back-pressure to the reader instead of
// frames being dropped.
package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/gestus/internal/domain/model"
	"github.com/okian/gestus/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 1024
)

// Frame is the payload type flowing through the queue.
type Frame = model.Frame

// Queue provides blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a frame, waiting while the queue is full.
	// Returns ErrClosed after Close, or the context error if ctx ends first.
	Enqueue(ctx context.Context, f Frame) error

	// Dequeue returns the channel frames are delivered on, in enqueue order.
	// The channel is closed once the queue is closed and drained.
	Dequeue() <-chan Frame

	// Len returns the current number of queued frames.
	Len() int

	// Cap returns the maximum number of queued frames.
	Cap() int

	// Close stops accepting frames. Frames already queued are still delivered.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	frames   chan Frame
	capacity int
	done     chan struct{}
	doneOnce sync.Once

	// mu guards closed and the close of frames against in-flight sends.
	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
		done:     make(chan struct{}),
	}

	// Apply all options
	for _, opt := range opts {
		opt(q)
	}

	q.frames = make(chan Frame, q.capacity)

	metrics.UpdateQueue(0, q.capacity)

	return q
}

// Enqueue adds a frame to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, f Frame) error { //nolint:gocritic // hugeParam: Frame is passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return ErrClosed
	}

	select {
	case q.frames <- f:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueue(len(q.frames), q.capacity)
		return nil
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return fmt.Errorf("enqueue: %w", ctx.Err())
	case <-q.done:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return ErrClosed
	}
}

// Dequeue returns the channel frames are delivered on.
func (q *InMemoryQueue) Dequeue() <-chan Frame {
	return q.frames
}

// Len returns the current number of queued frames.
func (q *InMemoryQueue) Len() int {
	size := len(q.frames)
	metrics.UpdateQueue(size, q.capacity)
	return size
}

// Cap returns the queue capacity.
func (q *InMemoryQueue) Cap() int { return q.capacity }

// Close stops accepting frames and closes the delivery channel once
// in-flight sends have returned.
func (q *InMemoryQueue) Close() error {
	// Wake senders blocked on a full queue before taking the write lock.
	q.mu.RLock()
	already := q.closed
	q.mu.RUnlock()
	if already {
		return nil
	}
	q.doneOnce.Do(func() { close(q.done) })

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.frames)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
