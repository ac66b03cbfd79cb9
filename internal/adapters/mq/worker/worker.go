// Package worker drains the frame queue through the detection engine.
//
// Exactly one FrameWorker owns a RunState, so frames are stepped in queue
// order and the engine state is never shared.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/gestus/internal/adapters/mq/queue"
	"github.com/okian/gestus/internal/adapters/repository"
	"github.com/okian/gestus/internal/domain/cooldown"
	"github.com/okian/gestus/internal/domain/engine"
	"github.com/okian/gestus/internal/domain/model"
	"github.com/okian/gestus/internal/domain/report"
	"github.com/okian/gestus/pkg/logger"
	"github.com/okian/gestus/pkg/metrics"
)

const (
	defaultProgressEvery = 500
	msPerSecond          = 1000
)

// Queue defines how the worker receives frames.
type Queue interface {
	Dequeue() <-chan queue.Frame
}

// Stepper is the detection engine as seen by the worker.
type Stepper interface {
	NewRun() *engine.RunState
	Step(run *engine.RunState, frame model.Frame) engine.FrameResult
	Summary(run *engine.RunState) report.Summary
}

// Sink receives annotations for notable frames.
type Sink interface {
	Append(ctx context.Context, a repository.Annotation) (repository.Annotation, error)
}

// Observer is called on the worker goroutine after each frame. It must not
// retain run; copy what it needs.
type Observer interface {
	Observe(res engine.FrameResult, run *engine.RunState)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(res engine.FrameResult, run *engine.RunState)

// Observe calls f.
func (f ObserverFunc) Observe(res engine.FrameResult, run *engine.RunState) { f(res, run) }

// Worker processes frames until the queue is drained or it is stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker after the frame in hand.
	Shutdown(ctx context.Context) error
}

// FrameWorker implements Worker for one perception stream.
type FrameWorker struct {
	queue         Queue
	engine        Stepper
	run           *engine.RunState
	sink          Sink
	observer      Observer
	runID         string
	name          string
	progressEvery int

	// Shutdown control
	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	// Logging
	logger logger.Logger
}

// NewFrameWorker creates a worker stepping frames from q through eng.
func NewFrameWorker(q Queue, eng Stepper, opts ...Option) *FrameWorker {
	w := &FrameWorker{
		queue:         q,
		engine:        eng,
		name:          "frame-worker",
		progressEvery: defaultProgressEvery,
		shutdown:      make(chan struct{}),
		done:          make(chan struct{}),
		logger:        logger.Get(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	w.logger = w.logger.Named(w.name)
	if w.run == nil {
		w.run = eng.NewRun()
	}

	return w
}

// Run starts the worker loop.
func (w *FrameWorker) Run(ctx context.Context) {
	defer close(w.done)

	frames := w.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			metrics.RecordQueueDequeue()
			w.process(ctx, frame)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *FrameWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run has returned.
func (w *FrameWorker) Done() <-chan struct{} { return w.done }

// Summary finalizes the run. Call it only after Done is closed.
func (w *FrameWorker) Summary() report.Summary {
	return w.engine.Summary(w.run)
}

// process steps a single frame and publishes its outcome.
func (w *FrameWorker) process(ctx context.Context, frame queue.Frame) { //nolint:gocritic // hugeParam: Frame is passed by value for channel semantics
	start := time.Now()
	res := w.engine.Step(w.run, frame)
	metrics.RecordFrameLatency(float64(time.Since(start).Microseconds()) / msPerSecond)

	w.recordMetrics(ctx, frame, res)

	if res.Fired.Any() {
		kinds := res.Fired.Kinds()
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = string(k)
		}
		w.logger.Info(ctx, "event fired",
			logger.Int("frame", res.Index),
			logger.Any("kinds", names),
		)
	}
	if res.Anomalies > 0 {
		w.logger.Info(ctx, "possible anomaly",
			logger.Int("frame", res.Index),
			logger.Int("faces", res.Anomalies),
		)
	}

	if a, ok := repository.NewAnnotation(w.runID, res); ok && w.sink != nil {
		if _, err := w.sink.Append(ctx, a); err != nil {
			metrics.RecordErrorByComponent("worker", "sink_error")
			w.logger.Error(ctx, "annotation append failed",
				logger.Int("frame", res.Index),
				logger.Error(err),
			)
		}
	}

	if w.observer != nil {
		w.observer.Observe(res, w.run)
	}

	if w.progressEvery > 0 && res.Index%w.progressEvery == 0 {
		st := w.run.Stats
		w.logger.Info(ctx, "progress",
			logger.Int("frames", st.Frames),
			logger.Int("waves", st.Waves),
			logger.Int("handshakes", st.Handshakes),
			logger.Int("dances", st.Dances),
			logger.Int("anomalies", len(st.AnomalyFrames)),
		)
	}
}

func (w *FrameWorker) recordMetrics(ctx context.Context, frame queue.Frame, res engine.FrameResult) { //nolint:gocritic // hugeParam: read-only copy
	metrics.RecordFrameProcessed()
	for _, k := range res.Fired.Kinds() {
		if err := metrics.RecordEventFired(string(k)); err != nil {
			w.logger.Warn(ctx, "unrecorded event kind", logger.Error(err))
		}
	}
	metrics.RecordAnomalies(res.Anomalies)

	if res.PerceptionFailure {
		metrics.RecordPerceptionFailure()
		w.logger.Debug(ctx, "face analysis unavailable; treating frame as faceless",
			logger.Int("frame", res.Index),
			logger.Error(frame.Faces.Err),
		)
	}
	if res.MalformedPose {
		metrics.RecordMalformedPose()
		w.logger.Debug(ctx, "pose missing landmarks; dance check skipped",
			logger.Int("frame", res.Index),
			logger.Int("landmarks", len(frame.Pose)),
		)
	}

	metrics.UpdateMotionHistorySize(w.run.Motion.Len())
	for _, k := range cooldown.Kinds {
		metrics.UpdateCooldownRemaining(string(k), w.run.Cooldowns.Remaining(k))
	}
}
