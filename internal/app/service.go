// Package service runs a perception stream through the detection engine and
// exposes the run to the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/gestus/internal/adapters/mq/queue"
	"github.com/okian/gestus/internal/adapters/mq/worker"
	"github.com/okian/gestus/internal/adapters/perception"
	"github.com/okian/gestus/internal/adapters/repository"
	"github.com/okian/gestus/internal/domain/engine"
	"github.com/okian/gestus/internal/domain/report"
	"github.com/okian/gestus/pkg/logger"
	"github.com/okian/gestus/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize        = 1024
	defaultTimelineCapacity = 4096
	defaultProgressEvery    = 500
)

// Run states reported by GetStats.
const (
	StateIdle     = "idle"
	StateRunning  = "running"
	StateFinished = "finished"
)

// runSnapshot is the copy of run state published after every frame.
type runSnapshot struct {
	stats     *report.Statistics
	cooldowns map[string]int
	motion    int
	lastFrame engine.FrameResult
}

// Service analyzes one perception stream at a time.
type Service struct {
	mu sync.RWMutex

	// Core components
	engine   *engine.Engine
	timeline *repository.TimelineStore
	queue    *queue.InMemoryQueue

	// Configuration
	queueSize        int
	timelineCapacity int
	progressEvery    int

	// State
	runID    string
	state    string
	snapshot runSnapshot

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:        defaultQueueSize,
		timelineCapacity: defaultTimelineCapacity,
		progressEvery:    defaultProgressEvery,
		state:            StateIdle,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.engine == nil {
		s.engine = engine.New()
	}
	if s.timeline == nil {
		s.timeline = repository.NewTimelineStore(repository.WithCapacity(s.timelineCapacity))
	}
	s.snapshot.stats = report.NewStatistics()

	return s
}

// Run processes src to its end and returns the summary. A reader goroutine
// feeds a bounded queue drained by a single worker.
//
// The summary is valid even when an error is returned: on cancellation or a
// broken stream it reflects the last fully processed frame.
func (s *Service) Run(ctx context.Context, src perception.Source) (report.Summary, error) {
	q, w, runID, err := s.begin()
	if err != nil {
		return report.Summary{}, err
	}

	s.logger.Info(ctx, "analysis started",
		logger.String("run_id", runID),
		logger.Int("queue_size", q.Cap()),
	)

	go w.Run(ctx)

	readErr := s.feed(ctx, src, q)
	_ = q.Close()
	<-w.Done()

	summary := w.Summary()
	s.finish()

	fields := []logger.Field{
		logger.String("run_id", runID),
		logger.Int("frames", summary.Frames),
		logger.Int("waves", summary.Waves),
		logger.Int("handshakes", summary.Handshakes),
		logger.Int("dances", summary.Dances),
		logger.Int("anomalies", summary.AnomalyCount),
	}
	if readErr != nil {
		s.logger.Warn(ctx, "analysis stopped early", append(fields, logger.Error(readErr))...)
		return summary, readErr
	}
	s.logger.Info(ctx, "analysis finished", fields...)
	return summary, nil
}

// begin resets the per-run state and wires the queue and worker.
func (s *Service) begin() (*queue.InMemoryQueue, *worker.FrameWorker, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRunning {
		return nil, nil, "", ErrAlreadyRunning
	}

	s.runID = uuid.NewString()
	s.state = StateRunning
	s.snapshot = runSnapshot{stats: report.NewStatistics()}
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))

	w := worker.NewFrameWorker(s.queue, s.engine,
		worker.WithLogger(s.logger),
		worker.WithRunID(s.runID),
		worker.WithSink(s.timeline),
		worker.WithObserver(worker.ObserverFunc(s.observe)),
		worker.WithProgressEvery(s.progressEvery),
	)
	return s.queue, w, s.runID, nil
}

// feed reads frames until the stream ends, breaks, or ctx is done.
func (s *Service) feed(ctx context.Context, src perception.Source, q queue.Queue) error {
	for {
		frame, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctx.Err() == nil {
				metrics.RecordErrorByComponent("perception", "read")
			}
			return fmt.Errorf("read frame: %w", err)
		}
		if err := q.Enqueue(ctx, frame); err != nil {
			return fmt.Errorf("enqueue frame: %w", err)
		}
	}
}

func (s *Service) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateFinished
}

// observe publishes a copy of the run state. It runs on the worker goroutine.
func (s *Service) observe(res engine.FrameResult, run *engine.RunState) {
	remaining := run.Cooldowns.Snapshot()
	cooldowns := make(map[string]int, len(remaining))
	for k, v := range remaining {
		cooldowns[string(k)] = v
	}
	snap := runSnapshot{
		stats:     run.Stats.Clone(),
		cooldowns: cooldowns,
		motion:    run.Motion.Len(),
		lastFrame: res,
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
}

// Analyze opens input, runs it and writes the report next to output. A
// stream that cannot be opened is fatal and produces no report. When the run
// stops early the report is still written before the error is returned.
func (s *Service) Analyze(ctx context.Context, input, output, jsonSummary string, opts ...perception.Option) (report.Summary, error) {
	src, err := perception.Open(ctx, input, opts...)
	if err != nil {
		s.logger.Error(ctx, "cannot open perception stream", logger.String("input", input), logger.Error(err))
		return report.Summary{}, err
	}
	defer func() { _ = src.Close() }()

	summary, runErr := s.Run(ctx, src)

	writeErr := WriteReport(summary, report.Path(output), jsonSummary)
	if writeErr == nil {
		s.logger.Info(ctx, "report written",
			logger.String("report", report.Path(output)),
			logger.String("json_summary", jsonSummary),
		)
	}
	return summary, errors.Join(runErr, writeErr)
}

// WriteReport writes the text report to reportPath and, when jsonPath is not
// empty, the JSON summary to jsonPath.
func WriteReport(summary report.Summary, reportPath, jsonPath string) error { //nolint:gocritic // hugeParam: read-only copy
	if err := writeFile(reportPath, summary.WriteText); err != nil {
		return err
	}
	if jsonPath == "" {
		return nil
	}
	return writeFile(jsonPath, summary.WriteJSON)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path) //nolint:gosec // path is operator supplied
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %s: %w", ErrWriteOutput, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteOutput, path, err)
	}
	return nil
}

// Timeline returns the annotation store.
func (s *Service) Timeline() *repository.TimelineStore {
	return s.timeline
}

// RunID returns the identifier of the current or last run.
func (s *Service) RunID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runID
}

// GetStats returns run statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	summary := report.Summarize(snap.stats)

	emotions := make(map[string]int, len(summary.Emotions))
	for _, e := range summary.Emotions {
		emotions[e.Emotion] = e.Count
	}

	stats := map[string]interface{}{
		"runId":         s.runID,
		"state":         s.state,
		"frames":        summary.Frames,
		"waves":         summary.Waves,
		"handshakes":    summary.Handshakes,
		"dances":        summary.Dances,
		"anomalyCount":  summary.AnomalyCount,
		"emotions":      emotions,
		"cooldowns":     snap.cooldowns,
		"motionHistory": snap.motion,
		"annotations":   s.timeline.Count(context.Background()),
		"queueCapacity": s.queueSize,
	}

	if s.queue != nil {
		queueLen := s.queue.Len()
		stats["queueLength"] = queueLen
		metrics.UpdateQueue(queueLen, s.queue.Cap())
	}
	if snap.lastFrame.Index > 0 {
		stats["lastFrame"] = snap.lastFrame
	}

	return stats
}
