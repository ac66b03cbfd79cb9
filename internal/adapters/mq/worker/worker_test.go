package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/gestus/internal/adapters/mq/queue"
	worker "github.com/okian/gestus/internal/adapters/mq/worker"
	"github.com/okian/gestus/internal/adapters/repository"
	"github.com/okian/gestus/internal/domain/engine"
	model "github.com/okian/gestus/internal/domain/model"
	logging "github.com/okian/gestus/pkg/logger"
	"github.com/okian/gestus/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	frames chan queue.Frame
}

func newMockQueue(n int) *mockQueue {
	return &mockQueue{frames: make(chan queue.Frame, n)}
}

func (mq *mockQueue) Dequeue() <-chan queue.Frame { return mq.frames }

func (mq *mockQueue) add(f queue.Frame) { //nolint:gocritic // hugeParam: Frame is passed by value for channel semantics
	mq.frames <- f
}

type failingSink struct {
	mu    sync.Mutex
	calls int
}

func (s *failingSink) Append(_ context.Context, a repository.Annotation) (repository.Annotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return a, errors.New("disk full")
}

// waveFrame is a pose with the left hand above the eye and a wide face.
func waveFrame() model.Frame {
	return model.Frame{
		Width: 640, Height: 480,
		Pose: model.Landmarks{
			model.LeftEye:   {X: 0.45, Y: 0.3},
			model.LeftWrist: {X: 0.4, Y: 0.1},
		},
		Faces: model.FaceResult{Faces: []model.FaceObservation{{
			Region:   model.Region{X: 100, Y: 50, W: 100, H: 144},
			Dominant: "happy",
			Emotions: map[string]float64{"happy": 90},
		}}},
	}
}

func runUntilDrained(ctx context.Context, w *worker.FrameWorker, q *mockQueue) {
	close(q.frames)
	go w.Run(ctx)
	select {
	case <-w.Done():
	case <-time.After(2 * time.Second):
	}
}

func TestFrameWorker(t *testing.T) {
	convey.Convey("Given a FrameWorker", t, func() {
		_ = logging.Init()
		ctx := context.Background()
		eng := engine.New()
		q := newMockQueue(64)
		store := repository.NewTimelineStore()

		convey.Convey("When frames with a wave are processed", func() {
			var (
				mu       sync.Mutex
				observed []engine.FrameResult
			)
			w := worker.NewFrameWorker(q, eng,
				worker.WithName("test-worker"),
				worker.WithRunID("run-1"),
				worker.WithSink(store),
				worker.WithProgressEvery(2),
				worker.WithObserver(worker.ObserverFunc(func(res engine.FrameResult, _ *engine.RunState) {
					mu.Lock()
					observed = append(observed, res)
					mu.Unlock()
				})),
			)
			for i := 0; i < 5; i++ {
				q.add(waveFrame())
			}
			q.add(model.Frame{Faces: model.FaceResult{Err: errors.New("timeout")}})
			runUntilDrained(ctx, w, q)

			convey.Convey("Then every frame is stepped in order", func() {
				mu.Lock()
				defer mu.Unlock()
				convey.So(observed, convey.ShouldHaveLength, 6)
				for i, res := range observed {
					convey.So(res.Index, convey.ShouldEqual, i+1)
				}
				convey.So(observed[0].Fired.Wave, convey.ShouldBeTrue)
				convey.So(observed[1].Fired.Wave, convey.ShouldBeFalse)
				convey.So(observed[5].PerceptionFailure, convey.ShouldBeTrue)
			})

			convey.Convey("Then the summary reflects the run", func() {
				s := w.Summary()
				convey.So(s.Frames, convey.ShouldEqual, 6)
				convey.So(s.Waves, convey.ShouldEqual, 1)
			})

			convey.Convey("Then only the notable frame is annotated", func() {
				got, err := store.Recent(ctx, "", 10)
				convey.So(err, convey.ShouldBeNil)
				convey.So(got, convey.ShouldHaveLength, 1)
				convey.So(got[0].RunID, convey.ShouldEqual, "run-1")
				convey.So(got[0].Frame, convey.ShouldEqual, 1)
				convey.So(got[0].Kinds, convey.ShouldResemble, []model.EventKind{model.EventWave})
			})
		})

		convey.Convey("When the sink fails", func() {
			sink := &failingSink{}
			w := worker.NewFrameWorker(q, eng, worker.WithSink(sink))
			q.add(waveFrame())
			q.add(waveFrame())
			runUntilDrained(ctx, w, q)

			convey.Convey("Then processing continues", func() {
				convey.So(w.Summary().Frames, convey.ShouldEqual, 2)
				sink.mu.Lock()
				defer sink.mu.Unlock()
				convey.So(sink.calls, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When continuing an existing run", func() {
			run := eng.NewRun()
			run.Stats.Frames = 10
			w := worker.NewFrameWorker(q, eng, worker.WithRunState(run))
			q.add(model.Frame{})
			runUntilDrained(ctx, w, q)

			convey.Convey("Then frame numbering carries on", func() {
				convey.So(w.Summary().Frames, convey.ShouldEqual, 11)
			})
		})

		convey.Convey("When shutting down an idle worker", func() {
			w := worker.NewFrameWorker(q, eng)
			go w.Run(ctx)

			shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			err := w.Shutdown(shutdownCtx)

			convey.Convey("Then it should shutdown gracefully and twice is safe", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})

		convey.Convey("When shutdown is not honoured in time", func() {
			w := worker.NewFrameWorker(q, eng)

			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
			defer cancel()
			err := w.Shutdown(shutdownCtx)

			convey.Convey("Then a timeout error is returned", func() {
				convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When context is cancelled", func() {
			w := worker.NewFrameWorker(q, eng)
			cctx, cancel := context.WithCancel(ctx)
			go w.Run(cctx)
			cancel()

			convey.Convey("Then worker should stop", func() {
				select {
				case <-w.Done():
					convey.So(true, convey.ShouldBeTrue)
				case <-time.After(time.Second):
					convey.So("worker did not stop", convey.ShouldBeEmpty)
				}
			})
		})
	})
}

// dequeuedTotal reads the dequeue counter from the metrics registry.
func dequeuedTotal() float64 {
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		return -1
	}
	for _, f := range families {
		if f.GetName() == "gestus_analyzer_queue_dequeued_total" && len(f.GetMetric()) > 0 {
			return f.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

func TestFrameWorkerWithQueue(t *testing.T) {
	convey.Convey("Given the in-memory queue feeding a worker", t, func() {
		_ = logging.Init()
		ctx := context.Background()
		before := dequeuedTotal()
		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		w := worker.NewFrameWorker(q, engine.New(), worker.WithProgressEvery(0))
		go w.Run(ctx)

		convey.Convey("When more frames than the capacity are enqueued and the queue closes", func() {
			for i := 0; i < 20; i++ {
				convey.So(q.Enqueue(ctx, model.Frame{}), convey.ShouldBeNil)
			}
			convey.So(q.Close(), convey.ShouldBeNil)
			<-w.Done()

			convey.Convey("Then every frame is processed", func() {
				convey.So(w.Summary().Frames, convey.ShouldEqual, 20)
			})

			convey.Convey("Then every received frame is counted as dequeued", func() {
				convey.So(dequeuedTotal()-before, convey.ShouldEqual, 20)
			})
		})
	})
}
