package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/gestus/internal/domain/engine"
	"github.com/okian/gestus/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewAnnotation(t *testing.T) {
	Convey("Given frame results", t, func() {
		Convey("When nothing fired and no anomaly was recorded", func() {
			_, ok := NewAnnotation("run", engine.FrameResult{Index: 3})

			Convey("Then no annotation is produced", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a wave fired alongside an anomaly", func() {
			res := engine.FrameResult{
				Index:     7,
				Fired:     model.Fired{Wave: true},
				Anomalies: 2,
				Emotions:  []string{"fear", "happy"},
				Context:   engine.FrameContext{FaceDetected: true, UpperBodyVisible: true, BBoxHeightRatio: 0.3},
			}
			a, ok := NewAnnotation("run-1", res)

			Convey("Then the annotation carries both kinds", func() {
				So(ok, ShouldBeTrue)
				So(a.RunID, ShouldEqual, "run-1")
				So(a.Frame, ShouldEqual, 7)
				So(a.Kinds, ShouldResemble, []model.EventKind{model.EventWave, model.EventAnomaly})
				So(a.Anomalies, ShouldEqual, 2)
				So(a.Emotions, ShouldResemble, []string{"fear", "happy"})
				So(a.Context.BBoxHeightRatio, ShouldEqual, 0.3)
				So(a.Has(model.EventWave), ShouldBeTrue)
				So(a.Has(model.EventDance), ShouldBeFalse)
				So(a.Has(""), ShouldBeTrue)
			})
		})
	})
}

func TestTimelineStore(t *testing.T) {
	Convey("Given a timeline store with capacity 3", t, func() {
		ctx := context.Background()
		fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		s := NewTimelineStore(WithCapacity(3), WithClock(func() time.Time { return fixed }))

		appendKinds := func(frame int, kinds ...model.EventKind) Annotation {
			a, err := s.Append(ctx, Annotation{RunID: "r", Frame: frame, Kinds: kinds})
			So(err, ShouldBeNil)
			return a
		}

		Convey("When annotations are appended", func() {
			first := appendKinds(1, model.EventWave)

			Convey("Then an ID and timestamp are assigned", func() {
				So(first.ID, ShouldNotBeEmpty)
				So(first.RecordedAt, ShouldEqual, fixed)
				So(s.Count(ctx), ShouldEqual, 1)
				So(s.Len(), ShouldEqual, 1)
			})

			Convey("Then a caller supplied ID is kept", func() {
				a, err := s.Append(ctx, Annotation{ID: "fixed-id", Frame: 2, Kinds: []model.EventKind{model.EventDance}})
				So(err, ShouldBeNil)
				So(a.ID, ShouldEqual, "fixed-id")
			})
		})

		Convey("When more annotations arrive than the capacity", func() {
			appendKinds(1, model.EventWave)
			appendKinds(2, model.EventHandshake)
			appendKinds(3, model.EventWave, model.EventAnomaly)
			appendKinds(4, model.EventDance)

			Convey("Then the oldest is evicted and Count keeps the total", func() {
				So(s.Len(), ShouldEqual, 3)
				So(s.Count(ctx), ShouldEqual, 4)

				all, err := s.Recent(ctx, "", 10)
				So(err, ShouldBeNil)
				So(all, ShouldHaveLength, 3)
				So(all[0].Frame, ShouldEqual, 4)
				So(all[2].Frame, ShouldEqual, 2)
			})

			Convey("Then Recent filters by kind newest first", func() {
				waves, err := s.Recent(ctx, model.EventWave, 5)
				So(err, ShouldBeNil)
				So(waves, ShouldHaveLength, 1)
				So(waves[0].Frame, ShouldEqual, 3)

				one, err := s.Recent(ctx, "", 1)
				So(err, ShouldBeNil)
				So(one, ShouldHaveLength, 1)
				So(one[0].Frame, ShouldEqual, 4)
			})
		})

		Convey("When used through the Store interface", func() {
			var store Store = s
			_, err := store.Append(ctx, Annotation{Frame: 9, Kinds: []model.EventKind{model.EventHandshake}})
			So(err, ShouldBeNil)
			got, err := store.Recent(ctx, model.EventHandshake, 1)

			Convey("Then appends and reads behave the same", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 1)
				So(got[0].Frame, ShouldEqual, 9)
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When Recent is called with bad arguments", func() {
			_, errLimit := s.Recent(ctx, "", 0)
			_, errKind := s.Recent(ctx, "cartwheel", 5)

			Convey("Then the sentinel errors are returned", func() {
				So(errors.Is(errLimit, ErrInvalidLimit), ShouldBeTrue)
				So(errors.Is(errKind, ErrUnknownKind), ShouldBeTrue)
			})
		})

		Convey("When one writer and many readers run concurrently", func() {
			var wg sync.WaitGroup
			for r := 0; r < 4; r++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 100; i++ {
						_, _ = s.Recent(ctx, model.EventWave, 3)
					}
				}()
			}
			for i := 0; i < 100; i++ {
				appendKinds(i+1, model.EventWave)
			}
			wg.Wait()

			Convey("Then the store stays consistent", func() {
				So(s.Count(ctx), ShouldEqual, 100)
				So(s.Len(), ShouldEqual, 3)
			})
		})
	})
}
