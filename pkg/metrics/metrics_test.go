package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with the default namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "gestus")
				So(manager.subsystem, ShouldEqual, "analyzer")
				So(manager.enabled, ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("engine"),
				WithHistogramBuckets([]float64{1, 2, 3}),
				WithMetricsEnabled(false),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options apply", func() {
				So(manager.namespace, ShouldEqual, "test")
				So(manager.subsystem, ShouldEqual, "engine")
				So(manager.histogramBuckets, ShouldResemble, []float64{1, 2, 3})
				So(manager.enabled, ShouldBeFalse)
			})
		})

		Convey("When empty options are passed", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "gestus")
				So(manager.subsystem, ShouldEqual, "analyzer")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When recording detection metrics", func() {
			m.RecordFrameProcessed()
			m.RecordFrameProcessed()
			So(m.RecordEventFired("wave"), ShouldBeNil)
			So(m.RecordEventFired("dance"), ShouldBeNil)
			So(m.RecordEventFired("wave"), ShouldBeNil)
			m.RecordAnomalies(3)
			m.RecordAnomalies(0)
			m.RecordPerceptionFailure()
			m.RecordMalformedPose()
			m.UpdateMotionHistorySize(12)
			m.UpdateCooldownRemaining("wave", 17)

			Convey("Then counters and gauges reflect the updates", func() {
				So(testutil.ToFloat64(m.framesProcessed), ShouldEqual, 2)
				So(testutil.ToFloat64(m.eventsFired.WithLabelValues("wave")), ShouldEqual, 2)
				So(testutil.ToFloat64(m.eventsFired.WithLabelValues("dance")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.anomalies), ShouldEqual, 3)
				So(testutil.ToFloat64(m.perceptionFailures), ShouldEqual, 1)
				So(testutil.ToFloat64(m.malformedPoses), ShouldEqual, 1)
				So(testutil.ToFloat64(m.motionHistorySize), ShouldEqual, 12)
				So(testutil.ToFloat64(m.cooldownRemaining.WithLabelValues("wave")), ShouldEqual, 17)
			})
		})

		Convey("When recording an unknown event kind", func() {
			err := m.RecordEventFired("cartwheel")

			Convey("Then it is rejected", func() {
				So(errors.Is(err, ErrUnknownKind), ShouldBeTrue)
			})
		})

		Convey("When updating the queue", func() {
			m.UpdateQueue(25, 100)
			m.RecordQueueEnqueue()
			m.RecordQueueDequeue()
			m.RecordQueueEnqueueError()

			Convey("Then utilization is derived from size and capacity", func() {
				So(testutil.ToFloat64(m.queueSize), ShouldEqual, 25)
				So(testutil.ToFloat64(m.queueCapacity), ShouldEqual, 100)
				So(testutil.ToFloat64(m.queueUtilization), ShouldEqual, 0.25)
				So(testutil.ToFloat64(m.queueEnqueued), ShouldEqual, 1)
				So(testutil.ToFloat64(m.queueDequeued), ShouldEqual, 1)
				So(testutil.ToFloat64(m.queueEnqueueErrors), ShouldEqual, 1)
			})
		})

		Convey("When recording HTTP, error and system metrics", func() {
			So(func() {
				m.RecordHTTPRequest("stats", "GET", "200", 3.5)
				m.RecordErrorByComponent("perception", "decode")
				m.UpdateSystem(1024, 8)
				m.RecordFrameLatency(0.4)
				m.RecordAnnotation()
			}, ShouldNotPanic)
			So(testutil.ToFloat64(m.httpRequests.WithLabelValues("stats", "GET", "200")), ShouldEqual, 1)
			So(testutil.ToFloat64(m.errorsByComponent.WithLabelValues("perception", "decode")), ShouldEqual, 1)
			So(testutil.ToFloat64(m.systemGoroutineCount), ShouldEqual, 8)
			So(testutil.ToFloat64(m.annotationsRecorded), ShouldEqual, 1)
		})
	})

	Convey("Given a disabled manager", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()), WithMetricsEnabled(false))

		Convey("When recording", func() {
			m.RecordFrameProcessed()
			So(m.RecordEventFired("wave"), ShouldBeNil)
			m.UpdateQueue(5, 10)

			Convey("Then nothing changes", func() {
				So(testutil.ToFloat64(m.framesProcessed), ShouldEqual, 0)
				So(testutil.ToFloat64(m.eventsFired.WithLabelValues("wave")), ShouldEqual, 0)
				So(testutil.ToFloat64(m.queueSize), ShouldEqual, 0)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then the package helpers do not panic", func() {
			So(func() {
				RecordFrameProcessed()
				_ = RecordEventFired("handshake")
				RecordAnomalies(1)
				RecordPerceptionFailure()
				RecordMalformedPose()
				RecordFrameLatency(1.2)
				UpdateMotionHistorySize(3)
				UpdateCooldownRemaining("dance", 4)
				RecordAnnotation()
				UpdateQueue(1, 10)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				RecordHTTPRequest("healthz", "GET", "200", 1)
				RecordErrorByComponent("queue", "closed")
				UpdateSystem(2048, 4)
			}, ShouldNotPanic)
		})

		Convey("Then the custom registry gathers gestus metrics", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			found := false
			for _, f := range families {
				if f.GetName() == "gestus_analyzer_frames_processed_total" {
					found = true
				}
			}
			So(found, ShouldBeTrue)
		})
	})
}
