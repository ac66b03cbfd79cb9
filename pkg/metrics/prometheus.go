// Package metrics provides Prometheus metrics for the gestus analyzer.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Event kinds accepted by RecordEventFired.
var knownKinds = map[string]struct{}{
	"wave":      {},
	"handshake": {},
	"dance":     {},
}

// Manager manages all Prometheus metrics for the analyzer.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Detection metrics
	framesProcessed     prometheus.Counter
	eventsFired         *prometheus.CounterVec
	anomalies           prometheus.Counter
	perceptionFailures  prometheus.Counter
	malformedPoses      prometheus.Counter
	frameLatency        prometheus.Histogram
	motionHistorySize   prometheus.Gauge
	cooldownRemaining   *prometheus.GaugeVec
	annotationsRecorded prometheus.Counter

	// Queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gestus",
		subsystem:        "analyzer",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50},
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.framesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frames_processed_total",
		Help:      "Total number of frames run through the detection engine",
	})

	m.eventsFired = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_fired_total",
		Help:      "Total number of activity events fired, by kind",
	}, []string{"kind"})

	m.anomalies = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "anomalies_total",
		Help:      "Total number of anomaly records (one per face per frame at most)",
	})

	m.perceptionFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "perception_failures_total",
		Help:      "Frames whose face/emotion result was a failure and treated as no faces",
	})

	m.malformedPoses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "malformed_poses_total",
		Help:      "Frames with a pose missing landmarks required for motion history",
	})

	m.frameLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frame_step_latency_milliseconds",
		Help:      "Time spent in the detection engine per frame",
		Buckets:   m.histogramBuckets,
	})

	m.motionHistorySize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "motion_history_size",
		Help:      "Snapshots currently held in the dance motion history",
	})

	m.cooldownRemaining = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cooldown_remaining_frames",
		Help:      "Frames left before each cooldown kind is ready",
	}, []string{"kind"})

	m.annotationsRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "annotations_recorded_total",
		Help:      "Annotations appended to the timeline store",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Frames waiting in the frame queue",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Maximum frames the frame queue holds",
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_utilization_ratio",
		Help:      "Frame queue size divided by capacity",
	})

	m.queueEnqueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueued_total",
		Help:      "Frames added to the frame queue",
	})

	m.queueDequeued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeued_total",
		Help:      "Frames taken from the frame queue",
	})

	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_errors_total",
		Help:      "Frames that could not be enqueued",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_total",
		Help:      "Errors by component and type",
	}, []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})
}

// RecordFrameProcessed increments the processed frame counter.
func (m *Manager) RecordFrameProcessed() {
	if m.enabled {
		m.framesProcessed.Inc()
	}
}

// RecordEventFired increments the fired counter for kind.
func (m *Manager) RecordEventFired(kind string) error {
	if _, ok := knownKinds[kind]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if m.enabled {
		m.eventsFired.WithLabelValues(kind).Inc()
	}
	return nil
}

// RecordAnomalies adds n anomaly records.
func (m *Manager) RecordAnomalies(n int) {
	if m.enabled && n > 0 {
		m.anomalies.Add(float64(n))
	}
}

// RecordPerceptionFailure increments the perception failure counter.
func (m *Manager) RecordPerceptionFailure() {
	if m.enabled {
		m.perceptionFailures.Inc()
	}
}

// RecordMalformedPose increments the malformed pose counter.
func (m *Manager) RecordMalformedPose() {
	if m.enabled {
		m.malformedPoses.Inc()
	}
}

// RecordFrameLatency records engine step latency in milliseconds.
func (m *Manager) RecordFrameLatency(latencyMs float64) {
	if m.enabled {
		m.frameLatency.Observe(latencyMs)
	}
}

// UpdateMotionHistorySize sets the motion history gauge.
func (m *Manager) UpdateMotionHistorySize(n int) {
	if m.enabled {
		m.motionHistorySize.Set(float64(n))
	}
}

// UpdateCooldownRemaining sets the remaining frames for a cooldown kind.
func (m *Manager) UpdateCooldownRemaining(kind string, frames int) {
	if m.enabled {
		m.cooldownRemaining.WithLabelValues(kind).Set(float64(frames))
	}
}

// RecordAnnotation increments the annotation counter.
func (m *Manager) RecordAnnotation() {
	if m.enabled {
		m.annotationsRecorded.Inc()
	}
}

// UpdateQueue sets queue size, capacity and utilization at once.
func (m *Manager) UpdateQueue(size, capacity int) {
	if !m.enabled {
		return
	}
	m.queueSize.Set(float64(size))
	m.queueCapacity.Set(float64(capacity))
	if capacity > 0 {
		m.queueUtilization.Set(float64(size) / float64(capacity))
	}
}

// RecordQueueEnqueue increments the enqueue counter.
func (m *Manager) RecordQueueEnqueue() {
	if m.enabled {
		m.queueEnqueued.Inc()
	}
}

// RecordQueueDequeue increments the dequeue counter.
func (m *Manager) RecordQueueDequeue() {
	if m.enabled {
		m.queueDequeued.Inc()
	}
}

// RecordQueueEnqueueError increments the enqueue error counter.
func (m *Manager) RecordQueueEnqueueError() {
	if m.enabled {
		m.queueEnqueueErrors.Inc()
	}
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent records an error with component and type labels.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	if m.enabled {
		m.errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// UpdateSystem sets the memory and goroutine gauges.
func (m *Manager) UpdateSystem(memoryBytes uint64, goroutines int) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(memoryBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
}

// Package-level helpers delegate to the global manager.

// RecordFrameProcessed increments the processed frame counter.
func RecordFrameProcessed() { globalManager.RecordFrameProcessed() }

// RecordEventFired increments the fired counter for kind.
func RecordEventFired(kind string) error { return globalManager.RecordEventFired(kind) }

// RecordAnomalies adds n anomaly records.
func RecordAnomalies(n int) { globalManager.RecordAnomalies(n) }

// RecordPerceptionFailure increments the perception failure counter.
func RecordPerceptionFailure() { globalManager.RecordPerceptionFailure() }

// RecordMalformedPose increments the malformed pose counter.
func RecordMalformedPose() { globalManager.RecordMalformedPose() }

// RecordFrameLatency records engine step latency in milliseconds.
func RecordFrameLatency(latencyMs float64) { globalManager.RecordFrameLatency(latencyMs) }

// UpdateMotionHistorySize sets the motion history gauge.
func UpdateMotionHistorySize(n int) { globalManager.UpdateMotionHistorySize(n) }

// UpdateCooldownRemaining sets the remaining frames for a cooldown kind.
func UpdateCooldownRemaining(kind string, frames int) {
	globalManager.UpdateCooldownRemaining(kind, frames)
}

// RecordAnnotation increments the annotation counter.
func RecordAnnotation() { globalManager.RecordAnnotation() }

// UpdateQueue sets queue size, capacity and utilization at once.
func UpdateQueue(size, capacity int) { globalManager.UpdateQueue(size, capacity) }

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() { globalManager.RecordQueueEnqueue() }

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() { globalManager.RecordQueueDequeue() }

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() { globalManager.RecordQueueEnqueueError() }

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// UpdateSystem sets the memory and goroutine gauges.
func UpdateSystem(memoryBytes uint64, goroutines int) {
	globalManager.UpdateSystem(memoryBytes, goroutines)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
