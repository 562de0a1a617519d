// Package metrics provides Prometheus metrics for the quiniela pool service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Core business metrics.
	predictionsEvaluated prometheus.Counter
	roundsResolved       prometheus.Counter
	reductionRejected    prometheus.Counter

	// Snapshot metrics. Computation runs over a wholesale store snapshot;
	// reload duration and age are the freshness signals that matter.
	snapshotReloads        prometheus.Counter
	snapshotReloadDuration prometheus.Histogram
	snapshotLastUnix       prometheus.Gauge

	// Store metrics.
	storeOpDuration *prometheus.HistogramVec
	storeOpErrors   *prometheus.CounterVec

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System metrics.
	systemMemoryBytes prometheus.Gauge
	systemGoroutines  prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager()
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "quiniela",
		subsystem:        "pool",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.predictionsEvaluated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predictions_evaluated_total",
		Help:      "Total number of predictions evaluated against official results",
	})
	m.roundsResolved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rounds_resolved_total",
		Help:      "Total number of round outcomes (winner/loser) resolved",
	})
	m.reductionRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "doubles_rejected_total",
		Help:      "Total number of doubles predictions rejected by reduction-shape validation",
	})

	m.snapshotReloads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_reloads_total",
		Help:      "Total number of store snapshot reloads",
	})
	m.snapshotReloadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_reload_duration_seconds",
		Help:      "Duration of wholesale store snapshot reloads",
		Buckets:   m.histogramBuckets,
	})
	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_last_reload_timestamp_seconds",
		Help:      "Unix timestamp of the last successful snapshot reload",
	})

	m.storeOpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_op_duration_seconds",
		Help:      "Duration of document store operations",
		Buckets:   m.histogramBuckets,
	}, []string{"op", "collection"})
	m.storeOpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_op_errors_total",
		Help:      "Total number of failed document store operations",
	}, []string{"op", "collection"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method"})

	m.systemMemoryBytes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current heap allocation in bytes",
	})
	m.systemGoroutines = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// Handler returns an http.Handler serving this manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Package-level helpers recording on the global manager.

// RecordPredictionEvaluated counts one evaluated prediction.
func RecordPredictionEvaluated() { globalManager.predictionsEvaluated.Inc() }

// RecordRoundResolved counts one resolved round outcome.
func RecordRoundResolved() { globalManager.roundsResolved.Inc() }

// RecordReductionRejected counts one rejected doubles prediction.
func RecordReductionRejected() { globalManager.reductionRejected.Inc() }

// RecordSnapshotReload records one snapshot reload and its duration.
func RecordSnapshotReload(sec float64) {
	globalManager.snapshotReloads.Inc()
	globalManager.snapshotReloadDuration.Observe(sec)
}

// UpdateSnapshotTimestamp records when the snapshot was last rebuilt.
func UpdateSnapshotTimestamp(unix float64) { globalManager.snapshotLastUnix.Set(unix) }

// RecordStoreOp records the duration of one store operation.
func RecordStoreOp(op, collection string, sec float64) {
	globalManager.storeOpDuration.WithLabelValues(op, collection).Observe(sec)
}

// RecordStoreError counts one failed store operation.
func RecordStoreError(op, collection string) {
	globalManager.storeOpErrors.WithLabelValues(op, collection).Inc()
}

// RecordHTTPRequest counts one HTTP request by endpoint, method and status.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records the duration of one HTTP request.
func RecordHTTPRequestDuration(endpoint, method string, sec float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(sec)
}

// UpdateSystemMemoryUsage sets the current heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryBytes.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the current goroutine count gauge.
func UpdateSystemGoroutineCount(n int) { globalManager.systemGoroutines.Set(float64(n)) }

// Handler returns the HTTP handler for the global manager's registry.
func Handler() http.Handler {
	return globalManager.Handler()
}
