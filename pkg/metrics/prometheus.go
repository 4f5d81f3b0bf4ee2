package metrics

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the passmap service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer
	collecting       atomic.Bool

	// Dataset Metrics - What was loaded at startup
	datasetPasses       prometheus.Gauge
	datasetMatches      prometheus.Gauge
	datasetAggregates   prometheus.Gauge
	datasetLoadDuration prometheus.Histogram

	// Dashboard Metrics - Filter and render activity
	filterTransitions *prometheus.CounterVec
	renders           *prometheus.CounterVec
	renderedMarkers   prometheus.Histogram
	detailFailures    *prometheus.CounterVec

	// Session Metrics
	sessionsActive  prometheus.Gauge
	sessionsEvicted prometheus.Counter
	wsConnections   prometheus.Gauge
	wsMessages      *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "passmap",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.datasetPasses = auto.NewGauge(m.gaugeOpts("dataset_passes", "Number of passes in the loaded dataset"))
	m.datasetMatches = auto.NewGauge(m.gaugeOpts("dataset_matches", "Number of matches in the loaded dataset"))
	m.datasetAggregates = auto.NewGauge(m.gaugeOpts("dataset_aggregates", "Number of player and position aggregate rows"))
	m.datasetLoadDuration = auto.NewHistogram(m.histogramOpts(
		"dataset_load_duration_milliseconds",
		"Time spent reading and validating the dataset in milliseconds",
		[]float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	))

	m.filterTransitions = auto.NewCounterVec(
		m.counterOpts("filter_transitions_total", "Dashboard state transitions by event type"),
		[]string{"event"},
	)
	m.renders = auto.NewCounterVec(
		m.counterOpts("renders_total", "Figures produced by kind"),
		[]string{"kind"},
	)
	m.renderedMarkers = auto.NewHistogram(m.histogramOpts(
		"rendered_markers",
		"Markers drawn per pass plot",
		prometheus.ExponentialBuckets(1, 4, 8),
	))
	m.detailFailures = auto.NewCounterVec(
		m.counterOpts("detail_failures_total", "Detail views that could not be drawn by reason"),
		[]string{"reason"},
	)

	m.sessionsActive = auto.NewGauge(m.gaugeOpts("sessions_active", "Dashboard sessions held in memory"))
	m.sessionsEvicted = auto.NewCounter(m.counterOpts("sessions_evicted_total", "Sessions dropped by the LRU policy"))
	m.wsConnections = auto.NewGauge(m.gaugeOpts("ws_connections", "Open websocket connections"))
	m.wsMessages = auto.NewCounterVec(
		m.counterOpts("ws_messages_total", "Websocket frames by direction"),
		[]string{"direction"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap memory in use in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// sampleSystem records one snapshot of runtime statistics. lastGC is the GC
// count seen by the previous sample.
func (m *Manager) sampleSystem(lastGC uint32) uint32 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.systemMemoryUsage.Set(float64(ms.HeapAlloc))
	m.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))

	n := ms.NumGC - lastGC
	if n > uint32(len(ms.PauseNs)) {
		n = uint32(len(ms.PauseNs))
	}
	for i := uint32(0); i < n; i++ {
		idx := (ms.NumGC - i + 255) % uint32(len(ms.PauseNs))
		m.systemGCPauseTime.Observe(float64(ms.PauseNs[idx]) / float64(time.Millisecond))
	}
	return ms.NumGC
}

// run samples runtime statistics until ctx is cancelled.
func (m *Manager) run(ctx context.Context) error {
	if !m.collecting.CompareAndSwap(false, true) {
		return ErrCollectorRunning
	}
	last := m.sampleSystem(0)
	go func() {
		defer m.collecting.Store(false)
		ticker := time.NewTicker(m.refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				last = m.sampleSystem(last)
			}
		}
	}()
	return nil
}

// StartSystemCollector samples memory, goroutine and GC metrics in the
// background until ctx is cancelled.
func StartSystemCollector(ctx context.Context) error {
	return globalManager.run(ctx)
}

// Dataset Metrics Functions.

// RecordDatasetLoad records how long the dataset took to load.
func RecordDatasetLoad(durationMs float64) {
	globalManager.datasetLoadDuration.Observe(durationMs)
}

// UpdateDatasetRows sets the pass and match row gauges.
func UpdateDatasetRows(passes, matches int) {
	globalManager.datasetPasses.Set(float64(passes))
	globalManager.datasetMatches.Set(float64(matches))
}

// UpdateAggregateRows sets the aggregate row gauge.
func UpdateAggregateRows(rows int) {
	globalManager.datasetAggregates.Set(float64(rows))
}

// Dashboard Metrics Functions.

// RecordFilterTransition counts one reducer transition.
func RecordFilterTransition(event string) {
	globalManager.filterTransitions.WithLabelValues(event).Inc()
}

// RecordRender counts one produced figure of kind ("plot", "detail", "empty", "png", "svg").
func RecordRender(kind string) {
	globalManager.renders.WithLabelValues(kind).Inc()
}

// ObserveRenderedMarkers records the marker count of one pass plot.
func ObserveRenderedMarkers(n int) {
	globalManager.renderedMarkers.Observe(float64(n))
}

// RecordDetailFailure counts a detail view that fell back to an error message.
func RecordDetailFailure(reason string) {
	globalManager.detailFailures.WithLabelValues(reason).Inc()
}

// Session Metrics Functions.

// UpdateSessionsActive sets the number of live sessions.
func UpdateSessionsActive(n int) {
	globalManager.sessionsActive.Set(float64(n))
}

// RecordSessionEvicted counts a session dropped to make room.
func RecordSessionEvicted() {
	globalManager.sessionsEvicted.Inc()
}

// UpdateWSConnections moves the open websocket gauge by delta.
func UpdateWSConnections(delta int) {
	globalManager.wsConnections.Add(float64(delta))
}

// RecordWSMessage counts a websocket frame; direction is "in" or "out".
func RecordWSMessage(direction string) {
	globalManager.wsMessages.WithLabelValues(direction).Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
