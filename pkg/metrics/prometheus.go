// Package metrics provides Prometheus metrics for the podium leaderboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Load results.
const (
	ResultOK         = "ok"
	ResultFetchError = "fetch_error"
)

// Manager manages all Prometheus metrics for the podium service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Pipeline Metrics - one observation per fetch -> parse -> rank run
	loads            *prometheus.CounterVec
	loadDuration     prometheus.Histogram
	recordsParsed    prometheus.Gauge
	malformedTimes   prometheus.Gauge
	diagnosticIssues *prometheus.CounterVec

	// Publication Metrics - last-initiated-wins snapshot store
	boardsPublished prometheus.Counter
	boardsStale     prometheus.Counter
	lastPublishUnix prometheus.Gauge

	// Refresh Metrics - trigger queue and workers
	refreshRequests      *prometheus.CounterVec
	refreshDropped       prometheus.Counter
	refreshQueueSize     prometheus.Gauge
	refreshQueueCapacity prometheus.Gauge
	workerCount          prometheus.Gauge

	// Live viewers connected over websocket
	liveViewers prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

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
	globalManager = NewManager(WithRegistry(customRegistry))
}

// Configure rebuilds the global manager on a fresh registry. It is meant
// for process startup, before any handler captures GetRegistry.
func Configure(opts ...Option) {
	customRegistry = prometheus.NewRegistry()
	globalManager = NewManager(append([]Option{WithRegistry(customRegistry)}, opts...)...)
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "podium",
		subsystem:        "leaderboard",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
		Buckets:     buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.loads = auto.NewCounterVec(m.counterOpts("loads_total",
		"Pipeline runs by result"), []string{"result"})
	m.loadDuration = auto.NewHistogram(m.histogramOpts("load_duration_milliseconds",
		"Fetch, parse and rank time per run in milliseconds", m.histogramBuckets))
	m.recordsParsed = auto.NewGauge(m.gaugeOpts("records_parsed",
		"Records in the most recent successful load"))
	m.malformedTimes = auto.NewGauge(m.gaugeOpts("malformed_times",
		"Records whose time is not a strict M:S:C value in the most recent load"))
	m.diagnosticIssues = auto.NewCounterVec(m.counterOpts("diagnostic_issues_total",
		"Data-quality issues seen across loads by kind"), []string{"kind"})

	m.boardsPublished = auto.NewCounter(m.counterOpts("boards_published_total",
		"Boards that replaced the current one"))
	m.boardsStale = auto.NewCounter(m.counterOpts("boards_stale_total",
		"Boards discarded because a later-initiated run already published"))
	m.lastPublishUnix = auto.NewGauge(m.gaugeOpts("last_publish_unix",
		"Unix time of the latest publication"))

	m.refreshRequests = auto.NewCounterVec(m.counterOpts("refresh_requests_total",
		"Accepted refresh requests by reason"), []string{"reason"})
	m.refreshDropped = auto.NewCounter(m.counterOpts("refresh_dropped_total",
		"Refresh requests rejected because the queue was full or closed"))
	m.refreshQueueSize = auto.NewGauge(m.gaugeOpts("refresh_queue_size",
		"Pending refresh requests"))
	m.refreshQueueCapacity = auto.NewGauge(m.gaugeOpts("refresh_queue_capacity",
		"Refresh queue capacity"))
	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count",
		"Refresh workers running"))

	m.liveViewers = auto.NewGauge(m.gaugeOpts("live_viewers",
		"Websocket viewers connected"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total",
		"Errors by component and type"), []string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total",
		"Errors by type and severity"), []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"HTTP errors by endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogramOpts("error_latency_milliseconds",
		"Latency of failed operations in milliseconds", m.histogramBuckets),
		[]string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes",
		"System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count",
		"Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// Enabled reports whether observations are recorded.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval is how often gauge updaters should sample.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// RecordLoad records one pipeline run.
func (m *Manager) RecordLoad(result string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.loads.WithLabelValues(result).Inc()
	m.loadDuration.Observe(latencyMs)
}

// UpdateLoadShape records the size and quality of the latest successful load.
func (m *Manager) UpdateLoadShape(records, malformed int) {
	if !m.enabled {
		return
	}
	m.recordsParsed.Set(float64(records))
	m.malformedTimes.Set(float64(malformed))
}

// RecordDiagnosticIssue counts one data-quality issue.
func (m *Manager) RecordDiagnosticIssue(kind string) {
	if !m.enabled {
		return
	}
	m.diagnosticIssues.WithLabelValues(kind).Inc()
}

// RecordPublish records the outcome of offering a board to the store.
func (m *Manager) RecordPublish(accepted bool) {
	if !m.enabled {
		return
	}
	if !accepted {
		m.boardsStale.Inc()
		return
	}
	m.boardsPublished.Inc()
	m.lastPublishUnix.Set(float64(time.Now().Unix()))
}

// RecordRefreshRequest counts an accepted refresh request.
func (m *Manager) RecordRefreshRequest(reason string) {
	if !m.enabled {
		return
	}
	m.refreshRequests.WithLabelValues(reason).Inc()
}

// RecordRefreshDropped counts a rejected refresh request.
func (m *Manager) RecordRefreshDropped() {
	if !m.enabled {
		return
	}
	m.refreshDropped.Inc()
}

// UpdateRefreshQueue sets the refresh queue gauges.
func (m *Manager) UpdateRefreshQueue(size, capacity int) {
	if !m.enabled {
		return
	}
	m.refreshQueueSize.Set(float64(size))
	m.refreshQueueCapacity.Set(float64(capacity))
}

// UpdateWorkerCount sets the worker gauge.
func (m *Manager) UpdateWorkerCount(count int) {
	if !m.enabled {
		return
	}
	m.workerCount.Set(float64(count))
}

// AddLiveViewers adjusts the live viewer gauge by delta.
func (m *Manager) AddLiveViewers(delta int) {
	if !m.enabled {
		return
	}
	m.liveViewers.Add(float64(delta))
}

// RecordHTTPRequest increments the HTTP request counter.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent records an error for a component.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	if !m.enabled {
		return
	}
	m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func (m *Manager) RecordErrorByType(errorType, severity string) {
	if !m.enabled {
		return
	}
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an HTTP error for an endpoint.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !m.enabled {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records how long a failed operation took.
func (m *Manager) RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystem records memory, goroutine and GC pause samples.
func (m *Manager) UpdateSystem(memBytes uint64, goroutines int, gcPauseMs float64) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(memBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
	if gcPauseMs > 0 {
		m.systemGCPauseTime.Observe(gcPauseMs)
	}
}

// Package-level helpers delegate to the global manager.

// RecordLoad records one pipeline run.
func RecordLoad(result string, latencyMs float64) { globalManager.RecordLoad(result, latencyMs) }

// UpdateLoadShape records the size and quality of the latest successful load.
func UpdateLoadShape(records, malformed int) { globalManager.UpdateLoadShape(records, malformed) }

// RecordDiagnosticIssue counts one data-quality issue.
func RecordDiagnosticIssue(kind string) { globalManager.RecordDiagnosticIssue(kind) }

// RecordPublish records the outcome of offering a board to the store.
func RecordPublish(accepted bool) { globalManager.RecordPublish(accepted) }

// RecordRefreshRequest counts an accepted refresh request.
func RecordRefreshRequest(reason string) { globalManager.RecordRefreshRequest(reason) }

// RecordRefreshDropped counts a rejected refresh request.
func RecordRefreshDropped() { globalManager.RecordRefreshDropped() }

// UpdateRefreshQueue sets the refresh queue gauges.
func UpdateRefreshQueue(size, capacity int) { globalManager.UpdateRefreshQueue(size, capacity) }

// UpdateWorkerCount sets the worker gauge.
func UpdateWorkerCount(count int) { globalManager.UpdateWorkerCount(count) }

// AddLiveViewers adjusts the live viewer gauge.
func AddLiveViewers(delta int) { globalManager.AddLiveViewers(delta) }

// RecordHTTPRequest records a served HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordErrorByComponent records an error for a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.RecordErrorByType(errorType, severity)
}

// RecordErrorByEndpoint records an HTTP error for an endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// RecordErrorLatency records how long a failed operation took.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.RecordErrorLatency(component, errorType, latencyMs)
}

// UpdateSystem records memory, goroutine and GC pause samples.
func UpdateSystem(memBytes uint64, goroutines int, gcPauseMs float64) {
	globalManager.UpdateSystem(memBytes, goroutines, gcPauseMs)
}

// RefreshInterval is how often gauge updaters should sample.
func RefreshInterval() time.Duration { return globalManager.RefreshInterval() }

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
