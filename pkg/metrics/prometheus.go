// Package metrics provides Prometheus metrics for the check-in service.
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

// Manager manages all Prometheus metrics for the check-in service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Verification
	scans         *prometheus.CounterVec
	verifyLatency prometheus.Histogram

	// Session state
	rosterRecords prometheus.Gauge
	verifiedCount prometheus.Gauge
	logEntries    prometheus.Gauge
	rosterLoads   prometheus.Counter
	rosterErrors  prometheus.Counter
	sessionResets prometheus.Counter

	// Reports
	reportsBuilt  prometheus.Counter
	reportLatency prometheus.Histogram

	// Scan queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueueErrors *prometheus.CounterVec
	queueWait          prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	authFailures        prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "checkin",
		subsystem:        "engine",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		enabled:          true,
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

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.scans = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "scans_total",
		Help:        "Verification outcomes by status",
		ConstLabels: constLabels,
	}, []string{"status"})

	m.verifyLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "verify_latency_milliseconds",
		Help:        "Time spent matching and deciding a single scan",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	})

	m.rosterRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "roster_records",
		Help:        "Records in the currently loaded roster",
		ConstLabels: constLabels,
	})

	m.verifiedCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "verified_identifiers",
		Help:        "Distinct identifiers checked in during the current session",
		ConstLabels: constLabels,
	})

	m.logEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "log_entries",
		Help:        "Entries in the verification log of the current session",
		ConstLabels: constLabels,
	})

	m.rosterLoads = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "roster_loads_total",
		Help:        "Rosters loaded successfully",
		ConstLabels: constLabels,
	})

	m.rosterErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "roster_load_errors_total",
		Help:        "Roster uploads that could not be parsed",
		ConstLabels: constLabels,
	})

	m.sessionResets = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "session_resets_total",
		Help:        "Sessions dropped by an operator reset",
		ConstLabels: constLabels,
	})

	m.reportsBuilt = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "reports_built_total",
		Help:        "Attendance reports merged",
		ConstLabels: constLabels,
	})

	m.reportLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "report_latency_milliseconds",
		Help:        "Time spent merging the log into the roster",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "scan_queue_size",
		Help:        "Scans waiting for the verification worker",
		ConstLabels: constLabels,
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "scan_queue_capacity",
		Help:        "Maximum number of pending scans",
		ConstLabels: constLabels,
	})

	m.queueEnqueueErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "scan_queue_enqueue_errors_total",
		Help:        "Scans rejected by the queue",
		ConstLabels: constLabels,
	}, []string{"reason"})

	m.queueWait = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "scan_queue_wait_milliseconds",
		Help:        "Time a scan spent queued before verification",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "HTTP requests by endpoint, method and status",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_endpoint_total",
		Help:        "HTTP errors by endpoint",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.authFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "auth_failures_total",
		Help:        "Rejected operator credentials",
		ConstLabels: constLabels,
	})
}

// RecordScan increments the outcome counter for status.
func RecordScan(status string) {
	if !globalManager.enabled {
		return
	}
	globalManager.scans.WithLabelValues(status).Inc()
}

// RecordVerifyLatency observes the time spent on one verification.
func RecordVerifyLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.verifyLatency.Observe(latencyMs)
}

// UpdateRosterRecords sets the loaded roster size.
func UpdateRosterRecords(count int) {
	globalManager.rosterRecords.Set(float64(count))
}

// UpdateVerifiedCount sets the number of identifiers in the dedup tracker.
func UpdateVerifiedCount(count int64) {
	globalManager.verifiedCount.Set(float64(count))
}

// UpdateLogEntries sets the verification log length.
func UpdateLogEntries(count int) {
	globalManager.logEntries.Set(float64(count))
}

// RecordRosterLoad increments the successful roster load counter.
func RecordRosterLoad() {
	globalManager.rosterLoads.Inc()
}

// RecordRosterLoadError increments the failed roster load counter.
func RecordRosterLoadError() {
	globalManager.rosterErrors.Inc()
}

// RecordSessionReset increments the session reset counter.
func RecordSessionReset() {
	globalManager.sessionResets.Inc()
}

// RecordReportBuilt increments the report counter and observes its latency.
func RecordReportBuilt(latencyMs float64) {
	globalManager.reportsBuilt.Inc()
	globalManager.reportLatency.Observe(latencyMs)
}

// UpdateQueueSize sets the number of pending scans.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the scan queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueueError counts a rejected scan.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// RecordQueueWait observes how long a scan waited for the worker.
func RecordQueueWait(latencyMs float64) {
	globalManager.queueWait.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordAuthFailure counts a rejected operator login.
func RecordAuthFailure() {
	globalManager.authFailures.Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
