// Package metrics provides Prometheus metrics for warcut runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcome label values.
const (
	OutcomeSuccess   = "success"
	OutcomeNoData    = "no_data"
	OutcomeIntegrity = "integrity_violation"
	OutcomeFailed    = "failed"
)

// latencyBuckets covers remote API calls that are rate limited to roughly
// one per second.
var latencyBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000} //nolint:gochecknoglobals // fixed bucket layout

// Manager manages all Prometheus metrics for warcut.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Run metrics
	runs               *prometheus.CounterVec
	runDuration        prometheus.Histogram
	actionsScored      prometheus.Counter
	actionsExcluded    prometheus.Counter
	actors             prometheus.Gauge
	penalties          prometheus.Counter
	diagnostics        prometheus.Counter
	integrityFailures  prometheus.Counter
	groupCut           prometheus.Gauge
	duplicateAttacks   prometheus.Counter
	lastRunUnixSeconds prometheus.Gauge

	// Remote API metrics
	apiRequests        *prometheus.CounterVec
	apiRequestDuration *prometheus.HistogramVec
	apiRateLimitWait   prometheus.Histogram

	// Output metrics
	sinkWrites *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "warcut",
		subsystem:        "chain",
		histogramBuckets: latencyBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per metric family
	auto := promauto.With(m.registry)

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Scoring runs by outcome",
	}, []string{"outcome"})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_milliseconds",
		Help:      "Wall time of a full run including fetches and outputs",
		Buckets:   prometheus.ExponentialBuckets(100, 2, 12),
	})

	m.actionsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "actions_scored_total",
		Help:      "Chain hits that reached the scoring core",
	})

	m.actionsExcluded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "actions_excluded_total",
		Help:      "Chain hits dropped for referencing an unknown chain",
	})

	m.actors = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "actors",
		Help:      "Actors in the latest report",
	})

	m.penalties = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "milestone_penalties_total",
		Help:      "Milestone hits penalized for landing outside the opposing faction",
	})

	m.diagnostics = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "gap_diagnostics_total",
		Help:      "Time gaps that fell outside every bucket",
	})

	m.integrityFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "integrity_failures_total",
		Help:      "Runs aborted because cuts did not sum to one",
	})

	m.groupCut = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "group_cut_ratio",
		Help:      "Group share of the pool in the latest report",
	})

	m.duplicateAttacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_attacks_total",
		Help:      "Attacks returned by more than one fetch window or page",
	})

	m.lastRunUnixSeconds = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_run_unix_seconds",
		Help:      "Completion time of the latest successful run",
	})

	m.apiRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "api_requests_total",
		Help:      "Remote API requests by selection and status",
	}, []string{"selection", "status"})

	m.apiRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "api_request_duration_milliseconds",
		Help:      "Remote API request latency in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"selection"})

	m.apiRateLimitWait = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "api_rate_limit_wait_milliseconds",
		Help:      "Time spent waiting for the remote API rate limiter",
		Buckets:   m.histogramBuckets,
	})

	m.sinkWrites = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sink_writes_total",
		Help:      "Report writes by sink and status",
	}, []string{"sink", "status"})

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
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_component_total",
		Help:      "Errors by component and type",
	}, []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Heap bytes allocated by the process",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Number of running goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_milliseconds",
		Help:      "Average garbage collection pause in milliseconds",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
	})
}

// RecordRun records a finished run and its wall time in milliseconds.
func RecordRun(outcome string, durationMs float64) {
	globalManager.runs.WithLabelValues(outcome).Inc()
	globalManager.runDuration.Observe(durationMs)
	if outcome == OutcomeIntegrity {
		globalManager.integrityFailures.Inc()
	}
}

// RecordReport records the size of a successful report.
func RecordReport(scored, excluded, actors, penalties, diagnostics int, groupCut float64, finishedUnix int64) {
	globalManager.actionsScored.Add(float64(scored))
	globalManager.actionsExcluded.Add(float64(excluded))
	globalManager.actors.Set(float64(actors))
	globalManager.penalties.Add(float64(penalties))
	globalManager.diagnostics.Add(float64(diagnostics))
	globalManager.groupCut.Set(groupCut)
	globalManager.lastRunUnixSeconds.Set(float64(finishedUnix))
}

// RecordDuplicateAttack increments the duplicate attack counter.
func RecordDuplicateAttack() {
	globalManager.duplicateAttacks.Inc()
}

// RecordAPIRequest records one remote API call.
func RecordAPIRequest(selection, status string, durationMs float64) {
	globalManager.apiRequests.WithLabelValues(selection, status).Inc()
	globalManager.apiRequestDuration.WithLabelValues(selection).Observe(durationMs)
}

// RecordRateLimitWait records time blocked on the API rate limiter.
func RecordRateLimitWait(waitMs float64) {
	globalManager.apiRateLimitWait.Observe(waitMs)
}

// RecordSinkWrite records one report write.
func RecordSinkWrite(sink, status string) {
	globalManager.sinkWrites.WithLabelValues(sink, status).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error attributed to a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the allocated heap size.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
