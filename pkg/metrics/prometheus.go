// Package metrics provides Prometheus metrics for the restitution analysis.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the Prometheus collectors of one analysis process.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Solver metrics
	solves      *prometheus.CounterVec
	failures    *prometheus.CounterVec
	nonPhysical *prometheus.CounterVec
	coefficient *prometheus.HistogramVec
	mean        *prometheus.GaugeVec

	// Run metrics
	runs            prometheus.Counter
	runDuration     prometheus.Histogram
	lastRunUnixTime prometheus.Gauge

	// HTTP report metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// coefficientBuckets cover the interval a physical bounce can land in, with
// an overflow bucket for non-physical roots.
var coefficientBuckets = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.65, 0.7, 0.75, 0.8, 0.85, 0.9, 0.95, 1} //nolint:gochecknoglobals // bucket layout

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "restitution",
		subsystem:        "analysis",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	return m.metricPrefix + n
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.solves = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("solves_total"),
		Help:        "Total number of measurements solved successfully",
		ConstLabels: labels,
	}, []string{"material"})

	m.failures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("solve_failures_total"),
		Help:        "Total number of measurements rejected by the solver, by reason",
		ConstLabels: labels,
	}, []string{"material", "reason"})

	m.nonPhysical = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("non_physical_total"),
		Help:        "Solved coefficients that fall outside (0,1)",
		ConstLabels: labels,
	}, []string{"material"})

	m.coefficient = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("coefficient"),
		Help:        "Distribution of solved coefficients of restitution",
		Buckets:     coefficientBuckets,
		ConstLabels: labels,
	}, []string{"material"})

	m.mean = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("mean_coefficient"),
		Help:        "Mean coefficient of restitution of the last run",
		ConstLabels: labels,
	}, []string{"material"})

	m.runs = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("runs_total"),
		Help:        "Total number of analysis runs",
		ConstLabels: labels,
	})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("run_duration_milliseconds"),
		Help:        "Wall time of an analysis run in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.lastRunUnixTime = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("last_run_unixtime"),
		Help:        "Unix time the last analysis run finished",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_requests_total"),
		Help:        "Total number of HTTP report requests by endpoint and method",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_request_duration_milliseconds"),
		Help:        "HTTP report request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordSolve records a solved coefficient for a material.
func (m *Manager) RecordSolve(material string, coefficient float64) {
	if !m.enabled {
		return
	}
	m.solves.WithLabelValues(material).Inc()
	m.coefficient.WithLabelValues(material).Observe(coefficient)
	if coefficient <= 0 || coefficient >= 1 {
		m.nonPhysical.WithLabelValues(material).Inc()
	}
}

// RecordSolveFailure records a rejected measurement.
func (m *Manager) RecordSolveFailure(material, reason string) {
	if !m.enabled {
		return
	}
	m.failures.WithLabelValues(material, reason).Inc()
}

// UpdateMean sets the mean coefficient of the last run for a material.
func (m *Manager) UpdateMean(material string, mean float64) {
	if !m.enabled {
		return
	}
	m.mean.WithLabelValues(material).Set(mean)
}

// RecordRun records a finished analysis run.
func (m *Manager) RecordRun(durationMs float64, finishedUnix float64) {
	if !m.enabled {
		return
	}
	m.runs.Inc()
	m.runDuration.Observe(durationMs)
	m.lastRunUnixTime.Set(finishedUnix)
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// Default returns the process-wide manager backed by the custom registry.
func Default() *Manager {
	return globalManager
}

// RecordSolve records a solved coefficient on the global manager.
func RecordSolve(material string, coefficient float64) {
	globalManager.RecordSolve(material, coefficient)
}

// RecordSolveFailure records a rejected measurement on the global manager.
func RecordSolveFailure(material, reason string) {
	globalManager.RecordSolveFailure(material, reason)
}

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile dumps every metric of gatherer to path in the text
// exposition format, for node_exporter's textfile collector.
func WriteTextfile(path string, gatherer prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, gatherer); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}
