// Package metrics provides Prometheus metrics for the cardiorisk engines.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes recorded by RecordComputation.
const (
	OutcomeOK                 = "ok"
	OutcomeInvalidInput       = "invalid_input"
	OutcomeInvalidCombination = "invalid_combination"
	OutcomeError              = "error"
)

// Manager manages all Prometheus metrics of the process.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Engine metrics
	computations        *prometheus.CounterVec
	computeLatency      *prometheus.HistogramVec
	validationFailures  *prometheus.CounterVec
	combinationFailures *prometheus.CounterVec

	// Self-check metrics
	selfcheckCases      *prometheus.CounterVec
	selfcheckFailures   *prometheus.CounterVec
	selfcheckDuplicates prometheus.Counter

	// Queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec

	// Worker metrics
	workerActiveCount       prometheus.Gauge
	workerCasesPerSecond    prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "cardiorisk",
		subsystem:        "engine",
		histogramBuckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50},
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

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: m.customLabels,
		Buckets:     m.histogramBuckets,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.computations = auto.NewCounterVec(
		m.counterOpts("computations_total", "Score computations by score and outcome"),
		[]string{"score", "outcome"},
	)
	m.computeLatency = auto.NewHistogramVec(
		m.histogramOpts("compute_latency_milliseconds", "Score computation latency in milliseconds"),
		[]string{"score"},
	)
	m.validationFailures = auto.NewCounterVec(
		m.counterOpts("validation_failures_total", "Rejected input fields by score and failure kind"),
		[]string{"score", "kind"},
	)
	m.combinationFailures = auto.NewCounterVec(
		m.counterOpts("combination_failures_total", "Rejected field combinations by score and rule"),
		[]string{"score", "rule"},
	)

	m.selfcheckCases = auto.NewCounterVec(
		m.counterOpts("selfcheck_cases_total", "Self-check cases verified by score"),
		[]string{"score"},
	)
	m.selfcheckFailures = auto.NewCounterVec(
		m.counterOpts("selfcheck_failures_total", "Self-check cases that failed verification by score"),
		[]string{"score"},
	)
	m.selfcheckDuplicates = auto.NewCounter(
		m.counterOpts("selfcheck_duplicates_total", "Generated self-check cases skipped as duplicates"),
	)

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current number of queued cases"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum number of queued cases"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio", "Queue size divided by capacity"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueued_total", "Cases accepted by the queue"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("queue_dequeued_total", "Cases handed to workers"))
	m.queueEnqueueErrors = auto.NewCounterVec(
		m.counterOpts("queue_enqueue_errors_total", "Cases rejected by the queue by reason"),
		[]string{"reason"},
	)

	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count", "Number of running workers"))
	m.workerCasesPerSecond = auto.NewGauge(m.gaugeOpts("worker_cases_per_second", "Cases verified per second over the last interval"))
	m.workerProcessingLatency = auto.NewHistogram(
		m.histogramOpts("worker_processing_latency_milliseconds", "Time a worker spends on one case in milliseconds"),
	)
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Cases a worker could not verify"))
}

// RecordComputation counts one computation and observes its latency.
func (m *Manager) RecordComputation(score, outcome string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.computations.WithLabelValues(score, outcome).Inc()
	m.computeLatency.WithLabelValues(score).Observe(latencyMs)
}

// RecordValidationFailure counts one rejected field.
func (m *Manager) RecordValidationFailure(score, kind string) {
	if m.enabled {
		m.validationFailures.WithLabelValues(score, kind).Inc()
	}
}

// RecordCombinationFailure counts one violated combination rule.
func (m *Manager) RecordCombinationFailure(score, rule string) {
	if m.enabled {
		m.combinationFailures.WithLabelValues(score, rule).Inc()
	}
}

// RecordSelfcheckCase counts one verified case and whether it failed.
func (m *Manager) RecordSelfcheckCase(score string, passed bool) {
	if !m.enabled {
		return
	}
	m.selfcheckCases.WithLabelValues(score).Inc()
	if !passed {
		m.selfcheckFailures.WithLabelValues(score).Inc()
	}
}

// RecordSelfcheckDuplicate counts one skipped duplicate case.
func (m *Manager) RecordSelfcheckDuplicate() {
	if m.enabled {
		m.selfcheckDuplicates.Inc()
	}
}

// UpdateQueue sets the queue gauges.
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

// RecordEnqueue counts an accepted case.
func (m *Manager) RecordEnqueue() {
	if m.enabled {
		m.queueEnqueued.Inc()
	}
}

// RecordDequeue counts a case handed to a worker.
func (m *Manager) RecordDequeue() {
	if m.enabled {
		m.queueDequeued.Inc()
	}
}

// RecordEnqueueError counts a rejected case.
func (m *Manager) RecordEnqueueError(reason string) {
	if m.enabled {
		m.queueEnqueueErrors.WithLabelValues(reason).Inc()
	}
}

// UpdateWorkerActiveCount sets the number of running workers.
func (m *Manager) UpdateWorkerActiveCount(count int) {
	if m.enabled {
		m.workerActiveCount.Set(float64(count))
	}
}

// UpdateWorkerCasesPerSecond sets the recent throughput.
func (m *Manager) UpdateWorkerCasesPerSecond(rate float64) {
	if m.enabled {
		m.workerCasesPerSecond.Set(rate)
	}
}

// RecordWorkerProcessingLatency observes the time spent on one case.
func (m *Manager) RecordWorkerProcessingLatency(latencyMs float64) {
	if m.enabled {
		m.workerProcessingLatency.Observe(latencyMs)
	}
}

// RecordWorkerError counts a case a worker could not verify.
func (m *Manager) RecordWorkerError() {
	if m.enabled {
		m.workerErrors.Inc()
	}
}

// RecordComputation counts one computation on the global manager.
func RecordComputation(score, outcome string, latencyMs float64) {
	globalManager.RecordComputation(score, outcome, latencyMs)
}

// RecordValidationFailure counts one rejected field on the global manager.
func RecordValidationFailure(score, kind string) {
	globalManager.RecordValidationFailure(score, kind)
}

// RecordCombinationFailure counts one violated rule on the global manager.
func RecordCombinationFailure(score, rule string) {
	globalManager.RecordCombinationFailure(score, rule)
}

// RecordSelfcheckCase counts one verified case on the global manager.
func RecordSelfcheckCase(score string, passed bool) {
	globalManager.RecordSelfcheckCase(score, passed)
}

// RecordSelfcheckDuplicate counts one skipped duplicate on the global manager.
func RecordSelfcheckDuplicate() {
	globalManager.RecordSelfcheckDuplicate()
}

// UpdateQueue sets the queue gauges on the global manager.
func UpdateQueue(size, capacity int) {
	globalManager.UpdateQueue(size, capacity)
}

// RecordEnqueue counts an accepted case on the global manager.
func RecordEnqueue() {
	globalManager.RecordEnqueue()
}

// RecordDequeue counts a dequeued case on the global manager.
func RecordDequeue() {
	globalManager.RecordDequeue()
}

// RecordEnqueueError counts a rejected case on the global manager.
func RecordEnqueueError(reason string) {
	globalManager.RecordEnqueueError(reason)
}

// UpdateWorkerActiveCount sets the running workers on the global manager.
func UpdateWorkerActiveCount(count int) {
	globalManager.UpdateWorkerActiveCount(count)
}

// UpdateWorkerCasesPerSecond sets the throughput on the global manager.
func UpdateWorkerCasesPerSecond(rate float64) {
	globalManager.UpdateWorkerCasesPerSecond(rate)
}

// RecordWorkerProcessingLatency observes case latency on the global manager.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.RecordWorkerProcessingLatency(latencyMs)
}

// RecordWorkerError counts a worker error on the global manager.
func RecordWorkerError() {
	globalManager.RecordWorkerError()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the current state of the global registry to path in
// the Prometheus text exposition format.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteTextfile, path, err)
	}
	return nil
}
