package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Run Metrics
	RunsTotal     *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	LastRunTime   prometheus.Gauge

	// Graph Metrics
	GraphNodes      prometheus.Gauge
	GraphEdges      prometheus.Gauge
	GraphComponents prometheus.Gauge

	// Algorithm Metrics
	AlgorithmIterations *prometheus.HistogramVec
	CommunitiesFound    *prometheus.GaugeVec
	ModularityScore     *prometheus.GaugeVec
	ConvergenceFailures *prometheus.CounterVec

	// Export Metrics
	ExportBytesTotal    *prometheus.CounterVec
	ExportFailuresTotal *prometheus.CounterVec

	// System Metrics
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initRunMetrics()
	r.initGraphMetrics()
	r.initAlgorithmMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
