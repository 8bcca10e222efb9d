package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netstat_graph_nodes",
			Help: "Number of nodes in the analyzed graph",
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netstat_graph_edges",
			Help: "Number of edges in the analyzed graph",
		},
	)

	r.GraphComponents = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netstat_graph_components",
			Help: "Number of connected components in the analyzed graph",
		},
	)
}

func (r *Registry) initAlgorithmMetrics() {
	r.AlgorithmIterations = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netstat_algorithm_iterations",
			Help:    "Iterations or passes used per algorithm run",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"algorithm"},
	)

	r.CommunitiesFound = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "netstat_communities",
			Help: "Number of communities found by the last run",
		},
		[]string{"algorithm"},
	)

	r.ModularityScore = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "netstat_modularity",
			Help: "Modularity of the last partition per algorithm",
		},
		[]string{"algorithm"},
	)

	r.ConvergenceFailures = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netstat_convergence_failures_total",
			Help: "Iterative algorithms that stopped at their iteration cap",
		},
		[]string{"algorithm"},
	)

	r.ExportBytesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netstat_export_bytes_total",
			Help: "Bytes written per export sink",
		},
		[]string{"sink"},
	)

	r.ExportFailuresTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netstat_export_failures_total",
			Help: "Failed writes per export sink",
		},
		[]string{"sink"},
	)
}
