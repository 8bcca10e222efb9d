package metrics

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RecordRun counts a finished run
func (r *Registry) RecordRun(status string) {
	r.RunsTotal.WithLabelValues(status).Inc()
	r.LastRunTime.SetToCurrentTime()
}

// RecordStage observes the duration of one analysis stage
func (r *Registry) RecordStage(stage string, duration time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// UpdateGraphMetrics publishes the size of the analyzed graph
func (r *Registry) UpdateGraphMetrics(nodes, edges, components int) {
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
	r.GraphComponents.Set(float64(components))
}

// RecordIterations observes the iterations used by an iterative algorithm
// and counts a convergence failure when it stopped at its cap
func (r *Registry) RecordIterations(algorithm string, iterations int, converged bool) {
	r.AlgorithmIterations.WithLabelValues(algorithm).Observe(float64(iterations))
	if !converged {
		r.ConvergenceFailures.WithLabelValues(algorithm).Inc()
	}
}

// RecordCommunities publishes the outcome of a community detection run
func (r *Registry) RecordCommunities(algorithm string, communities int, modularity float64) {
	r.CommunitiesFound.WithLabelValues(algorithm).Set(float64(communities))
	r.ModularityScore.WithLabelValues(algorithm).Set(modularity)
}

// RecordExport counts bytes written to a sink, or a failure when err is set
func (r *Registry) RecordExport(sink string, bytes int, err error) {
	if err != nil {
		r.ExportFailuresTotal.WithLabelValues(sink).Inc()
		return
	}
	r.ExportBytesTotal.WithLabelValues(sink).Add(float64(bytes))
}

// UpdateSystemMetrics samples runtime statistics
func (r *Registry) UpdateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
