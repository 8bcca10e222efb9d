package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRunMetrics() {
	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netstat_runs_total",
			Help: "Total number of analysis runs",
		},
		[]string{"status"},
	)

	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netstat_stage_duration_seconds",
			Help:    "Analysis stage duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120},
		},
		[]string{"stage"},
	)

	r.LastRunTime = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netstat_last_run_timestamp_seconds",
			Help: "Unix time of the last finished run",
		},
	)
}
