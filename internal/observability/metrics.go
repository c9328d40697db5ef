package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tracingExporterFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurantops_tracing_export_failures_total",
			Help: "Number of tracing exporter initialization failures by exporter protocol.",
		},
		[]string{"service_name", "exporter"},
	)

	// RunsTotal counts completed pipeline runs by outcome ("success",
	// "partial", "failed").
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurantops_runs_total",
			Help: "Number of pipeline runs by outcome.",
		},
		[]string{"restaurant_id", "outcome"},
	)

	// RunDuration observes wall-clock time for a full pipeline run.
	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restaurantops_run_duration_seconds",
			Help:    "Duration of a full pipeline run in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"restaurant_id"},
	)

	// StageDuration observes wall-clock time for a single pipeline stage.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restaurantops_stage_duration_seconds",
			Help:    "Duration of a single pipeline stage in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	// StageFailuresTotal counts stage failures by stage and error kind.
	StageFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurantops_stage_failures_total",
			Help: "Number of stage failures by stage and error kind.",
		},
		[]string{"stage", "kind"},
	)
)

func recordExporterFailure(serviceName, exporter string) {
	if serviceName == "" {
		serviceName = "unknown"
	}
	tracingExporterFailures.WithLabelValues(serviceName, exporter).Inc()
}

// ExporterFailures exposes the tracing exporter failure counter for tests
// and dashboards.
func ExporterFailures() *prometheus.CounterVec {
	return tracingExporterFailures
}
