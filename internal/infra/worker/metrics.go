package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/daniel-odulate22/PulsePoint/internal/pkg/config"
)

// WorkerMetrics holds the worker's configuration and scheduling metrics.
// Ingestion outcomes are reported by the observability/metrics package.
type WorkerMetrics struct {
	*config.ConfigMetrics

	// ScheduledRunsTotal counts job invocations by trigger (startup, cron).
	ScheduledRunsTotal *prometheus.CounterVec

	// JobPanicsTotal counts recovered job panics by trigger.
	JobPanicsTotal *prometheus.CounterVec

	// RunningJobs is the number of jobs currently executing. Above one
	// means cycles overlap.
	RunningJobs prometheus.Gauge

	// NextRunTimestamp is the Unix time of the next scheduled run.
	NextRunTimestamp prometheus.Gauge
}

// NewWorkerMetrics registers the worker metrics with reg.
// A nil reg means prometheus.DefaultRegisterer.
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics(reg, "worker"),

		ScheduledRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_scheduled_runs_total",
			Help: "Total number of scheduled job invocations by trigger",
		}, []string{"trigger"}),

		JobPanicsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_job_panics_total",
			Help: "Total number of recovered panics in scheduled jobs by trigger",
		}, []string{"trigger"}),

		RunningJobs: factory.NewGauge(prometheus.GaugeOpts{
			Name: "worker_running_jobs",
			Help: "Number of ingestion jobs currently running",
		}),

		NextRunTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "worker_next_run_timestamp_seconds",
			Help: "Unix timestamp of the next scheduled run",
		}),
	}
}
