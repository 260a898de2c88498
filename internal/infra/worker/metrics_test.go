package worker

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func TestNewWorkerMetrics_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWorkerMetrics(reg)

	m.ScheduledRunsTotal.WithLabelValues(TriggerCron).Inc()
	m.RunningJobs.Set(1)
	m.NextRunTimestamp.Set(1700000000)
	m.RecordFallback("CRON_SCHEDULE")

	families := gather(t, reg)

	runs := families["worker_scheduled_runs_total"]
	require.NotNil(t, runs)
	require.Len(t, runs.GetMetric(), 1)
	labels := runs.GetMetric()[0].GetLabel()
	require.Len(t, labels, 1)
	assert.Equal(t, "trigger", labels[0].GetName())
	assert.Equal(t, TriggerCron, labels[0].GetValue())
	assert.Equal(t, 1.0, runs.GetMetric()[0].GetCounter().GetValue())

	assert.Equal(t, dto.MetricType_GAUGE, families["worker_running_jobs"].GetType())
	assert.Equal(t, 1700000000.0, families["worker_next_run_timestamp_seconds"].GetMetric()[0].GetGauge().GetValue())
	assert.Contains(t, families, "worker_config_fallbacks_total")
}

func TestNewWorkerMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewWorkerMetrics(prometheus.NewRegistry())
		NewWorkerMetrics(prometheus.NewRegistry())
	})
}
