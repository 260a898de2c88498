package worker

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	_, err := NewScheduler("not a cron", time.UTC, func(context.Context) {}, discardLogger())
	assert.Error(t, err)

	_, err = NewScheduler("0 */3 * * *", time.UTC, nil, discardLogger())
	assert.Error(t, err)
}

func TestScheduler_Start_RunsOnceSynchronously(t *testing.T) {
	var runs int32
	s, err := NewScheduler("0 */3 * * *", time.UTC, func(context.Context) {
		atomic.AddInt32(&runs, 1)
	}, discardLogger())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Equal(t, int32(1), atomic.LoadInt32(&runs), "startup run completes before Start returns")
	next := s.Next()
	assert.Equal(t, 0, next.Minute())
	assert.Equal(t, 0, next.Hour()%3)
}

func TestScheduler_Start_WithoutRunOnStart(t *testing.T) {
	var runs int32
	s, err := NewScheduler("@daily", time.UTC, func(context.Context) {
		atomic.AddInt32(&runs, 1)
	}, discardLogger(), WithRunOnStart(false))
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Equal(t, int32(0), atomic.LoadInt32(&runs))
}

func TestScheduler_Start_Twice(t *testing.T) {
	s, err := NewScheduler("@daily", time.UTC, func(context.Context) {}, discardLogger(), WithRunOnStart(false))
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyStarted)
}

func TestScheduler_Start_CancelledContext(t *testing.T) {
	var runs int32
	s, err := NewScheduler("@daily", time.UTC, func(context.Context) {
		atomic.AddInt32(&runs, 1)
	}, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Start(ctx), context.Canceled)
	assert.Equal(t, int32(0), atomic.LoadInt32(&runs))
}

func TestScheduler_TicksAndRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWorkerMetrics(reg)

	var runs int32
	s, err := NewScheduler("@every 1s", time.UTC, func(context.Context) {
		atomic.AddInt32(&runs, 1)
	}, discardLogger(), WithSchedulerMetrics(m))
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 2 }, 3*time.Second, 50*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScheduledRunsTotal.WithLabelValues(TriggerStartup)))
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.ScheduledRunsTotal.WithLabelValues(TriggerCron)), 1.0)
	assert.Greater(t, testutil.ToFloat64(m.NextRunTimestamp), 0.0)
}

func TestScheduler_JobContextFollowsStartContext(t *testing.T) {
	var (
		mu     sync.Mutex
		jobCtx context.Context
	)
	s, err := NewScheduler("@daily", time.UTC, func(ctx context.Context) {
		mu.Lock()
		jobCtx = ctx
		mu.Unlock()
	}, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	defer s.Stop()

	mu.Lock()
	got := jobCtx
	mu.Unlock()
	require.NotNil(t, got)
	assert.NoError(t, got.Err())

	cancel()
	assert.ErrorIs(t, got.Err(), context.Canceled)
}

func TestScheduler_StopWaitsForRunningJobs(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	s, err := NewScheduler("@every 1s", time.UTC, func(context.Context) {
		once.Do(func() { close(started) })
		<-release
	}, discardLogger(), WithRunOnStart(false))
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled job did not start")
	}

	done := s.Stop()
	select {
	case <-done.Done():
		t.Fatal("stop completed while a job was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-done.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("stop did not complete after the job returned")
	}
}

func TestScheduler_RecoversFromPanic(t *testing.T) {
	var runs int32
	s, err := NewScheduler("@every 1s", time.UTC, func(context.Context) {
		if atomic.AddInt32(&runs, 1) == 2 {
			panic("boom")
		}
	}, discardLogger())
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 3 }, 4*time.Second, 50*time.Millisecond)
}

func TestScheduler_Start_SurvivesStartupPanic(t *testing.T) {
	m := NewWorkerMetrics(prometheus.NewRegistry())
	s, err := NewScheduler("@daily", time.UTC, func(context.Context) {
		panic("first cycle failed")
	}, discardLogger(), WithSchedulerMetrics(m))
	require.NoError(t, err)

	require.NotPanics(t, func() {
		assert.NoError(t, s.Start(context.Background()))
	})
	defer s.Stop()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobPanicsTotal.WithLabelValues(TriggerStartup)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RunningJobs))
	assert.False(t, s.Next().IsZero(), "schedule starts after a panicking startup run")
}
