package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/daniel-odulate22/PulsePoint/internal/pkg/config"
)

// Job triggers.
const (
	TriggerStartup = "startup"
	TriggerCron    = "cron"
)

// ErrAlreadyStarted is returned by a second call to Start.
var ErrAlreadyStarted = errors.New("scheduler already started")

// Scheduler runs a job once at start and then on a cron schedule.
// Runs are not serialized: a tick that fires while a previous run is still
// going starts a second run.
type Scheduler struct {
	cron       *cron.Cron
	entry      cron.EntryID
	job        func(context.Context)
	logger     *slog.Logger
	metrics    *WorkerMetrics
	runOnStart bool

	mu      sync.Mutex
	ctx     context.Context
	started bool
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithRunOnStart controls the synchronous run in Start. Default true.
func WithRunOnStart(run bool) SchedulerOption {
	return func(s *Scheduler) { s.runOnStart = run }
}

// WithSchedulerMetrics records runs in m.
func WithSchedulerMetrics(m *WorkerMetrics) SchedulerOption {
	return func(s *Scheduler) { s.metrics = m }
}

// NewScheduler validates spec and prepares a scheduler evaluated in loc.
func NewScheduler(spec string, loc *time.Location, job func(context.Context), logger *slog.Logger, opts ...SchedulerOption) (*Scheduler, error) {
	if job == nil {
		return nil, errors.New("scheduler job is nil")
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	schedule, err := config.CronParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}

	s := &Scheduler{
		job:        job,
		logger:     logger,
		runOnStart: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	cronLogger := &slogCronLogger{logger: logger}
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithParser(config.CronParser),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger)),
	)
	s.entry = s.cron.Schedule(schedule, cron.FuncJob(func() { s.run(TriggerCron) }))
	return s, nil
}

// Start runs the job once (unless disabled), then starts the schedule.
// Jobs receive ctx, so cancelling it cancels running and future runs.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	if err := ctx.Err(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.ctx = ctx
	s.started = true
	s.mu.Unlock()

	if s.runOnStart {
		s.run(TriggerStartup)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.cron.Start()
	next := s.Next()
	if s.metrics != nil {
		s.metrics.NextRunTimestamp.Set(float64(next.Unix()))
	}
	s.logger.Info("scheduler started", slog.Time("next_run", next))
	return nil
}

// Stop stops scheduling new runs. The returned context is done once every
// running job has returned.
func (s *Scheduler) Stop() context.Context {
	ctx := s.cron.Stop()
	s.logger.Info("scheduler stopped")
	return ctx
}

// Next returns the next scheduled run, or the zero time before Start.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entry).Next
}

func (s *Scheduler) run(trigger string) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}

	if s.metrics != nil {
		s.metrics.ScheduledRunsTotal.WithLabelValues(trigger).Inc()
		s.metrics.RunningJobs.Inc()
		defer s.metrics.RunningJobs.Dec()
	}
	s.logger.Debug("scheduled job starting", slog.String("trigger", trigger))
	s.runJob(ctx, trigger)

	if trigger == TriggerCron && s.metrics != nil {
		s.metrics.NextRunTimestamp.Set(float64(s.Next().Unix()))
	}
}

// runJob runs the job once. A panic is logged and counted; it never reaches
// Start or the cron goroutine.
func (s *Scheduler) runJob(ctx context.Context, trigger string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled job panicked",
				slog.String("trigger", trigger),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			if s.metrics != nil {
				s.metrics.JobPanicsTotal.WithLabelValues(trigger).Inc()
			}
		}
	}()
	s.job(ctx)
}

// slogCronLogger adapts slog to cron.Logger.
type slogCronLogger struct {
	logger *slog.Logger
}

func (l *slogCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l *slogCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]interface{}{slog.Any("error", err)}, keysAndValues...)...)
}
