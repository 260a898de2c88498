package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	workerPkg "github.com/daniel-odulate22/PulsePoint/internal/infra/worker"
	"github.com/daniel-odulate22/PulsePoint/internal/usecase/ingest"
)

func workerCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run ingestion on a schedule with health and metrics endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorker(cmd, flags)
		},
	}
}

func runWorker(cmd *cobra.Command, flags *globalFlags) error {
	logger := slog.Default()
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := workerPkg.NewWorkerMetrics(prometheus.DefaultRegisterer)
	cfg := workerPkg.LoadConfigFromEnv(logger, metrics)
	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Bool("run_on_start", cfg.RunOnStart),
		slog.Int("health_port", cfg.HealthPort),
		slog.Int("metrics_port", cfg.MetricsPort))

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	svc, p, err := newIngestService(flags, st, logger)
	if err != nil {
		return err
	}

	scheduler, err := workerPkg.NewScheduler(cfg.CronSchedule, loc,
		cycleJob(svc, logger), logger,
		workerPkg.WithRunOnStart(cfg.RunOnStart),
		workerPkg.WithSchedulerMetrics(metrics))
	if err != nil {
		return err
	}

	health := workerPkg.NewHealthServer(fmt.Sprintf(":%d", cfg.HealthPort), logger)
	health.AddCheck("database", func() error {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return st.db.PingContext(pingCtx)
	})
	health.AddCheck("provider", func() error {
		if p.Guard().Breaker().IsOpen() {
			return errors.New("circuit open")
		}
		return nil
	})

	if err := registerDBStats(prometheus.DefaultRegisterer, st.db); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return health.Start(gctx) })
	g.Go(func() error {
		return runMetricsServer(gctx, fmt.Sprintf(":%d", cfg.MetricsPort), logger)
	})
	g.Go(func() error {
		if err := scheduler.Start(gctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		health.SetReady(true)
		logger.Info("worker started")

		<-gctx.Done()
		health.SetReady(false)
		logger.Info("waiting for running cycles to finish")
		<-scheduler.Stop().Done()
		return nil
	})

	err = g.Wait()
	logger.Info("worker stopped")
	return err
}

// cycleRunner runs one ingestion cycle.
type cycleRunner interface {
	RunCycle(ctx context.Context) *ingest.CycleReport
}

// cycleJob adapts one ingestion cycle to the scheduler. The cycle runs under
// the scheduler's context only; each fetch is bounded by the HTTP client timeout.
func cycleJob(svc cycleRunner, logger *slog.Logger) func(context.Context) {
	return func(ctx context.Context) {
		report := svc.RunCycle(ctx)
		if report.Skipped {
			logger.Warn("cycle skipped, retrying on next tick",
				slog.String("cycle_id", report.CycleID.String()),
				slog.String("reason", report.SkipReason))
		}
	}
}
