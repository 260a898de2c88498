// Package worker runs ingestion cycles on a cron schedule and exposes the
// worker's health endpoints.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/daniel-odulate22/PulsePoint/internal/pkg/config"
)

// WorkerConfig holds the settings of the long-running worker.
type WorkerConfig struct {
	// CronSchedule is a five-field cron spec or a descriptor such as "@hourly".
	// Default: "0 */3 * * *" (every three hours, on the hour)
	CronSchedule string

	// Timezone is the IANA name the schedule is evaluated in.
	// Default: "UTC"
	Timezone string

	// RunOnStart runs one cycle synchronously before the schedule starts,
	// so an empty database is populated without waiting for the first tick.
	// Default: true
	RunOnStart bool

	// HealthPort serves /health and /health/ready. Range: 1024-65535. Default: 9091
	HealthPort int

	// MetricsPort serves /metrics. Range: 1024-65535. Default: 9090
	MetricsPort int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule: "0 */3 * * *",
		Timezone:     "UTC",
		RunOnStart:   true,
		HealthPort:   9091,
		MetricsPort:  9090,
	}
}

// Location loads the configured timezone.
func (c *WorkerConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Validate checks every field and reports all failures together.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := validatePort(c.HealthPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := validatePort(c.MetricsPort); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}
	if c.HealthPort == c.MetricsPort {
		errs = append(errs, fmt.Errorf("health and metrics ports must differ, both are %d", c.HealthPort))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %w", errors.Join(errs...))
	}
	return nil
}

func validatePort(v int) error {
	return config.ValidateIntRange(v, 1024, 65535)
}

// LoadConfigFromEnv reads the worker settings. It never fails: an invalid
// value is replaced by its default, logged and counted in metrics.
//
// Environment variables:
//   - CRON_SCHEDULE (default "0 */3 * * *")
//   - WORKER_TIMEZONE (default "UTC")
//   - WORKER_RUN_ON_START (default true)
//   - WORKER_HEALTH_PORT (default 9091)
//   - METRICS_PORT (default 9090)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) *WorkerConfig {
	cfg := DefaultConfig()
	fallback := false

	note := func(field, warning string, applied bool) {
		if !applied {
			return
		}
		fallback = true
		metrics.RecordFallback(field)
		logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}

	cron := config.LoadEnvString("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = cron.Value
	note("cron_schedule", cron.Warning, cron.FallbackApplied)

	tz := config.LoadEnvString("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = tz.Value
	note("timezone", tz.Warning, tz.FallbackApplied)

	runOnStart := config.LoadEnvBool("WORKER_RUN_ON_START", cfg.RunOnStart)
	cfg.RunOnStart = runOnStart.Value
	note("run_on_start", runOnStart.Warning, runOnStart.FallbackApplied)

	health := config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, validatePort)
	cfg.HealthPort = health.Value
	note("health_port", health.Warning, health.FallbackApplied)

	metricsPort := config.LoadEnvInt("METRICS_PORT", cfg.MetricsPort, validatePort)
	cfg.MetricsPort = metricsPort.Value
	note("metrics_port", metricsPort.Warning, metricsPort.FallbackApplied)

	if cfg.HealthPort == cfg.MetricsPort {
		defaults := DefaultConfig()
		logger.Warn("configuration fallback applied",
			slog.String("field", "health_port"),
			slog.String("warning", fmt.Sprintf("health port %d collides with metrics port, using defaults", cfg.HealthPort)))
		fallback = true
		metrics.RecordFallback("health_port")
		cfg.HealthPort, cfg.MetricsPort = defaults.HealthPort, defaults.MetricsPort
	}

	metrics.SetFallbackActive(fallback)
	metrics.RecordLoadTimestamp()
	return &cfg
}
