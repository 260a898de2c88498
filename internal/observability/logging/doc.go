// Package logging provides structured logging utilities with context propagation.
//
// Example usage:
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//
//	cycleLogger := logging.WithCycleID(logger, report.CycleID.String())
//	ctx = logging.WithLogger(ctx, cycleLogger)
//	logging.FromContext(ctx).Info("category ingested", slog.String("category", "Tech"))
package logging
