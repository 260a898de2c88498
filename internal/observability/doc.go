// Package observability groups the worker's logging, metrics and tracing.
//
// Subpackages:
//   - logging: slog setup driven by LOG_LEVEL
//   - metrics: Prometheus collectors for cycles, categories and provider requests
//   - tracing: OpenTelemetry spans around cycles and outbound requests
//
// Example usage:
//
//	import (
//	    "github.com/daniel-odulate22/PulsePoint/internal/observability/logging"
//	    "github.com/daniel-odulate22/PulsePoint/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("worker started")
//
//	    metrics.RecordProviderRequest("newsapi", metrics.StatusSuccess, time.Second)
//	}
package observability
