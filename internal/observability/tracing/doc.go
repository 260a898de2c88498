// Package tracing provides OpenTelemetry tracing helpers.
//
// Spans go to whatever provider is installed globally with
// otel.SetTracerProvider; without one they are no-ops. The ingestion
// cycle, each category pass and each outbound provider request get a span.
package tracing
