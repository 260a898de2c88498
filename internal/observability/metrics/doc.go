// Package metrics provides Prometheus metrics registry and recording utilities.
//
// All metrics are registered with the Prometheus default registry and
// exposed by the worker's /metrics endpoint.
//
// Example usage:
//
//	metrics.RecordCategory("Tech", metrics.CategoryCounts{Fetched: 20, Accepted: 4}, false, time.Since(start))
package metrics
