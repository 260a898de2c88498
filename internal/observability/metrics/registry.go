// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingestion cycle metrics
var (
	// IngestCyclesTotal counts cycles by outcome (completed, skipped, cancelled)
	IngestCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulsepoint_ingest_cycles_total",
			Help: "Total number of ingestion cycles by outcome",
		},
		[]string{"outcome"},
	)

	// IngestCycleDuration measures a full pass over the catalog
	IngestCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pulsepoint_ingest_cycle_duration_seconds",
			Help:    "Duration of ingestion cycles in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	// IngestLastCompletedTimestamp is the unix time of the last completed cycle
	IngestLastCompletedTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pulsepoint_ingest_last_completed_timestamp_seconds",
			Help: "Unix timestamp of the last completed ingestion cycle",
		},
	)
)

// Per-category metrics
var (
	// IngestArticlesTotal counts items per category by result
	// (fetched, accepted, duplicate, invalid, storage_error)
	IngestArticlesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulsepoint_ingest_articles_total",
			Help: "Total number of ingested items by category and result",
		},
		[]string{"category", "result"},
	)

	// IngestCategoryFailuresTotal counts categories whose fetch failed
	IngestCategoryFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulsepoint_ingest_category_failures_total",
			Help: "Total number of failed category fetches",
		},
		[]string{"category"},
	)

	// IngestCategoryDuration measures one category within a cycle
	IngestCategoryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pulsepoint_ingest_category_duration_seconds",
			Help:    "Duration of a single category pass in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"category"},
	)
)

// Provider metrics
var (
	// ProviderRequestsTotal counts outbound provider calls by status
	// (success, failure, circuit_open)
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulsepoint_provider_requests_total",
			Help: "Total number of outbound news provider requests",
		},
		[]string{"provider", "status"},
	)

	// ProviderRequestDuration measures outbound provider latency
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pulsepoint_provider_request_duration_seconds",
			Help:    "Duration of outbound news provider requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
)
