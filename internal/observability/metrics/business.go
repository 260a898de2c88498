package metrics

import (
	"time"
)

// Cycle outcomes.
const (
	OutcomeCompleted = "completed"
	OutcomeSkipped   = "skipped"
	OutcomeCancelled = "cancelled"
)

// Provider request statuses.
const (
	StatusSuccess     = "success"
	StatusFailure     = "failure"
	StatusCircuitOpen = "circuit_open"
)

// CategoryCounts is the per-category tally reported after a category pass.
type CategoryCounts struct {
	Fetched           int
	Accepted          int
	RejectedDuplicate int
	RejectedInvalid   int
	RejectedStorage   int
}

// RecordCycle records the outcome and duration of an ingestion cycle.
// Completed cycles also move the last-completed timestamp.
func RecordCycle(outcome string, finishedAt time.Time, duration time.Duration) {
	IngestCyclesTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSkipped {
		return
	}
	IngestCycleDuration.Observe(duration.Seconds())
	if outcome == OutcomeCompleted {
		IngestLastCompletedTimestamp.Set(float64(finishedAt.Unix()))
	}
}

// RecordCategory records the tally of one category pass.
func RecordCategory(category string, counts CategoryCounts, failed bool, duration time.Duration) {
	IngestArticlesTotal.WithLabelValues(category, "fetched").Add(float64(counts.Fetched))
	IngestArticlesTotal.WithLabelValues(category, "accepted").Add(float64(counts.Accepted))
	IngestArticlesTotal.WithLabelValues(category, "duplicate").Add(float64(counts.RejectedDuplicate))
	IngestArticlesTotal.WithLabelValues(category, "invalid").Add(float64(counts.RejectedInvalid))
	IngestArticlesTotal.WithLabelValues(category, "storage_error").Add(float64(counts.RejectedStorage))
	if failed {
		IngestCategoryFailuresTotal.WithLabelValues(category).Inc()
	}
	IngestCategoryDuration.WithLabelValues(category).Observe(duration.Seconds())
}

// RecordProviderRequest records one outbound provider call.
func RecordProviderRequest(provider, status string, duration time.Duration) {
	ProviderRequestsTotal.WithLabelValues(provider, status).Inc()
	if status != StatusCircuitOpen {
		ProviderRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
	}
}
