package ingest

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CategoryReport is the tally of one catalog entry within a cycle.
// A failed fetch sets Failed and Err and leaves the counts at zero.
type CategoryReport struct {
	Category          string        `json:"category"`
	Fetched           int           `json:"fetched"`
	Accepted          int           `json:"accepted"`
	RejectedDuplicate int           `json:"rejected_duplicate"`
	RejectedInvalid   int           `json:"rejected_invalid"`
	RejectedStorage   int           `json:"rejected_storage"`
	Failed            bool          `json:"failed"`
	Err               error         `json:"-"`
	Duration          time.Duration `json:"duration_ns"`
}

// MarshalJSON renders Err as its message.
func (r CategoryReport) MarshalJSON() ([]byte, error) {
	type plain CategoryReport
	out := struct {
		plain
		Error string `json:"error,omitempty"`
	}{plain: plain(r)}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

// CycleReport summarizes one ingestion cycle. It is returned to the caller
// and logged; it is not persisted.
type CycleReport struct {
	CycleID    uuid.UUID        `json:"cycle_id"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Skipped    bool             `json:"skipped"`
	SkipReason string           `json:"skip_reason,omitempty"`
	Cancelled  bool             `json:"cancelled"`
	Categories []CategoryReport `json:"categories"`
}

// Totals aggregates the category reports.
type Totals struct {
	Fetched           int `json:"fetched"`
	Accepted          int `json:"accepted"`
	RejectedDuplicate int `json:"rejected_duplicate"`
	RejectedInvalid   int `json:"rejected_invalid"`
	RejectedStorage   int `json:"rejected_storage"`
	FailedCategories  int `json:"failed_categories"`
}

// Totals sums the counts of every category in the report.
func (r *CycleReport) Totals() Totals {
	var t Totals
	for _, c := range r.Categories {
		t.Fetched += c.Fetched
		t.Accepted += c.Accepted
		t.RejectedDuplicate += c.RejectedDuplicate
		t.RejectedInvalid += c.RejectedInvalid
		t.RejectedStorage += c.RejectedStorage
		if c.Failed {
			t.FailedCategories++
		}
	}
	return t
}

// Category returns the report for name, if that category ran.
func (r *CycleReport) Category(name string) (CategoryReport, bool) {
	for _, c := range r.Categories {
		if c.Category == name {
			return c, true
		}
	}
	return CategoryReport{}, false
}
