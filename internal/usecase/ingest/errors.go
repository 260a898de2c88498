// Package ingest implements the news ingestion pipeline: it resolves the
// author of record, walks the source catalog, fetches each category from the
// news provider, and normalizes, deduplicates and stores what comes back.
package ingest

import (
	"errors"
	"fmt"
)

// Sentinel errors for ingestion.
var (
	// ErrAuthorNotFound indicates storage holds no user to attribute
	// articles to. The cycle is skipped and retried on the next tick.
	ErrAuthorNotFound = errors.New("no user available to author ingested articles")
)

// FetchError is a provider or transport failure for one catalog category.
// It fails that category only.
type FetchError struct {
	Category string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Category, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RejectReason tells why the normalizer did not store an item.
type RejectReason string

const (
	// Accepted is the zero reason: the item was stored.
	Accepted        RejectReason = ""
	RejectInvalid   RejectReason = "invalid"
	RejectDuplicate RejectReason = "duplicate"
	RejectStorage   RejectReason = "storage-error"
)
