package ingest

import (
	"context"
	"time"

	"github.com/daniel-odulate22/PulsePoint/internal/catalog"
)

// RawArticle is one item as the provider returned it, before any validation.
type RawArticle struct {
	Title            string
	Description      string
	Content          string
	ImageURL         string
	URL              string
	SourceName       string
	ProviderCategory string
	PublishedAt      time.Time
}

// Fetcher retrieves the current items for one catalog entry.
// Implementations issue at most one outbound request per call and report
// failures as *FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, entry catalog.Entry) ([]RawArticle, error)
}
