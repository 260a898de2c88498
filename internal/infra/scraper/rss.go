// Package scraper fetches news items from RSS/Atom feeds built from URL
// templates, for deployments that do not use NewsAPI.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/daniel-odulate22/PulsePoint/internal/catalog"
	"github.com/daniel-odulate22/PulsePoint/internal/config"
	"github.com/daniel-odulate22/PulsePoint/internal/infra/fetcher"
	"github.com/daniel-odulate22/PulsePoint/internal/usecase/ingest"
)

// defaultRegion fills templates for entries without a region.
const defaultRegion = "us"

// generalTopic selects the headlines feed instead of a topic section.
const generalTopic = "general"

// RSSFetcher implements ingest.Fetcher over feed URL templates.
type RSSFetcher struct {
	templates config.RSSConfig
	userAgent string
	client    *http.Client
	guard     *fetcher.Guard
}

// NewRSSFetcher builds a fetcher from the provider configuration.
func NewRSSFetcher(cfg *config.ProviderConfig) *RSSFetcher {
	return &RSSFetcher{
		templates: cfg.RSS,
		userAgent: cfg.UserAgent,
		client:    fetcher.NewHTTPClient(cfg),
		guard:     fetcher.NewGuard(cfg),
	}
}

// Guard returns the request guard, for health reporting.
func (f *RSSFetcher) Guard() *fetcher.Guard {
	return f.guard
}

// Fetch parses the feed for entry with a single request.
func (f *RSSFetcher) Fetch(ctx context.Context, entry catalog.Entry) ([]ingest.RawArticle, error) {
	return f.guard.Do(ctx, entry.Name, func(ctx context.Context) ([]ingest.RawArticle, error) {
		return f.doFetch(ctx, entry)
	})
}

// FeedURL expands the template that serves entry.
//
// Placeholders: {value} is the query-escaped catalog value, {VALUE} the same
// upper-cased; {region} and {REGION} are the region in lower and upper case.
func (f *RSSFetcher) FeedURL(entry catalog.Entry) string {
	tmpl := f.templates.TopicURLTemplate
	switch {
	case entry.Mode == catalog.ModeKeyword:
		tmpl = f.templates.SearchURLTemplate
	case strings.EqualFold(entry.Value, generalTopic):
		tmpl = f.templates.HeadlinesURLTemplate
	}

	region := entry.Region
	if region == "" {
		region = defaultRegion
	}
	value := url.QueryEscape(entry.Value)
	return strings.NewReplacer(
		"{value}", value,
		"{VALUE}", strings.ToUpper(value),
		"{region}", strings.ToLower(region),
		"{REGION}", strings.ToUpper(region),
	).Replace(tmpl)
}

func (f *RSSFetcher) doFetch(ctx context.Context, entry catalog.Entry) ([]ingest.RawArticle, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = f.userAgent
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(f.FeedURL(entry), ctx)
	if err != nil {
		return nil, &ingest.FetchError{Category: entry.Name, Err: fmt.Errorf("parse feed: %w", err)}
	}

	items := make([]ingest.RawArticle, 0, len(feed.Items))
	for _, it := range feed.Items {
		items = append(items, toRaw(feed, it, entry))
	}
	return items, nil
}

func toRaw(feed *gofeed.Feed, it *gofeed.Item, entry catalog.Entry) ingest.RawArticle {
	content := it.Content
	if content == "" {
		content = it.Description
	}

	var published time.Time
	switch {
	case it.PublishedParsed != nil:
		published = it.PublishedParsed.UTC()
	case it.UpdatedParsed != nil:
		published = it.UpdatedParsed.UTC()
	}

	providerCategory := entry.Value
	if len(it.Categories) > 0 {
		providerCategory = it.Categories[0]
	}

	return ingest.RawArticle{
		Title:            it.Title,
		Description:      PlainText(it.Description),
		Content:          content,
		ImageURL:         imageURL(it),
		URL:              it.Link,
		SourceName:       feed.Title,
		ProviderCategory: providerCategory,
		PublishedAt:      published,
	}
}

func imageURL(it *gofeed.Item) string {
	if it.Image != nil && it.Image.URL != "" {
		return it.Image.URL
	}
	for _, enc := range it.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}
	return ""
}

// PlainText strips markup from an HTML fragment and collapses whitespace.
// Input that fails to parse is returned trimmed.
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
