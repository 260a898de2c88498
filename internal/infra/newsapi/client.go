// Package newsapi fetches top headlines from the NewsAPI v2 endpoint.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/daniel-odulate22/PulsePoint/internal/catalog"
	"github.com/daniel-odulate22/PulsePoint/internal/config"
	"github.com/daniel-odulate22/PulsePoint/internal/infra/fetcher"
	"github.com/daniel-odulate22/PulsePoint/internal/usecase/ingest"
)

const topHeadlinesPath = "/v2/top-headlines"

// maxErrorBody caps how much of a failed response is read.
const maxErrorBody = 64 << 10

// Client implements ingest.Fetcher against NewsAPI.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	guard      *fetcher.Guard
}

// NewClient builds a client from the provider configuration.
func NewClient(cfg *config.ProviderConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: fetcher.NewHTTPClient(cfg),
		guard:      fetcher.NewGuard(cfg),
	}
}

// Guard returns the request guard, for health reporting.
func (c *Client) Guard() *fetcher.Guard {
	return c.guard
}

// Fetch issues exactly one top-headlines request for entry.
func (c *Client) Fetch(ctx context.Context, entry catalog.Entry) ([]ingest.RawArticle, error) {
	return c.guard.Do(ctx, entry.Name, func(ctx context.Context) ([]ingest.RawArticle, error) {
		return c.doFetch(ctx, entry)
	})
}

// RequestURL returns the top-headlines URL for entry.
func (c *Client) RequestURL(entry catalog.Entry) string {
	q := url.Values{}
	if entry.Region != "" {
		q.Set("country", entry.Region)
	}
	switch entry.Mode {
	case catalog.ModeKeyword:
		q.Set("q", entry.Value)
	default:
		q.Set("category", entry.Value)
	}
	q.Set("apiKey", c.apiKey)
	return c.baseURL + topHeadlinesPath + "?" + q.Encode()
}

func (c *Client) doFetch(ctx context.Context, entry catalog.Entry) ([]ingest.RawArticle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.RequestURL(entry), nil)
	if err != nil {
		return nil, &ingest.FetchError{Category: entry.Name, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ingest.FetchError{Category: entry.Name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ingest.FetchError{Category: entry.Name, Err: decodeAPIError(resp)}
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &ingest.FetchError{Category: entry.Name, Err: fmt.Errorf("decode response: %w", err)}
	}
	if body.Status != "ok" {
		return nil, &ingest.FetchError{Category: entry.Name, Err: &APIError{
			StatusCode: resp.StatusCode,
			Code:       body.Code,
			Message:    body.Message,
		}}
	}

	items := make([]ingest.RawArticle, 0, len(body.Articles))
	for _, a := range body.Articles {
		items = append(items, a.raw(entry.Value))
	}
	return items, nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil {
		var body response
		if json.Unmarshal(data, &body) == nil {
			apiErr.Code = body.Code
			apiErr.Message = body.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

type response struct {
	Status       string    `json:"status"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
	TotalResults int       `json:"totalResults"`
	Articles     []article `json:"articles"`
}

type article struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

func (a article) raw(providerCategory string) ingest.RawArticle {
	var published time.Time
	if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
		published = t.UTC()
	}
	return ingest.RawArticle{
		Title:            a.Title,
		Description:      a.Description,
		Content:          a.Content,
		ImageURL:         a.URLToImage,
		URL:              a.URL,
		SourceName:       a.Source.Name,
		ProviderCategory: providerCategory,
		PublishedAt:      published,
	}
}
