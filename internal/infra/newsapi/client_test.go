package newsapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel-odulate22/PulsePoint/internal/catalog"
	"github.com/daniel-odulate22/PulsePoint/internal/config"
	"github.com/daniel-odulate22/PulsePoint/internal/infra/newsapi"
	"github.com/daniel-odulate22/PulsePoint/internal/usecase/ingest"
)

var (
	techEntry  = catalog.Entry{Name: "Tech", Mode: catalog.ModeTopic, Value: "technology", Region: "us"}
	crimeEntry = catalog.Entry{Name: "Crime", Mode: catalog.ModeKeyword, Value: "crime", Region: "us"}
)

const okBody = `{
  "status": "ok",
  "totalResults": 2,
  "articles": [
    {
      "source": {"id": "wired", "name": "Wired"},
      "author": "Jane",
      "title": "Chips get smaller",
      "description": "A short description",
      "url": "https://example.com/chips",
      "urlToImage": "https://example.com/chips.jpg",
      "publishedAt": "2025-03-01T08:30:00Z",
      "content": "Full content [+120 chars]"
    },
    {
      "source": {"id": null, "name": "Blog"},
      "title": "No image",
      "description": null,
      "url": "https://example.com/b",
      "urlToImage": null,
      "publishedAt": "not a date",
      "content": null
    }
  ]
}`

func newClient(t *testing.T, baseURL string) *newsapi.Client {
	t.Helper()
	return newsapi.NewClient(&config.ProviderConfig{
		Name:        t.Name(),
		APIKey:      "secret",
		BaseURL:     baseURL,
		HTTPTimeout: 2 * time.Second,
		UserAgent:   "PulsePointTest/1.0",
		RateLimit:   config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 10},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          time.Minute,
			FailureThreshold: 0.5,
			MinRequests:      2,
		},
	})
}

func TestClient_Fetch_Success(t *testing.T) {
	var gotQuery url.Values
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	items, err := newClient(t, srv.URL).Fetch(context.Background(), techEntry)
	require.NoError(t, err)

	assert.Equal(t, "/v2/top-headlines", gotPath)
	assert.Equal(t, "us", gotQuery.Get("country"))
	assert.Equal(t, "technology", gotQuery.Get("category"))
	assert.Empty(t, gotQuery.Get("q"))
	assert.Equal(t, "secret", gotQuery.Get("apiKey"))

	want := []ingest.RawArticle{
		{
			Title:            "Chips get smaller",
			Description:      "A short description",
			Content:          "Full content [+120 chars]",
			ImageURL:         "https://example.com/chips.jpg",
			URL:              "https://example.com/chips",
			SourceName:       "Wired",
			ProviderCategory: "technology",
			PublishedAt:      time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC),
		},
		{
			Title:            "No image",
			URL:              "https://example.com/b",
			SourceName:       "Blog",
			ProviderCategory: "technology",
		},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_RequestURL_Keyword(t *testing.T) {
	c := newClient(t, "https://newsapi.example/")
	u, err := url.Parse(c.RequestURL(crimeEntry))
	require.NoError(t, err)

	assert.Equal(t, "/v2/top-headlines", u.Path)
	assert.Equal(t, "crime", u.Query().Get("q"))
	assert.Empty(t, u.Query().Get("category"))
	assert.Equal(t, "us", u.Query().Get("country"))
}

func TestClient_Fetch_APIErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid."}`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).Fetch(context.Background(), techEntry)

	var fe *ingest.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Tech", fe.Category)
	var apiErr *newsapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "apiKeyInvalid", apiErr.Code)
	assert.Equal(t, "Your API key is invalid.", apiErr.Message)
}

func TestClient_Fetch_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).Fetch(context.Background(), techEntry)

	var apiErr *newsapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestClient_Fetch_StatusNotOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","code":"rateLimited","message":"slow down"}`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).Fetch(context.Background(), techEntry)

	var fe *ingest.FetchError
	require.ErrorAs(t, err, &fe)
	var apiErr *newsapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "rateLimited", apiErr.Code)
}

func TestClient_Fetch_DecodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).Fetch(context.Background(), techEntry)

	var fe *ingest.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_Fetch_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, err := newClient(t, base).Fetch(context.Background(), techEntry)

	var fe *ingest.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Tech", fe.Category)
}

func TestClient_Fetch_OneRequestPerCall(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).Fetch(context.Background(), techEntry)

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "failures are not retried within a call")
}

func TestClient_Fetch_OpenCircuitMakesNoRequest(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	for i := 0; i < 2; i++ {
		_, _ = c.Fetch(context.Background(), techEntry)
	}
	require.True(t, c.Guard().Breaker().IsOpen())
	before := atomic.LoadInt32(&hits)

	_, err := c.Fetch(context.Background(), techEntry)

	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	var fe *ingest.FetchError
	assert.ErrorAs(t, err, &fe)
	assert.Equal(t, before, atomic.LoadInt32(&hits))
}

func TestAPIError_Error(t *testing.T) {
	assert.Equal(t, "newsapi: 401 apiKeyInvalid: bad key",
		(&newsapi.APIError{StatusCode: 401, Code: "apiKeyInvalid", Message: "bad key"}).Error())
	assert.Equal(t, "newsapi: 502: Bad Gateway",
		(&newsapi.APIError{StatusCode: 502, Message: "Bad Gateway"}).Error())
}
