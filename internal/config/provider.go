// Package config loads the news provider configuration.
package config

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	envconfig "github.com/daniel-odulate22/PulsePoint/pkg/config"
)

// Provider names.
const (
	ProviderNewsAPI = "newsapi"
	ProviderRSS     = "rss"
)

// Default Google News feed templates. {value}/{VALUE} is the catalog value
// (lower/upper case) and {region}/{REGION} the catalog region.
const (
	DefaultRSSTopicURLTemplate     = "https://news.google.com/rss/headlines/section/topic/{VALUE}?hl=en-{REGION}&gl={REGION}&ceid={REGION}:en"
	DefaultRSSSearchURLTemplate    = "https://news.google.com/rss/search?q={value}&hl=en-{REGION}&gl={REGION}&ceid={REGION}:en"
	DefaultRSSHeadlinesURLTemplate = "https://news.google.com/rss?hl=en-{REGION}&gl={REGION}&ceid={REGION}:en"
)

// ProviderConfig holds configuration for the outbound news provider.
type ProviderConfig struct {
	// Name selects the fetch client: "newsapi" or "rss".
	// Default: "newsapi"
	Name string

	// APIKey is the NewsAPI key. Required when Name is "newsapi".
	APIKey string

	// BaseURL of the NewsAPI endpoint. Default: "https://newsapi.org"
	BaseURL string

	// HTTPTimeout bounds one outbound request. Default: 15s
	HTTPTimeout time.Duration

	// UserAgent sent with every request.
	UserAgent string

	RateLimit RateLimitConfig

	CircuitBreaker CircuitBreakerConfig

	RSS RSSConfig
}

// RateLimitConfig paces outbound requests.
type RateLimitConfig struct {
	// RequestsPerSecond. Default: 1
	RequestsPerSecond float64
	// Burst. Default: 1
	Burst int
}

// CircuitBreakerConfig for provider resilience.
type CircuitBreakerConfig struct {
	// MaxRequests in half-open state.
	MaxRequests uint32

	// Interval for clearing failure counts.
	Interval time.Duration

	// Timeout before transitioning from open to half-open.
	Timeout time.Duration

	// FailureThreshold ratio to trip circuit (0.0 to 1.0).
	FailureThreshold float64

	// MinRequests before calculating failure ratio.
	MinRequests uint32
}

// RSSConfig holds the feed URL templates used by the RSS provider.
type RSSConfig struct {
	TopicURLTemplate     string
	SearchURLTemplate    string
	HeadlinesURLTemplate string
}

// LoadProviderConfig loads provider configuration from environment variables
// and validates it.
func LoadProviderConfig() (*ProviderConfig, error) {
	maxRequests, err := countFromEnv("NEWS_CB_MAX_REQUESTS", 1, 1)
	if err != nil {
		return nil, fmt.Errorf("invalid provider configuration: %w", err)
	}
	minRequests, err := countFromEnv("NEWS_CB_MIN_REQUESTS", 5, 0)
	if err != nil {
		return nil, fmt.Errorf("invalid provider configuration: %w", err)
	}

	config := &ProviderConfig{
		Name:        strings.ToLower(envconfig.GetEnvString("NEWS_PROVIDER", ProviderNewsAPI)),
		APIKey:      envconfig.GetEnvString("NEWS_API_KEY", ""),
		BaseURL:     envconfig.GetEnvString("NEWS_API_BASE_URL", "https://newsapi.org"),
		HTTPTimeout: envconfig.GetEnvDuration("NEWS_HTTP_TIMEOUT", 15*time.Second),
		UserAgent:   envconfig.GetEnvString("NEWS_USER_AGENT", "PulsePoint/1.0 (+https://github.com/daniel-odulate22/PulsePoint)"),
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envconfig.GetEnvFloat("NEWS_RATE_LIMIT_RPS", 1),
			Burst:             envconfig.GetEnvInt("NEWS_RATE_LIMIT_BURST", 1),
		},
		CircuitBreaker: CircuitBreakerConfig{
			MaxRequests:      maxRequests,
			Interval:         envconfig.GetEnvDuration("NEWS_CB_INTERVAL", 5*time.Minute),
			Timeout:          envconfig.GetEnvDuration("NEWS_CB_TIMEOUT", 10*time.Minute),
			FailureThreshold: envconfig.GetEnvFloat("NEWS_CB_FAILURE_THRESHOLD", 0.6),
			MinRequests:      minRequests,
		},
		RSS: RSSConfig{
			TopicURLTemplate:     envconfig.GetEnvString("RSS_TOPIC_URL_TEMPLATE", DefaultRSSTopicURLTemplate),
			SearchURLTemplate:    envconfig.GetEnvString("RSS_SEARCH_URL_TEMPLATE", DefaultRSSSearchURLTemplate),
			HeadlinesURLTemplate: envconfig.GetEnvString("RSS_HEADLINES_URL_TEMPLATE", DefaultRSSHeadlinesURLTemplate),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid provider configuration: %w", err)
	}

	return config, nil
}

// countFromEnv reads a breaker count and checks it fits in [min, MaxUint32]
// before narrowing it.
func countFromEnv(key string, def, min int) (uint32, error) {
	v := envconfig.GetEnvInt(key, def)
	if v < min || int64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("%s must be between %d and %d, got %d", key, min, uint32(math.MaxUint32), v)
	}
	return uint32(v), nil
}

// Validate checks configuration correctness.
func (c *ProviderConfig) Validate() error {
	switch c.Name {
	case ProviderNewsAPI:
		if c.APIKey == "" {
			return fmt.Errorf("NEWS_API_KEY is required when NEWS_PROVIDER=newsapi")
		}
		u, err := url.Parse(c.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("NEWS_API_BASE_URL must be an absolute http(s) URL")
		}
	case ProviderRSS:
		if !strings.Contains(strings.ToLower(c.RSS.TopicURLTemplate), "{value}") {
			return fmt.Errorf("RSS_TOPIC_URL_TEMPLATE must contain a {value} placeholder")
		}
		if !strings.Contains(strings.ToLower(c.RSS.SearchURLTemplate), "{value}") {
			return fmt.Errorf("RSS_SEARCH_URL_TEMPLATE must contain a {value} placeholder")
		}
		if c.RSS.HeadlinesURLTemplate == "" {
			return fmt.Errorf("RSS_HEADLINES_URL_TEMPLATE cannot be empty")
		}
	default:
		return fmt.Errorf("NEWS_PROVIDER must be %q or %q, got %q", ProviderNewsAPI, ProviderRSS, c.Name)
	}

	if err := envconfig.ValidateDurationRange(c.HTTPTimeout, time.Second, 2*time.Minute); err != nil {
		return fmt.Errorf("NEWS_HTTP_TIMEOUT: %w", err)
	}

	if c.UserAgent == "" {
		return fmt.Errorf("NEWS_USER_AGENT cannot be empty")
	}

	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("NEWS_RATE_LIMIT_RPS must be positive")
	}

	if c.RateLimit.Burst < 1 {
		return fmt.Errorf("NEWS_RATE_LIMIT_BURST must be at least 1")
	}

	if c.CircuitBreaker.MaxRequests == 0 {
		return fmt.Errorf("NEWS_CB_MAX_REQUESTS must be positive")
	}

	if err := envconfig.ValidatePositiveDuration(c.CircuitBreaker.Interval); err != nil {
		return fmt.Errorf("NEWS_CB_INTERVAL: %w", err)
	}

	if err := envconfig.ValidatePositiveDuration(c.CircuitBreaker.Timeout); err != nil {
		return fmt.Errorf("NEWS_CB_TIMEOUT: %w", err)
	}

	if err := envconfig.ValidateRatio(c.CircuitBreaker.FailureThreshold); err != nil {
		return fmt.Errorf("NEWS_CB_FAILURE_THRESHOLD: %w", err)
	}

	return nil
}
