package fetcher

import (
	"fmt"
	"net/http"

	"github.com/daniel-odulate22/PulsePoint/internal/config"
	"github.com/daniel-odulate22/PulsePoint/internal/observability/tracing"
)

// MaxRedirects bounds redirect chains followed by provider requests.
const MaxRedirects = 5

// NewHTTPClient returns the client used for provider requests: traced,
// bounded by the configured timeout and sending the configured User-Agent.
func NewHTTPClient(cfg *config.ProviderConfig) *http.Client {
	return &http.Client{
		Timeout: cfg.HTTPTimeout,
		Transport: &userAgentTransport{
			agent: cfg.UserAgent,
			base:  tracing.NewTransport(http.DefaultTransport),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", MaxRedirects)
			}
			return nil
		},
	}
}

type userAgentTransport struct {
	agent string
	base  http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.agent)
	}
	return t.base.RoundTrip(req)
}
