// Package fetcher holds the outbound plumbing shared by the news provider
// clients: the paced, breaker-guarded request path and the HTTP client.
package fetcher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"github.com/daniel-odulate22/PulsePoint/internal/config"
	"github.com/daniel-odulate22/PulsePoint/internal/observability/logging"
	"github.com/daniel-odulate22/PulsePoint/internal/observability/metrics"
	"github.com/daniel-odulate22/PulsePoint/internal/observability/tracing"
	"github.com/daniel-odulate22/PulsePoint/internal/resilience/circuitbreaker"
	"github.com/daniel-odulate22/PulsePoint/internal/usecase/ingest"
)

// Guard paces outbound requests and stops calling a failing provider.
// Every call is a single attempt; the next scheduled cycle is the retry.
type Guard struct {
	provider string
	limiter  *rate.Limiter
	breaker  *circuitbreaker.CircuitBreaker
}

// NewGuard builds a Guard from the provider configuration.
func NewGuard(cfg *config.ProviderConfig) *Guard {
	cb := cfg.CircuitBreaker
	return &Guard{
		provider: cfg.Name,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst),
		breaker: circuitbreaker.New(circuitbreaker.Config{
			Name:             cfg.Name + "-provider",
			MaxRequests:      cb.MaxRequests,
			Interval:         cb.Interval,
			Timeout:          cb.Timeout,
			FailureThreshold: cb.FailureThreshold,
			MinRequests:      cb.MinRequests,
			IsSuccessful:     isSuccessful,
		}),
	}
}

// Cancellation is the caller giving up, not the provider failing.
func isSuccessful(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

// Breaker exposes the circuit breaker for health reporting and tests.
func (g *Guard) Breaker() *circuitbreaker.CircuitBreaker {
	return g.breaker
}

// Do runs one provider request for entry. It waits for a rate-limit token,
// fails fast while the circuit is open, and wraps every failure in
// *ingest.FetchError.
func (g *Guard) Do(ctx context.Context, entry string, fn func(ctx context.Context) ([]ingest.RawArticle, error)) ([]ingest.RawArticle, error) {
	ctx, span := tracing.StartSpan(ctx, "provider.fetch",
		attribute.String("provider", g.provider),
		attribute.String("category", entry),
	)
	var err error
	defer func() { tracing.EndSpan(span, err) }()

	if err = g.limiter.Wait(ctx); err != nil {
		return nil, &ingest.FetchError{Category: entry, Err: err}
	}

	start := time.Now()
	result, err := g.breaker.Execute(func() (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logging.FromContext(ctx).Warn("provider circuit open, request rejected",
				slog.String("provider", g.provider),
				slog.String("category", entry),
				slog.String("state", g.breaker.State().String()))
			metrics.RecordProviderRequest(g.provider, metrics.StatusCircuitOpen, 0)
		} else {
			metrics.RecordProviderRequest(g.provider, metrics.StatusFailure, time.Since(start))
		}
		var fe *ingest.FetchError
		if !errors.As(err, &fe) {
			err = &ingest.FetchError{Category: entry, Err: err}
		}
		return nil, err
	}

	metrics.RecordProviderRequest(g.provider, metrics.StatusSuccess, time.Since(start))
	items, _ := result.([]ingest.RawArticle)
	span.SetAttributes(attribute.Int("items", len(items)))
	return items, nil
}
