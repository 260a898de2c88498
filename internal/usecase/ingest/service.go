package ingest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/daniel-odulate22/PulsePoint/internal/catalog"
	"github.com/daniel-odulate22/PulsePoint/internal/observability/logging"
	"github.com/daniel-odulate22/PulsePoint/internal/observability/metrics"
	"github.com/daniel-odulate22/PulsePoint/internal/observability/tracing"
	"github.com/daniel-odulate22/PulsePoint/internal/repository"
)

// Service runs ingestion cycles. A cycle depends only on the catalog, the
// repositories, the fetcher and the clock it was built with.
type Service struct {
	catalog    *catalog.Catalog
	fetcher    Fetcher
	resolver   *AuthorResolver
	normalizer *Normalizer
	clock      func() time.Time
	logger     *slog.Logger
}

// Option customizes a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	clock  func() time.Time
	cache  AuthorCache
	logger *slog.Logger
}

// WithClock overrides the time source used for timestamps and durations.
func WithClock(clock func() time.Time) Option {
	return func(o *serviceOptions) { o.clock = clock }
}

// WithAuthorCache injects the author cache, e.g. pre-seeded in tests.
func WithAuthorCache(cache AuthorCache) Option {
	return func(o *serviceOptions) { o.cache = cache }
}

// WithLogger sets the base logger; cycle loggers derive from it.
func WithLogger(logger *slog.Logger) Option {
	return func(o *serviceOptions) { o.logger = logger }
}

// NewService wires an ingestion service.
//
// Example:
//
//	svc := ingest.NewService(catalog.Default(), articleRepo, userRepo, newsapi.NewClient(cfg),
//	    ingest.WithLogger(logger))
//	report := svc.RunCycle(ctx)
func NewService(
	cat *catalog.Catalog,
	articles repository.ArticleRepository,
	users repository.UserRepository,
	fetcher Fetcher,
	opts ...Option,
) *Service {
	o := serviceOptions{clock: utcNow, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Service{
		catalog:    cat,
		fetcher:    fetcher,
		resolver:   NewAuthorResolver(users, o.cache),
		normalizer: NewNormalizer(articles, o.clock),
		clock:      o.clock,
		logger:     o.logger,
	}
}

// RunCycle performs one pass over the catalog.
//
// The author is resolved first; if that fails the cycle is skipped and the
// report has no categories. Categories then run in catalog order. A fetch
// failure fails only its own category. Cancelling ctx stops the loop before
// the next category and marks the report Cancelled; categories already
// processed keep their counts. A context that is already done, or ends during
// author lookup, gives a Cancelled report rather than a Skipped one.
// RunCycle never returns an error: everything
// that went wrong is in the report.
func (s *Service) RunCycle(ctx context.Context) *CycleReport {
	report := &CycleReport{
		CycleID:    uuid.New(),
		StartedAt:  s.clock(),
		Categories: make([]CategoryReport, 0, s.catalog.Len()),
	}
	logger := logging.WithCycleID(s.logger, report.CycleID.String())
	ctx = logging.WithLogger(ctx, logger)

	ctx, span := tracing.StartSpan(ctx, "ingest.cycle",
		attribute.String("cycle_id", report.CycleID.String()),
		attribute.Int("catalog_size", s.catalog.Len()))
	var spanErr error
	defer func() { tracing.EndSpan(span, spanErr) }()

	if err := ctx.Err(); err != nil {
		return s.cancelledBeforeStart(report, logger, err, &spanErr)
	}
	authorID, err := s.resolver.Resolve(ctx)
	if err != nil && ctx.Err() != nil {
		return s.cancelledBeforeStart(report, logger, ctx.Err(), &spanErr)
	}
	if err != nil {
		report.Skipped = true
		report.SkipReason = err.Error()
		report.FinishedAt = s.clock()
		spanErr = err
		logger.Warn("ingestion cycle skipped",
			slog.String("reason", report.SkipReason),
			slog.Bool("no_author", errors.Is(err, ErrAuthorNotFound)))
		metrics.RecordCycle(metrics.OutcomeSkipped, report.FinishedAt, report.FinishedAt.Sub(report.StartedAt))
		return report
	}

	for _, entry := range s.catalog.Entries() {
		if ctx.Err() != nil {
			report.Cancelled = true
			break
		}
		report.Categories = append(report.Categories, s.runCategory(ctx, entry, authorID))
	}
	// cancellation during the last category still counts
	if ctx.Err() != nil {
		report.Cancelled = true
	}
	report.FinishedAt = s.clock()

	totals := report.Totals()
	outcome := metrics.OutcomeCompleted
	if report.Cancelled {
		outcome = metrics.OutcomeCancelled
		spanErr = ctx.Err()
	}
	metrics.RecordCycle(outcome, report.FinishedAt, report.FinishedAt.Sub(report.StartedAt))
	span.SetAttributes(
		attribute.Int("accepted", totals.Accepted),
		attribute.Int("failed_categories", totals.FailedCategories))

	logger.Info("ingestion cycle finished",
		slog.Int64("author_id", authorID),
		slog.Int("categories", len(report.Categories)),
		slog.Int("failed_categories", totals.FailedCategories),
		slog.Int("fetched", totals.Fetched),
		slog.Int("accepted", totals.Accepted),
		slog.Int("rejected_duplicate", totals.RejectedDuplicate),
		slog.Int("rejected_invalid", totals.RejectedInvalid),
		slog.Int("rejected_storage", totals.RejectedStorage),
		slog.Bool("cancelled", report.Cancelled),
		slog.Duration("duration", report.FinishedAt.Sub(report.StartedAt)))

	return report
}

// cancelledBeforeStart finishes a report for a cycle whose context ended
// before any category ran.
func (s *Service) cancelledBeforeStart(report *CycleReport, logger *slog.Logger, err error, spanErr *error) *CycleReport {
	report.Cancelled = true
	report.FinishedAt = s.clock()
	*spanErr = err
	logger.Info("ingestion cycle cancelled before start", slog.Any("error", err))
	metrics.RecordCycle(metrics.OutcomeCancelled, report.FinishedAt, report.FinishedAt.Sub(report.StartedAt))
	return report
}

// runCategory fetches one catalog entry and runs every item through the normalizer.
func (s *Service) runCategory(ctx context.Context, entry catalog.Entry, authorID int64) (cr CategoryReport) {
	logger := logging.FromContext(ctx).With(slog.String("category", entry.Name))
	start := s.clock()
	cr.Category = entry.Name

	ctx, span := tracing.StartSpan(ctx, "ingest.category",
		attribute.String("category", entry.Name),
		attribute.String("mode", string(entry.Mode)))
	defer func() {
		cr.Duration = s.clock().Sub(start)
		tracing.EndSpan(span, cr.Err)
		metrics.RecordCategory(entry.Name, metrics.CategoryCounts{
			Fetched:           cr.Fetched,
			Accepted:          cr.Accepted,
			RejectedDuplicate: cr.RejectedDuplicate,
			RejectedInvalid:   cr.RejectedInvalid,
			RejectedStorage:   cr.RejectedStorage,
		}, cr.Failed, cr.Duration)
		if cr.Failed {
			logger.Warn("category fetch failed",
				slog.String("error", cr.Err.Error()),
				slog.Duration("duration", cr.Duration))
			return
		}
		logger.Info("category ingested",
			slog.Int("fetched", cr.Fetched),
			slog.Int("accepted", cr.Accepted),
			slog.Int("rejected_duplicate", cr.RejectedDuplicate),
			slog.Int("rejected_invalid", cr.RejectedInvalid),
			slog.Int("rejected_storage", cr.RejectedStorage),
			slog.Duration("duration", cr.Duration))
	}()

	items, err := s.fetcher.Fetch(ctx, entry)
	if err != nil {
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			err = &FetchError{Category: entry.Name, Err: err}
		}
		cr.Failed = true
		cr.Err = err
		return cr
	}
	cr.Fetched = len(items)

	for _, raw := range items {
		if ctx.Err() != nil {
			break
		}
		d := s.normalizer.Accept(ctx, raw, entry, authorID)
		switch d.Reason {
		case Accepted:
			cr.Accepted++
		case RejectDuplicate:
			cr.RejectedDuplicate++
		case RejectInvalid:
			cr.RejectedInvalid++
			logger.Debug("item rejected as invalid",
				slog.String("title", raw.Title),
				slog.String("error", d.Err.Error()))
		case RejectStorage:
			cr.RejectedStorage++
			logger.Error("item could not be stored",
				slog.String("title", raw.Title),
				slog.String("error", d.Err.Error()))
		}
	}
	return cr
}
