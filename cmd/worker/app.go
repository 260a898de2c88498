package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/daniel-odulate22/PulsePoint/internal/catalog"
	"github.com/daniel-odulate22/PulsePoint/internal/config"
	pgRepo "github.com/daniel-odulate22/PulsePoint/internal/infra/adapter/persistence/postgres"
	sqliteRepo "github.com/daniel-odulate22/PulsePoint/internal/infra/adapter/persistence/sqlite"
	"github.com/daniel-odulate22/PulsePoint/internal/infra/db"
	"github.com/daniel-odulate22/PulsePoint/internal/infra/fetcher"
	"github.com/daniel-odulate22/PulsePoint/internal/infra/newsapi"
	"github.com/daniel-odulate22/PulsePoint/internal/infra/scraper"
	"github.com/daniel-odulate22/PulsePoint/internal/repository"
	"github.com/daniel-odulate22/PulsePoint/internal/resilience/circuitbreaker"
	"github.com/daniel-odulate22/PulsePoint/internal/usecase/ingest"
)

// store is an open, migrated database with its repositories.
type store struct {
	db       *sql.DB
	driver   db.Driver
	breaker  *circuitbreaker.DBCircuitBreaker
	articles repository.ArticleRepository
	users    repository.UserRepository
}

func (s *store) Close() error {
	return s.db.Close()
}

// openStore connects using the environment, waits for the database and
// applies pending migrations. Repository calls go through a circuit breaker.
func openStore(ctx context.Context) (*store, error) {
	cfg, err := db.ConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("database configuration: %w", err)
	}
	conn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(conn, cfg.Driver); err != nil {
		_ = conn.Close()
		return nil, err
	}

	breaker := circuitbreaker.NewDBCircuitBreaker(conn)
	s := &store{db: conn, driver: cfg.Driver, breaker: breaker}
	s.articles, s.users = newRepositories(cfg.Driver, breaker)
	return s, nil
}

func newRepositories(driver db.Driver, conn db.DBTX) (repository.ArticleRepository, repository.UserRepository) {
	if driver == db.SQLite {
		return sqliteRepo.NewArticleRepo(conn), sqliteRepo.NewUserRepo(conn)
	}
	return pgRepo.NewArticleRepo(conn), pgRepo.NewUserRepo(conn)
}

// provider is a fetch client that exposes its request guard.
type provider interface {
	ingest.Fetcher
	Guard() *fetcher.Guard
}

func newProvider(cfg *config.ProviderConfig) provider {
	if cfg.Name == config.ProviderRSS {
		return scraper.NewRSSFetcher(cfg)
	}
	return newsapi.NewClient(cfg)
}

// loadCatalog resolves the catalog from the flag, then CATALOG_PATH, then
// the built-in default.
func loadCatalog(flagPath string) (*catalog.Catalog, error) {
	path := flagPath
	if path == "" {
		path = os.Getenv("CATALOG_PATH")
	}
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	slog.Info("catalog loaded", slog.String("path", path), slog.Int("entries", cat.Len()))
	return cat, nil
}

// newIngestService wires the pipeline for one process.
func newIngestService(flags *globalFlags, st *store, logger *slog.Logger) (*ingest.Service, provider, error) {
	cat, err := loadCatalog(flags.catalogPath)
	if err != nil {
		return nil, nil, err
	}
	providerCfg, err := config.LoadProviderConfig()
	if err != nil {
		return nil, nil, err
	}
	p := newProvider(providerCfg)
	logger.Info("ingestion configured",
		slog.String("provider", providerCfg.Name),
		slog.Int("categories", cat.Len()),
		slog.String("database", string(st.driver)))

	svc := ingest.NewService(cat, st.articles, st.users, p, ingest.WithLogger(logger))
	return svc, p, nil
}
