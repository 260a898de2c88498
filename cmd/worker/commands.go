package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/daniel-odulate22/PulsePoint/internal/domain/entity"
	"github.com/daniel-odulate22/PulsePoint/internal/infra/db"
	artUC "github.com/daniel-odulate22/PulsePoint/internal/usecase/article"
)

// errCycleSkipped makes `ingest` exit non-zero when no author was found.
var errCycleSkipped = errors.New("cycle skipped")

func ingestCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Run one ingestion cycle and print the report as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := slog.Default()

			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			svc, _, err := newIngestService(flags, st, logger)
			if err != nil {
				return err
			}

			report := svc.RunCycle(ctx)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return fmt.Errorf("encode report: %w", err)
			}
			if report.Skipped {
				return fmt.Errorf("%w: %s", errCycleSkipped, report.SkipReason)
			}
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, db.MigrateUp)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, db.MigrateDown)
		},
	})
	return cmd
}

func withDatabase(cmd *cobra.Command, fn func(*sql.DB, db.Driver) error) error {
	cfg, err := db.ConfigFromEnv()
	if err != nil {
		return fmt.Errorf("database configuration: %w", err)
	}
	conn, err := db.Open(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn, cfg.Driver)
}

func catalogCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the effective catalog as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(flags.catalogPath)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cat); err != nil {
				return fmt.Errorf("encode catalog: %w", err)
			}
			return enc.Close()
		},
	}
}

func seedAuthorCmd() *cobra.Command {
	var (
		name, email, passwordHash, role string
	)
	cmd := &cobra.Command{
		Use:   "seed-author",
		Short: "Create the user that ingested articles are attributed to",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			svc := &artUC.Service{Articles: st.articles, Users: st.users}
			user, err := svc.RegisterAuthor(cmd.Context(), name, email, passwordHash, entity.Role(role))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s user %q (id %d)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "PulsePoint Newsroom", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&passwordHash, "password-hash", "", "precomputed password hash, stored as given (required)")
	cmd.Flags().StringVar(&role, "role", string(entity.RoleAdmin), "user or admin")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password-hash")
	return cmd
}
