// PulsePoint ingests news from a provider into the article store on a
// schedule.
//
// Usage:
//
//	pulsepoint worker          # run the scheduler, health and metrics servers
//	pulsepoint ingest          # run one cycle and print the report
//	pulsepoint migrate up|down # apply or roll back schema migrations
//	pulsepoint catalog         # print the effective catalog as YAML
//	pulsepoint seed-author     # create the user ingested articles are attributed to
package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/daniel-odulate22/PulsePoint/internal/observability/logging"
)

var version = "dev"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	catalogPath string
	envFile     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "pulsepoint",
		Short:         "News ingestion worker",
		Long:          "PulsePoint fetches headlines for a catalog of categories and stores them as published articles.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnvFile(flags.envFile); err != nil {
				return err
			}
			slog.SetDefault(logging.NewLogger())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorker(cmd, flags)
		},
	}

	root.PersistentFlags().StringVar(&flags.catalogPath, "catalog", "", "YAML catalog file (default $CATALOG_PATH, else the built-in catalog)")
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before reading configuration; a missing file is ignored")

	root.AddCommand(workerCmd(flags))
	root.AddCommand(ingestCmd(flags))
	root.AddCommand(migrateCmd())
	root.AddCommand(catalogCmd(flags))
	root.AddCommand(seedAuthorCmd())
	return root
}

// loadEnvFile loads path into the environment without overriding
// variables that are already set.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
