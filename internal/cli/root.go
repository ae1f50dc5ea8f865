// Package cli provides the command-line interface for lakegov.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lakegov/lakegov/internal/config"
	"github.com/lakegov/lakegov/internal/lake"
	"github.com/lakegov/lakegov/internal/pipeline"
	"github.com/lakegov/lakegov/internal/query"
	"github.com/lakegov/lakegov/internal/store"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lakegov",
		Short: "lakegov - Multi-Zone Data Lake Governance",
		Long: `lakegov manages a multi-zone data lake on object storage.

It moves datasets through raw, process, and access zones, and records
governance metadata (catalog entries, lineage, quality reports) in the
govern zone as a side effect of every write.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var err error
			cfg, err = config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Multi-Zone Data Lake Governance built with Go and MinIO
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./lakegov.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(newIngestCommand())
	rootCmd.AddCommand(newProcessCommand())
	rootCmd.AddCommand(newAccessCommand())
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newCatalogCommand())
	rootCmd.AddCommand(newLineageCommand())
	rootCmd.AddCommand(newQualityCommand())
	rootCmd.AddCommand(newPolicyCommand())
	rootCmd.AddCommand(newQueryCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// newLake builds a Lake over the configured object store.
func newLake() (*lake.Lake, error) {
	objects, err := store.NewMinioStore(cfg.Store)
	if err != nil {
		return nil, err
	}
	return lake.New(objects, cfg.Zones, logger), nil
}

// newPipeline builds the zone pipeline runner.
func newPipeline() (*pipeline.Pipeline, error) {
	lk, err := newLake()
	if err != nil {
		return nil, err
	}
	return pipeline.New(lk, logger), nil
}

// newEngine builds and connects the configured query engine.
func newEngine(cmd *cobra.Command) (query.Engine, error) {
	eng, err := query.New(cfg.Query.Engine, logger)
	if err != nil {
		return nil, err
	}
	if err := eng.Connect(cmd.Context(), cfg.Query.Config); err != nil {
		return nil, err
	}
	return eng, nil
}
