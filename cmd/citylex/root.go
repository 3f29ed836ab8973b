package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/japaniel/citylex/pkg/config"
	"github.com/japaniel/citylex/pkg/db"
	"github.com/japaniel/citylex/pkg/export"
	"github.com/japaniel/citylex/pkg/features"
	"github.com/japaniel/citylex/pkg/logging"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "citylex",
		Short: "CityLex - lexical data export",
		Long: `CityLex merges word frequencies, pronunciations and morphological
features from several lexical sources into one delimited file.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}
			cfg, err := config.Load(a.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			if cfg.File != "" {
				logger.Debug("using config file", zap.String("path", cfg.File))
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = a.logger.Sync()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: ./citylex.yaml)")
	pf.String("db-path", config.DefaultStorePath, "Path to the lexicon store (DSN for pgx)")
	pf.String("driver", config.DefaultDriver, "Store driver (sqlite3|duckdb|pgx)")
	pf.String("features-table", "", "YAML tag table replacing the built-in one")
	pf.String("log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")
	pf.String("log-format", config.DefaultLogFormat, "Log format (json|console)")

	_ = rootCmd.RegisterFlagCompletionFunc("driver", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return db.Drivers, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newServeCommand(a))
	rootCmd.AddCommand(newExportCommand(a))
	rootCmd.AddCommand(newSourcesCommand(a))
	rootCmd.AddCommand(newMigrateCommand(a))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// newExporter wires the configured store and tag table into an exporter.
func (a *app) newExporter() (*export.Exporter, error) {
	cfg := export.Config{
		Open:      export.OpenDB(a.cfg.Store.Driver, a.cfg.Store.Path),
		BatchSize: a.cfg.Export.BatchSize,
		Logger:    a.logger,
	}
	if path := a.cfg.Features.Table; path != "" {
		table, err := features.LoadTableFile(path)
		if err != nil {
			return nil, fmt.Errorf("load tag table: %w", err)
		}
		cfg.Translator = table
	}
	return export.New(cfg), nil
}

// checkStore opens the configured store read-only and closes it again.
func (a *app) checkStore(ctx context.Context) error {
	conn, err := db.Open(ctx, a.cfg.Store.Driver, a.cfg.Store.Path)
	if err != nil {
		return err
	}
	return conn.Close()
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "citylex %s (%s)\n", Version, GitCommit)
		},
	}
}
