package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/japaniel/citylex/pkg/config"
	"github.com/japaniel/citylex/pkg/server"
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the export form endpoint over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			// Fail fast on a missing store; requests reopen it each time.
			if err := a.checkStore(ctx); err != nil {
				return err
			}
			exp, err := a.newExporter()
			if err != nil {
				return err
			}

			srv := server.New(server.Config{
				Exporter: exp,
				Check:    a.checkStore,
				Addr:     a.cfg.Server.Addr,
				Logger:   a.logger,
			})
			a.logger.Info("lexicon store",
				zap.String("driver", a.cfg.Store.Driver),
				zap.String("path", a.cfg.Store.Path),
			)
			return srv.Serve(ctx)
		},
	}
	cmd.Flags().String("addr", config.DefaultAddr, "Address to listen on")
	cmd.Flags().Int("batch-size", config.DefaultBatchSize, "Rows buffered before encoding")
	return cmd
}
