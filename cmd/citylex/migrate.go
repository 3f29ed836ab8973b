package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/japaniel/citylex/pkg/db"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the frequency, pronunciation and features relations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := db.OpenWritable(cmd.Context(), a.cfg.Store.Driver, a.cfg.Store.Path)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := db.Migrate(conn, a.cfg.Store.Driver); err != nil {
				return err
			}
			version, err := db.MigrationVersion(conn, a.cfg.Store.Driver)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Lexicon store %s at schema version %d\n", a.cfg.Store.Path, version)
			return nil
		},
	}
}
