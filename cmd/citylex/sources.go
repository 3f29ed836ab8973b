package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/japaniel/citylex/pkg/catalog"
	"github.com/japaniel/citylex/pkg/db"
)

func newSourcesCommand(a *app) *cobra.Command {
	var counts bool
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the exportable sources and their fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat := catalog.Default()

			var rowCounts map[catalog.SourceID]int
			if counts {
				conn, err := db.Open(cmd.Context(), a.cfg.Store.Driver, a.cfg.Store.Path)
				if err != nil {
					return err
				}
				defer conn.Close()

				rowCounts = make(map[catalog.SourceID]int)
				for _, src := range cat.Sources() {
					where := make([]db.Eq, len(src.Where))
					for i, c := range src.Where {
						where[i] = db.Eq{Column: c.Column, Value: c.Value}
					}
					n, err := db.CountRows(cmd.Context(), conn, src.Relation, where...)
					if err != nil {
						return fmt.Errorf("count %s: %w", src.ID, err)
					}
					rowCounts[src.ID] = n
				}
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)

			header := table.Row{"Source", "Relation", "Tagset", "Fields"}
			if counts {
				header = append(header, "Rows")
			}
			t.AppendHeader(header)

			for _, src := range cat.Sources() {
				fields := make([]string, 0, len(src.Mappings))
				for _, m := range src.Mappings {
					fields = append(fields, fmt.Sprintf("%s -> %s", m.Field, m.To))
				}
				row := table.Row{src.ID, src.Relation, src.Tagset, strings.Join(fields, "\n")}
				if counts {
					row = append(row, rowCounts[src.ID])
				}
				t.AppendRow(row)
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&counts, "counts", false, "Count the rows of each source in the store")
	return cmd
}
