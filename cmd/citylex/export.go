package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/japaniel/citylex/pkg/catalog"
	"github.com/japaniel/citylex/pkg/config"
	"github.com/japaniel/citylex/pkg/export"
)

func newExportCommand(a *app) *cobra.Command {
	var (
		sel    export.Selection
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an export to a file or stdout",
		Example: `  citylex export -s SUBTLEX-US -s UniMorph -f subtlexus_raw_frequency -f um_UDtags -o citylex_data.tsv
  citylex export -s WikiPron-UK -f wikipronuk_IPA --format csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			exp, err := a.newExporter()
			if err != nil {
				return err
			}
			res, err := exp.Export(cmd.Context(), sel)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(res.Body)
				return err
			}
			if err := os.WriteFile(output, res.Body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d rows to %s\n", res.Rows, output)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringSliceVarP(&sel.Sources, "source", "s", nil, "Source to export (repeatable)")
	f.StringSliceVarP(&sel.Fields, "field", "f", nil, "Field to export (repeatable)")
	f.StringVar(&sel.OutputFormat, "format", "tsv", "Output format (tsv|csv)")
	f.StringSliceVar(&sel.Licenses, "license", nil, "Acknowledged license (repeatable)")
	f.StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	f.Int("batch-size", config.DefaultBatchSize, "Rows buffered before encoding")

	_ = cmd.RegisterFlagCompletionFunc("source", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		var ids []string
		for _, src := range catalog.Default().Sources() {
			ids = append(ids, string(src.ID))
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, format := range export.Formats {
			names = append(names, format.Name)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
