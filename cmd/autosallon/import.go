package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"

	"github.com/angelmondragon/autosallon-backend/internal/importer"
	"github.com/angelmondragon/autosallon-backend/internal/vehicles"
	"github.com/angelmondragon/autosallon-backend/pkg/metrics"
)

// maxReportedRowErrors caps how many row errors are echoed to the terminal.
const maxReportedRowErrors = 20

func bindImportFlags(fs *pflag.FlagSet, opts *importer.Options) {
	fs.BoolVar(&opts.Truncate, "truncate", false, "delete every vehicle before importing")
	fs.StringVar(&opts.Source, "source", "", "source tag for rows without a source column")
}

func newImportCmd(a *app) *cobra.Command {
	var opts importer.Options
	cmd := &cobra.Command{
		Use:   "import <path.csv>",
		Short: "Import vehicles from a CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open csv: %w", err)
			}
			defer f.Close()

			imp, err := importer.New(vehicles.NewRepository(a.db.DB()), metrics.NewImportMetrics(prometheus.NewRegistry()), a.logg)
			if err != nil {
				return err
			}
			ctx := a.logg.WithField(cmd.Context(), "file", args[0])
			result, err := imp.Import(ctx, f, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.Truncate {
				fmt.Fprintf(out, "truncated %d vehicles\n", result.Truncated)
			}
			fmt.Fprintf(out, "rows %d, inserted %d, updated %d, skipped %d\n",
				result.Rows, result.Inserted, result.Updated, result.Skipped)

			rowErrs := multierr.Errors(result.Err)
			for i, rowErr := range rowErrs {
				if i == maxReportedRowErrors {
					fmt.Fprintf(out, "... %d more row errors\n", len(rowErrs)-i)
					break
				}
				fmt.Fprintf(out, "  %v\n", rowErr)
			}
			return nil
		},
	}
	bindImportFlags(cmd.Flags(), &opts)
	return cmd
}
