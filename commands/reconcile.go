// commands/reconcile.go
package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/gewnthar/arrivals/database"
	"github.com/gewnthar/arrivals/models"
	"github.com/gewnthar/arrivals/services"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type reconcileOptions struct {
	csvPath string
	toDB    bool
	quiet   bool
	date    string
}

func newReconcileCmd(opts *rootOptions) *cobra.Command {
	ropts := &reconcileOptions{}
	cmd := &cobra.Command{
		Use:   "reconcile [store-path] [--csv <file>] [--db] [--quiet]",
		Short: "Prints the deduplicated flight history of a snapshot store.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runReconcile(cmd, opts, ropts, opts.storePath(args))
		},
	}
	cmd.Flags().StringVar(&ropts.csvPath, "csv", "", "also write the history to this CSV file (default from config export.csv_path)")
	cmd.Flags().BoolVar(&ropts.toDB, "db", false, "replace the configured database's arrivals table with the history")
	cmd.Flags().BoolVarP(&ropts.quiet, "quiet", "q", false, "do not print the table")
	cmd.Flags().StringVar(&ropts.date, "date", "", "only flights scheduled on this date (YYYY-MM-DD)")
	return cmd
}

func runReconcile(cmd *cobra.Command, opts *rootOptions, ropts *reconcileOptions, storePath string) error {
	ctx := cmd.Context()
	if ropts.date != "" {
		if _, err := time.Parse("2006-01-02", ropts.date); err != nil {
			return fmt.Errorf("invalid --date %q, use YYYY-MM-DD", ropts.date)
		}
	}

	store, err := database.LoadStore(storePath)
	if err != nil {
		return err
	}
	reconciler, err := newReconciler(ctx, opts.cfg, newFetcher(opts.cfg))
	if err != nil {
		return err
	}
	flights := services.FilterByScheduledDate(reconciler.Reconcile(ctx, store), ropts.date)

	if !ropts.quiet {
		renderFlights(cmd.OutOrStdout(), flights)
	}

	csvPath := ropts.csvPath
	if csvPath == "" {
		csvPath = opts.cfg.Export.CSVPath
	}
	if csvPath != "" {
		if err := services.ExportFlightsCSV(csvPath, flights); err != nil {
			return err
		}
	}

	if ropts.toDB {
		if !opts.cfg.Database.Enabled() {
			return fmt.Errorf("--db needs database.driver to be configured")
		}
		closeDB, err := openDatabase(opts.cfg)
		if err != nil {
			return err
		}
		defer closeDB()
		if err := database.SaveArrivals(ctx, opts.cfg.Airport.Code, flights); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d flights reconciled from %d runs\n", len(flights), len(store))
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04 MST")
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.4f", *v)
}

func renderFlights(w io.Writer, flights []models.ResolvedFlight) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Scheduled", "Actual", "Flight", "Gate", "Airport", "City", "Country", "Lat", "Long", "Display name", "Status"})
	for _, f := range flights {
		t.AppendRow(table.Row{
			formatTime(f.Scheduled), formatTime(f.Actual), f.Flight, f.Gate, f.Airport, f.City,
			f.Country, formatCoord(f.Latitude), formatCoord(f.Longitude), f.DisplayName, f.Status,
		})
	}
	t.Render()
}
