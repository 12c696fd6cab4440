// commands/serve.go
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gewnthar/arrivals/database"
	"github.com/gewnthar/arrivals/handlers"
	"github.com/gewnthar/arrivals/services"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var noSchedule bool
	cmd := &cobra.Command{
		Use:   "serve [store-path]",
		Short: "Serves the HTTP API and runs scheduled collections.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runServe(cmd, opts, opts.storePath(args), !noSchedule)
		},
	}
	cmd.Flags().BoolVar(&noSchedule, "no-schedule", false, "serve the API without scheduled collections")
	return cmd
}

func runServe(cmd *cobra.Command, opts *rootOptions, storePath string, scheduled bool) error {
	cfg := opts.cfg
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	closeDB, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	fetcher := newFetcher(cfg)
	reconciler, err := newReconciler(ctx, cfg, fetcher)
	if err != nil {
		return err
	}
	collection := newCollectionService(cfg, storePath, fetcher, reconciler)

	var source services.ArrivalSource = services.StoreArrivalSource{StorePath: storePath, Reconciler: reconciler}
	if cfg.Database.Enabled() {
		source = services.DatabaseArrivalSource{HomeAirport: cfg.Airport.Code}
		// bring the export up to date with runs collected elsewhere
		if store, err := database.LoadStore(storePath); err == nil {
			if err := database.SaveArrivals(ctx, cfg.Airport.Code, reconciler.Reconcile(ctx, store)); err != nil {
				slog.Warn("initial arrivals export failed", "component", "api", "err", err)
			}
		} else {
			slog.Warn("initial arrivals export skipped", "component", "api", "err", err)
		}
	}

	if scheduled && cfg.Schedule.Cron != "" {
		schedule, err := services.NewCollectionSchedule(cfg.Schedule.Cron, cfg.Airport.Location(), collection)
		if err != nil {
			return err
		}
		schedule.Start()
		defer schedule.Stop()
		slog.Info("collection scheduled", "component", "schedule", "cron", cfg.Schedule.Cron, "next", schedule.Next())
	}

	app := handlers.NewApp()
	handlers.RegisterRoutes(app, source, collection, cfg.Airport.Code)

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Server.Port
		slog.Info("server starting", "component", "api", "addr", addr)
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
		slog.Info("shutting down", "component", "api")
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}
