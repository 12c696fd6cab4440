// commands/root.go
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/gewnthar/arrivals/config"
	"github.com/gewnthar/arrivals/services"
	"github.com/spf13/cobra"
)

// errReported marks failures whose message was already printed.
var errReported = errors.New("reported")

type rootOptions struct {
	configPath string
	verbose    bool
	cfg        *config.Config
}

// storePath returns the store named on the command line, or the configured one.
func (o *rootOptions) storePath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return o.cfg.Store.Path
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "arrivals [store-path]",
		Short: "arrivals scrapes an airport arrivals board into a snapshot store.",
		Long: "Without a subcommand, arrivals collects one snapshot of the arrivals board\n" +
			"and appends it to the store (default from config, usually database.json).",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(opts.configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			opts.cfg = cfg
			setupLogging(cmd.ErrOrStderr(), cfg.Log.Level, opts.verbose)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runScrape(cmd, opts, opts.storePath(args))
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newInitStoreCmd(opts),
		newReconcileCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

func runScrape(cmd *cobra.Command, opts *rootOptions, storePath string) error {
	ctx := cmd.Context()
	fail := func(err error) error {
		fmt.Fprintf(cmd.OutOrStdout(), "scrape failed: %v\n", err)
		return errReported
	}

	fetcher := newFetcher(opts.cfg)
	var reconciler *services.ReconcileService
	if opts.cfg.Database.Enabled() {
		closeDB, err := openDatabase(opts.cfg)
		if err != nil {
			return fail(err)
		}
		defer closeDB()
		if reconciler, err = newReconciler(ctx, opts.cfg, fetcher); err != nil {
			return fail(err)
		}
	}

	run, err := newCollectionService(opts.cfg, storePath, fetcher, reconciler).RunCollection(ctx)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "scrape succeeded: run %s stored %d labels, %d rows in %s\n",
		run.RunKey, run.LabelCount, run.RowCount, storePath)
	return nil
}

// Execute runs the CLI and exits nonzero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
