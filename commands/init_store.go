// commands/init_store.go
package commands

import (
	"fmt"

	"github.com/gewnthar/arrivals/database"
	"github.com/spf13/cobra"
)

func newInitStoreCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init-store [store-path]",
		Short: "Creates an empty snapshot store. Existing stores are never overwritten.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			path := opts.storePath(args)
			if err := database.InitStore(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created empty store %s\n", path)
			return nil
		},
	}
}
