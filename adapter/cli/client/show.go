package client

import (
	"fmt"

	"github.com/felixgeelhaar/trainbook/adapter/cli"
	"github.com/felixgeelhaar/trainbook/internal/clients/application/queries"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [client]",
	Short: "Show a client's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetClientHandler == nil {
			return cli.ErrNotInitialized
		}

		c, err := app.GetClientHandler.Handle(cmd.Context(), queries.GetClientQuery{Ref: args[0]})
		if err != nil {
			return fmt.Errorf("failed to find client %q: %w", args[0], err)
		}

		cli.PrintClient(cmd.OutOrStdout(), *c)
		return nil
	},
}
