package client

import (
	"fmt"

	"github.com/felixgeelhaar/trainbook/adapter/cli"
	"github.com/felixgeelhaar/trainbook/internal/clients/application/commands"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [client]",
	Aliases: []string{"rm"},
	Short:   "Delete a client",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.DeleteClientHandler == nil {
			return cli.ErrNotInitialized
		}

		id, _, err := resolveID(cmd.Context(), app, args[0])
		if err != nil {
			return err
		}

		result, err := app.DeleteClientHandler.Handle(cmd.Context(), commands.DeleteClientCommand{
			ClientID: id,
			Source:   commands.SourceCLI,
		})
		if err != nil {
			return fmt.Errorf("failed to delete client: %w", err)
		}
		app.FlushEvents(cmd.Context())

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted client: %s\n", result.Name)
		return nil
	},
}
