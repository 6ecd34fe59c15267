package client

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/trainbook/adapter/cli"
	"github.com/felixgeelhaar/trainbook/internal/clients/application/queries"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Cmd is the client command group
var Cmd = &cobra.Command{
	Use:     "client",
	Aliases: []string{"clients"},
	Short:   "Manage clients",
	Long: `Add, edit, delete, list and show clients.

A client is referred to by roster position (as printed by "client list"),
by ID, or by name.`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(editCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
}

func resolveID(ctx context.Context, app *cli.App, ref string) (uuid.UUID, string, error) {
	c, err := app.GetClientHandler.Handle(ctx, queries.GetClientQuery{Ref: ref})
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("failed to find client %q: %w", ref, err)
	}
	return c.ID, c.Name, nil
}
