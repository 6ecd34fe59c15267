package client

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/trainbook/adapter/cli"
	"github.com/felixgeelhaar/trainbook/internal/clients/application/queries"
	"github.com/spf13/cobra"
)

var (
	listTag  string
	listJSON bool
)

var listCmd = &cobra.Command{
	Use:     "list [keywords...]",
	Aliases: []string{"ls", "find"},
	Short:   "List clients",
	Long: `List clients in roster order. Keywords keep clients whose name contains
any of them as a whole word, ignoring case.

Examples:
  trainbook client list
  trainbook client list alex yu
  trainbook client list --tag friends`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListClientsHandler == nil {
			return cli.ErrNotInitialized
		}

		clients, err := app.ListClientsHandler.Handle(cmd.Context(), queries.ListClientsQuery{
			Keywords: args,
			Tag:      listTag,
		})
		if err != nil {
			return fmt.Errorf("failed to list clients: %w", err)
		}

		out := cmd.OutOrStdout()
		if listJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(clients)
		}

		if len(clients) == 0 {
			fmt.Fprintln(out, "No clients found.")
			return nil
		}

		fmt.Fprintf(out, "%d client(s) listed:\n", len(clients))
		for _, c := range clients {
			if cli.Verbose() {
				cli.PrintClient(out, c)
			} else {
				cli.PrintClientLine(out, c)
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listTag, "tag", "", "only clients with this tag")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON")
}
