package schedule

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/trainbook/adapter/cli"
	"github.com/felixgeelhaar/trainbook/internal/clients/application/queries"
	"github.com/spf13/cobra"
)

var (
	agendaFrom   string
	agendaTo     string
	agendaClient string
	agendaJSON   bool
)

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "List sessions between two dates",
	Long: `List every session falling between two dates, inclusive, in time order.
Weekly sessions are expanded to each matching day.

Examples:
  trainbook schedule agenda --from 23/2 --to 1/3
  trainbook schedule agenda --from 1/3/26 --to 31/3/26 --client 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.AgendaHandler == nil {
			return cli.ErrNotInitialized
		}

		items, err := app.AgendaHandler.Handle(cmd.Context(), queries.AgendaQuery{
			From: agendaFrom,
			To:   agendaTo,
			Ref:  agendaClient,
		})
		if err != nil {
			return fmt.Errorf("failed to build agenda: %w", err)
		}

		out := cmd.OutOrStdout()
		if agendaJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}

		if len(items) == 0 {
			fmt.Fprintln(out, "No sessions in range.")
			return nil
		}

		lastDate := ""
		for _, item := range items {
			if item.Date != lastDate {
				fmt.Fprintf(out, "%s %s\n", item.Weekday, item.Date)
				lastDate = item.Date
			}
			marker := ""
			if item.Kind == "one_time" {
				marker = " *"
			}
			fmt.Fprintf(out, "  %s-%s  %s%s\n", item.Start, item.End, item.ClientName, marker)
		}
		return nil
	},
}

func init() {
	agendaCmd.Flags().StringVar(&agendaFrom, "from", "", "first date, D/M[/YY]")
	agendaCmd.Flags().StringVar(&agendaTo, "to", "", "last date, D/M[/YY]")
	agendaCmd.Flags().StringVarP(&agendaClient, "client", "c", "", "only this client")
	agendaCmd.Flags().BoolVar(&agendaJSON, "json", false, "print JSON")
	_ = agendaCmd.MarkFlagRequired("from")
	_ = agendaCmd.MarkFlagRequired("to")
}
