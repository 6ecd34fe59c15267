package schedule

import (
	"fmt"

	"github.com/felixgeelhaar/trainbook/adapter/cli"
	"github.com/felixgeelhaar/trainbook/internal/clients/application/queries"
	"github.com/spf13/cobra"
)

var (
	checkRecurring []string
	checkOneTime   []string
)

var checkCmd = &cobra.Command{
	Use:   "check [client]",
	Short: "Check sessions for overlaps",
	Long: `Check sessions against every client without changing anything.

With only a client, that client's stored sessions are checked. With
sessions, they are checked as if they belonged to the client (or to a new
client when none is given).

Examples:
  trainbook schedule check 1
  trainbook schedule check -r "Mon 1500 1700"
  trainbook schedule check "Alex Yeoh" -o "25/02 1100 1300"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CheckConflictsHandler == nil {
			return cli.ErrNotInitialized
		}

		query := queries.CheckConflictsQuery{
			Recurring: checkRecurring,
			OneTime:   checkOneTime,
		}
		if len(args) == 1 {
			query.Ref = args[0]
		}

		conflicts, err := app.CheckConflictsHandler.Handle(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("failed to check schedule: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(conflicts) == 0 {
			fmt.Fprintln(out, "No conflicts.")
			return nil
		}
		fmt.Fprintf(out, "%d conflict(s):\n", len(conflicts))
		cli.PrintConflicts(out, conflicts)
		return nil
	},
}

func init() {
	checkCmd.Flags().StringArrayVarP(&checkRecurring, "recurring", "r", nil, `weekly session "DAY START END" (repeatable)`)
	checkCmd.Flags().StringArrayVarP(&checkOneTime, "one-time", "o", nil, `one-off session "D/M[/YY] START END" (repeatable)`)
}
