package client

import (
	"fmt"

	"github.com/felixgeelhaar/trainbook/adapter/cli"
	"github.com/felixgeelhaar/trainbook/internal/clients/application/commands"
	"github.com/spf13/cobra"
)

var (
	addPhone          string
	addGoals          string
	addMedicalHistory string
	addLocation       string
	addTags           []string
	addRecurring      []string
	addOneTime        []string
)

var addCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a client",
	Long: `Add a client to the book.

Weekly sessions are given as "DAY START END" and one-off sessions as
"D/M[/YY] START END", with times as HHMM. A client is added even when a
session overlaps another client's; the overlap is reported as a warning.

Examples:
  trainbook client add "Alex Yeoh" -p 87438807 -r "Mon 1400 1600"
  trainbook client add "Bernice Yu" -p 99272758 -o "25/02 1000 1200" -t friends`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.AddClientHandler == nil {
			return cli.ErrNotInitialized
		}

		result, err := app.AddClientHandler.Handle(cmd.Context(), commands.AddClientCommand{
			Name:           args[0],
			Phone:          addPhone,
			Goals:          addGoals,
			MedicalHistory: addMedicalHistory,
			Location:       addLocation,
			Tags:           addTags,
			Recurring:      addRecurring,
			OneTime:        addOneTime,
			Source:         commands.SourceCLI,
		})
		if err != nil {
			return fmt.Errorf("failed to add client: %w", err)
		}
		app.FlushEvents(cmd.Context())

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Added client: %s\n", args[0])
		if cli.Verbose() {
			fmt.Fprintf(out, "  ID: %s\n", result.ClientID)
		}
		cli.PrintConflicts(out, result.Conflicts)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addPhone, "phone", "p", "", "phone number (digits only)")
	addCmd.Flags().StringVarP(&addGoals, "goals", "g", "", "training goals")
	addCmd.Flags().StringVarP(&addMedicalHistory, "medical", "m", "", "medical history")
	addCmd.Flags().StringVarP(&addLocation, "location", "l", "", "training location")
	addCmd.Flags().StringArrayVarP(&addTags, "tag", "t", nil, "tag (repeatable)")
	addCmd.Flags().StringArrayVarP(&addRecurring, "recurring", "r", nil, `weekly session "DAY START END" (repeatable)`)
	addCmd.Flags().StringArrayVarP(&addOneTime, "one-time", "o", nil, `one-off session "D/M[/YY] START END" (repeatable)`)
	_ = addCmd.MarkFlagRequired("phone")
}
