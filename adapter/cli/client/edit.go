package client

import (
	"fmt"

	"github.com/felixgeelhaar/trainbook/adapter/cli"
	"github.com/felixgeelhaar/trainbook/internal/clients/application/commands"
	"github.com/spf13/cobra"
)

var (
	editName           string
	editPhone          string
	editGoals          string
	editMedicalHistory string
	editLocation       string
	editTags           []string
	editRecurring      []string
	editOneTime        []string
	clearTags          bool
	clearRecurring     bool
	clearOneTime       bool
)

var editCmd = &cobra.Command{
	Use:   "edit [client]",
	Short: "Edit a client",
	Long: `Edit the given fields of a client. Fields that are not given stay
unchanged. Tags and sessions given replace the existing ones.

Examples:
  trainbook client edit 1 -p 91234567
  trainbook client edit "Alex Yeoh" -r "Tue 0900 1000" -r "Thu 0900 1000"
  trainbook client edit 2 --clear-one-time`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.EditClientHandler == nil {
			return cli.ErrNotInitialized
		}

		id, name, err := resolveID(cmd.Context(), app, args[0])
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		edit := commands.EditClientCommand{ClientID: id, Source: commands.SourceCLI}
		if flags.Changed("name") {
			edit.Name = &editName
		}
		if flags.Changed("phone") {
			edit.Phone = &editPhone
		}
		if flags.Changed("goals") {
			edit.Goals = &editGoals
		}
		if flags.Changed("medical") {
			edit.MedicalHistory = &editMedicalHistory
		}
		if flags.Changed("location") {
			edit.Location = &editLocation
		}
		edit.Tags = replacement(editTags, flags.Changed("tag"), clearTags)
		edit.Recurring = replacement(editRecurring, flags.Changed("recurring"), clearRecurring)
		edit.OneTime = replacement(editOneTime, flags.Changed("one-time"), clearOneTime)

		result, err := app.EditClientHandler.Handle(cmd.Context(), edit)
		if err != nil {
			return fmt.Errorf("failed to edit client: %w", err)
		}
		app.FlushEvents(cmd.Context())

		out := cmd.OutOrStdout()
		if edit.Name != nil {
			name = editName
		}
		fmt.Fprintf(out, "Edited client: %s\n", name)
		cli.PrintConflicts(out, result.Conflicts)
		return nil
	},
}

// replacement returns nil when the field is untouched and a non-nil slice
// when it is replaced or cleared.
func replacement(values []string, changed, reset bool) []string {
	switch {
	case reset:
		return []string{}
	case changed:
		return append([]string{}, values...)
	default:
		return nil
	}
}

func init() {
	editCmd.Flags().StringVarP(&editName, "name", "n", "", "new name")
	editCmd.Flags().StringVarP(&editPhone, "phone", "p", "", "phone number (digits only)")
	editCmd.Flags().StringVarP(&editGoals, "goals", "g", "", "training goals")
	editCmd.Flags().StringVarP(&editMedicalHistory, "medical", "m", "", "medical history")
	editCmd.Flags().StringVarP(&editLocation, "location", "l", "", "training location")
	editCmd.Flags().StringArrayVarP(&editTags, "tag", "t", nil, "replace tags (repeatable)")
	editCmd.Flags().StringArrayVarP(&editRecurring, "recurring", "r", nil, `replace weekly sessions "DAY START END" (repeatable)`)
	editCmd.Flags().StringArrayVarP(&editOneTime, "one-time", "o", nil, `replace one-off sessions "D/M[/YY] START END" (repeatable)`)
	editCmd.Flags().BoolVar(&clearTags, "clear-tags", false, "remove all tags")
	editCmd.Flags().BoolVar(&clearRecurring, "clear-recurring", false, "remove all weekly sessions")
	editCmd.Flags().BoolVar(&clearOneTime, "clear-one-time", false, "remove all one-off sessions")
	editCmd.MarkFlagsMutuallyExclusive("tag", "clear-tags")
	editCmd.MarkFlagsMutuallyExclusive("recurring", "clear-recurring")
	editCmd.MarkFlagsMutuallyExclusive("one-time", "clear-one-time")
}
