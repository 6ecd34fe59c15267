package schedule

import (
	"github.com/spf13/cobra"
)

// Cmd is the schedule command group
var Cmd = &cobra.Command{
	Use:   "schedule",
	Short: "Check sessions and view the agenda",
	Long:  `Check sessions for overlaps and list upcoming sessions by date.`,
}

func init() {
	Cmd.AddCommand(checkCmd)
	Cmd.AddCommand(agendaCmd)
}
