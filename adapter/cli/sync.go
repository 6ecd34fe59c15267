package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync client sessions to the CalDAV calendar",
	Long: `Write every client session to the calendar configured by CALDAV_URL and
remove sessions of clients no longer in the book. Events from other
applications in the same calendar are left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return ErrNotInitialized
		}
		if app.CalendarSyncer == nil {
			return errors.New("calendar sync not configured: set CALDAV_URL")
		}

		result, err := app.CalendarSyncer.SyncAll(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Synced sessions: created=%d updated=%d deleted=%d failed=%d\n",
			result.Created, result.Updated, result.Deleted, result.Failed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
