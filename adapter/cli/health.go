package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database and outbox health",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return ErrNotInitialized
		}

		out := cmd.OutOrStdout()
		if app.Ping != nil {
			if err := app.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("database unreachable: %w", err)
			}
		}
		fmt.Fprintln(out, "database: ok")

		if app.OutboxStats != nil {
			stats := app.OutboxStats()
			fmt.Fprintf(out, "outbox: %d published, %d failed, %d dead\n",
				stats.PublishedCount, stats.FailedCount, stats.DeadCount)
			if stats.LastError != "" {
				fmt.Fprintf(out, "  last error: %s\n", stats.LastError)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
