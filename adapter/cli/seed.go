package cli

import (
	"fmt"

	"github.com/felixgeelhaar/trainbook/internal/clients/application/commands"
	"github.com/felixgeelhaar/trainbook/internal/clients/infrastructure/seed"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add the sample clients",
	Long:  `Add six sample clients with weekly and one-off sessions. Sample clients already in the book are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ImportClientsHandler == nil {
			return ErrNotInitialized
		}

		drafts, err := seed.SampleDrafts()
		if err != nil {
			return fmt.Errorf("failed to load sample clients: %w", err)
		}
		return importDrafts(cmd.Context(), cmd.OutOrStdout(), app, drafts, commands.SourceSeed)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
