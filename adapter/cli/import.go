package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/felixgeelhaar/trainbook/internal/clients/application/commands"
	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
	"github.com/felixgeelhaar/trainbook/internal/clients/infrastructure/seed"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/security"
	"github.com/spf13/cobra"
)

var importFormat string

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import clients from a vCard or YAML file",
	Long: `Import clients from a file. Clients whose name is already in the book
are skipped.

Formats:
  vcf   - vCard contacts; sessions are read from X-TRAINBOOK-RECURRING and
          X-TRAINBOOK-ONE-TIME
  yaml  - a "clients:" list in the seed format

Examples:
  trainbook import contacts.vcf
  trainbook import --format yaml clients.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ImportClientsHandler == nil {
			return ErrNotInitialized
		}

		f, err := security.SafeOpen(args[0])
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()

		var drafts []domain.Draft
		switch importFormat {
		case "vcf", "vcard":
			drafts, err = app.VCardDecoder.Decode(cmd.Context(), f)
		case "yaml", "yml":
			drafts, err = seed.Load(f)
		default:
			return fmt.Errorf("unsupported format: %s (supported: vcf, yaml)", importFormat)
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		return importDrafts(cmd.Context(), cmd.OutOrStdout(), app, drafts, commands.SourceImport)
	},
}

func importDrafts(ctx context.Context, out io.Writer, app *App, drafts []domain.Draft, source string) error {
	result, err := app.ImportClientsHandler.Handle(ctx, commands.ImportClientsCommand{
		Drafts: drafts,
		Source: source,
	})
	// Clients added before a failure are stored; publish their events either way.
	app.FlushEvents(ctx)
	if err != nil {
		return fmt.Errorf("import stopped after %d client(s): %w", len(result.Added), err)
	}

	fmt.Fprintf(out, "Imported %d client(s)", len(result.Added))
	if len(result.Skipped) > 0 {
		fmt.Fprintf(out, ", skipped %d already in the book", len(result.Skipped))
	}
	fmt.Fprintln(out, ".")
	PrintConflicts(out, result.Conflicts)
	return nil
}

func init() {
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "vcf", "file format (vcf, yaml)")
	rootCmd.AddCommand(importCmd)
}
