package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/felixgeelhaar/trainbook/internal/clients/application/queries"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/security"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
	exportClient string
	exportTag    string
)

var exportCmd = &cobra.Command{
	Use:   "export [keywords...]",
	Short: "Export sessions or the roster",
	Long: `Export sessions to ICS (iCalendar) for Google Calendar, Outlook or
Apple Calendar, or the roster to a spreadsheet or vCard file.

Formats:
  ics   - sessions; weekly sessions repeat with an RRULE
  xlsx  - roster spreadsheet (requires --output)
  vcf   - roster as vCard contacts

Examples:
  trainbook export --format ics                  # Export to stdout
  trainbook export --format ics --client 2       # One client's sessions
  trainbook export --format xlsx -o clients.xlsx
  trainbook export --format vcf --tag friends -o friends.vcf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return ErrNotInitialized
		}

		ctx := cmd.Context()
		var export func(io.Writer) (int, error)
		switch exportFormat {
		case "ics", "ical":
			export = func(w io.Writer) (int, error) {
				return app.ExportCalendarHandler.Handle(ctx, queries.ExportCalendarQuery{Ref: exportClient}, w)
			}
		case "xlsx":
			if exportOutput == "" {
				return fmt.Errorf("xlsx export requires --output")
			}
			export = func(w io.Writer) (int, error) {
				return app.ExportXLSXHandler.Handle(ctx, rosterFilter(args), w)
			}
		case "vcf", "vcard":
			export = func(w io.Writer) (int, error) {
				return app.ExportVCardHandler.Handle(ctx, rosterFilter(args), w)
			}
		default:
			return fmt.Errorf("unsupported format: %s (supported: ics, xlsx, vcf)", exportFormat)
		}

		n, err := writeOutput(cmd.OutOrStdout(), exportOutput, export)
		if err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}

		if exportOutput != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d client(s) to %s\n", n, exportOutput)
		}
		return nil
	},
}

func rosterFilter(keywords []string) queries.ListClientsQuery {
	return queries.ListClientsQuery{Keywords: keywords, Tag: exportTag}
}

// writeOutput runs export against the validated output file, or stdout when
// path is empty. A partly written file is removed.
func writeOutput(stdout io.Writer, path string, export func(io.Writer) (int, error)) (int, error) {
	if path == "" {
		return export(stdout)
	}

	f, err := security.SafeCreate(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	n, err := export(f)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return 0, err
	}
	return n, f.Close()
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "ics", "export format (ics, xlsx, vcf)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVarP(&exportClient, "client", "c", "", "only this client (ics)")
	exportCmd.Flags().StringVar(&exportTag, "tag", "", "only clients with this tag (xlsx, vcf)")
	rootCmd.AddCommand(exportCmd)
}
