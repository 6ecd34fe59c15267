package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	clientQueries "github.com/felixgeelhaar/trainbook/internal/clients/application/queries"
	clientServices "github.com/felixgeelhaar/trainbook/internal/clients/application/services"
)

// ErrNotInitialized is returned when a command runs without a container.
var ErrNotInitialized = errors.New("trainbook is not initialized: check DATABASE_URL or SQLITE_PATH")

// PrintConflicts writes one warning line per conflict.
func PrintConflicts(w io.Writer, conflicts []clientServices.ConflictView) {
	for _, c := range conflicts {
		fmt.Fprintf(w, "Warning: %s\n", c.Message())
	}
}

// PrintClientLine writes the one-line roster form of a client.
func PrintClientLine(w io.Writer, c clientQueries.ClientDTO) {
	tags := ""
	if len(c.Tags) > 0 {
		tags = " [" + strings.Join(c.Tags, ", ") + "]"
	}
	fmt.Fprintf(w, "%d. %s (%s)%s\n", c.Position, c.Name, c.Phone, tags)
}

// PrintClient writes every field of a client.
func PrintClient(w io.Writer, c clientQueries.ClientDTO) {
	PrintClientLine(w, c)
	fmt.Fprintf(w, "   ID: %s\n", c.ID)
	printOptional(w, "Goals", c.Goals)
	printOptional(w, "Medical history", c.MedicalHistory)
	printOptional(w, "Location", c.Location)
	if len(c.Recurring) > 0 {
		fmt.Fprintf(w, "   Weekly: %s\n", strings.Join(c.Recurring, ", "))
	}
	if len(c.OneTime) > 0 {
		fmt.Fprintf(w, "   One-off: %s\n", strings.Join(c.OneTime, ", "))
	}
}

func printOptional(w io.Writer, label, value string) {
	if value != "" {
		fmt.Fprintf(w, "   %s: %s\n", label, value)
	}
}
