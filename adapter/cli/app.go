package cli

import (
	"context"

	internalApp "github.com/felixgeelhaar/trainbook/internal/app"
	clientCommands "github.com/felixgeelhaar/trainbook/internal/clients/application/commands"
	clientQueries "github.com/felixgeelhaar/trainbook/internal/clients/application/queries"
	"github.com/felixgeelhaar/trainbook/internal/clients/infrastructure/vcard"
	"github.com/felixgeelhaar/trainbook/internal/scheduling/infrastructure/caldav"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/outbox"
)

// CalendarSyncer pushes the whole roster to the configured calendar.
type CalendarSyncer interface {
	SyncAll(ctx context.Context) (*caldav.SyncResult, error)
}

// App holds the CLI application dependencies.
type App struct {
	// Client Command Handlers
	AddClientHandler     *clientCommands.AddClientHandler
	EditClientHandler    *clientCommands.EditClientHandler
	DeleteClientHandler  *clientCommands.DeleteClientHandler
	ImportClientsHandler *clientCommands.ImportClientsHandler

	// Client Query Handlers
	ListClientsHandler    *clientQueries.ListClientsHandler
	GetClientHandler      *clientQueries.GetClientHandler
	CheckConflictsHandler *clientQueries.CheckConflictsHandler
	AgendaHandler         *clientQueries.AgendaHandler

	// Export and import
	ExportCalendarHandler *clientQueries.ExportCalendarHandler
	ExportXLSXHandler     *clientQueries.ExportRosterHandler
	ExportVCardHandler    *clientQueries.ExportRosterHandler
	VCardDecoder          *vcard.Decoder

	// Calendar sync, nil when no CalDAV account is configured
	CalendarSyncer CalendarSyncer

	// Health
	Ping        func(ctx context.Context) error
	OutboxStats func() outbox.Stats

	flush func(ctx context.Context)
}

// NewApp creates a new CLI application from a wired container.
func NewApp(c *internalApp.Container) *App {
	a := &App{
		AddClientHandler:      c.AddClientHandler,
		EditClientHandler:     c.EditClientHandler,
		DeleteClientHandler:   c.DeleteClientHandler,
		ImportClientsHandler:  c.ImportClientsHandler,
		ListClientsHandler:    c.ListClientsHandler,
		GetClientHandler:      c.GetClientHandler,
		CheckConflictsHandler: c.CheckConflictsHandler,
		AgendaHandler:         c.AgendaHandler,
		ExportCalendarHandler: c.ExportCalendarHandler,
		ExportXLSXHandler:     c.ExportXLSXHandler,
		ExportVCardHandler:    c.ExportVCardHandler,
		VCardDecoder:          c.VCardDecoder,
		Ping:                  c.Ping,
		OutboxStats:           c.OutboxProcessor.GetStats,
		flush:                 c.FlushEvents,
	}
	if c.CalendarSync != nil {
		a.CalendarSyncer = c.CalendarSync
	}
	return a
}

// FlushEvents publishes the events written by a command before the process
// exits.
func (a *App) FlushEvents(ctx context.Context) {
	if a.flush != nil {
		a.flush(ctx)
	}
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
