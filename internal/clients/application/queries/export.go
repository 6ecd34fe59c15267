package queries

import (
	"context"
	"io"

	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
	"github.com/felixgeelhaar/trainbook/internal/scheduling/infrastructure/icalexport"
)

// ExportCalendarQuery writes the schedules of the roster, or of one client
// when Ref is set, as an iCalendar feed.
type ExportCalendarQuery struct {
	Ref string
}

// ExportCalendarHandler handles the ExportCalendarQuery.
type ExportCalendarHandler struct {
	clientRepo domain.Repository
	exporter   *icalexport.Exporter
}

// NewExportCalendarHandler creates a new ExportCalendarHandler.
func NewExportCalendarHandler(clientRepo domain.Repository, exporter *icalexport.Exporter) *ExportCalendarHandler {
	return &ExportCalendarHandler{clientRepo: clientRepo, exporter: exporter}
}

// Handle executes the ExportCalendarQuery and returns the number of clients
// written.
func (h *ExportCalendarHandler) Handle(ctx context.Context, query ExportCalendarQuery, w io.Writer) (int, error) {
	clients, err := h.selectClients(ctx, query.Ref)
	if err != nil {
		return 0, err
	}

	entries := make([]icalexport.Entry, 0, len(clients))
	for _, c := range clients {
		entries = append(entries, icalexport.Entry{
			OwnerID:  c.ID(),
			Name:     c.Name(),
			Location: c.Location(),
			Schedule: c.Schedule(),
		})
	}

	if err := h.exporter.Encode(w, entries); err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (h *ExportCalendarHandler) selectClients(ctx context.Context, ref string) ([]*domain.Client, error) {
	if ref == "" {
		return h.clientRepo.FindAll(ctx)
	}
	client, err := ResolveClient(ctx, h.clientRepo, ref)
	if err != nil {
		return nil, err
	}
	return []*domain.Client{client}, nil
}

// RosterEncoder writes a roster in some document format.
type RosterEncoder interface {
	Encode(w io.Writer, roster []ClientDTO) error
}

// ExportRosterHandler writes the full roster through a RosterEncoder.
type ExportRosterHandler struct {
	list    *ListClientsHandler
	encoder RosterEncoder
}

// NewExportRosterHandler creates a new ExportRosterHandler.
func NewExportRosterHandler(list *ListClientsHandler, encoder RosterEncoder) *ExportRosterHandler {
	return &ExportRosterHandler{list: list, encoder: encoder}
}

// Handle writes the roster filtered by query and returns the row count.
func (h *ExportRosterHandler) Handle(ctx context.Context, query ListClientsQuery, w io.Writer) (int, error) {
	roster, err := h.list.Handle(ctx, query)
	if err != nil {
		return 0, err
	}
	if err := h.encoder.Encode(w, roster); err != nil {
		return 0, err
	}
	return len(roster), nil
}
