package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
	scheduling "github.com/felixgeelhaar/trainbook/internal/scheduling/domain"
	schedulingServices "github.com/felixgeelhaar/trainbook/internal/scheduling/application/services"
	"github.com/google/uuid"
)

// AgendaQuery lists sessions between two D/M[/YY] dates, inclusive. Ref
// restricts the agenda to one client.
type AgendaQuery struct {
	From string
	To   string
	Ref  string
}

// AgendaItem is one dated session.
type AgendaItem struct {
	Date       string    `json:"date"`
	Weekday    string    `json:"weekday"`
	Start      string    `json:"start"`
	End        string    `json:"end"`
	ClientID   uuid.UUID `json:"client_id"`
	ClientName string    `json:"client_name"`
	Kind       string    `json:"kind"`
	StartsAt   time.Time `json:"starts_at"`
}

// AgendaHandler handles the AgendaQuery.
type AgendaHandler struct {
	clientRepo domain.Repository
	normalizer scheduling.DateNormalizer
	builder    *schedulingServices.AgendaBuilder
}

// NewAgendaHandler creates a new AgendaHandler.
func NewAgendaHandler(clientRepo domain.Repository, normalizer scheduling.DateNormalizer, builder *schedulingServices.AgendaBuilder) *AgendaHandler {
	return &AgendaHandler{clientRepo: clientRepo, normalizer: normalizer, builder: builder}
}

// Handle executes the AgendaQuery.
func (h *AgendaHandler) Handle(ctx context.Context, query AgendaQuery) ([]AgendaItem, error) {
	from, err := h.normalizer.Normalize(query.From)
	if err != nil {
		return nil, err
	}
	to, err := h.normalizer.Normalize(query.To)
	if err != nil {
		return nil, err
	}

	clients, err := h.clientRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if query.Ref != "" {
		client, err := ResolveClient(ctx, h.clientRepo, query.Ref)
		if err != nil {
			return nil, err
		}
		clients = []*domain.Client{client}
	}

	names := make(map[uuid.UUID]string, len(clients))
	for _, c := range clients {
		names[c.ID()] = c.Name()
	}

	sessions, err := h.builder.Build(domain.Roster(clients), from, to)
	if err != nil {
		return nil, err
	}

	items := make([]AgendaItem, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, AgendaItem{
			Date:       s.Date.String(),
			Weekday:    scheduling.WeekdayAbbrev(s.Date.Weekday()),
			Start:      s.Window.StartTime().Clock(),
			End:        s.Window.EndTime().Clock(),
			ClientID:   s.OwnerID,
			ClientName: names[s.OwnerID],
			Kind:       string(s.Window.Kind()),
			StartsAt:   s.Start,
		})
	}
	return items, nil
}
