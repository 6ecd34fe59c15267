// Package calendarsync mirrors client schedules to an external calendar
// whenever a client event is consumed.
package calendarsync

import (
	"context"
	"errors"
	"log/slog"

	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
	"github.com/felixgeelhaar/trainbook/internal/scheduling/infrastructure/caldav"
	"github.com/felixgeelhaar/trainbook/internal/scheduling/infrastructure/icalexport"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// Publisher writes client sessions to a calendar.
type Publisher interface {
	Sync(ctx context.Context, entries []icalexport.Entry) (*caldav.SyncResult, error)
	PublishClient(ctx context.Context, entry icalexport.Entry) (*caldav.SyncResult, error)
	RemoveClient(ctx context.Context, ownerID uuid.UUID) (int, error)
}

// Subscriber pushes a client's sessions after it is added or edited and
// removes them after it is deleted. Calendar failures are logged and never
// fail the event.
type Subscriber struct {
	publisher  Publisher
	clientRepo domain.Repository
	logger     *slog.Logger
}

// NewSubscriber creates a calendar sync subscriber.
func NewSubscriber(publisher Publisher, clientRepo domain.Repository, logger *slog.Logger) *Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &Subscriber{publisher: publisher, clientRepo: clientRepo, logger: logger}
}

func (s *Subscriber) EventTypes() []string {
	return []string{"clients.client.*"}
}

func (s *Subscriber) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	switch event.RoutingKey {
	case domain.RoutingKeyClientAdded, domain.RoutingKeyClientEdited:
		s.publish(ctx, event)
	case domain.RoutingKeyClientDeleted:
		s.remove(ctx, event.AggregateID)
	default:
		s.logger.Warn("unknown event type", "routing_key", event.RoutingKey)
	}
	return nil
}

func (s *Subscriber) publish(ctx context.Context, event *eventbus.ConsumedEvent) {
	client, err := s.clientRepo.FindByID(ctx, event.AggregateID)
	if errors.Is(err, domain.ErrClientNotFound) {
		// Deleted before the event was consumed.
		s.remove(ctx, event.AggregateID)
		return
	}
	if err != nil {
		s.logger.Error("failed to load client for calendar sync",
			"client_id", event.AggregateID,
			"error", err,
		)
		return
	}

	result, err := s.publisher.PublishClient(ctx, EntryFor(client))
	if err != nil {
		s.logger.Error("failed to sync client to calendar",
			"client_id", event.AggregateID,
			"error", err,
		)
		return
	}

	s.logger.Info("synced client to calendar",
		"client_id", event.AggregateID,
		"created", result.Created,
		"updated", result.Updated,
		"deleted", result.Deleted,
	)
}

func (s *Subscriber) remove(ctx context.Context, id uuid.UUID) {
	deleted, err := s.publisher.RemoveClient(ctx, id)
	if err != nil {
		s.logger.Error("failed to remove client from calendar",
			"client_id", id,
			"error", err,
		)
		return
	}
	s.logger.Info("removed client from calendar", "client_id", id, "deleted", deleted)
}

// SyncAll publishes the whole roster and removes sessions of clients that
// are gone.
func (s *Subscriber) SyncAll(ctx context.Context) (*caldav.SyncResult, error) {
	clients, err := s.clientRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]icalexport.Entry, 0, len(clients))
	for _, c := range clients {
		entries = append(entries, EntryFor(c))
	}
	return s.publisher.Sync(ctx, entries)
}

// EntryFor converts a client to the exporter's input.
func EntryFor(c *domain.Client) icalexport.Entry {
	return icalexport.Entry{
		OwnerID:  c.ID(),
		Name:     c.Name(),
		Location: c.Location(),
		Schedule: c.Schedule(),
	}
}

var _ eventbus.EventConsumer = (*Subscriber)(nil)
