package cache

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/trainbook/internal/clients/application/queries"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/eventbus"
)

// RosterInvalidator drops the cached roster whenever a client event arrives.
type RosterInvalidator struct {
	cache  queries.RosterCache
	logger *slog.Logger
}

// NewRosterInvalidator creates an invalidator for cache.
func NewRosterInvalidator(cache queries.RosterCache, logger *slog.Logger) *RosterInvalidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &RosterInvalidator{cache: cache, logger: logger}
}

func (i *RosterInvalidator) EventTypes() []string {
	return []string{"clients.client.*"}
}

func (i *RosterInvalidator) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	if err := i.cache.Invalidate(ctx); err != nil {
		return err
	}
	i.logger.Debug("roster cache invalidated",
		"routing_key", event.RoutingKey,
		"client_id", event.AggregateID,
		"correlation_id", event.Metadata.CorrelationID,
	)
	return nil
}

var _ eventbus.EventConsumer = (*RosterInvalidator)(nil)
