package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRosterInvalidator_MatchesClientEvents(t *testing.T) {
	registry := eventbus.NewConsumerRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
	invalidator := NewRosterInvalidator(NewMemoryRosterCache(0), nil)
	registry.Register(invalidator)

	for _, key := range []string{domain.RoutingKeyClientAdded, domain.RoutingKeyClientEdited, domain.RoutingKeyClientDeleted} {
		assert.Len(t, registry.GetConsumers(key), 1, key)
	}
	assert.Empty(t, registry.GetConsumers("billing.invoice.sent"))
}

func TestRosterInvalidator_Handle(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryRosterCache(0)
	require.NoError(t, c.Store(ctx, []byte(`[]`)))

	invalidator := NewRosterInvalidator(c, slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := invalidator.Handle(ctx, &eventbus.ConsumedEvent{
		EventID:     uuid.New(),
		AggregateID: uuid.New(),
		RoutingKey:  domain.RoutingKeyClientEdited,
	})
	require.NoError(t, err)

	_, ok, _ := c.Load(ctx)
	assert.False(t, ok)
}
