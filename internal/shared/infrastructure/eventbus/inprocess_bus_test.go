package eventbus_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/trainbook/internal/shared/domain"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelope(t *testing.T, routingKey string) ([]byte, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	body, err := json.Marshal(map[string]any{
		"event_id":       id,
		"aggregate_id":   uuid.New(),
		"aggregate_type": "Client",
		"routing_key":    routingKey,
		"occurred_at":    time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC),
		"payload":        map[string]string{"name": "Bernice Yu"},
		"metadata":       domain.EventMetadata{CorrelationID: uuid.New(), Source: "cli"},
	})
	require.NoError(t, err)
	return body, id
}

func TestInProcessEventBus_PublishDispatches(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(quietLogger())
	consumer := &mockConsumer{eventTypes: []string{"clients.client.*"}}
	bus.RegisterConsumer(consumer)

	body, id := envelope(t, "clients.client.edited")
	require.NoError(t, bus.Publish(context.Background(), "clients.client.edited", body))

	require.Len(t, consumer.events, 1)
	got := consumer.events[0]
	assert.Equal(t, id, got.EventID)
	assert.Equal(t, "Client", got.AggregateType)
	assert.Equal(t, "cli", got.Metadata.Source)
	assert.JSONEq(t, `{"name":"Bernice Yu"}`, string(got.Payload))
}

func TestInProcessEventBus_UndecodablePayloadIsDropped(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(quietLogger())
	consumer := &mockConsumer{eventTypes: []string{"#"}}
	bus.RegisterConsumer(consumer)

	err := bus.Publish(context.Background(), "clients.client.added", []byte("not json"))

	assert.NoError(t, err)
	assert.Empty(t, consumer.events)
}

func TestInProcessEventBus_ConsumerErrorIsReturned(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(quietLogger())
	boom := errors.New("cache down")
	bus.RegisterConsumer(&mockConsumer{eventTypes: []string{"clients.client.added"}, err: boom})

	body, _ := envelope(t, "clients.client.added")
	err := bus.Publish(context.Background(), "clients.client.added", body)

	assert.ErrorIs(t, err, boom)
}

func TestInProcessEventBus_RoutingKeyFallback(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(quietLogger())
	consumer := &mockConsumer{eventTypes: []string{"clients.client.deleted"}}
	bus.RegisterConsumer(consumer)

	require.NoError(t, bus.Publish(context.Background(), "clients.client.deleted", []byte(`{"payload":{}}`)))

	require.Len(t, consumer.events, 1)
	assert.Equal(t, "clients.client.deleted", consumer.events[0].RoutingKey)
}

func TestInProcessEventBus_StartBlocksUntilCancelled(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, bus.Start(ctx), context.Canceled)
	assert.NoError(t, bus.Close())
}

func TestNoopPublisher(t *testing.T) {
	p := eventbus.NewNoopPublisher(nil)
	assert.NoError(t, p.Publish(context.Background(), "clients.client.added", []byte("{}")))
	assert.NoError(t, p.Close())
}
