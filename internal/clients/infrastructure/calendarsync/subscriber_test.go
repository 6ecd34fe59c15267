package calendarsync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
	scheduling "github.com/felixgeelhaar/trainbook/internal/scheduling/domain"
	"github.com/felixgeelhaar/trainbook/internal/scheduling/infrastructure/caldav"
	"github.com/felixgeelhaar/trainbook/internal/scheduling/infrastructure/icalexport"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Sync(ctx context.Context, entries []icalexport.Entry) (*caldav.SyncResult, error) {
	args := m.Called(ctx, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*caldav.SyncResult), args.Error(1)
}

func (m *mockPublisher) PublishClient(ctx context.Context, entry icalexport.Entry) (*caldav.SyncResult, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*caldav.SyncResult), args.Error(1)
}

func (m *mockPublisher) RemoveClient(ctx context.Context, ownerID uuid.UUID) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

type mockClientRepo struct {
	mock.Mock
}

func (m *mockClientRepo) Save(ctx context.Context, client *domain.Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *mockClientRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *mockClientRepo) FindByName(ctx context.Context, name string) (*domain.Client, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *mockClientRepo) FindAll(ctx context.Context) ([]*domain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Client), args.Error(1)
}

func (m *mockClientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func newClient(t *testing.T, name string, recurring ...string) *domain.Client {
	t.Helper()
	schedule, err := scheduling.BuildScheduleSet(scheduling.NewDateNormalizer(2026), recurring, nil)
	require.NoError(t, err)
	c, err := domain.NewClient(domain.Profile{Name: name, Phone: "87438807", Location: "Gym"}, schedule)
	require.NoError(t, err)
	return c
}

func newTestSubscriber() (*Subscriber, *mockPublisher, *mockClientRepo) {
	publisher := &mockPublisher{}
	repo := &mockClientRepo{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSubscriber(publisher, repo, logger), publisher, repo
}

func TestSubscriber_EventTypes(t *testing.T) {
	registry := eventbus.NewConsumerRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
	sub, _, _ := newTestSubscriber()
	registry.Register(sub)

	assert.Len(t, registry.GetConsumers(domain.RoutingKeyClientAdded), 1)
	assert.Len(t, registry.GetConsumers(domain.RoutingKeyClientDeleted), 1)
}

func TestSubscriber_PublishesAddedClient(t *testing.T) {
	ctx := context.Background()
	sub, publisher, repo := newTestSubscriber()
	client := newClient(t, "Alex", "Mon 1400 1600")

	repo.On("FindByID", ctx, client.ID()).Return(client, nil)
	publisher.On("PublishClient", ctx, EntryFor(client)).Return(&caldav.SyncResult{Created: 1}, nil)

	err := sub.Handle(ctx, &eventbus.ConsumedEvent{AggregateID: client.ID(), RoutingKey: domain.RoutingKeyClientAdded})

	require.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestSubscriber_RemovesDeletedClient(t *testing.T) {
	ctx := context.Background()
	sub, publisher, repo := newTestSubscriber()
	id := uuid.New()

	publisher.On("RemoveClient", ctx, id).Return(2, nil)

	err := sub.Handle(ctx, &eventbus.ConsumedEvent{AggregateID: id, RoutingKey: domain.RoutingKeyClientDeleted})

	require.NoError(t, err)
	publisher.AssertExpectations(t)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestSubscriber_EditedClientGoneIsRemoved(t *testing.T) {
	ctx := context.Background()
	sub, publisher, repo := newTestSubscriber()
	id := uuid.New()

	repo.On("FindByID", ctx, id).Return(nil, domain.ErrClientNotFound)
	publisher.On("RemoveClient", ctx, id).Return(0, nil)

	err := sub.Handle(ctx, &eventbus.ConsumedEvent{AggregateID: id, RoutingKey: domain.RoutingKeyClientEdited})

	require.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestSubscriber_PublishFailureDoesNotFailEvent(t *testing.T) {
	ctx := context.Background()
	sub, publisher, repo := newTestSubscriber()
	client := newClient(t, "Alex")

	repo.On("FindByID", ctx, client.ID()).Return(client, nil)
	publisher.On("PublishClient", ctx, mock.Anything).Return(nil, errors.New("server unavailable"))

	err := sub.Handle(ctx, &eventbus.ConsumedEvent{AggregateID: client.ID(), RoutingKey: domain.RoutingKeyClientEdited})

	assert.NoError(t, err)
}

func TestSubscriber_SyncAll(t *testing.T) {
	ctx := context.Background()
	sub, publisher, repo := newTestSubscriber()
	alex := newClient(t, "Alex", "Mon 1400 1600")
	sam := newClient(t, "Sam", "Tue 0900 1000")

	repo.On("FindAll", ctx).Return([]*domain.Client{alex, sam}, nil)
	publisher.On("Sync", ctx, []icalexport.Entry{EntryFor(alex), EntryFor(sam)}).
		Return(&caldav.SyncResult{Created: 2, Deleted: 1}, nil)

	result, err := sub.SyncAll(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Deleted)
}
