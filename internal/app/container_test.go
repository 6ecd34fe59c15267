package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/trainbook/internal/clients/application/commands"
	"github.com/felixgeelhaar/trainbook/internal/clients/application/queries"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/trainbook/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppEnv:                  "test",
		ReferenceYear:           2026,
		TimeZone:                "UTC",
		DatabaseDriver:          "sqlite",
		SQLitePath:              filepath.Join(t.TempDir(), "trainbook.db"),
		LocalMode:               true,
		RosterCacheTTL:          time.Hour,
		BreakerFailureThreshold: 5,
		BreakerTimeout:          time.Second,
		OutboxPollInterval:      time.Second,
		OutboxBatchSize:         10,
		OutboxMaxRetries:        3,
		OutboxProcessorEnabled:  true,
	}
}

func newLocalContainer(t *testing.T) *Container {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := NewContainer(context.Background(), localConfig(t), logger)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestNewContainer_LocalMode(t *testing.T) {
	c := newLocalContainer(t)

	assert.Equal(t, database.DriverSQLite, c.DBDriver)
	assert.NotNil(t, c.SQLiteDB)
	assert.Nil(t, c.DB)
	assert.Nil(t, c.RedisClient)
	assert.Nil(t, c.Breaker)
	require.NotNil(t, c.InProcessEventBus)
	assert.Same(t, c.InProcessEventBus, c.EventPublisher.(*eventbus.InProcessEventBus))
	assert.Equal(t, 1, c.InProcessEventBus.Registry().ConsumerCount())
	assert.Nil(t, c.CalendarSync)
	assert.Equal(t, 2026, c.Normalizer.ReferenceYear())
	assert.Equal(t, "UTC", c.Location.String())
	require.NoError(t, c.Ping(context.Background()))
}

func TestNewContainer_CalendarSync(t *testing.T) {
	cfg := localConfig(t)
	cfg.CalDAVURL = "http://127.0.0.1:1/dav"
	cfg.CalDAVCalendarPath = "/dav/calendars/coach/training/"

	c, err := NewContainer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(c.Close)

	require.NotNil(t, c.CalendarSync)
	assert.Len(t, c.Consumers(), 2)
	assert.Equal(t, 2, c.InProcessEventBus.Registry().ConsumerCount())
}

func TestNewContainer_InvalidTimeZone(t *testing.T) {
	cfg := localConfig(t)
	cfg.TimeZone = "Mars/Olympus"

	_, err := NewContainer(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestContainer_FlushEventsInvalidatesRoster(t *testing.T) {
	ctx := context.Background()
	c := newLocalContainer(t)

	_, err := c.AddClientHandler.Handle(ctx, commands.AddClientCommand{
		Name:      "Alex Yeoh",
		Phone:     "87438807",
		Recurring: []string{"Mon 1400 1600"},
		Source:    commands.SourceCLI,
	})
	require.NoError(t, err)
	c.FlushEvents(ctx)

	roster, err := c.ListClientsHandler.Handle(ctx, queries.ListClientsQuery{})
	require.NoError(t, err)
	require.Len(t, roster, 1)

	added, err := c.AddClientHandler.Handle(ctx, commands.AddClientCommand{
		Name:      "Bernice Yu",
		Phone:     "99272758",
		Recurring: []string{"Mon 1500 1700"},
		Source:    commands.SourceCLI,
	})
	require.NoError(t, err)
	require.Len(t, added.Conflicts, 1)
	assert.Equal(t, "Alex Yeoh", added.Conflicts[0].OtherClientName)

	// Still cached until the outbox is flushed.
	roster, err = c.ListClientsHandler.Handle(ctx, queries.ListClientsQuery{})
	require.NoError(t, err)
	assert.Len(t, roster, 1)

	c.FlushEvents(ctx)

	roster, err = c.ListClientsHandler.Handle(ctx, queries.ListClientsQuery{})
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "Bernice Yu", roster[1].Name)
	assert.Equal(t, 2, roster[1].Position)

	pending, err := c.OutboxRepo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Equal(t, uint64(2), c.OutboxProcessor.GetStats().PublishedCount)
}

func TestContainer_ExportCalendar(t *testing.T) {
	ctx := context.Background()
	c := newLocalContainer(t)

	_, err := c.AddClientHandler.Handle(ctx, commands.AddClientCommand{
		Name:    "Charlotte Oliveiro",
		Phone:   "93210283",
		OneTime: []string{"02/03 0900 1000"},
		Source:  commands.SourceCLI,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := c.ExportCalendarHandler.Handle(ctx, queries.ExportCalendarQuery{}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, buf.String(), "BEGIN:VCALENDAR")
	assert.Contains(t, buf.String(), "Charlotte Oliveiro")
}

func TestProcessorConfig_FallsBackToDefaults(t *testing.T) {
	pc := processorConfig(&config.Config{OutboxBatchSize: 7})

	assert.Equal(t, 7, pc.BatchSize)
	assert.Equal(t, time.Second, pc.PollInterval)
	assert.Equal(t, 5, pc.MaxRetries)
}
