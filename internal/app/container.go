package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	clientCommands "github.com/felixgeelhaar/trainbook/internal/clients/application/commands"
	clientQueries "github.com/felixgeelhaar/trainbook/internal/clients/application/queries"
	clientsDomain "github.com/felixgeelhaar/trainbook/internal/clients/domain"
	"github.com/felixgeelhaar/trainbook/internal/clients/infrastructure/cache"
	"github.com/felixgeelhaar/trainbook/internal/clients/infrastructure/calendarsync"
	"github.com/felixgeelhaar/trainbook/internal/clients/infrastructure/spreadsheet"
	"github.com/felixgeelhaar/trainbook/internal/clients/infrastructure/vcard"
	schedulingServices "github.com/felixgeelhaar/trainbook/internal/scheduling/application/services"
	schedulingDomain "github.com/felixgeelhaar/trainbook/internal/scheduling/domain"
	"github.com/felixgeelhaar/trainbook/internal/scheduling/infrastructure/caldav"
	"github.com/felixgeelhaar/trainbook/internal/scheduling/infrastructure/icalexport"
	sharedApplication "github.com/felixgeelhaar/trainbook/internal/shared/application"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/database/postgres"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/trainbook/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	DBDriver database.Driver
	SQLiteDB *sql.DB
	DB       *pgxpool.Pool

	// Redis
	RedisClient *redis.Client

	// Repositories
	ClientRepo clientsDomain.Repository
	OutboxRepo outbox.Repository
	UnitOfWork sharedApplication.UnitOfWork

	// Scheduling
	Clock      schedulingDomain.Clock
	Location   *time.Location
	Normalizer schedulingDomain.DateNormalizer
	Exporter   *icalexport.Exporter

	// Roster cache
	RosterCache       clientQueries.RosterCache
	RosterInvalidator *cache.RosterInvalidator

	// Calendar sync, nil unless a CalDAV account is configured
	CalendarSync *calendarsync.Subscriber

	// Publishers. InProcessEventBus is set when no broker is configured.
	EventPublisher    eventbus.Publisher
	InProcessEventBus *eventbus.InProcessEventBus
	Breaker           *eventbus.CircuitBreakerPublisher

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
	ExportCalendarHandler *clientQueries.ExportCalendarHandler
	ExportXLSXHandler     *clientQueries.ExportRosterHandler
	ExportVCardHandler    *clientQueries.ExportRosterHandler

	// Import
	VCardDecoder *vcard.Decoder

	// Outbox Processor
	OutboxProcessor *outbox.Processor
}

// NewContainer opens storage, runs migrations and wires all handlers.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config: cfg,
		Logger: logger,
		Clock:  schedulingDomain.SystemClock{},
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	c.Location = loc
	c.Normalizer = schedulingDomain.DateNormalizerFromClock(c.Clock)
	if cfg.ReferenceYear > 0 {
		c.Normalizer = schedulingDomain.NewDateNormalizer(cfg.ReferenceYear)
	}
	c.Exporter = icalexport.NewExporter(c.Clock, c.Location, logger)

	factory, err := c.openStorage(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.wireRepositories(factory); err != nil {
		c.Close()
		return nil, err
	}

	c.connectCache(ctx)
	c.connectCalendar()

	if err := c.connectPublisher(); err != nil {
		c.Close()
		return nil, err
	}

	c.wireHandlers()

	return c, nil
}

func (c *Container) openStorage(ctx context.Context) (*RepositoryFactory, error) {
	dbCfg := database.Config{
		Driver:     database.Driver(c.Config.DatabaseDriver),
		URL:        c.Config.DatabaseURL,
		SQLitePath: c.Config.SQLitePath,
	}
	if c.Config.LocalMode {
		dbCfg.Driver = database.DriverSQLite
	}

	driver, err := dbCfg.ResolveDriver()
	if err != nil {
		return nil, err
	}
	c.DBDriver = driver

	switch driver {
	case database.DriverPostgres:
		pool, err := postgres.Open(ctx, dbCfg)
		if err != nil {
			return nil, err
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		c.DB = pool
		c.Logger.Info("connected to database", "driver", driver)
		return NewPostgresRepositoryFactory(pool), nil

	default:
		path := dbCfg.ResolveSQLitePath()
		db, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		c.SQLiteDB = db
		c.Logger.Debug("opened local database", "driver", driver, "path", path)
		return NewSQLiteRepositoryFactory(db), nil
	}
}

func (c *Container) wireRepositories(factory *RepositoryFactory) error {
	var err error
	if c.ClientRepo, err = factory.ClientRepository(); err != nil {
		return err
	}
	if c.OutboxRepo, err = factory.OutboxRepository(); err != nil {
		return err
	}
	if c.UnitOfWork, err = factory.UnitOfWork(); err != nil {
		return err
	}
	return nil
}

// connectCache uses Redis when configured and reachable, memory otherwise.
func (c *Container) connectCache(ctx context.Context) {
	cfg := c.Config
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			c.Logger.Warn("invalid Redis URL, roster cache will use memory", "error", err)
		} else {
			client := redis.NewClient(opt)
			if err := client.Ping(ctx).Err(); err != nil {
				_ = client.Close()
				c.Logger.Warn("Redis not available, roster cache will use memory", "error", err)
			} else {
				c.RedisClient = client
				c.RosterCache = cache.NewRedisRosterCache(client, cache.DefaultRosterKey, cfg.RosterCacheTTL)
				c.Logger.Debug("connected to Redis")
			}
		}
	}
	if c.RosterCache == nil {
		c.RosterCache = cache.NewMemoryRosterCache(cfg.RosterCacheTTL)
	}
	c.RosterInvalidator = cache.NewRosterInvalidator(c.RosterCache, c.Logger)
}

func (c *Container) connectCalendar() {
	cfg := c.Config
	if !cfg.CalendarSyncEnabled() {
		return
	}
	publisher := caldav.NewPublisher(caldav.Config{
		URL:          cfg.CalDAVURL,
		Username:     cfg.CalDAVUsername,
		Password:     cfg.CalDAVPassword,
		CalendarPath: cfg.CalDAVCalendarPath,
	}, c.Exporter, c.Logger)
	c.CalendarSync = calendarsync.NewSubscriber(publisher, c.ClientRepo, c.Logger)
	c.Logger.Debug("calendar sync enabled", "url", cfg.CalDAVURL)
}

// Consumers returns the event consumers every delivery path feeds.
func (c *Container) Consumers() []eventbus.EventConsumer {
	consumers := []eventbus.EventConsumer{c.RosterInvalidator}
	if c.CalendarSync != nil {
		consumers = append(consumers, c.CalendarSync)
	}
	return consumers
}

// connectPublisher publishes to RabbitMQ behind a circuit breaker when a
// broker is configured. Without one, events are delivered in process.
func (c *Container) connectPublisher() error {
	cfg := c.Config
	if cfg.RabbitMQURL == "" {
		c.InProcessEventBus = eventbus.NewInProcessEventBus(c.Logger)
		for _, consumer := range c.Consumers() {
			c.InProcessEventBus.RegisterConsumer(consumer)
		}
		c.EventPublisher = c.InProcessEventBus
		return nil
	}

	rabbit, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, c.Logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		c.Logger.Warn("RabbitMQ not available, delivering events in process", "error", err)
		cfg.RabbitMQURL = ""
		return c.connectPublisher()
	}

	breakerCfg := eventbus.DefaultBreakerConfig()
	breakerCfg.FailureThreshold = uint32(max(cfg.BreakerFailureThreshold, 1))
	breakerCfg.Timeout = cfg.BreakerTimeout
	c.Breaker = eventbus.NewCircuitBreakerPublisher(rabbit, breakerCfg, c.Logger)
	c.EventPublisher = c.Breaker
	return nil
}

func (c *Container) wireHandlers() {
	cfg := c.Config

	c.AddClientHandler = clientCommands.NewAddClientHandler(c.ClientRepo, c.OutboxRepo, c.UnitOfWork, c.Normalizer)
	c.EditClientHandler = clientCommands.NewEditClientHandler(c.ClientRepo, c.OutboxRepo, c.UnitOfWork, c.Normalizer)
	c.DeleteClientHandler = clientCommands.NewDeleteClientHandler(c.ClientRepo, c.OutboxRepo, c.UnitOfWork)
	c.ImportClientsHandler = clientCommands.NewImportClientsHandler(c.AddClientHandler, c.Logger)

	c.ListClientsHandler = clientQueries.NewListClientsHandler(c.ClientRepo, c.RosterCache, c.Logger)
	c.GetClientHandler = clientQueries.NewGetClientHandler(c.ClientRepo)
	c.CheckConflictsHandler = clientQueries.NewCheckConflictsHandler(c.ClientRepo, c.Normalizer)
	c.AgendaHandler = clientQueries.NewAgendaHandler(c.ClientRepo, c.Normalizer, schedulingServices.NewAgendaBuilder(c.Location))
	c.ExportCalendarHandler = clientQueries.NewExportCalendarHandler(c.ClientRepo, c.Exporter)
	c.ExportXLSXHandler = clientQueries.NewExportRosterHandler(c.ListClientsHandler, spreadsheet.NewRosterEncoder())
	c.ExportVCardHandler = clientQueries.NewExportRosterHandler(c.ListClientsHandler, vcard.NewEncoder())
	c.VCardDecoder = vcard.NewDecoder(c.Logger)

	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorConfig(cfg), c.Logger)
}

func processorConfig(cfg *config.Config) outbox.ProcessorConfig {
	pc := outbox.DefaultProcessorConfig()
	if cfg.OutboxPollInterval > 0 {
		pc.PollInterval = cfg.OutboxPollInterval
	}
	if cfg.OutboxBatchSize > 0 {
		pc.BatchSize = cfg.OutboxBatchSize
	}
	if cfg.OutboxMaxRetries > 0 {
		pc.MaxRetries = cfg.OutboxMaxRetries
	}
	return pc
}

// FlushEvents publishes pending outbox messages once. The CLI calls it after
// each command so in-process consumers see the change before exit.
func (c *Container) FlushEvents(ctx context.Context) {
	if !c.Config.OutboxProcessorEnabled {
		return
	}
	if err := c.OutboxProcessor.ProcessOnce(ctx); err != nil {
		c.Logger.Warn("failed to flush outbox", "error", err)
	}
}

// Ping checks the database connection.
func (c *Container) Ping(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Ping(ctx)
	}
	return c.SQLiteDB.PingContext(ctx)
}

// Close releases all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil && c.OutboxProcessor.IsRunning() {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis client", "error", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil {
			c.Logger.Warn("error closing database", "error", err)
		}
	}
}
