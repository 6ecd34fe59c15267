package app

import (
	"database/sql"
	"fmt"

	clientsDomain "github.com/felixgeelhaar/trainbook/internal/clients/domain"
	clientsPersistence "github.com/felixgeelhaar/trainbook/internal/clients/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/trainbook/internal/shared/application"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/persistence"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryFactory creates repositories based on the database driver.
type RepositoryFactory struct {
	driver database.Driver
	db     *sql.DB
	pool   *pgxpool.Pool
}

// NewSQLiteRepositoryFactory creates a factory over a SQLite database.
func NewSQLiteRepositoryFactory(db *sql.DB) *RepositoryFactory {
	return &RepositoryFactory{driver: database.DriverSQLite, db: db}
}

// NewPostgresRepositoryFactory creates a factory over a PostgreSQL pool.
func NewPostgresRepositoryFactory(pool *pgxpool.Pool) *RepositoryFactory {
	return &RepositoryFactory{driver: database.DriverPostgres, pool: pool}
}

// ClientRepository creates a client repository for the configured driver.
func (f *RepositoryFactory) ClientRepository() (clientsDomain.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return clientsPersistence.NewPostgresClientRepository(f.pool), nil
	case database.DriverSQLite:
		return clientsPersistence.NewSQLiteClientRepository(f.db), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// OutboxRepository creates an outbox repository for the configured driver.
func (f *RepositoryFactory) OutboxRepository() (outbox.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return outbox.NewPostgresRepository(f.pool), nil
	case database.DriverSQLite:
		return outbox.NewSQLiteRepository(f.db), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// UnitOfWork creates the transaction boundary for the configured driver.
func (f *RepositoryFactory) UnitOfWork() (sharedApplication.UnitOfWork, error) {
	switch f.driver {
	case database.DriverPostgres:
		return sharedPersistence.NewPostgresUnitOfWork(f.pool), nil
	case database.DriverSQLite:
		return sharedPersistence.NewSQLiteUnitOfWork(f.db), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// Driver returns the database driver type.
func (f *RepositoryFactory) Driver() database.Driver {
	return f.driver
}
