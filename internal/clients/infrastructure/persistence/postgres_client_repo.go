package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
	scheduling "github.com/felixgeelhaar/trainbook/internal/scheduling/domain"
	sharedPersistence "github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	postgresClientColumns = `id, name, phone, goals, medical_history, location, tags, version, created_at, updated_at`
	uniqueViolation       = "23505"
)

// PostgresClientRepository implements domain.Repository using PostgreSQL.
type PostgresClientRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresClientRepository creates a new PostgreSQL client repository.
func NewPostgresClientRepository(pool *pgxpool.Pool) *PostgresClientRepository {
	return &PostgresClientRepository{pool: pool}
}

// Save persists a client and replaces its windows.
func (r *PostgresClientRepository) Save(ctx context.Context, client *domain.Client) error {
	if info, ok := sharedPersistence.TxInfoFromContext(ctx); ok {
		return r.saveWithTx(ctx, info.Tx, client)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := r.saveWithTx(ctx, tx, client); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PostgresClientRepository) saveWithTx(ctx context.Context, tx pgx.Tx, client *domain.Client) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO clients (
			id, name, phone, goals, medical_history, location, tags,
			version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			goals = EXCLUDED.goals,
			medical_history = EXCLUDED.medical_history,
			location = EXCLUDED.location,
			tags = EXCLUDED.tags,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at
	`,
		client.ID(),
		client.Name(),
		client.Phone(),
		client.Goals(),
		client.MedicalHistory(),
		client.Location(),
		nonNil(client.Tags()),
		client.Version(),
		client.CreatedAt(),
		client.UpdatedAt(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateClient, client.Name())
		}
		return err
	}

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM client_recurring_windows WHERE client_id = $1`, client.ID())
	batch.Queue(`DELETE FROM client_one_time_windows WHERE client_id = $1`, client.ID())
	for seq, row := range toRecurringRows(client.Schedule()) {
		batch.Queue(`
			INSERT INTO client_recurring_windows (client_id, seq, weekday, start_minute, end_minute)
			VALUES ($1, $2, $3, $4, $5)
		`, client.ID(), seq, row.Weekday, row.StartMinute, row.EndMinute)
	}
	for seq, row := range toOneTimeRows(client.Schedule()) {
		batch.Queue(`
			INSERT INTO client_one_time_windows (client_id, seq, session_date, start_minute, end_minute)
			VALUES ($1, $2, $3, $4, $5)
		`, client.ID(), seq, row.Date.ISO(), row.StartMinute, row.EndMinute)
	}

	return tx.SendBatch(ctx, batch).Close()
}

// FindByID retrieves a client by its ID.
func (r *PostgresClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	return r.findOne(ctx, `SELECT `+postgresClientColumns+` FROM clients WHERE id = $1`, id)
}

// FindByName retrieves a client by name, ignoring case.
func (r *PostgresClientRepository) FindByName(ctx context.Context, name string) (*domain.Client, error) {
	return r.findOne(ctx, `SELECT `+postgresClientColumns+` FROM clients WHERE LOWER(name) = LOWER($1)`, strings.TrimSpace(name))
}

func (r *PostgresClientRepository) findOne(ctx context.Context, query string, arg any) (*domain.Client, error) {
	clients, err := r.query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return nil, domain.ErrClientNotFound
	}
	return clients[0], nil
}

// FindAll returns the roster in insertion order.
func (r *PostgresClientRepository) FindAll(ctx context.Context) ([]*domain.Client, error) {
	return r.query(ctx, `SELECT `+postgresClientColumns+` FROM clients ORDER BY position`)
}

// Delete removes a client; its windows cascade.
func (r *PostgresClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := sharedPersistence.Executor(ctx, r.pool).Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *PostgresClientRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Client, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)

	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	clientRows, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (clientRow, error) {
		var c clientRow
		err := row.Scan(
			&c.ID,
			&c.Profile.Name,
			&c.Profile.Phone,
			&c.Profile.Goals,
			&c.Profile.MedicalHistory,
			&c.Profile.Location,
			&c.Profile.Tags,
			&c.Version,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		return c, err
	})
	if err != nil {
		return nil, err
	}
	if len(clientRows) == 0 {
		return []*domain.Client{}, nil
	}

	ids := make([]uuid.UUID, len(clientRows))
	for i, c := range clientRows {
		ids[i] = c.ID
	}
	windows, err := r.loadWindows(ctx, exec, ids)
	if err != nil {
		return nil, err
	}

	clients := make([]*domain.Client, 0, len(clientRows))
	for _, row := range clientRows {
		client, err := row.toDomain(windows[row.ID])
		if err != nil {
			return nil, fmt.Errorf("client %s: %w", row.ID, err)
		}
		clients = append(clients, client)
	}
	return clients, nil
}

// loadWindows fetches the windows of every client in ids in two queries.
func (r *PostgresClientRepository) loadWindows(ctx context.Context, exec sharedPersistence.DBExecutor, ids []uuid.UUID) (map[uuid.UUID]windowRows, error) {
	result := make(map[uuid.UUID]windowRows, len(ids))

	rows, err := exec.Query(ctx, `
		SELECT client_id, weekday, start_minute, end_minute
		FROM client_recurring_windows WHERE client_id = ANY($1) ORDER BY client_id, seq
	`, ids)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var (
			id  uuid.UUID
			row recurringRow
		)
		if err := rows.Scan(&id, &row.Weekday, &row.StartMinute, &row.EndMinute); err != nil {
			rows.Close()
			return nil, err
		}
		w := result[id]
		w.recurring = append(w.recurring, row)
		result[id] = w
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = exec.Query(ctx, `
		SELECT client_id, to_char(session_date, 'YYYY-MM-DD'), start_minute, end_minute
		FROM client_one_time_windows WHERE client_id = ANY($1) ORDER BY client_id, seq
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id   uuid.UUID
			date string
			row  oneTimeRow
		)
		if err := rows.Scan(&id, &date, &row.StartMinute, &row.EndMinute); err != nil {
			return nil, err
		}
		if row.Date, err = scheduling.ParseISODate(date); err != nil {
			return nil, err
		}
		w := result[id]
		w.oneTime = append(w.oneTime, row)
		result[id] = w
	}
	return result, rows.Err()
}

var _ domain.Repository = (*PostgresClientRepository)(nil)
