package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/trainbook/internal/clients/domain"
	scheduling "github.com/felixgeelhaar/trainbook/internal/scheduling/domain"
	sharedPersistence "github.com/felixgeelhaar/trainbook/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

const sqliteClientColumns = `id, name, phone, goals, medical_history, location, tags, version, created_at, updated_at`

// SQLiteClientRepository implements domain.Repository using SQLite.
type SQLiteClientRepository struct {
	db *sql.DB
}

// NewSQLiteClientRepository creates a new SQLite client repository.
func NewSQLiteClientRepository(db *sql.DB) *SQLiteClientRepository {
	return &SQLiteClientRepository{db: db}
}

// Save inserts or updates a client and replaces its windows. New clients
// are appended to the end of the roster.
func (r *SQLiteClientRepository) Save(ctx context.Context, client *domain.Client) error {
	if _, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return r.save(ctx, sharedPersistence.SQLiteExecutorFromContext(ctx, r.db), client)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := r.save(ctx, tx, client); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteClientRepository) save(ctx context.Context, exec sharedPersistence.SQLiteExecutor, client *domain.Client) error {
	tags, err := json.Marshal(nonNil(client.Tags()))
	if err != nil {
		return err
	}

	_, err = exec.ExecContext(ctx, `
		INSERT INTO clients (
			id, position, name, phone, goals, medical_history, location, tags,
			version, created_at, updated_at
		) VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM clients), ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone,
			goals = excluded.goals,
			medical_history = excluded.medical_history,
			location = excluded.location,
			tags = excluded.tags,
			version = excluded.version,
			updated_at = excluded.updated_at
	`,
		client.ID().String(),
		client.Name(),
		client.Phone(),
		client.Goals(),
		client.MedicalHistory(),
		client.Location(),
		string(tags),
		client.Version(),
		sharedPersistence.FormatSQLiteTime(client.CreatedAt()),
		sharedPersistence.FormatSQLiteTime(client.UpdatedAt()),
	)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateClient, client.Name())
		}
		return err
	}

	return r.replaceWindows(ctx, exec, client)
}

func (r *SQLiteClientRepository) replaceWindows(ctx context.Context, exec sharedPersistence.SQLiteExecutor, client *domain.Client) error {
	id := client.ID().String()
	if err := deleteSQLiteWindows(ctx, exec, id); err != nil {
		return err
	}

	for seq, row := range toRecurringRows(client.Schedule()) {
		if _, err := exec.ExecContext(ctx, `
			INSERT INTO client_recurring_windows (client_id, seq, weekday, start_minute, end_minute)
			VALUES (?, ?, ?, ?, ?)
		`, id, seq, row.Weekday, row.StartMinute, row.EndMinute); err != nil {
			return err
		}
	}

	for seq, row := range toOneTimeRows(client.Schedule()) {
		if _, err := exec.ExecContext(ctx, `
			INSERT INTO client_one_time_windows (client_id, seq, session_date, start_minute, end_minute)
			VALUES (?, ?, ?, ?, ?)
		`, id, seq, row.Date.ISO(), row.StartMinute, row.EndMinute); err != nil {
			return err
		}
	}

	return nil
}

func deleteSQLiteWindows(ctx context.Context, exec sharedPersistence.SQLiteExecutor, id string) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM client_recurring_windows WHERE client_id = ?`, id); err != nil {
		return err
	}
	_, err := exec.ExecContext(ctx, `DELETE FROM client_one_time_windows WHERE client_id = ?`, id)
	return err
}

// FindByID retrieves a client by its ID.
func (r *SQLiteClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	return r.findOne(ctx, `SELECT `+sqliteClientColumns+` FROM clients WHERE id = ?`, id.String())
}

// FindByName retrieves a client by name, ignoring case.
func (r *SQLiteClientRepository) FindByName(ctx context.Context, name string) (*domain.Client, error) {
	return r.findOne(ctx, `SELECT `+sqliteClientColumns+` FROM clients WHERE name = ? COLLATE NOCASE`, strings.TrimSpace(name))
}

func (r *SQLiteClientRepository) findOne(ctx context.Context, query string, arg any) (*domain.Client, error) {
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
func (r *SQLiteClientRepository) FindAll(ctx context.Context) ([]*domain.Client, error) {
	return r.query(ctx, `SELECT `+sqliteClientColumns+` FROM clients ORDER BY position`)
}

// Delete removes a client and its windows.
func (r *SQLiteClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := sharedPersistence.SQLiteExecutorFromContext(ctx, r.db)

	if err := deleteSQLiteWindows(ctx, exec, id.String()); err != nil {
		return err
	}
	result, err := exec.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *SQLiteClientRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Client, error) {
	exec := sharedPersistence.SQLiteExecutorFromContext(ctx, r.db)

	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clientRows []clientRow
	for rows.Next() {
		row, err := scanSQLiteClient(rows)
		if err != nil {
			return nil, err
		}
		clientRows = append(clientRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	clients := make([]*domain.Client, 0, len(clientRows))
	for _, row := range clientRows {
		windows, err := r.loadWindows(ctx, exec, row.ID.String())
		if err != nil {
			return nil, err
		}
		client, err := row.toDomain(windows)
		if err != nil {
			return nil, fmt.Errorf("client %s: %w", row.ID, err)
		}
		clients = append(clients, client)
	}
	return clients, nil
}

func (r *SQLiteClientRepository) loadWindows(ctx context.Context, exec sharedPersistence.SQLiteExecutor, id string) (windowRows, error) {
	var windows windowRows

	rows, err := exec.QueryContext(ctx, `
		SELECT weekday, start_minute, end_minute
		FROM client_recurring_windows WHERE client_id = ? ORDER BY seq
	`, id)
	if err != nil {
		return windows, err
	}
	for rows.Next() {
		var row recurringRow
		if err := rows.Scan(&row.Weekday, &row.StartMinute, &row.EndMinute); err != nil {
			rows.Close()
			return windows, err
		}
		windows.recurring = append(windows.recurring, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return windows, err
	}

	rows, err = exec.QueryContext(ctx, `
		SELECT session_date, start_minute, end_minute
		FROM client_one_time_windows WHERE client_id = ? ORDER BY seq
	`, id)
	if err != nil {
		return windows, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			row  oneTimeRow
			date string
		)
		if err := rows.Scan(&date, &row.StartMinute, &row.EndMinute); err != nil {
			return windows, err
		}
		if row.Date, err = scheduling.ParseISODate(date); err != nil {
			return windows, err
		}
		windows.oneTime = append(windows.oneTime, row)
	}
	return windows, rows.Err()
}

func scanSQLiteClient(rows *sql.Rows) (clientRow, error) {
	var (
		row                  clientRow
		id, tags             string
		createdAt, updatedAt string
	)
	if err := rows.Scan(
		&id,
		&row.Profile.Name,
		&row.Profile.Phone,
		&row.Profile.Goals,
		&row.Profile.MedicalHistory,
		&row.Profile.Location,
		&tags,
		&row.Version,
		&createdAt,
		&updatedAt,
	); err != nil {
		return row, err
	}

	var err error
	if row.ID, err = uuid.Parse(id); err != nil {
		return row, err
	}
	if err := json.Unmarshal([]byte(tags), &row.Profile.Tags); err != nil {
		return row, fmt.Errorf("client %s tags: %w", id, err)
	}
	if row.CreatedAt, err = sharedPersistence.ParseSQLiteTime(createdAt); err != nil {
		return row, err
	}
	if row.UpdatedAt, err = sharedPersistence.ParseSQLiteTime(updatedAt); err != nil {
		return row, err
	}
	return row, nil
}

func isSQLiteUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

var _ domain.Repository = (*SQLiteClientRepository)(nil)
