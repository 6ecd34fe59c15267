package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestRunSQLiteMigrations(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, RunSQLiteMigrations(ctx, db))
	// second run is a no-op
	require.NoError(t, RunSQLiteMigrations(ctx, db))

	for _, table := range []string{"clients", "client_recurring_windows", "client_one_time_windows", "outbox"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	var versions int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&versions))
	assert.Equal(t, 2, versions)
}

func TestUpFiles(t *testing.T) {
	files, err := upFiles(postgresFS, "postgres")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "000001", files[0].version)
	assert.Equal(t, "000002", files[1].version)
	assert.Contains(t, files[1].sql, "CREATE TABLE IF NOT EXISTS outbox")
}
