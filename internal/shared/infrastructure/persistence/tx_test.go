package persistence

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

type mockTx struct{}

func (m *mockTx) Begin(_ context.Context) (pgx.Tx, error) { return m, nil }
func (m *mockTx) Commit(_ context.Context) error          { return nil }
func (m *mockTx) Rollback(_ context.Context) error        { return nil }
func (m *mockTx) CopyFrom(_ context.Context, _ pgx.Identifier, _ []string, _ pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *mockTx) SendBatch(_ context.Context, _ *pgx.Batch) pgx.BatchResults { return nil }
func (m *mockTx) LargeObjects() pgx.LargeObjects                             { return pgx.LargeObjects{} }
func (m *mockTx) Prepare(_ context.Context, _ string, _ string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *mockTx) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (m *mockTx) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) { return nil, nil }
func (m *mockTx) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row        { return nil }
func (m *mockTx) Conn() *pgx.Conn                                               { return nil }

func TestTxInfoFromContext(t *testing.T) {
	t.Run("returns stored transaction", func(t *testing.T) {
		tx := &mockTx{}
		info, ok := TxInfoFromContext(WithTx(context.Background(), tx, true))

		assert.True(t, ok)
		assert.Same(t, tx, info.Tx)
		assert.True(t, info.Owned)
	})

	t.Run("later value wins", func(t *testing.T) {
		first, second := &mockTx{}, &mockTx{}
		ctx := WithTx(WithTx(context.Background(), first, true), second, false)

		info, ok := TxInfoFromContext(ctx)
		assert.True(t, ok)
		assert.Same(t, second, info.Tx)
		assert.False(t, info.Owned)
	})

	t.Run("empty context", func(t *testing.T) {
		_, ok := TxInfoFromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("nil transaction", func(t *testing.T) {
		_, ok := TxInfoFromContext(context.WithValue(context.Background(), txKey{}, TxInfo{Owned: true}))
		assert.False(t, ok)
	})
}

func TestExecutor(t *testing.T) {
	tx := &mockTx{}
	assert.Same(t, tx, Executor(WithTx(context.Background(), tx, true), nil))
	assert.Nil(t, Executor(context.Background(), nil))
}

func TestPostgresUnitOfWork_WithoutTransaction(t *testing.T) {
	uow := NewPostgresUnitOfWork(nil)

	assert.ErrorIs(t, uow.Commit(context.Background()), ErrNoTransaction)
	assert.ErrorIs(t, uow.Rollback(context.Background()), ErrNoTransaction)
}

func TestPostgresUnitOfWork_NestedBeginJoins(t *testing.T) {
	uow := NewPostgresUnitOfWork(nil)
	tx := &mockTx{}

	ctx, err := uow.Begin(WithTx(context.Background(), tx, true))
	assert.NoError(t, err)

	info, ok := TxInfoFromContext(ctx)
	assert.True(t, ok)
	assert.Same(t, tx, info.Tx)
	assert.False(t, info.Owned)
	assert.NoError(t, uow.Commit(ctx))
}
