package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTx implements pgx.Tx for testing purposes.
type mockTx struct {
	commitCalled   bool
	rollbackCalled bool
}

func (m *mockTx) Begin(_ context.Context) (pgx.Tx, error) { return m, nil }
func (m *mockTx) Commit(_ context.Context) error          { m.commitCalled = true; return nil }
func (m *mockTx) Rollback(_ context.Context) error        { m.rollbackCalled = true; return nil }
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

func TestPostgresTxFromContext(t *testing.T) {
	t.Run("round trips owned and borrowed transactions", func(t *testing.T) {
		tx := &mockTx{}

		info, ok := PostgresTxFromContext(WithPostgresTx(context.Background(), tx, true))
		require.True(t, ok)
		assert.Same(t, tx, info.Tx)
		assert.True(t, info.Owned)

		info, ok = PostgresTxFromContext(WithPostgresTx(context.Background(), tx, false))
		require.True(t, ok)
		assert.False(t, info.Owned)
	})

	t.Run("rejects foreign values and nil transactions", func(t *testing.T) {
		_, ok := PostgresTxFromContext(context.WithValue(context.Background(), txKey[pgx.Tx]{}, "not a transaction"))
		assert.False(t, ok)

		_, ok = PostgresTxFromContext(context.WithValue(context.Background(), txKey[pgx.Tx]{}, PostgresTx{Owned: true}))
		assert.False(t, ok)
	})
}

func TestPostgresExecutor(t *testing.T) {
	tx := &mockTx{}
	assert.Same(t, tx, PostgresExecutor(WithPostgresTx(context.Background(), tx, true), nil))
	assert.Nil(t, PostgresExecutor(context.Background(), nil))
}

func TestUnitOfWork(t *testing.T) {
	ctx := context.Background()

	t.Run("drivers keep separate transactions", func(t *testing.T) {
		ctx := WithPostgresTx(ctx, &mockTx{}, true)

		_, ok := SQLiteTxInfoFromContext(ctx)
		assert.False(t, ok)
		_, ok = PostgresTxFromContext(ctx)
		assert.True(t, ok)
	})

	t.Run("begin failure names the driver", func(t *testing.T) {
		refused := errors.New("connection refused")
		uow := unitOfWork[*int]{driver: driver[*int]{
			name:  "fake",
			begin: func(context.Context) (*int, error) { return nil, refused },
		}}

		_, err := uow.Begin(ctx)
		assert.ErrorIs(t, err, refused)
		assert.Contains(t, err.Error(), "begin fake transaction")
	})

	t.Run("only the owner ends the transaction", func(t *testing.T) {
		var ended []int
		finish := func(_ context.Context, tx *int) error {
			ended = append(ended, *tx)
			return nil
		}
		id := 7
		uow := unitOfWork[*int]{driver: driver[*int]{
			name:     "fake",
			begin:    func(context.Context) (*int, error) { return &id, nil },
			commit:   finish,
			rollback: finish,
		}}

		outer, err := uow.Begin(ctx)
		require.NoError(t, err)
		inner, err := uow.Begin(outer)
		require.NoError(t, err)

		require.NoError(t, uow.Commit(inner))
		assert.Empty(t, ended)
		require.NoError(t, uow.Commit(outer))
		assert.Equal(t, []int{7}, ended)
	})
}

func TestPostgresUnitOfWork(t *testing.T) {
	t.Run("nested begin borrows the outer transaction", func(t *testing.T) {
		tx := &mockTx{}
		uow := NewPostgresUnitOfWork(nil)

		inner, err := uow.Begin(WithPostgresTx(context.Background(), tx, true))
		require.NoError(t, err)

		require.NoError(t, uow.Commit(inner))
		require.NoError(t, uow.Rollback(inner))
		assert.False(t, tx.commitCalled)
		assert.False(t, tx.rollbackCalled)
	})

	t.Run("owner commits and rolls back", func(t *testing.T) {
		tx := &mockTx{}
		uow := NewPostgresUnitOfWork(nil)
		ctx := WithPostgresTx(context.Background(), tx, true)

		require.NoError(t, uow.Commit(ctx))
		require.NoError(t, uow.Rollback(ctx))
		assert.True(t, tx.commitCalled)
		assert.True(t, tx.rollbackCalled)
	})

	t.Run("missing transaction", func(t *testing.T) {
		uow := NewPostgresUnitOfWork(nil)
		assert.ErrorIs(t, uow.Commit(context.Background()), ErrNoTransaction)
		assert.ErrorIs(t, uow.Rollback(context.Background()), ErrNoTransaction)
	})
}
