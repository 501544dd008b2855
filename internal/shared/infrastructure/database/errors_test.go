package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNoRows(t *testing.T) {
	assert.True(t, IsNoRows(sql.ErrNoRows))
	assert.True(t, IsNoRows(pgx.ErrNoRows))
	assert.True(t, IsNoRows(fmt.Errorf("find: %w", ErrNoRows)))
	assert.False(t, IsNoRows(nil))
	assert.False(t, IsNoRows(errors.New("boom")))
}

func TestIsUniqueViolation(t *testing.T) {
	t.Run("postgres unique_violation", func(t *testing.T) {
		err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
		assert.True(t, IsUniqueViolation(err))
	})

	t.Run("postgres other error", func(t *testing.T) {
		assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	})

	t.Run("sqlite unique index", func(t *testing.T) {
		db, err := sql.Open("sqlite", ":memory:")
		require.NoError(t, err)
		defer db.Close()

		_, err = db.Exec(`CREATE TABLE t (a TEXT, b TEXT, UNIQUE(a, b))`)
		require.NoError(t, err)
		_, err = db.Exec(`INSERT INTO t (a, b) VALUES ('x', 'y')`)
		require.NoError(t, err)

		_, err = db.Exec(`INSERT INTO t (a, b) VALUES ('x', 'y')`)
		require.Error(t, err)
		assert.True(t, IsUniqueViolation(err))
	})

	t.Run("nil and unrelated errors", func(t *testing.T) {
		assert.False(t, IsUniqueViolation(nil))
		assert.False(t, IsUniqueViolation(errors.New("connection refused")))
	})
}
