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
	ctx := context.Background()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	require.NoError(t, RunSQLiteMigrations(ctx, db))

	t.Run("creates every table", func(t *testing.T) {
		for _, table := range []string{"users", "habits", "progress_entries", "achievements", "outbox"} {
			var name string
			err := db.QueryRowContext(ctx,
				`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
			assert.NoError(t, err, table)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		require.NoError(t, RunSQLiteMigrations(ctx, db))

		var n int
		require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&n))
		files, err := upFiles(sqliteFS, "sqlite")
		require.NoError(t, err)
		assert.Equal(t, len(files), n)
	})

	t.Run("enforces achievement identity", func(t *testing.T) {
		_, err := db.ExecContext(ctx, `INSERT INTO users (id, email, name, created_at, updated_at)
			VALUES ('u1', 'a@b.co', 'A', 'now', 'now')`)
		require.NoError(t, err)

		insert := `INSERT INTO achievements (id, user_id, name, description, icon, type, unlocked_at)
			VALUES (?, 'u1', 'Polyvalent', 'd', 'i', 'VARIETY', 'now')`
		_, err = db.ExecContext(ctx, insert, "a1")
		require.NoError(t, err)
		_, err = db.ExecContext(ctx, insert, "a2")
		assert.Error(t, err)
	})
}
