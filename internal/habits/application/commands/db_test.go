package commands

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

func openMemoryDB() (*sql.DB, error) {
	return sql.Open("sqlite", ":memory:")
}
