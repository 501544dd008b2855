package persistence

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTx is the pgx transaction carried by a context.
type PostgresTx = Tx[pgx.Tx]

// WithPostgresTx stores a pgx transaction in the context.
func WithPostgresTx(ctx context.Context, tx pgx.Tx, owned bool) context.Context {
	return withTx(ctx, tx, owned)
}

// PostgresTxFromContext extracts the pgx transaction from the context.
func PostgresTxFromContext(ctx context.Context) (PostgresTx, bool) {
	return txFromContext[pgx.Tx](ctx)
}

// PgxExecutor is the query surface shared by *pgxpool.Pool and pgx.Tx.
type PgxExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresExecutor returns the transaction in ctx when present, otherwise pool.
// Postgres stores call it for every statement so they join the caller's unit of work.
func PostgresExecutor(ctx context.Context, pool *pgxpool.Pool) PgxExecutor {
	if info, ok := PostgresTxFromContext(ctx); ok {
		return info.Tx
	}
	return pool
}

// PostgresUnitOfWork provides transactional support for PostgreSQL.
type PostgresUnitOfWork struct {
	unitOfWork[pgx.Tx]
}

// NewPostgresUnitOfWork creates a new PostgresUnitOfWork.
func NewPostgresUnitOfWork(pool *pgxpool.Pool) *PostgresUnitOfWork {
	return &PostgresUnitOfWork{unitOfWork[pgx.Tx]{driver: driver[pgx.Tx]{
		name:     "postgres",
		begin:    func(ctx context.Context) (pgx.Tx, error) { return pool.Begin(ctx) },
		commit:   func(ctx context.Context, tx pgx.Tx) error { return tx.Commit(ctx) },
		rollback: func(ctx context.Context, tx pgx.Tx) error { return tx.Rollback(ctx) },
	}}}
}
