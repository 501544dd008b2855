package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jplande/HabitTracker/internal/identity/domain"
	sharedPersistence "github.com/jplande/HabitTracker/internal/shared/infrastructure/persistence"
)

const postgresUserColumns = `id, email, name, active, created_at, updated_at`

// PostgresUserRepository handles persistence for users using PostgreSQL.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository creates a new PostgresUserRepository.
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Save inserts the user or updates its name and active flag.
func (r *PostgresUserRepository) Save(ctx context.Context, user *domain.User) error {
	_, err := sharedPersistence.PostgresExecutor(ctx, r.pool).Exec(ctx, `
		INSERT INTO users (`+postgresUserColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at
	`,
		user.ID(),
		user.Email().String(),
		user.Name().String(),
		user.IsActive(),
		user.CreatedAt(),
		user.UpdatedAt(),
	)
	return err
}

// FindByID retrieves a user by ID, or nil when none exists.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := sharedPersistence.PostgresExecutor(ctx, r.pool).QueryRow(ctx,
		`SELECT `+postgresUserColumns+` FROM users WHERE id = $1`, id)
	return r.scan(row)
}

// FindByEmail retrieves a user by email, or nil when none exists.
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	row := sharedPersistence.PostgresExecutor(ctx, r.pool).QueryRow(ctx,
		`SELECT `+postgresUserColumns+` FROM users WHERE email = $1`, email.String())
	return r.scan(row)
}

// ExistsByEmail checks if a user with the given email exists.
func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email domain.Email) (bool, error) {
	var exists bool
	err := sharedPersistence.PostgresExecutor(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email.String()).Scan(&exists)
	return exists, err
}

func (r *PostgresUserRepository) scan(row pgx.Row) (*domain.User, error) {
	var (
		id                   uuid.UUID
		email, name          string
		active               bool
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &email, &name, &active, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rehydrate(id, email, name, active, createdAt, updatedAt)
}
