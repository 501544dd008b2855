package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/internal/identity/domain"
	sharedPersistence "github.com/jplande/HabitTracker/internal/shared/infrastructure/persistence"
)

const sqliteUserColumns = `id, email, name, active, created_at, updated_at`

// SQLiteUserRepository handles persistence for users using SQLite.
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewSQLiteUserRepository creates a new SQLiteUserRepository.
func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

// Save inserts the user or updates its name and active flag.
func (r *SQLiteUserRepository) Save(ctx context.Context, user *domain.User) error {
	_, err := sharedPersistence.SQLiteExecutor(ctx, r.db).ExecContext(ctx, `
		INSERT INTO users (`+sqliteUserColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			active = excluded.active,
			updated_at = excluded.updated_at
	`,
		user.ID().String(),
		user.Email().String(),
		user.Name().String(),
		user.IsActive(),
		sharedPersistence.FormatSQLiteTime(user.CreatedAt()),
		sharedPersistence.FormatSQLiteTime(user.UpdatedAt()),
	)
	return err
}

// FindByID retrieves a user by ID, or nil when none exists.
func (r *SQLiteUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+sqliteUserColumns+` FROM users WHERE id = ?`, id.String())
	return r.scan(row)
}

// FindByEmail retrieves a user by email, or nil when none exists.
func (r *SQLiteUserRepository) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	row := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+sqliteUserColumns+` FROM users WHERE email = ?`, email.String())
	return r.scan(row)
}

// ExistsByEmail checks if a user with the given email exists.
func (r *SQLiteUserRepository) ExistsByEmail(ctx context.Context, email domain.Email) (bool, error) {
	var count int
	err := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ?`, email.String()).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *SQLiteUserRepository) scan(row *sql.Row) (*domain.User, error) {
	var (
		id, email, name      string
		active               bool
		createdAt, updatedAt string
	)
	if err := row.Scan(&id, &email, &name, &active, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	created, err := sharedPersistence.ParseSQLiteTime(createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := sharedPersistence.ParseSQLiteTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return rehydrate(userID, email, name, active, created, updated)
}
