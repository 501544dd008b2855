package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jplande/HabitTracker/internal/habits/domain"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	sharedPersistence "github.com/jplande/HabitTracker/internal/shared/infrastructure/persistence"
)

// PostgresHabitRepository implements domain.HabitRepository using PostgreSQL.
type PostgresHabitRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresHabitRepository creates a new PostgreSQL habit repository.
func NewPostgresHabitRepository(pool *pgxpool.Pool) *PostgresHabitRepository {
	return &PostgresHabitRepository{pool: pool}
}

func (r *PostgresHabitRepository) Save(ctx context.Context, habit *domain.Habit) error {
	_, err := sharedPersistence.PostgresExecutor(ctx, r.pool).Exec(ctx, `
		INSERT INTO habits (`+habitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			frequency = EXCLUDED.frequency,
			unit = EXCLUDED.unit,
			target = EXCLUDED.target,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at
	`,
		habit.ID(),
		habit.UserID(),
		habit.Title(),
		habit.Description(),
		string(habit.Category()),
		string(habit.Frequency()),
		habit.Unit(),
		habit.Target(),
		habit.IsActive(),
		habit.CreatedAt(),
		habit.UpdatedAt(),
	)
	return err
}

func (r *PostgresHabitRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Habit, error) {
	row := sharedPersistence.PostgresExecutor(ctx, r.pool).QueryRow(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE id = $1`, id)
	habit, err := scanPostgresHabit(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return habit, err
}

func (r *PostgresHabitRepository) FindByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = $1`
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY created_at, id`

	rows, err := sharedPersistence.PostgresExecutor(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []*domain.Habit
	for rows.Next() {
		habit, err := scanPostgresHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, habit)
	}
	return habits, rows.Err()
}

func (r *PostgresHabitRepository) CountByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) (int, error) {
	query := `SELECT COUNT(*) FROM habits WHERE user_id = $1`
	if activeOnly {
		query += ` AND active`
	}
	var n int
	err := sharedPersistence.PostgresExecutor(ctx, r.pool).QueryRow(ctx, query, userID).Scan(&n)
	return n, err
}

func scanPostgresHabit(row pgx.Row) (*domain.Habit, error) {
	var (
		id, userID                uuid.UUID
		title, description        string
		category, frequency, unit string
		target                    *float64
		active                    bool
		createdAt, updatedAt      time.Time
	)
	if err := row.Scan(&id, &userID, &title, &description, &category, &frequency, &unit,
		&target, &active, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	base := sharedDomain.RehydrateBaseAggregateRoot(sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt))
	return domain.RehydrateHabit(base, userID, domain.HabitDetails{
		Title:       title,
		Description: description,
		Category:    domain.Category(category),
		Frequency:   domain.Frequency(frequency),
		Unit:        unit,
		Target:      target,
	}, active), nil
}
