package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/internal/habits/domain"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	sharedPersistence "github.com/jplande/HabitTracker/internal/shared/infrastructure/persistence"
)

const habitColumns = `id, user_id, title, description, category, frequency, unit, target, active, created_at, updated_at`

// SQLiteHabitRepository implements domain.HabitRepository using SQLite.
type SQLiteHabitRepository struct {
	db *sql.DB
}

// NewSQLiteHabitRepository creates a new SQLite habit repository.
func NewSQLiteHabitRepository(db *sql.DB) *SQLiteHabitRepository {
	return &SQLiteHabitRepository{db: db}
}

// Save inserts or updates a habit.
func (r *SQLiteHabitRepository) Save(ctx context.Context, habit *domain.Habit) error {
	_, err := sharedPersistence.SQLiteExecutor(ctx, r.db).ExecContext(ctx, `
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			category = excluded.category,
			frequency = excluded.frequency,
			unit = excluded.unit,
			target = excluded.target,
			active = excluded.active,
			updated_at = excluded.updated_at
	`,
		habit.ID().String(),
		habit.UserID().String(),
		habit.Title(),
		habit.Description(),
		string(habit.Category()),
		string(habit.Frequency()),
		habit.Unit(),
		nullableFloat(habit.Target()),
		habit.IsActive(),
		sharedPersistence.FormatSQLiteTime(habit.CreatedAt()),
		sharedPersistence.FormatSQLiteTime(habit.UpdatedAt()),
	)
	return err
}

// FindByID returns the habit, or nil when it does not exist.
func (r *SQLiteHabitRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Habit, error) {
	row := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id.String())
	habit, err := scanSQLiteHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return habit, err
}

// FindByUser returns the user's habits in creation order.
func (r *SQLiteHabitRepository) FindByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = ?`
	if activeOnly {
		query += ` AND active = 1`
	}
	query += ` ORDER BY created_at, id`

	rows, err := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []*domain.Habit
	for rows.Next() {
		habit, err := scanSQLiteHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, habit)
	}
	return habits, rows.Err()
}

// CountByUser counts the user's habits.
func (r *SQLiteHabitRepository) CountByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) (int, error) {
	query := `SELECT COUNT(*) FROM habits WHERE user_id = ?`
	if activeOnly {
		query += ` AND active = 1`
	}
	var n int
	err := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryRowContext(ctx, query, userID.String()).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteHabit(row rowScanner) (*domain.Habit, error) {
	var (
		id, userID, title, description string
		category, frequency, unit      string
		target                         sql.NullFloat64
		active                         bool
		createdAt, updatedAt           string
	)
	if err := row.Scan(&id, &userID, &title, &description, &category, &frequency, &unit,
		&target, &active, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	habitID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("habit id: %w", err)
	}
	owner, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("habit user id: %w", err)
	}
	created, err := sharedPersistence.ParseSQLiteTime(createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := sharedPersistence.ParseSQLiteTime(updatedAt)
	if err != nil {
		return nil, err
	}

	var targetPtr *float64
	if target.Valid {
		targetPtr = &target.Float64
	}

	base := sharedDomain.RehydrateBaseAggregateRoot(sharedDomain.RehydrateBaseEntity(habitID, created, updated))
	return domain.RehydrateHabit(base, owner, domain.HabitDetails{
		Title:       title,
		Description: description,
		Category:    domain.Category(category),
		Frequency:   domain.Frequency(frequency),
		Unit:        unit,
		Target:      targetPtr,
	}, active), nil
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
