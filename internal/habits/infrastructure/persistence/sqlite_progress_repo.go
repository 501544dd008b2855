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

const progressColumns = `id, user_id, habit_id, day, value, note, created_at, updated_at`

// SQLiteProgressRepository implements domain.ProgressRepository using SQLite.
// Days are stored as YYYY-MM-DD text, which orders chronologically.
type SQLiteProgressRepository struct {
	db *sql.DB
}

// NewSQLiteProgressRepository creates a new SQLite progress repository.
func NewSQLiteProgressRepository(db *sql.DB) *SQLiteProgressRepository {
	return &SQLiteProgressRepository{db: db}
}

// Save inserts a new entry or updates value and note of an existing one. A
// second entry for the same user, habit and day fails the unique index.
func (r *SQLiteProgressRepository) Save(ctx context.Context, entry *domain.ProgressEntry) error {
	_, err := sharedPersistence.SQLiteExecutor(ctx, r.db).ExecContext(ctx, `
		INSERT INTO progress_entries (`+progressColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			value = excluded.value,
			note = excluded.note,
			updated_at = excluded.updated_at
	`,
		entry.ID().String(),
		entry.UserID().String(),
		entry.HabitID().String(),
		entry.Day().String(),
		entry.Value(),
		entry.Note(),
		sharedPersistence.FormatSQLiteTime(entry.CreatedAt()),
		sharedPersistence.FormatSQLiteTime(entry.UpdatedAt()),
	)
	return err
}

// Delete removes an entry.
func (r *SQLiteProgressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := sharedPersistence.SQLiteExecutor(ctx, r.db).ExecContext(ctx,
		`DELETE FROM progress_entries WHERE id = ?`, id.String())
	return err
}

// FindByID returns the entry, or nil when it does not exist.
func (r *SQLiteProgressRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ProgressEntry, error) {
	row := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+progressColumns+` FROM progress_entries WHERE id = ?`, id.String())
	entry, err := scanSQLiteProgress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return entry, err
}

func (r *SQLiteProgressRepository) FindByHabitBetween(ctx context.Context, habitID uuid.UUID, window sharedDomain.Window) ([]*domain.ProgressEntry, error) {
	return r.list(ctx, `WHERE habit_id = ? AND day BETWEEN ? AND ?`,
		habitID.String(), window.Start.String(), window.End.String())
}

func (r *SQLiteProgressRepository) FindByUserBetween(ctx context.Context, userID uuid.UUID, window sharedDomain.Window) ([]*domain.ProgressEntry, error) {
	return r.list(ctx, `WHERE user_id = ? AND day BETWEEN ? AND ?`,
		userID.String(), window.Start.String(), window.End.String())
}

func (r *SQLiteProgressRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ProgressEntry, error) {
	return r.list(ctx, `WHERE user_id = ?`, userID.String())
}

// LatestForHabit returns the most recent entry, or nil when there is none.
func (r *SQLiteProgressRepository) LatestForHabit(ctx context.Context, habitID uuid.UUID) (*domain.ProgressEntry, error) {
	row := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+progressColumns+` FROM progress_entries WHERE habit_id = ? ORDER BY day DESC, created_at DESC LIMIT 1`,
		habitID.String())
	entry, err := scanSQLiteProgress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return entry, err
}

func (r *SQLiteProgressRepository) DatesForHabit(ctx context.Context, habitID uuid.UUID) ([]sharedDomain.Day, error) {
	return r.days(ctx, `SELECT DISTINCT day FROM progress_entries WHERE habit_id = ? ORDER BY day`, habitID.String())
}

func (r *SQLiteProgressRepository) DatesForUser(ctx context.Context, userID uuid.UUID) ([]sharedDomain.Day, error) {
	return r.days(ctx, `SELECT DISTINCT day FROM progress_entries WHERE user_id = ? ORDER BY day`, userID.String())
}

func (r *SQLiteProgressRepository) ExistsFor(ctx context.Context, userID, habitID uuid.UUID, day sharedDomain.Day) (bool, error) {
	var n int
	err := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM progress_entries WHERE user_id = ? AND habit_id = ? AND day = ?`,
		userID.String(), habitID.String(), day.String()).Scan(&n)
	return n > 0, err
}

func (r *SQLiteProgressRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM progress_entries WHERE user_id = ?`, userID.String())
}

func (r *SQLiteProgressRepository) CountByHabit(ctx context.Context, habitID uuid.UUID) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM progress_entries WHERE habit_id = ?`, habitID.String())
}

func (r *SQLiteProgressRepository) list(ctx context.Context, where string, args ...any) ([]*domain.ProgressEntry, error) {
	rows, err := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryContext(ctx,
		`SELECT `+progressColumns+` FROM progress_entries `+where+` ORDER BY day, created_at`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.ProgressEntry
	for rows.Next() {
		entry, err := scanSQLiteProgress(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *SQLiteProgressRepository) days(ctx context.Context, query string, args ...any) ([]sharedDomain.Day, error) {
	rows, err := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []sharedDomain.Day
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		day, err := sharedDomain.ParseDay(raw)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

func (r *SQLiteProgressRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	err := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

func scanSQLiteProgress(row rowScanner) (*domain.ProgressEntry, error) {
	var (
		id, userID, habitID, rawDay string
		value                       float64
		note                        string
		createdAt, updatedAt        string
	)
	if err := row.Scan(&id, &userID, &habitID, &rawDay, &value, &note, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	entryID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("progress id: %w", err)
	}
	owner, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("progress user id: %w", err)
	}
	habit, err := uuid.Parse(habitID)
	if err != nil {
		return nil, fmt.Errorf("progress habit id: %w", err)
	}
	day, err := sharedDomain.ParseDay(rawDay)
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

	base := sharedDomain.RehydrateBaseAggregateRoot(sharedDomain.RehydrateBaseEntity(entryID, created, updated))
	return domain.RehydrateProgressEntry(base, owner, habit, day, value, note), nil
}
