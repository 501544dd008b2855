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

// PostgresProgressRepository implements domain.ProgressRepository using PostgreSQL.
type PostgresProgressRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProgressRepository creates a new PostgreSQL progress repository.
func NewPostgresProgressRepository(pool *pgxpool.Pool) *PostgresProgressRepository {
	return &PostgresProgressRepository{pool: pool}
}

func (r *PostgresProgressRepository) Save(ctx context.Context, entry *domain.ProgressEntry) error {
	_, err := sharedPersistence.PostgresExecutor(ctx, r.pool).Exec(ctx, `
		INSERT INTO progress_entries (`+progressColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			value = EXCLUDED.value,
			note = EXCLUDED.note,
			updated_at = EXCLUDED.updated_at
	`,
		entry.ID(),
		entry.UserID(),
		entry.HabitID(),
		entry.Day().Time(),
		entry.Value(),
		entry.Note(),
		entry.CreatedAt(),
		entry.UpdatedAt(),
	)
	return err
}

func (r *PostgresProgressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := sharedPersistence.PostgresExecutor(ctx, r.pool).Exec(ctx,
		`DELETE FROM progress_entries WHERE id = $1`, id)
	return err
}

func (r *PostgresProgressRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ProgressEntry, error) {
	row := sharedPersistence.PostgresExecutor(ctx, r.pool).QueryRow(ctx,
		`SELECT `+progressColumns+` FROM progress_entries WHERE id = $1`, id)
	entry, err := scanPostgresProgress(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return entry, err
}

func (r *PostgresProgressRepository) FindByHabitBetween(ctx context.Context, habitID uuid.UUID, window sharedDomain.Window) ([]*domain.ProgressEntry, error) {
	return r.list(ctx, `WHERE habit_id = $1 AND day BETWEEN $2 AND $3`,
		habitID, window.Start.Time(), window.End.Time())
}

func (r *PostgresProgressRepository) FindByUserBetween(ctx context.Context, userID uuid.UUID, window sharedDomain.Window) ([]*domain.ProgressEntry, error) {
	return r.list(ctx, `WHERE user_id = $1 AND day BETWEEN $2 AND $3`,
		userID, window.Start.Time(), window.End.Time())
}

func (r *PostgresProgressRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ProgressEntry, error) {
	return r.list(ctx, `WHERE user_id = $1`, userID)
}

func (r *PostgresProgressRepository) LatestForHabit(ctx context.Context, habitID uuid.UUID) (*domain.ProgressEntry, error) {
	row := sharedPersistence.PostgresExecutor(ctx, r.pool).QueryRow(ctx,
		`SELECT `+progressColumns+` FROM progress_entries WHERE habit_id = $1 ORDER BY day DESC, created_at DESC LIMIT 1`,
		habitID)
	entry, err := scanPostgresProgress(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return entry, err
}

func (r *PostgresProgressRepository) DatesForHabit(ctx context.Context, habitID uuid.UUID) ([]sharedDomain.Day, error) {
	return r.days(ctx, `SELECT DISTINCT day FROM progress_entries WHERE habit_id = $1 ORDER BY day`, habitID)
}

func (r *PostgresProgressRepository) DatesForUser(ctx context.Context, userID uuid.UUID) ([]sharedDomain.Day, error) {
	return r.days(ctx, `SELECT DISTINCT day FROM progress_entries WHERE user_id = $1 ORDER BY day`, userID)
}

func (r *PostgresProgressRepository) ExistsFor(ctx context.Context, userID, habitID uuid.UUID, day sharedDomain.Day) (bool, error) {
	var exists bool
	err := sharedPersistence.PostgresExecutor(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM progress_entries WHERE user_id = $1 AND habit_id = $2 AND day = $3)`,
		userID, habitID, day.Time()).Scan(&exists)
	return exists, err
}

func (r *PostgresProgressRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := sharedPersistence.PostgresExecutor(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM progress_entries WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *PostgresProgressRepository) CountByHabit(ctx context.Context, habitID uuid.UUID) (int, error) {
	var n int
	err := sharedPersistence.PostgresExecutor(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM progress_entries WHERE habit_id = $1`, habitID).Scan(&n)
	return n, err
}

func (r *PostgresProgressRepository) list(ctx context.Context, where string, args ...any) ([]*domain.ProgressEntry, error) {
	rows, err := sharedPersistence.PostgresExecutor(ctx, r.pool).Query(ctx,
		`SELECT `+progressColumns+` FROM progress_entries `+where+` ORDER BY day, created_at`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.ProgressEntry
	for rows.Next() {
		entry, err := scanPostgresProgress(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *PostgresProgressRepository) days(ctx context.Context, query string, args ...any) ([]sharedDomain.Day, error) {
	rows, err := sharedPersistence.PostgresExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (sharedDomain.Day, error) {
		var t time.Time
		err := row.Scan(&t)
		return sharedDomain.NewDay(t), err
	})
}

func scanPostgresProgress(row pgx.Row) (*domain.ProgressEntry, error) {
	var (
		id, userID, habitID  uuid.UUID
		day                  time.Time
		value                float64
		note                 string
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &userID, &habitID, &day, &value, &note, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	base := sharedDomain.RehydrateBaseAggregateRoot(sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt))
	return domain.RehydrateProgressEntry(base, userID, habitID, sharedDomain.NewDay(day), value, note), nil
}
