package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/internal/achievements/domain"
	sharedApplication "github.com/jplande/HabitTracker/internal/shared/application"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	sharedPersistence "github.com/jplande/HabitTracker/internal/shared/infrastructure/persistence"
)

const achievementColumns = `id, user_id, habit_id, name, description, icon, type, unlocked_at`

// SQLiteAchievementRepository implements domain.Repository using SQLite.
type SQLiteAchievementRepository struct {
	db *sql.DB
}

// NewSQLiteAchievementRepository creates a new SQLite achievement repository.
func NewSQLiteAchievementRepository(db *sql.DB) *SQLiteAchievementRepository {
	return &SQLiteAchievementRepository{db: db}
}

func (r *SQLiteAchievementRepository) ExistsByIdentity(ctx context.Context, id domain.Identity) (bool, error) {
	var n int
	err := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM achievements WHERE user_id = ? AND name = ? AND type = ?`,
		id.UserID.String(), id.Name, string(id.Type)).Scan(&n)
	return n > 0, err
}

// SaveAll joins the caller's transaction, or opens one, so the batch is
// stored as a whole.
func (r *SQLiteAchievementRepository) SaveAll(ctx context.Context, achievements []*domain.Achievement) ([]*domain.Achievement, error) {
	var inserted []*domain.Achievement
	err := sharedApplication.WithUnitOfWork(ctx, sharedPersistence.NewSQLiteUnitOfWork(r.db), func(txCtx context.Context) error {
		exec := sharedPersistence.SQLiteExecutor(txCtx, r.db)
		for _, a := range achievements {
			var habitID *string
			if id := a.HabitID(); id != nil {
				s := id.String()
				habitID = &s
			}
			res, err := exec.ExecContext(txCtx, `
				INSERT INTO achievements (`+achievementColumns+`)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT DO NOTHING
			`,
				a.ID().String(),
				a.UserID().String(),
				habitID,
				a.Name(),
				a.Description(),
				a.Icon(),
				string(a.Type()),
				sharedPersistence.FormatSQLiteTime(a.UnlockedAt()),
			)
			if err != nil {
				return fmt.Errorf("insert achievement %q: %w", a.Name(), err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 1 {
				inserted = append(inserted, a)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inserted, nil
}

func (r *SQLiteAchievementRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Achievement, error) {
	return r.list(ctx, `WHERE user_id = ?`, userID.String())
}

func (r *SQLiteAchievementRepository) FindByUserAndType(ctx context.Context, userID uuid.UUID, typ domain.Type) ([]*domain.Achievement, error) {
	return r.list(ctx, `WHERE user_id = ? AND type = ?`, userID.String(), string(typ))
}

// FindByUserSince returns the achievements unlocked at or after since.
func (r *SQLiteAchievementRepository) FindByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*domain.Achievement, error) {
	return r.list(ctx, `WHERE user_id = ? AND unlocked_at >= ?`, userID.String(), sharedPersistence.FormatSQLiteTime(since))
}

func (r *SQLiteAchievementRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM achievements WHERE user_id = ?`, userID.String()).Scan(&n)
	return n, err
}

func (r *SQLiteAchievementRepository) list(ctx context.Context, where string, args ...any) ([]*domain.Achievement, error) {
	rows, err := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryContext(ctx,
		`SELECT `+achievementColumns+` FROM achievements `+where+` ORDER BY unlocked_at DESC, name`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []*domain.Achievement
	for rows.Next() {
		a, err := scanSQLiteAchievement(rows)
		if err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

func scanSQLiteAchievement(rows *sql.Rows) (*domain.Achievement, error) {
	var (
		id, userID              string
		habitID                 sql.NullString
		name, description, icon string
		typ, unlockedAt         string
	)
	if err := rows.Scan(&id, &userID, &habitID, &name, &description, &icon, &typ, &unlockedAt); err != nil {
		return nil, err
	}

	achievementID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("achievement id: %w", err)
	}
	owner, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("achievement user id: %w", err)
	}
	var habit *uuid.UUID
	if habitID.Valid {
		parsed, err := uuid.Parse(habitID.String)
		if err != nil {
			return nil, fmt.Errorf("achievement habit id: %w", err)
		}
		habit = &parsed
	}
	at, err := sharedPersistence.ParseSQLiteTime(unlockedAt)
	if err != nil {
		return nil, err
	}

	base := sharedDomain.RehydrateBaseAggregateRoot(sharedDomain.RehydrateBaseEntity(achievementID, at, at))
	return domain.RehydrateAchievement(base, owner, habit, name, description, icon, domain.Type(typ), at), nil
}
