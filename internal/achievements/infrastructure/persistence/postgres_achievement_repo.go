package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jplande/HabitTracker/internal/achievements/domain"
	sharedApplication "github.com/jplande/HabitTracker/internal/shared/application"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	sharedPersistence "github.com/jplande/HabitTracker/internal/shared/infrastructure/persistence"
)

// PostgresAchievementRepository implements domain.Repository using PostgreSQL.
type PostgresAchievementRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAchievementRepository creates a new PostgreSQL achievement repository.
func NewPostgresAchievementRepository(pool *pgxpool.Pool) *PostgresAchievementRepository {
	return &PostgresAchievementRepository{pool: pool}
}

func (r *PostgresAchievementRepository) ExistsByIdentity(ctx context.Context, id domain.Identity) (bool, error) {
	var exists bool
	err := sharedPersistence.PostgresExecutor(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM achievements WHERE user_id = $1 AND name = $2 AND type = $3)`,
		id.UserID, id.Name, string(id.Type)).Scan(&exists)
	return exists, err
}

func (r *PostgresAchievementRepository) SaveAll(ctx context.Context, achievements []*domain.Achievement) ([]*domain.Achievement, error) {
	var inserted []*domain.Achievement
	err := sharedApplication.WithUnitOfWork(ctx, sharedPersistence.NewPostgresUnitOfWork(r.pool), func(txCtx context.Context) error {
		exec := sharedPersistence.PostgresExecutor(txCtx, r.pool)
		for _, a := range achievements {
			tag, err := exec.Exec(txCtx, `
				INSERT INTO achievements (`+achievementColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				ON CONFLICT (user_id, name, type) DO NOTHING
			`,
				a.ID(),
				a.UserID(),
				a.HabitID(),
				a.Name(),
				a.Description(),
				a.Icon(),
				string(a.Type()),
				a.UnlockedAt(),
			)
			if err != nil {
				return fmt.Errorf("insert achievement %q: %w", a.Name(), err)
			}
			if tag.RowsAffected() == 1 {
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

func (r *PostgresAchievementRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Achievement, error) {
	return r.list(ctx, `WHERE user_id = $1`, userID)
}

func (r *PostgresAchievementRepository) FindByUserAndType(ctx context.Context, userID uuid.UUID, typ domain.Type) ([]*domain.Achievement, error) {
	return r.list(ctx, `WHERE user_id = $1 AND type = $2`, userID, string(typ))
}

func (r *PostgresAchievementRepository) FindByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*domain.Achievement, error) {
	return r.list(ctx, `WHERE user_id = $1 AND unlocked_at >= $2`, userID, since)
}

func (r *PostgresAchievementRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := sharedPersistence.PostgresExecutor(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM achievements WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *PostgresAchievementRepository) list(ctx context.Context, where string, args ...any) ([]*domain.Achievement, error) {
	rows, err := sharedPersistence.PostgresExecutor(ctx, r.pool).Query(ctx,
		`SELECT `+achievementColumns+` FROM achievements `+where+` ORDER BY unlocked_at DESC, name`, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Achievement, error) {
		var (
			id, userID              uuid.UUID
			habitID                 *uuid.UUID
			name, description, icon string
			typ                     string
			unlockedAt              time.Time
		)
		if err := row.Scan(&id, &userID, &habitID, &name, &description, &icon, &typ, &unlockedAt); err != nil {
			return nil, err
		}
		base := sharedDomain.RehydrateBaseAggregateRoot(sharedDomain.RehydrateBaseEntity(id, unlockedAt, unlockedAt))
		return domain.RehydrateAchievement(base, userID, habitID, name, description, icon, domain.Type(typ), unlockedAt), nil
	})
}
