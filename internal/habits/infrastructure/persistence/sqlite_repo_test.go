package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/internal/habits/domain"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/database"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/migrations"
	sharedPersistence "github.com/jplande/HabitTracker/internal/shared/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.RunSQLiteMigrations(context.Background(), db))
	return db
}

func insertUser(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.Exec(`INSERT INTO users (id, email, name, active, created_at, updated_at) VALUES (?, ?, ?, 1, '2026-01-01T00:00:00.000000000Z', '2026-01-01T00:00:00.000000000Z')`,
		id.String(), id.String()+"@example.com", "Test")
	require.NoError(t, err)
	return id
}

func newHabit(t *testing.T, userID uuid.UUID, title string, target *float64) *domain.Habit {
	t.Helper()
	h, err := domain.NewHabit(userID, domain.HabitDetails{
		Title:    title,
		Category: domain.CategorySport,
		Unit:     "km",
		Target:   target,
	})
	require.NoError(t, err)
	return h
}

func day(t *testing.T, s string) sharedDomain.Day {
	t.Helper()
	d, err := sharedDomain.ParseDay(s)
	require.NoError(t, err)
	return d
}

func TestSQLiteHabitRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("save and find round trip", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSQLiteHabitRepository(db)
		userID := insertUser(t, db)
		target := 5.0
		habit := newHabit(t, userID, "Course", &target)

		require.NoError(t, repo.Save(ctx, habit))

		found, err := repo.FindByID(ctx, habit.ID())
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Course", found.Title())
		assert.Equal(t, domain.CategorySport, found.Category())
		assert.Equal(t, domain.FrequencyDaily, found.Frequency())
		require.NotNil(t, found.Target())
		assert.Equal(t, 5.0, *found.Target())
		assert.True(t, found.IsActive())
		assert.True(t, habit.CreatedAt().Equal(found.CreatedAt()))
	})

	t.Run("missing habit returns nil", func(t *testing.T) {
		repo := NewSQLiteHabitRepository(setupTestDB(t))

		found, err := repo.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("save updates existing row", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSQLiteHabitRepository(db)
		habit := newHabit(t, insertUser(t, db), "Lecture", nil)
		require.NoError(t, repo.Save(ctx, habit))

		habit.Deactivate()
		require.NoError(t, repo.Save(ctx, habit))

		found, err := repo.FindByID(ctx, habit.ID())
		require.NoError(t, err)
		assert.False(t, found.IsActive())
		assert.Nil(t, found.Target())
	})

	t.Run("find and count by user honour active filter", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSQLiteHabitRepository(db)
		userID := insertUser(t, db)
		first := newHabit(t, userID, "A", nil)
		second := newHabit(t, userID, "B", nil)
		second.Deactivate()
		other := newHabit(t, insertUser(t, db), "C", nil)
		for _, h := range []*domain.Habit{first, second, other} {
			require.NoError(t, repo.Save(ctx, h))
		}

		all, err := repo.FindByUser(ctx, userID, false)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		active, err := repo.FindByUser(ctx, userID, true)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, first.ID(), active[0].ID())

		n, err := repo.CountByUser(ctx, userID, true)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestSQLiteProgressRepository(t *testing.T) {
	ctx := context.Background()
	today := sharedDomain.Today()

	setup := func(t *testing.T) (*sql.DB, *SQLiteProgressRepository, *domain.Habit) {
		db := setupTestDB(t)
		habit := newHabit(t, insertUser(t, db), "Course", nil)
		require.NoError(t, NewSQLiteHabitRepository(db).Save(ctx, habit))
		return db, NewSQLiteProgressRepository(db), habit
	}

	log := func(t *testing.T, repo *SQLiteProgressRepository, habit *domain.Habit, d sharedDomain.Day, value float64) *domain.ProgressEntry {
		entry, err := domain.NewProgressEntry(habit, d, value, "", today)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, entry))
		return entry
	}

	t.Run("save and find round trip", func(t *testing.T) {
		_, repo, habit := setup(t)
		entry := log(t, repo, habit, day(t, "2026-03-02"), 4.5)

		found, err := repo.FindByID(ctx, entry.ID())
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "2026-03-02", found.Day().String())
		assert.Equal(t, 4.5, found.Value())
		assert.Equal(t, habit.ID(), found.HabitID())
	})

	t.Run("duplicate day violates unique index", func(t *testing.T) {
		_, repo, habit := setup(t)
		log(t, repo, habit, day(t, "2026-03-02"), 1)

		dup, err := domain.NewProgressEntry(habit, day(t, "2026-03-02"), 2, "", today)
		require.NoError(t, err)
		err = repo.Save(ctx, dup)
		require.Error(t, err)
		assert.True(t, database.IsUniqueViolation(err))
	})

	t.Run("window queries are inclusive and ordered", func(t *testing.T) {
		_, repo, habit := setup(t)
		for _, s := range []string{"2026-03-05", "2026-03-01", "2026-03-03", "2026-02-28"} {
			log(t, repo, habit, day(t, s), 1)
		}
		window, err := sharedDomain.NewWindow(day(t, "2026-03-01"), day(t, "2026-03-05"))
		require.NoError(t, err)

		entries, err := repo.FindByHabitBetween(ctx, habit.ID(), window)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "2026-03-01", entries[0].Day().String())
		assert.Equal(t, "2026-03-05", entries[2].Day().String())

		byUser, err := repo.FindByUserBetween(ctx, habit.UserID(), window)
		require.NoError(t, err)
		assert.Len(t, byUser, 3)
	})

	t.Run("dates latest and counts", func(t *testing.T) {
		_, repo, habit := setup(t)
		log(t, repo, habit, day(t, "2026-03-02"), 1)
		log(t, repo, habit, day(t, "2026-03-01"), 1)

		dates, err := repo.DatesForHabit(ctx, habit.ID())
		require.NoError(t, err)
		require.Len(t, dates, 2)
		assert.Equal(t, "2026-03-01", dates[0].String())

		userDates, err := repo.DatesForUser(ctx, habit.UserID())
		require.NoError(t, err)
		assert.Len(t, userDates, 2)

		latest, err := repo.LatestForHabit(ctx, habit.ID())
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, "2026-03-02", latest.Day().String())

		exists, err := repo.ExistsFor(ctx, habit.UserID(), habit.ID(), day(t, "2026-03-01"))
		require.NoError(t, err)
		assert.True(t, exists)

		n, err := repo.CountByHabit(ctx, habit.ID())
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = repo.CountByUser(ctx, habit.UserID())
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("latest is nil without entries", func(t *testing.T) {
		_, repo, habit := setup(t)

		latest, err := repo.LatestForHabit(ctx, habit.ID())
		require.NoError(t, err)
		assert.Nil(t, latest)
	})

	t.Run("update and delete", func(t *testing.T) {
		_, repo, habit := setup(t)
		entry := log(t, repo, habit, day(t, "2026-03-02"), 1)

		value := 3.0
		note := "mieux"
		require.NoError(t, entry.Update(&value, &note))
		require.NoError(t, repo.Save(ctx, entry))

		found, err := repo.FindByID(ctx, entry.ID())
		require.NoError(t, err)
		assert.Equal(t, 3.0, found.Value())
		assert.Equal(t, "mieux", found.Note())

		require.NoError(t, repo.Delete(ctx, entry.ID()))
		found, err = repo.FindByID(ctx, entry.ID())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("saves participate in the unit of work", func(t *testing.T) {
		db, repo, habit := setup(t)
		uow := sharedPersistence.NewSQLiteUnitOfWork(db)

		txCtx, err := uow.Begin(ctx)
		require.NoError(t, err)
		entry, err := domain.NewProgressEntry(habit, day(t, "2026-03-02"), 1, "", today)
		require.NoError(t, err)
		require.NoError(t, repo.Save(txCtx, entry))
		require.NoError(t, uow.Rollback(txCtx))

		n, err := repo.CountByHabit(ctx, habit.ID())
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})
}
