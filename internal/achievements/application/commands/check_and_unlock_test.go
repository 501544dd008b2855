package commands

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/internal/achievements/domain"
	achievementPersistence "github.com/jplande/HabitTracker/internal/achievements/infrastructure/persistence"
	habitsDomain "github.com/jplande/HabitTracker/internal/habits/domain"
	habitPersistence "github.com/jplande/HabitTracker/internal/habits/infrastructure/persistence"
	identityDomain "github.com/jplande/HabitTracker/internal/identity/domain"
	identityPersistence "github.com/jplande/HabitTracker/internal/identity/infrastructure/persistence"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/migrations"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/jplande/HabitTracker/internal/shared/infrastructure/persistence"
	"github.com/jplande/HabitTracker/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type recordingCache struct {
	mu    sync.Mutex
	users []string
}

func (c *recordingCache) InvalidateUser(_ context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = append(c.users, userID)
}

type env struct {
	db       *sql.DB
	userID   uuid.UUID
	habits   *habitPersistence.SQLiteHabitRepository
	progress *habitPersistence.SQLiteProgressRepository
	repo     *achievementPersistence.SQLiteAchievementRepository
	cache    *recordingCache
	metrics  *observability.InMemoryMetrics
	handler  *CheckAndUnlockHandler
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.RunSQLiteMigrations(ctx, db))

	users := identityPersistence.NewSQLiteUserRepository(db)
	email, err := identityDomain.NewEmail("ada@example.com")
	require.NoError(t, err)
	name, err := identityDomain.NewName("Ada")
	require.NoError(t, err)
	user := identityDomain.NewUser(email, name)
	require.NoError(t, users.Save(ctx, user))

	e := &env{
		db:       db,
		userID:   user.ID(),
		habits:   habitPersistence.NewSQLiteHabitRepository(db),
		progress: habitPersistence.NewSQLiteProgressRepository(db),
		repo:     achievementPersistence.NewSQLiteAchievementRepository(db),
		cache:    &recordingCache{},
		metrics:  observability.NewInMemoryMetrics(),
	}
	e.handler = NewCheckAndUnlockHandler(
		users, e.habits, e.progress, e.repo,
		outbox.NewSQLiteRepository(db),
		sharedPersistence.NewSQLiteUnitOfWork(db),
		e.cache,
		WithNow(func() time.Time { return now }),
		WithMetrics(e.metrics),
	)
	return e
}

func (e *env) habit(t *testing.T, title string, category habitsDomain.Category, target *float64) *habitsDomain.Habit {
	t.Helper()
	h, err := habitsDomain.NewHabit(e.userID, habitsDomain.HabitDetails{Title: title, Category: category, Unit: "min", Target: target})
	require.NoError(t, err)
	require.NoError(t, e.habits.Save(context.Background(), h))
	return h
}

// log stores one entry per offset, counted in days before now.
func (e *env) log(t *testing.T, habit *habitsDomain.Habit, value float64, offsets ...int) {
	t.Helper()
	today := sharedDomain.NewDay(now)
	for _, off := range offsets {
		entry := habitsDomain.RehydrateProgressEntry(sharedDomain.NewBaseAggregateRoot(), habit.UserID(), habit.ID(), today.AddDays(-off), value, "")
		require.NoError(t, e.progress.Save(context.Background(), entry))
	}
}

func (e *env) outboxCount(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow(`SELECT COUNT(*) FROM outbox WHERE routing_key = ?`, domain.RoutingKeyAchievementUnlocked).Scan(&n))
	return n
}

func span(from, to int) []int {
	var out []int
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func unlockedNames(r *CheckAndUnlockResult) []string {
	out := make([]string, len(r.NewlyUnlocked))
	for i, a := range r.NewlyUnlocked {
		out[i] = a.Name
	}
	return out
}

func ptr(v float64) *float64 { return &v }

func TestCheckAndUnlock_SevenDayStreak(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	habit := e.habit(t, "Course", habitsDomain.CategorySport, ptr(30))
	e.log(t, habit, 30, span(0, 6)...)

	result, err := e.handler.Handle(ctx, CheckAndUnlockCommand{UserID: e.userID, HabitID: idPtr(habit.ID())})
	require.NoError(t, err)

	assert.Equal(t, 1, result.NewlyUnlockedCount)
	require.Len(t, result.NewlyUnlocked, 1)
	unlocked := result.NewlyUnlocked[0]
	assert.Equal(t, "Semaine parfaite", unlocked.Name)
	assert.Equal(t, "CONSISTENCY", unlocked.Type)
	assert.Equal(t, "Régularité", unlocked.Category)
	assert.Equal(t, "🔥", unlocked.Icon)
	require.NotNil(t, unlocked.HabitID)
	assert.Equal(t, habit.ID(), *unlocked.HabitID)
	assert.True(t, now.Equal(unlocked.UnlockedAt))

	assert.Equal(t, 1, e.outboxCount(t))
	assert.Equal(t, []string{e.userID.String()}, e.cache.users)
	assert.Equal(t, int64(1), e.metrics.GetCounter(observability.MetricAchievementsUnlocked, observability.T("type", "CONSISTENCY")))

	t.Run("a second check unlocks nothing", func(t *testing.T) {
		again, err := e.handler.Handle(ctx, CheckAndUnlockCommand{UserID: e.userID})
		require.NoError(t, err)
		assert.Equal(t, 0, again.NewlyUnlockedCount)
		assert.Empty(t, again.NewlyUnlocked)

		n, err := e.repo.CountByUser(ctx, e.userID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, 1, e.outboxCount(t))
		assert.Len(t, e.cache.users, 1)
	})
}

func TestCheckAndUnlock_NoProgress(t *testing.T) {
	e := newEnv(t)
	e.habit(t, "Course", habitsDomain.CategorySport, nil)

	result, err := e.handler.Handle(context.Background(), CheckAndUnlockCommand{UserID: e.userID})
	require.NoError(t, err)

	assert.Equal(t, 0, result.NewlyUnlockedCount)
	assert.NotNil(t, result.NewlyUnlocked)
	assert.Equal(t, 0, e.outboxCount(t))
	assert.Empty(t, e.cache.users)
}

func TestCheckAndUnlock_Rules(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, e *env)
		cmd   func(e *env) CheckAndUnlockCommand
		want  []string
	}{
		{
			name: "milestones and streaks",
			setup: func(t *testing.T, e *env) {
				h := e.habit(t, "Course", habitsDomain.CategorySport, nil)
				e.log(t, h, 1, span(0, 14)...)
			},
			want: []string{"Semaine parfaite", "Première dizaine", "Série impressionnante"},
		},
		{
			name: "trigger type restricts evaluation",
			setup: func(t *testing.T, e *env) {
				h := e.habit(t, "Course", habitsDomain.CategorySport, nil)
				e.log(t, h, 1, span(0, 14)...)
			},
			cmd:  func(e *env) CheckAndUnlockCommand { return CheckAndUnlockCommand{UserID: e.userID, Type: "milestone"} },
			want: []string{"Première dizaine"},
		},
		{
			name: "overachievement counts entries at one and a half times the target",
			setup: func(t *testing.T, e *env) {
				h := e.habit(t, "Lecture", habitsDomain.CategoryEducation, ptr(2))
				e.log(t, h, 3, 1, 3, 5, 7, 9, 11, 13, 15, 17, 19)
				e.log(t, h, 2.9, 21)
			},
			want: []string{"Première dizaine", "Au-delà de l'objectif"},
		},
		{
			name: "variety and dedication use active habits",
			setup: func(t *testing.T, e *env) {
				e.habit(t, "Course", habitsDomain.CategorySport, nil)
				e.habit(t, "Lecture", habitsDomain.CategoryEducation, nil)
				e.habit(t, "Budget", habitsDomain.CategoryFinance, nil)
				e.habit(t, "Yoga", habitsDomain.CategorySport, nil)
				paused := e.habit(t, "Piano", habitsDomain.CategoryCreativite, nil)
				paused.Deactivate()
				require.NoError(t, e.habits.Save(context.Background(), paused))
			},
			want: []string{"Polyvalent"},
		},
		{
			name: "perseverance looks at past habit streaks",
			setup: func(t *testing.T, e *env) {
				h := e.habit(t, "Méditation", habitsDomain.CategorySante, nil)
				e.log(t, h, 1, span(40, 69)...)
			},
			want: []string{"Première dizaine", "Persévérance"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			tt.setup(t, e)
			cmd := CheckAndUnlockCommand{UserID: e.userID}
			if tt.cmd != nil {
				cmd = tt.cmd(e)
			}

			result, err := e.handler.Handle(context.Background(), cmd)
			require.NoError(t, err)

			assert.Equal(t, tt.want, unlockedNames(result))
			assert.Equal(t, len(tt.want), result.NewlyUnlockedCount)
			assert.Equal(t, len(tt.want), e.outboxCount(t))
		})
	}
}

func TestCheckAndUnlock_ConcurrentChecksStoreOneRow(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	habit := e.habit(t, "Course", habitsDomain.CategorySport, nil)
	e.log(t, habit, 1, span(0, 6)...)

	const workers = 4
	results := make([]*CheckAndUnlockResult, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = e.handler.Handle(ctx, CheckAndUnlockCommand{UserID: e.userID})
		}(i)
	}
	wg.Wait()

	total := 0
	for i := range results {
		require.NoError(t, errs[i])
		total += results[i].NewlyUnlockedCount
	}
	assert.Equal(t, 1, total)

	n, err := e.repo.CountByUser(ctx, e.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, e.outboxCount(t))
}

func TestCheckAndUnlock_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown user", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.handler.Handle(ctx, CheckAndUnlockCommand{UserID: uuid.New()})
		assert.ErrorIs(t, err, identityDomain.ErrUserNotFound)
		assert.ErrorIs(t, err, sharedDomain.ErrNotFound)
	})

	t.Run("habit of another user", func(t *testing.T) {
		e := newEnv(t)
		email, err := identityDomain.NewEmail("grace@example.com")
		require.NoError(t, err)
		name, err := identityDomain.NewName("Grace")
		require.NoError(t, err)
		other := identityDomain.NewUser(email, name)
		require.NoError(t, identityPersistence.NewSQLiteUserRepository(e.db).Save(ctx, other))

		habit, err := habitsDomain.NewHabit(other.ID(), habitsDomain.HabitDetails{Title: "Course", Category: habitsDomain.CategorySport, Unit: "km"})
		require.NoError(t, err)
		require.NoError(t, e.habits.Save(ctx, habit))

		_, err := e.handler.Handle(ctx, CheckAndUnlockCommand{UserID: e.userID, HabitID: idPtr(habit.ID())})
		assert.ErrorIs(t, err, habitsDomain.ErrHabitNotFound)
	})

	t.Run("missing habit", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.handler.Handle(ctx, CheckAndUnlockCommand{UserID: e.userID, HabitID: idPtr(uuid.New())})
		assert.ErrorIs(t, err, habitsDomain.ErrHabitNotFound)
	})

	t.Run("unknown type", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.handler.Handle(ctx, CheckAndUnlockCommand{UserID: e.userID, Type: "LEGENDARY"})
		assert.ErrorIs(t, err, sharedDomain.ErrInvalidArgument)
	})
}

func idPtr(id uuid.UUID) *uuid.UUID { return &id }
