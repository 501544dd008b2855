package queries

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	habitsDomain "github.com/jplande/HabitTracker/internal/habits/domain"
	identityDomain "github.com/jplande/HabitTracker/internal/identity/domain"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/cache"
	"github.com/stretchr/testify/require"
)

var errStore = errors.New("store unavailable")

// memoryHabits is an in-memory HabitRepository that keeps insertion order.
type memoryHabits struct {
	mu     sync.Mutex
	habits []*habitsDomain.Habit
}

func (m *memoryHabits) Save(_ context.Context, habit *habitsDomain.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, h := range m.habits {
		if h.ID() == habit.ID() {
			m.habits[i] = habit
			return nil
		}
	}
	m.habits = append(m.habits, habit)
	return nil
}

func (m *memoryHabits) FindByID(_ context.Context, id uuid.UUID) (*habitsDomain.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.habits {
		if h.ID() == id {
			return h, nil
		}
	}
	return nil, nil
}

func (m *memoryHabits) FindByUser(_ context.Context, userID uuid.UUID, activeOnly bool) ([]*habitsDomain.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*habitsDomain.Habit
	for _, h := range m.habits {
		if h.BelongsTo(userID) && (!activeOnly || h.IsActive()) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memoryHabits) CountByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) (int, error) {
	habits, err := m.FindByUser(ctx, userID, activeOnly)
	return len(habits), err
}

// memoryProgress is an in-memory ProgressRepository. A non-nil err fails
// every read.
type memoryProgress struct {
	mu      sync.Mutex
	entries []*habitsDomain.ProgressEntry
	err     error
}

func (m *memoryProgress) Save(_ context.Context, entry *habitsDomain.ProgressEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryProgress) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.entries {
		if e.ID() == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memoryProgress) FindByID(_ context.Context, id uuid.UUID) (*habitsDomain.ProgressEntry, error) {
	for _, e := range m.sorted() {
		if e.ID() == id {
			return e, nil
		}
	}
	return nil, m.err
}

func (m *memoryProgress) FindByHabitBetween(_ context.Context, habitID uuid.UUID, window sharedDomain.Window) ([]*habitsDomain.ProgressEntry, error) {
	return m.filter(func(e *habitsDomain.ProgressEntry) bool {
		return e.HabitID() == habitID && window.Contains(e.Day())
	})
}

func (m *memoryProgress) FindByUserBetween(_ context.Context, userID uuid.UUID, window sharedDomain.Window) ([]*habitsDomain.ProgressEntry, error) {
	return m.filter(func(e *habitsDomain.ProgressEntry) bool {
		return e.UserID() == userID && window.Contains(e.Day())
	})
}

func (m *memoryProgress) FindByUser(_ context.Context, userID uuid.UUID) ([]*habitsDomain.ProgressEntry, error) {
	return m.filter(func(e *habitsDomain.ProgressEntry) bool { return e.UserID() == userID })
}

func (m *memoryProgress) LatestForHabit(ctx context.Context, habitID uuid.UUID) (*habitsDomain.ProgressEntry, error) {
	entries, err := m.filter(func(e *habitsDomain.ProgressEntry) bool { return e.HabitID() == habitID })
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return entries[len(entries)-1], nil
}

func (m *memoryProgress) DatesForHabit(_ context.Context, habitID uuid.UUID) ([]sharedDomain.Day, error) {
	return m.dates(func(e *habitsDomain.ProgressEntry) bool { return e.HabitID() == habitID })
}

func (m *memoryProgress) DatesForUser(_ context.Context, userID uuid.UUID) ([]sharedDomain.Day, error) {
	return m.dates(func(e *habitsDomain.ProgressEntry) bool { return e.UserID() == userID })
}

func (m *memoryProgress) ExistsFor(_ context.Context, userID, habitID uuid.UUID, day sharedDomain.Day) (bool, error) {
	entries, err := m.filter(func(e *habitsDomain.ProgressEntry) bool {
		return e.UserID() == userID && e.HabitID() == habitID && e.Day() == day
	})
	return len(entries) > 0, err
}

func (m *memoryProgress) CountByUser(_ context.Context, userID uuid.UUID) (int, error) {
	entries, err := m.filter(func(e *habitsDomain.ProgressEntry) bool { return e.UserID() == userID })
	return len(entries), err
}

func (m *memoryProgress) CountByHabit(_ context.Context, habitID uuid.UUID) (int, error) {
	entries, err := m.filter(func(e *habitsDomain.ProgressEntry) bool { return e.HabitID() == habitID })
	return len(entries), err
}

func (m *memoryProgress) sorted() []*habitsDomain.ProgressEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]*habitsDomain.ProgressEntry(nil), m.entries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Day().Before(out[j].Day()) })
	return out
}

func (m *memoryProgress) filter(keep func(*habitsDomain.ProgressEntry) bool) ([]*habitsDomain.ProgressEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*habitsDomain.ProgressEntry
	for _, e := range m.sorted() {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memoryProgress) dates(keep func(*habitsDomain.ProgressEntry) bool) ([]sharedDomain.Day, error) {
	entries, err := m.filter(keep)
	if err != nil {
		return nil, err
	}
	seen := make(map[sharedDomain.Day]bool)
	var out []sharedDomain.Day
	for _, e := range entries {
		if !seen[e.Day()] {
			seen[e.Day()] = true
			out = append(out, e.Day())
		}
	}
	return out, nil
}

type achievementCount int

func (c achievementCount) CountByUser(context.Context, uuid.UUID) (int, error) {
	return int(c), nil
}

// knownUsers is a UserFinder over a fixed set of users.
type knownUsers map[uuid.UUID]*identityDomain.User

func (k knownUsers) FindByID(_ context.Context, id uuid.UUID) (*identityDomain.User, error) {
	return k[id], nil
}

type fixture struct {
	userID   uuid.UUID
	today    sharedDomain.Day
	users    knownUsers
	habits   *memoryHabits
	progress *memoryProgress
	cache    *cache.Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	email, err := identityDomain.NewEmail("ada@example.com")
	require.NoError(t, err)
	name, err := identityDomain.NewName("Ada")
	require.NoError(t, err)
	userID := uuid.New()
	return &fixture{
		userID:   userID,
		today:    day(t, "2026-03-15"),
		users:    knownUsers{userID: identityDomain.NewUserWithID(userID, email, name)},
		habits:   &memoryHabits{},
		progress: &memoryProgress{},
		cache:    cache.NewCoordinator(cache.NewMemoryBackend(), cache.DefaultTTLs(), nil),
	}
}

func (f *fixture) clock() Option {
	return WithClock(func() sharedDomain.Day { return f.today })
}

func (f *fixture) habit(t *testing.T, title string, target *float64) *habitsDomain.Habit {
	t.Helper()
	h, err := habitsDomain.NewHabit(f.userID, habitsDomain.HabitDetails{
		Title:    title,
		Category: habitsDomain.CategorySport,
		Unit:     "min",
		Target:   target,
	})
	require.NoError(t, err)
	require.NoError(t, f.habits.Save(context.Background(), h))
	return h
}

// log records value on the day offset days before today.
func (f *fixture) log(habit *habitsDomain.Habit, offset int, value float64) {
	f.logOn(habit, f.today.AddDays(-offset), value)
}

func (f *fixture) logOn(habit *habitsDomain.Habit, d sharedDomain.Day, value float64) {
	entry := habitsDomain.RehydrateProgressEntry(sharedDomain.NewBaseAggregateRoot(), habit.UserID(), habit.ID(), d, value, "")
	_ = f.progress.Save(context.Background(), entry)
}

func day(t *testing.T, s string) sharedDomain.Day {
	t.Helper()
	d, err := sharedDomain.ParseDay(s)
	require.NoError(t, err)
	return d
}

func ptr(v float64) *float64 { return &v }
