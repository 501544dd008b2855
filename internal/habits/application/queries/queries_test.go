package queries

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/internal/habits/domain"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockHabitRepo struct {
	mock.Mock
}

func (m *mockHabitRepo) Save(ctx context.Context, habit *domain.Habit) error {
	return m.Called(ctx, habit).Error(0)
}

func (m *mockHabitRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Habit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Habit), args.Error(1)
}

func (m *mockHabitRepo) FindByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*domain.Habit, error) {
	args := m.Called(ctx, userID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Habit), args.Error(1)
}

func (m *mockHabitRepo) CountByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) (int, error) {
	args := m.Called(ctx, userID, activeOnly)
	return args.Int(0), args.Error(1)
}

// progressRepoStub serves FindByHabitBetween from a fixed slice.
type progressRepoStub struct {
	domain.ProgressRepository
	entries []*domain.ProgressEntry
	window  sharedDomain.Window
}

func (s *progressRepoStub) FindByHabitBetween(_ context.Context, _ uuid.UUID, window sharedDomain.Window) ([]*domain.ProgressEntry, error) {
	s.window = window
	var out []*domain.ProgressEntry
	for _, e := range s.entries {
		if window.Contains(e.Day()) {
			out = append(out, e)
		}
	}
	return out, nil
}

func newHabit(t *testing.T, userID uuid.UUID, title string, category domain.Category) *domain.Habit {
	t.Helper()
	h, err := domain.NewHabit(userID, domain.HabitDetails{Title: title, Category: category, Unit: "min"})
	require.NoError(t, err)
	return h
}

func day(t *testing.T, s string) sharedDomain.Day {
	t.Helper()
	d, err := sharedDomain.ParseDay(s)
	require.NoError(t, err)
	return d
}

func TestGetHabitHandler(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("returns owned habit", func(t *testing.T) {
		habit := newHabit(t, userID, "Méditation", domain.CategorySante)
		repo := new(mockHabitRepo)
		repo.On("FindByID", ctx, habit.ID()).Return(habit, nil)

		dto, err := NewGetHabitHandler(repo).Handle(ctx, GetHabitQuery{UserID: userID, HabitID: habit.ID()})

		require.NoError(t, err)
		assert.Equal(t, "Méditation", dto.Title)
		assert.Equal(t, "SANTE", dto.Category)
		assert.True(t, dto.Active)
	})

	t.Run("hides habits of other users", func(t *testing.T) {
		habit := newHabit(t, uuid.New(), "A", domain.CategorySport)
		repo := new(mockHabitRepo)
		repo.On("FindByID", ctx, habit.ID()).Return(habit, nil)

		_, err := NewGetHabitHandler(repo).Handle(ctx, GetHabitQuery{UserID: userID, HabitID: habit.ID()})

		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})

	t.Run("store error is transient", func(t *testing.T) {
		repo := new(mockHabitRepo)
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, errors.New("boom"))

		_, err := NewGetHabitHandler(repo).Handle(ctx, GetHabitQuery{UserID: userID, HabitID: id})

		assert.ErrorIs(t, err, sharedDomain.ErrTransient)
	})
}

func TestListHabitsHandler(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	sport := newHabit(t, userID, "Course", domain.CategorySport)
	reading := newHabit(t, userID, "Lecture", domain.CategoryEducation)

	t.Run("active only by default", func(t *testing.T) {
		repo := new(mockHabitRepo)
		repo.On("FindByUser", ctx, userID, true).Return([]*domain.Habit{sport, reading}, nil)

		dtos, err := NewListHabitsHandler(repo).Handle(ctx, ListHabitsQuery{UserID: userID})

		require.NoError(t, err)
		require.Len(t, dtos, 2)
		assert.Equal(t, "Course", dtos[0].Title)
	})

	t.Run("filters by category", func(t *testing.T) {
		repo := new(mockHabitRepo)
		repo.On("FindByUser", ctx, userID, false).Return([]*domain.Habit{sport, reading}, nil)

		dtos, err := NewListHabitsHandler(repo).Handle(ctx, ListHabitsQuery{UserID: userID, IncludeInactive: true, Category: "education"})

		require.NoError(t, err)
		require.Len(t, dtos, 1)
		assert.Equal(t, "Lecture", dtos[0].Title)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := NewListHabitsHandler(new(mockHabitRepo)).Handle(ctx, ListHabitsQuery{UserID: userID, Category: "cuisine"})

		assert.ErrorIs(t, err, domain.ErrInvalidCategory)
	})
}

func TestListProgressHandler(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	habit := newHabit(t, userID, "Course", domain.CategorySport)
	today := day(t, "2026-04-30")

	var entries []*domain.ProgressEntry
	for _, s := range []string{"2026-04-01", "2026-04-10", "2026-04-20"} {
		e, err := domain.NewProgressEntry(habit, day(t, s), 3, "", today)
		require.NoError(t, err)
		entries = append(entries, e)
	}

	t.Run("returns entries inside the window", func(t *testing.T) {
		repo := new(mockHabitRepo)
		repo.On("FindByID", ctx, habit.ID()).Return(habit, nil)
		stub := &progressRepoStub{entries: entries}

		dtos, err := NewListProgressHandler(repo, stub).Handle(ctx, ListProgressQuery{
			UserID:  userID,
			HabitID: habit.ID(),
			Window:  sharedDomain.Window{Start: day(t, "2026-04-05"), End: day(t, "2026-04-20")},
		})

		require.NoError(t, err)
		require.Len(t, dtos, 2)
		assert.Equal(t, "2026-04-10", dtos[0].Day)
		assert.Equal(t, "2026-04-20", dtos[1].Day)
	})

	t.Run("reversed window is invalid", func(t *testing.T) {
		_, err := NewListProgressHandler(new(mockHabitRepo), &progressRepoStub{}).Handle(ctx, ListProgressQuery{
			UserID:  userID,
			HabitID: habit.ID(),
			Window:  sharedDomain.Window{Start: day(t, "2026-04-20"), End: day(t, "2026-04-05")},
		})

		assert.ErrorIs(t, err, sharedDomain.ErrInvalidWindow)
	})

	t.Run("window wider than a year is invalid", func(t *testing.T) {
		_, err := NewListProgressHandler(new(mockHabitRepo), &progressRepoStub{}).Handle(ctx, ListProgressQuery{
			UserID:  userID,
			HabitID: habit.ID(),
			Window:  sharedDomain.Window{Start: day(t, "2025-01-01"), End: day(t, "2026-04-05")},
		})

		assert.ErrorIs(t, err, sharedDomain.ErrInvalidWindow)
	})
}
