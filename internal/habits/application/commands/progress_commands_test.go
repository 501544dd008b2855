package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/internal/habits/domain"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func mustDay(t *testing.T, s string) sharedDomain.Day {
	t.Helper()
	d, err := sharedDomain.ParseDay(s)
	require.NoError(t, err)
	return d
}

func TestLogProgressHandler_Handle(t *testing.T) {
	ctx := context.Background()
	txCtx := context.WithValue(ctx, "tx", "transaction")
	userID := uuid.New()
	today := mustDay(t, "2026-05-10")
	clock := func() sharedDomain.Day { return today }

	newHandler := func(habits *mockHabitRepo, progress *mockProgressRepo, outboxRepo *mockOutboxRepo, uow *mockUnitOfWork, cache *mockCache) *LogProgressHandler {
		return NewLogProgressHandler(habits, progress, outboxRepo, uow, cache).WithClock(clock)
	}

	t.Run("logs progress for today by default", func(t *testing.T) {
		habit := storedHabit(t, userID)
		habits := new(mockHabitRepo)
		progress := new(mockProgressRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		cache := new(mockCache)

		uow.On("Begin", ctx).Return(txCtx, nil)
		habits.On("FindByID", txCtx, habit.ID()).Return(habit, nil)
		progress.On("ExistsFor", txCtx, userID, habit.ID(), today).Return(false, nil)
		progress.On("Save", txCtx, mock.AnythingOfType("*domain.ProgressEntry")).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.Anything).Return(nil)
		uow.On("Commit", txCtx).Return(nil)
		cache.On("InvalidateHabit", ctx, habit.ID().String()).Return()
		cache.On("InvalidateUser", ctx, userID.String()).Return()

		result, err := newHandler(habits, progress, outboxRepo, uow, cache).Handle(ctx, LogProgressCommand{
			UserID:  userID,
			HabitID: habit.ID(),
			Value:   12,
			Note:    " bien ",
		})

		require.NoError(t, err)
		assert.Equal(t, today, result.Day)
		saved := progress.Calls[1].Arguments.Get(1).(*domain.ProgressEntry)
		assert.Equal(t, "bien", saved.Note())
		assert.Equal(t, []string{domain.RoutingKeyProgressLogged}, routingKeys(t, outboxRepo))
		cache.AssertExpectations(t)
	})

	t.Run("existing entry for the day is a conflict", func(t *testing.T) {
		habit := storedHabit(t, userID)
		habits := new(mockHabitRepo)
		progress := new(mockProgressRepo)
		uow := new(mockUnitOfWork)
		cache := new(mockCache)
		day := mustDay(t, "2026-05-09")

		uow.On("Begin", ctx).Return(txCtx, nil)
		habits.On("FindByID", txCtx, habit.ID()).Return(habit, nil)
		progress.On("ExistsFor", txCtx, userID, habit.ID(), day).Return(true, nil)
		uow.On("Rollback", txCtx).Return(nil)

		_, err := newHandler(habits, progress, new(mockOutboxRepo), uow, cache).Handle(ctx, LogProgressCommand{
			UserID: userID, HabitID: habit.ID(), Day: day, Value: 1,
		})

		assert.ErrorIs(t, err, domain.ErrProgressExists)
		assert.True(t, sharedDomain.IsConflict(err))
		cache.AssertNotCalled(t, "InvalidateUser", mock.Anything, mock.Anything)
	})

	t.Run("unique violation from the store is a conflict", func(t *testing.T) {
		habit := storedHabit(t, userID)
		habits := new(mockHabitRepo)
		progress := new(mockProgressRepo)
		uow := new(mockUnitOfWork)

		uow.On("Begin", ctx).Return(txCtx, nil)
		habits.On("FindByID", txCtx, habit.ID()).Return(habit, nil)
		progress.On("ExistsFor", txCtx, userID, habit.ID(), today).Return(false, nil)
		progress.On("Save", txCtx, mock.Anything).Return(uniqueViolation(t))
		uow.On("Rollback", txCtx).Return(nil)

		_, err := newHandler(habits, progress, new(mockOutboxRepo), uow, nil).Handle(ctx, LogProgressCommand{
			UserID: userID, HabitID: habit.ID(), Value: 1,
		})

		assert.ErrorIs(t, err, domain.ErrProgressExists)
	})

	t.Run("future day is rejected", func(t *testing.T) {
		habit := storedHabit(t, userID)
		habits := new(mockHabitRepo)
		progress := new(mockProgressRepo)
		uow := new(mockUnitOfWork)
		tomorrow := today.AddDays(1)

		uow.On("Begin", ctx).Return(txCtx, nil)
		habits.On("FindByID", txCtx, habit.ID()).Return(habit, nil)
		progress.On("ExistsFor", txCtx, userID, habit.ID(), tomorrow).Return(false, nil)
		uow.On("Rollback", txCtx).Return(nil)

		_, err := newHandler(habits, progress, new(mockOutboxRepo), uow, nil).Handle(ctx, LogProgressCommand{
			UserID: userID, HabitID: habit.ID(), Day: tomorrow, Value: 1,
		})

		assert.ErrorIs(t, err, domain.ErrFutureDay)
	})

	t.Run("inactive habit is rejected", func(t *testing.T) {
		habit := storedHabit(t, userID)
		habit.Deactivate()
		habits := new(mockHabitRepo)
		progress := new(mockProgressRepo)
		uow := new(mockUnitOfWork)

		uow.On("Begin", ctx).Return(txCtx, nil)
		habits.On("FindByID", txCtx, habit.ID()).Return(habit, nil)
		progress.On("ExistsFor", txCtx, userID, habit.ID(), today).Return(false, nil)
		uow.On("Rollback", txCtx).Return(nil)

		_, err := newHandler(habits, progress, new(mockOutboxRepo), uow, nil).Handle(ctx, LogProgressCommand{
			UserID: userID, HabitID: habit.ID(), Value: 1,
		})

		assert.ErrorIs(t, err, domain.ErrHabitInactive)
	})

	t.Run("lookup failure is transient", func(t *testing.T) {
		habits := new(mockHabitRepo)
		uow := new(mockUnitOfWork)
		id := uuid.New()

		uow.On("Begin", ctx).Return(txCtx, nil)
		habits.On("FindByID", txCtx, id).Return(nil, errors.New("connection reset"))
		uow.On("Rollback", txCtx).Return(nil)

		_, err := newHandler(habits, new(mockProgressRepo), new(mockOutboxRepo), uow, nil).Handle(ctx, LogProgressCommand{
			UserID: userID, HabitID: id, Value: 1,
		})

		assert.ErrorIs(t, err, sharedDomain.ErrTransient)
	})
}

func storedEntry(t *testing.T, habit *domain.Habit, day string) *domain.ProgressEntry {
	t.Helper()
	entry, err := domain.NewProgressEntry(habit, mustDay(t, day), 5, "", mustDay(t, "2026-12-31"))
	require.NoError(t, err)
	entry.ClearDomainEvents()
	return entry
}

func TestUpdateProgressHandler_Handle(t *testing.T) {
	ctx := context.Background()
	txCtx := context.WithValue(ctx, "tx", "transaction")
	userID := uuid.New()

	t.Run("updates value", func(t *testing.T) {
		habit := storedHabit(t, userID)
		entry := storedEntry(t, habit, "2026-05-01")
		progress := new(mockProgressRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		cache := new(mockCache)

		uow.On("Begin", ctx).Return(txCtx, nil)
		progress.On("FindByID", txCtx, entry.ID()).Return(entry, nil)
		progress.On("Save", txCtx, entry).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.Anything).Return(nil)
		uow.On("Commit", txCtx).Return(nil)
		cache.On("InvalidateHabit", ctx, habit.ID().String()).Return()
		cache.On("InvalidateUser", ctx, userID.String()).Return()

		value := 8.0
		err := NewUpdateProgressHandler(progress, outboxRepo, uow, cache).Handle(ctx, UpdateProgressCommand{
			UserID: userID, EntryID: entry.ID(), Value: &value,
		})

		require.NoError(t, err)
		assert.Equal(t, 8.0, entry.Value())
		assert.Equal(t, []string{domain.RoutingKeyProgressUpdated}, routingKeys(t, outboxRepo))
		cache.AssertExpectations(t)
	})

	t.Run("no fields supplied", func(t *testing.T) {
		uow := new(mockUnitOfWork)

		err := NewUpdateProgressHandler(new(mockProgressRepo), new(mockOutboxRepo), uow, nil).Handle(ctx, UpdateProgressCommand{
			UserID: userID, EntryID: uuid.New(),
		})

		assert.ErrorIs(t, err, domain.ErrNoChanges)
		uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("entry of another user is not found", func(t *testing.T) {
		entry := storedEntry(t, storedHabit(t, uuid.New()), "2026-05-01")
		progress := new(mockProgressRepo)
		uow := new(mockUnitOfWork)

		uow.On("Begin", ctx).Return(txCtx, nil)
		progress.On("FindByID", txCtx, entry.ID()).Return(entry, nil)
		uow.On("Rollback", txCtx).Return(nil)

		note := "x"
		err := NewUpdateProgressHandler(progress, new(mockOutboxRepo), uow, nil).Handle(ctx, UpdateProgressCommand{
			UserID: userID, EntryID: entry.ID(), Note: &note,
		})

		assert.ErrorIs(t, err, domain.ErrProgressNotFound)
	})
}

func TestDeleteProgressHandler_Handle(t *testing.T) {
	ctx := context.Background()
	txCtx := context.WithValue(ctx, "tx", "transaction")
	userID := uuid.New()

	t.Run("deletes entry and records event", func(t *testing.T) {
		habit := storedHabit(t, userID)
		entry := storedEntry(t, habit, "2026-05-01")
		progress := new(mockProgressRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		cache := new(mockCache)

		uow.On("Begin", ctx).Return(txCtx, nil)
		progress.On("FindByID", txCtx, entry.ID()).Return(entry, nil)
		progress.On("Delete", txCtx, entry.ID()).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.Anything).Return(nil)
		uow.On("Commit", txCtx).Return(nil)
		cache.On("InvalidateHabit", ctx, habit.ID().String()).Return()
		cache.On("InvalidateUser", ctx, userID.String()).Return()

		err := NewDeleteProgressHandler(progress, outboxRepo, uow, cache).Handle(ctx, DeleteProgressCommand{
			UserID: userID, EntryID: entry.ID(),
		})

		require.NoError(t, err)
		assert.Equal(t, []string{domain.RoutingKeyProgressDeleted}, routingKeys(t, outboxRepo))
		progress.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("missing entry", func(t *testing.T) {
		progress := new(mockProgressRepo)
		uow := new(mockUnitOfWork)
		id := uuid.New()

		uow.On("Begin", ctx).Return(txCtx, nil)
		progress.On("FindByID", txCtx, id).Return(nil, nil)
		uow.On("Rollback", txCtx).Return(nil)

		err := NewDeleteProgressHandler(progress, new(mockOutboxRepo), uow, nil).Handle(ctx, DeleteProgressCommand{
			UserID: userID, EntryID: id,
		})

		assert.ErrorIs(t, err, domain.ErrProgressNotFound)
	})
}

// uniqueViolation produces a real driver error by violating a unique index.
func uniqueViolation(t *testing.T) error {
	t.Helper()
	db, err := openMemoryDB()
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE t (k TEXT UNIQUE)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO t (k) VALUES ('a')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO t (k) VALUES ('a')`)
	require.Error(t, err)

	require.True(t, database.IsUniqueViolation(err))
	return err
}
