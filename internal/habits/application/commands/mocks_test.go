package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/internal/habits/domain"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/outbox"
	"github.com/stretchr/testify/mock"
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

type mockProgressRepo struct {
	mock.Mock
}

func (m *mockProgressRepo) Save(ctx context.Context, entry *domain.ProgressEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockProgressRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProgressRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.ProgressEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressEntry), args.Error(1)
}

func (m *mockProgressRepo) FindByHabitBetween(ctx context.Context, habitID uuid.UUID, window sharedDomain.Window) ([]*domain.ProgressEntry, error) {
	args := m.Called(ctx, habitID, window)
	return args.Get(0).([]*domain.ProgressEntry), args.Error(1)
}

func (m *mockProgressRepo) FindByUserBetween(ctx context.Context, userID uuid.UUID, window sharedDomain.Window) ([]*domain.ProgressEntry, error) {
	args := m.Called(ctx, userID, window)
	return args.Get(0).([]*domain.ProgressEntry), args.Error(1)
}

func (m *mockProgressRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ProgressEntry, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*domain.ProgressEntry), args.Error(1)
}

func (m *mockProgressRepo) LatestForHabit(ctx context.Context, habitID uuid.UUID) (*domain.ProgressEntry, error) {
	args := m.Called(ctx, habitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressEntry), args.Error(1)
}

func (m *mockProgressRepo) DatesForHabit(ctx context.Context, habitID uuid.UUID) ([]sharedDomain.Day, error) {
	args := m.Called(ctx, habitID)
	return args.Get(0).([]sharedDomain.Day), args.Error(1)
}

func (m *mockProgressRepo) DatesForUser(ctx context.Context, userID uuid.UUID) ([]sharedDomain.Day, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]sharedDomain.Day), args.Error(1)
}

func (m *mockProgressRepo) ExistsFor(ctx context.Context, userID, habitID uuid.UUID, day sharedDomain.Day) (bool, error) {
	args := m.Called(ctx, userID, habitID, day)
	return args.Bool(0), args.Error(1)
}

func (m *mockProgressRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockProgressRepo) CountByHabit(ctx context.Context, habitID uuid.UUID) (int, error) {
	args := m.Called(ctx, habitID)
	return args.Int(0), args.Error(1)
}

type mockOutboxRepo struct {
	mock.Mock
}

func (m *mockOutboxRepo) Save(ctx context.Context, msg *outbox.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *mockOutboxRepo) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	return m.Called(ctx, msgs).Error(0)
}

func (m *mockOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockOutboxRepo) MarkPublished(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockOutboxRepo) MarkFailed(ctx context.Context, id int64, err string, nextRetryAt time.Time) error {
	return m.Called(ctx, id, err, nextRetryAt).Error(0)
}

func (m *mockOutboxRepo) MarkDead(ctx context.Context, id int64, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func (m *mockOutboxRepo) DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) InvalidateUser(ctx context.Context, userID string) {
	m.Called(ctx, userID)
}

func (m *mockCache) InvalidateHabit(ctx context.Context, habitID string) {
	m.Called(ctx, habitID)
}
