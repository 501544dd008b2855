package queries

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/internal/identity/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Save(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email domain.Email) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func TestGetUserHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the user", func(t *testing.T) {
		email, _ := domain.NewEmail("ada@example.com")
		name, _ := domain.NewName("Ada")
		user := domain.NewUser(email, name)

		repo := new(mockUserRepo)
		repo.On("FindByID", ctx, user.ID()).Return(user, nil)

		dto, err := NewGetUserHandler(repo).Handle(ctx, GetUserQuery{UserID: user.ID()})

		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", dto.Email)
		assert.True(t, dto.Active)
	})

	t.Run("missing user", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("FindByID", ctx, mock.Anything).Return(nil, nil)

		_, err := NewGetUserHandler(repo).Handle(ctx, GetUserQuery{UserID: uuid.New()})

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
