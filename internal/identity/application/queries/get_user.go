package queries

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/internal/identity/domain"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

// UserDTO is the read model of a user.
type UserDTO struct {
	ID     uuid.UUID `json:"id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	Active bool      `json:"active"`
}

// GetUserQuery selects a user by ID.
type GetUserQuery struct {
	UserID uuid.UUID
}

// GetUserHandler handles GetUserQuery.
type GetUserHandler struct {
	userRepo domain.UserRepository
}

// NewGetUserHandler creates a new GetUserHandler.
func NewGetUserHandler(userRepo domain.UserRepository) *GetUserHandler {
	return &GetUserHandler{userRepo: userRepo}
}

// Handle returns the user or ErrUserNotFound.
func (h *GetUserHandler) Handle(ctx context.Context, query GetUserQuery) (*UserDTO, error) {
	user, err := h.userRepo.FindByID(ctx, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: load user: %v", sharedDomain.ErrTransient, err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	return &UserDTO{
		ID:     user.ID(),
		Email:  user.Email().String(),
		Name:   user.Name().String(),
		Active: user.IsActive(),
	}, nil
}
