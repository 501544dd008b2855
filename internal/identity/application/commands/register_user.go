package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/internal/identity/domain"
	sharedApplication "github.com/jplande/HabitTracker/internal/shared/application"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/database"
	"github.com/jplande/HabitTracker/internal/shared/infrastructure/outbox"
)

// RegisterUserCommand contains the data needed to register a user. ID is
// optional; when set the user is created with that identity.
type RegisterUserCommand struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// RegisterUserResult contains the result of registering a user.
type RegisterUserResult struct {
	UserID uuid.UUID `json:"user_id"`
}

// RegisterUserHandler handles the RegisterUserCommand.
type RegisterUserHandler struct {
	userRepo   domain.UserRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewRegisterUserHandler creates a new RegisterUserHandler.
func NewRegisterUserHandler(userRepo domain.UserRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *RegisterUserHandler {
	return &RegisterUserHandler{
		userRepo:   userRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the RegisterUserCommand. A duplicate email is a conflict.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*RegisterUserResult, error) {
	email, err := domain.NewEmail(cmd.Email)
	if err != nil {
		return nil, err
	}
	name, err := domain.NewName(cmd.Name)
	if err != nil {
		return nil, err
	}

	var result *RegisterUserResult
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		exists, err := h.userRepo.ExistsByEmail(txCtx, email)
		if err != nil {
			return fmt.Errorf("%w: check email: %v", sharedDomain.ErrTransient, err)
		}
		if exists {
			return domain.ErrEmailTaken
		}

		var user *domain.User
		if cmd.ID != uuid.Nil {
			user = domain.NewUserWithID(cmd.ID, email, name)
		} else {
			user = domain.NewUser(email, name)
		}

		if err := h.userRepo.Save(txCtx, user); err != nil {
			if database.IsUniqueViolation(err) {
				return domain.ErrEmailTaken
			}
			return fmt.Errorf("%w: save user: %v", sharedDomain.ErrTransient, err)
		}

		events := user.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, user.ID()))
		msgs, err := outbox.NewMessages(events)
		if err != nil {
			return err
		}
		if err := h.outboxRepo.SaveBatch(txCtx, msgs); err != nil {
			return fmt.Errorf("%w: save outbox: %v", sharedDomain.ErrTransient, err)
		}

		result = &RegisterUserResult{UserID: user.ID()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
