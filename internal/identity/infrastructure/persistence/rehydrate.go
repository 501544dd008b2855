package persistence

import (
	"time"

	"github.com/google/uuid"
	"github.com/jplande/HabitTracker/internal/identity/domain"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

func rehydrate(id uuid.UUID, rawEmail, rawName string, active bool, createdAt, updatedAt time.Time) (*domain.User, error) {
	email, err := domain.NewEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	name, err := domain.NewName(rawName)
	if err != nil {
		return nil, err
	}

	base := sharedDomain.RehydrateBaseAggregateRoot(sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt))
	return domain.RehydrateUser(base, email, name, active), nil
}
