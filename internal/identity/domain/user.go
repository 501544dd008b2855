package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

var (
	ErrUserNotFound = fmt.Errorf("%w: user not found", sharedDomain.ErrNotFound)
	ErrEmailTaken   = fmt.Errorf("%w: email already registered", sharedDomain.ErrConflict)
)

// User is a person whose habits are tracked.
type User struct {
	sharedDomain.BaseAggregateRoot
	email  Email
	name   Name
	active bool
}

// NewUser registers a new active user.
func NewUser(email Email, name Name) *User {
	u := &User{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		email:             email,
		name:              name,
		active:            true,
	}

	u.AddDomainEvent(NewUserRegistered(u.ID(), email.String(), name.String()))

	return u
}

// NewUserWithID registers a user with a fixed ID, used to seed the default CLI user.
func NewUserWithID(id uuid.UUID, email Email, name Name) *User {
	now := time.Now().UTC()
	u := &User{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(sharedDomain.RehydrateBaseEntity(id, now, now)),
		email:             email,
		name:              name,
		active:            true,
	}
	u.AddDomainEvent(NewUserRegistered(id, email.String(), name.String()))
	return u
}

// RehydrateUser recreates a user from persisted state.
func RehydrateUser(base sharedDomain.BaseAggregateRoot, email Email, name Name, active bool) *User {
	return &User{
		BaseAggregateRoot: base,
		email:             email,
		name:              name,
		active:            active,
	}
}

func (u *User) Email() Email   { return u.email }
func (u *User) Name() Name     { return u.name }
func (u *User) IsActive() bool { return u.active }

// Rename changes the display name.
func (u *User) Rename(name Name) {
	if u.name.Equals(name) {
		return
	}
	u.name = name
	u.Touch()
}

// Deactivate marks the account inactive.
func (u *User) Deactivate() {
	if !u.active {
		return
	}
	u.active = false
	u.Touch()
}

// Activate reactivates a deactivated account.
func (u *User) Activate() {
	if u.active {
		return
	}
	u.active = true
	u.Touch()
}
