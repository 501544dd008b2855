package domain

import (
	"fmt"

	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

var (
	ErrHabitNotFound    = fmt.Errorf("%w: habit not found", sharedDomain.ErrNotFound)
	ErrProgressNotFound = fmt.Errorf("%w: progress entry not found", sharedDomain.ErrNotFound)

	ErrProgressExists = fmt.Errorf("%w: progress already logged for this day", sharedDomain.ErrConflict)

	ErrEmptyTitle       = fmt.Errorf("%w: habit title cannot be empty", sharedDomain.ErrInvalidArgument)
	ErrTitleTooLong     = fmt.Errorf("%w: habit title exceeds 100 characters", sharedDomain.ErrInvalidArgument)
	ErrDescriptionLong  = fmt.Errorf("%w: description exceeds 500 characters", sharedDomain.ErrInvalidArgument)
	ErrEmptyUnit        = fmt.Errorf("%w: unit cannot be empty", sharedDomain.ErrInvalidArgument)
	ErrUnitTooLong      = fmt.Errorf("%w: unit exceeds 50 characters", sharedDomain.ErrInvalidArgument)
	ErrInvalidTarget    = fmt.Errorf("%w: target must be a positive finite number", sharedDomain.ErrInvalidArgument)
	ErrInvalidCategory  = fmt.Errorf("%w: unknown habit category", sharedDomain.ErrInvalidArgument)
	ErrInvalidFrequency = fmt.Errorf("%w: unknown habit frequency", sharedDomain.ErrInvalidArgument)
	ErrNoChanges        = fmt.Errorf("%w: no changes supplied", sharedDomain.ErrInvalidArgument)

	ErrHabitInactive  = fmt.Errorf("%w: habit is inactive", sharedDomain.ErrInvalidArgument)
	ErrNegativeValue  = fmt.Errorf("%w: progress value cannot be negative", sharedDomain.ErrInvalidArgument)
	ErrNonFiniteValue = fmt.Errorf("%w: progress value must be a finite number", sharedDomain.ErrInvalidArgument)
	ErrFutureDay      = fmt.Errorf("%w: progress cannot be logged for a future day", sharedDomain.ErrInvalidArgument)
	ErrNoteTooLong    = fmt.Errorf("%w: note exceeds 500 characters", sharedDomain.ErrInvalidArgument)
)
