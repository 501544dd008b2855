package domain

import "errors"

// Error taxonomy shared by every bounded context. Context-specific errors wrap
// one of these so callers can classify failures with errors.Is.
var (
	// ErrNotFound means a referenced user, habit or entry does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means the write would violate a uniqueness invariant.
	ErrConflict = errors.New("conflict")
	// ErrInvalidWindow means a date range is malformed or too large.
	ErrInvalidWindow = errors.New("invalid window")
	// ErrInvalidArgument means a caller supplied a value the domain rejects.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrTransient means a store or backend was unavailable.
	ErrTransient = errors.New("transient failure")
)

// IsNotFound reports whether err is classified as not found.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err is classified as a conflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
