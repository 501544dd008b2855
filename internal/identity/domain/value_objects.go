package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

var (
	ErrInvalidEmail = fmt.Errorf("%w: invalid email address", sharedDomain.ErrInvalidArgument)
	ErrEmptyName    = fmt.Errorf("%w: display name cannot be empty", sharedDomain.ErrInvalidArgument)
	ErrNameTooLong  = fmt.Errorf("%w: display name exceeds %d characters", sharedDomain.ErrInvalidArgument, MaxNameLength)
)

// MaxNameLength bounds a display name, counted in runes.
const MaxNameLength = 100

// Local part, then a dotted domain ending in a TLD of two letters or more.
var emailPattern = regexp.MustCompile(`^[a-z0-9+_.%-]+@[a-z0-9-]+(\.[a-z0-9-]+)*\.[a-z]{2,}$`)

// Email is a lower-cased, trimmed address. Two users cannot share one.
type Email struct {
	value string
}

func NewEmail(raw string) (Email, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if !emailPattern.MatchString(value) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: value}, nil
}

func (e Email) String() string { return e.value }

// Equals compares the normalized addresses.
func (e Email) Equals(other Email) bool { return e.value == other.value }

// Name is the display name shown in summaries and prompts.
type Name struct {
	value string
}

func NewName(raw string) (Name, error) {
	value := strings.Join(strings.Fields(raw), " ")
	switch {
	case value == "":
		return Name{}, ErrEmptyName
	case utf8.RuneCountInString(value) > MaxNameLength:
		return Name{}, ErrNameTooLong
	}
	return Name{value: value}, nil
}

func (n Name) String() string { return n.value }

func (n Name) Equals(other Name) bool { return n.value == other.value }
