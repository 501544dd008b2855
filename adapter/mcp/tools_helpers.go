package mcp

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

func parseUUID(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.UUID{}, errors.New("id is required")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid id: %w", err)
	}
	return id, nil
}

func parseOptionalUUID(value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := parseUUID(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseDay returns the zero Day for an empty value.
func parseDay(value string) (sharedDomain.Day, error) {
	if value == "" {
		return sharedDomain.Day{}, nil
	}
	day, err := sharedDomain.ParseDay(value)
	if err != nil {
		return sharedDomain.Day{}, fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
	}
	return day, nil
}

func resolveWindow(from, to string, days int) (sharedDomain.Window, error) {
	if days <= 0 {
		days = 30
	}
	today := sharedDomain.Today()
	if from == "" && to == "" {
		return sharedDomain.TrailingWindow(today, days)
	}

	start, err := parseDay(from)
	if err != nil {
		return sharedDomain.Window{}, err
	}
	end, err := parseDay(to)
	if err != nil {
		return sharedDomain.Window{}, err
	}
	if end.IsZero() {
		end = today
	}
	if start.IsZero() {
		start = end.AddDays(-(days - 1))
	}
	return sharedDomain.NewWindow(start, end)
}
