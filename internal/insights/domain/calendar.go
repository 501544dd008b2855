package domain

import (
	"fmt"

	sharedDomain "github.com/jplande/HabitTracker/internal/shared/domain"
)

// WeekKey labels the week of d as YYYY-Sww, with week = dayOfYear/7 + 1.
func WeekKey(d sharedDomain.Day) string {
	return fmt.Sprintf("%d-S%02d", d.Year(), d.YearDay()/7+1)
}

// MonthKey labels the month of d as YYYY-MM.
func MonthKey(d sharedDomain.Day) string {
	return fmt.Sprintf("%d-%02d", d.Year(), int(d.Month()))
}

// ChartLabel formats d as dd/MM.
func ChartLabel(d sharedDomain.Day) string {
	return d.Time().Format("02/01")
}
