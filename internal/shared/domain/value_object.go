package domain

import (
	"fmt"
	"time"
)

// ValueObject represents an immutable domain concept defined by its attributes.
type ValueObject interface {
	Equals(other ValueObject) bool
}

// DayLayout is the storage and wire format of a calendar day.
const DayLayout = "2006-01-02"

// MaxWindow is the widest range analytics will compute over.
const MaxWindow = 366

// Day is a calendar day without a time component, pinned to UTC midnight.
type Day struct {
	t time.Time
}

// NewDay truncates t to its calendar day in t's own location.
func NewDay(t time.Time) Day {
	y, m, d := t.Date()
	return Day{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: day %q: %v", ErrInvalidArgument, s, err)
	}
	return Day{t: t}, nil
}

// Today returns the current calendar day.
func Today() Day { return NewDay(time.Now()) }

func (d Day) Time() time.Time   { return d.t }
func (d Day) String() string    { return d.t.Format(DayLayout) }
func (d Day) IsZero() bool      { return d.t.IsZero() }
func (d Day) AddDays(n int) Day { return Day{t: d.t.AddDate(0, 0, n)} }
func (d Day) Before(o Day) bool { return d.t.Before(o.t) }
func (d Day) After(o Day) bool  { return d.t.After(o.t) }
func (d Day) YearDay() int      { return d.t.YearDay() }
func (d Day) Year() int         { return d.t.Year() }
func (d Day) Month() time.Month { return d.t.Month() }

// DaysUntil returns the number of whole days from d to o (negative if o is earlier).
func (d Day) DaysUntil(o Day) int {
	return int(o.t.Sub(d.t).Hours() / 24)
}

// Equals checks if two days are the same calendar day.
func (d Day) Equals(other ValueObject) bool {
	if o, ok := other.(Day); ok {
		return d.t.Equal(o.t)
	}
	return false
}

// MarshalText encodes the day as YYYY-MM-DD.
func (d Day) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a YYYY-MM-DD day.
func (d *Day) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Day{}
		return nil
	}
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Window is an inclusive range of calendar days.
type Window struct {
	Start Day
	End   Day
}

// NewWindow validates an inclusive [start, end] range. The range must be
// ordered and no wider than one calendar year.
func NewWindow(start, end Day) (Window, error) {
	if start.IsZero() || end.IsZero() {
		return Window{}, fmt.Errorf("%w: start and end are required", ErrInvalidWindow)
	}
	if start.After(end) {
		return Window{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidWindow, start, end)
	}
	if start.Before(Day{t: end.t.AddDate(-1, 0, 0)}) {
		return Window{}, fmt.Errorf("%w: range %s..%s exceeds one year", ErrInvalidWindow, start, end)
	}
	return Window{Start: start, End: end}, nil
}

// TrailingWindow returns the last days days ending at today, inclusive.
func TrailingWindow(today Day, days int) (Window, error) {
	if days < 1 || days > MaxWindow {
		return Window{}, fmt.Errorf("%w: window of %d days must be between 1 and %d", ErrInvalidWindow, days, MaxWindow)
	}
	return NewWindow(today.AddDays(-(days - 1)), today)
}

// Days returns the number of calendar days in the window.
func (w Window) Days() int {
	return w.Start.DaysUntil(w.End) + 1
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d Day) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}
