package persistence

import "time"

// SQLiteTimeLayout is fixed width so stored timestamps order correctly as text.
const SQLiteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatSQLiteTime renders t in UTC with SQLiteTimeLayout.
func FormatSQLiteTime(t time.Time) string {
	return t.UTC().Format(SQLiteTimeLayout)
}

// ParseSQLiteTime accepts SQLiteTimeLayout and plain RFC 3339 values.
func ParseSQLiteTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
