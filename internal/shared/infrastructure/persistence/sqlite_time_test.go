package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteTime(t *testing.T) {
	at := time.Date(2025, 3, 9, 8, 30, 0, 5, time.FixedZone("CET", 3600))

	formatted := FormatSQLiteTime(at)
	assert.Equal(t, "2025-03-09T07:30:00.000000005Z", formatted)

	parsed, err := ParseSQLiteTime(formatted)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(at))

	parsed, err = ParseSQLiteTime("2025-03-09T07:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 7, parsed.Hour())

	earlier := FormatSQLiteTime(at.Add(-time.Second))
	later := FormatSQLiteTime(at.Add(time.Millisecond))
	assert.Less(t, earlier, formatted)
	assert.Less(t, formatted, later)
}
