package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDay(t *testing.T) {
	t.Run("truncates time of day", func(t *testing.T) {
		d := NewDay(time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC))
		assert.Equal(t, "2024-03-10", d.String())
	})

	t.Run("counts days across month boundary", func(t *testing.T) {
		start, err := ParseDay("2024-02-27")
		require.NoError(t, err)
		end, err := ParseDay("2024-03-02")
		require.NoError(t, err)

		assert.Equal(t, 4, start.DaysUntil(end))
		assert.Equal(t, -4, end.DaysUntil(start))
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		_, err := ParseDay("10/03/2024")
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("round trips through JSON", func(t *testing.T) {
		d, _ := ParseDay("2024-01-05")
		b, err := json.Marshal(d)
		require.NoError(t, err)
		assert.Equal(t, `"2024-01-05"`, string(b))

		var out Day
		require.NoError(t, json.Unmarshal(b, &out))
		assert.True(t, d.Equals(out))
	})
}

func TestNewWindow(t *testing.T) {
	end, _ := ParseDay("2024-06-30")

	t.Run("accepts a single day", func(t *testing.T) {
		w, err := NewWindow(end, end)
		require.NoError(t, err)
		assert.Equal(t, 1, w.Days())
	})

	t.Run("rejects start after end", func(t *testing.T) {
		_, err := NewWindow(end.AddDays(1), end)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("rejects windows wider than a year", func(t *testing.T) {
		start, _ := ParseDay("2023-06-29")
		_, err := NewWindow(start, end)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("accepts exactly one year", func(t *testing.T) {
		start, _ := ParseDay("2023-06-30")
		w, err := NewWindow(start, end)
		require.NoError(t, err)
		assert.Equal(t, 367, w.Days())
	})

	t.Run("rejects zero bounds", func(t *testing.T) {
		_, err := NewWindow(Day{}, end)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})
}

func TestTrailingWindow(t *testing.T) {
	today, _ := ParseDay("2024-06-30")

	w, err := TrailingWindow(today, 7)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-24", w.Start.String())
	assert.Equal(t, 7, w.Days())
	assert.True(t, w.Contains(today))
	assert.False(t, w.Contains(today.AddDays(-7)))

	for _, days := range []int{0, -1, MaxWindow + 1} {
		_, err := TrailingWindow(today, days)
		assert.ErrorIs(t, err, ErrInvalidWindow, "days=%d", days)
	}
}
