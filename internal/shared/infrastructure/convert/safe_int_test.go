package convert

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntToInt32Clamped(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int32
	}{
		{"pool size", 25, 25},
		{"zero", 0, 0},
		{"max bound", math.MaxInt32, math.MaxInt32},
		{"above max", math.MaxInt32 + 10, math.MaxInt32},
		{"below min", math.MinInt32 - 10, math.MinInt32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IntToInt32Clamped(tt.in))
		})
	}
}

func TestIntToUintSafe(t *testing.T) {
	t.Run("retry exponent", func(t *testing.T) {
		assert.Equal(t, uint(3), IntToUintSafe(3))
	})

	t.Run("panics on negative", func(t *testing.T) {
		assert.Panics(t, func() { IntToUintSafe(-1) })
	})
}
