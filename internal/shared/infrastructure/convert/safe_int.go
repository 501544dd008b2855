// Package convert holds the integer narrowing used by the database pool and
// the outbox backoff.
package convert

import (
	"fmt"
	"math"
)

// IntToInt32Clamped narrows v to int32, saturating at the int32 bounds.
func IntToInt32Clamped(v int) int32 {
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	}
	return int32(v)
}

// IntToUintSafe converts v to uint and panics when v is negative.
// Callers must guarantee v >= 0.
func IntToUintSafe(v int) uint {
	if v < 0 {
		panic(fmt.Sprintf("convert: negative value %d has no uint form", v))
	}
	return uint(v)
}
