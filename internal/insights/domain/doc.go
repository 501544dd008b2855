// Package domain holds the pure analytics of habit progress: streaks,
// windowed trend analysis and consistency scoring. Nothing here reads the
// wall clock or a store; callers pass "today" and the data explicitly.
package domain
