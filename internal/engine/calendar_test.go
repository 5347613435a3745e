package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWeekSkipsRestDay(t *testing.T) {
	// 2025-09-05 is a Friday; the following Sunday must be skipped.
	start := time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC)
	days := BuildWeek(start, time.Sunday)

	require.Len(t, days, 6)
	assert.Equal(t, []string{"Friday", "Saturday", "Monday", "Tuesday", "Wednesday", "Thursday"}, days)
	assert.NotContains(t, days, "Sunday")
}

func TestBuildWeekStartsOnRestDay(t *testing.T) {
	// Starting on the rest day itself begins the week one day later.
	start := time.Date(2025, 9, 7, 0, 0, 0, 0, time.UTC)
	days := BuildWeek(start, time.Sunday)

	require.Len(t, days, 6)
	assert.Equal(t, "Monday", days[0])
}

func TestBuildWeekZeroStartFallsBack(t *testing.T) {
	days := BuildWeek(time.Time{}, time.Sunday)
	require.Len(t, days, 6)
	assert.NotContains(t, days, "Sunday")
}

func TestBuildWeekDeterministic(t *testing.T) {
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, BuildWeek(start, time.Sunday), BuildWeek(start, time.Sunday))
}
