package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC)
	b := time.Date(2024, 2, 10, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 10, DaysBetween(a, b))
	assert.Equal(t, -10, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}

func TestDaysBetweenAcrossLeapDay(t *testing.T) {
	a := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, DaysBetween(a, b))
}

func TestTodayUsesClock(t *testing.T) {
	fixed := time.Date(2025, 6, 15, 22, 30, 0, 0, time.UTC) // 02:30 on the 16th in Muscat
	restore := SetClock(func() time.Time { return fixed })
	defer restore()

	require.NoError(t, SetLocation(DefaultZone))
	today := Today()
	assert.Equal(t, 16, today.Day())
	assert.Equal(t, 0, today.Hour())
}
