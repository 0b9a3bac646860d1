package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-05-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("05/01/2025")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestTripDays(t *testing.T) {
	start := time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, TripDays(start, start))
	assert.Equal(t, 3, TripDays(start, start.AddDate(0, 0, 2)))
	assert.Equal(t, 0, TripDays(start, start.AddDate(0, 0, -1)))
}

func TestClockMinutes(t *testing.T) {
	assert.Equal(t, 9*60+30, ClockMinutes("09:30"))
	assert.Equal(t, 7*60, ClockMinutes("7:00"))
	assert.Equal(t, -1, ClockMinutes("24:00"))
	assert.Equal(t, -1, ClockMinutes("morning"))
	assert.True(t, IsClock("23:59"))
	assert.False(t, IsClock("9am"))
}
