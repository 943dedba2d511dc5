package parking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayRange_IncludesWholeLastDay(t *testing.T) {
	from := time.Date(2025, 1, 1, 15, 30, 0, 0, time.UTC)
	to := time.Date(2025, 1, 3, 8, 0, 0, 0, time.UTC)

	tr, err := DayRange(from, to, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), tr.Start)
	assert.Equal(t, time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC), tr.End)
	assert.True(t, tr.Contains(time.Date(2025, 1, 3, 23, 59, 59, 0, time.UTC)))
	assert.False(t, tr.Contains(tr.End))
}

func TestDayRange_SameDay(t *testing.T) {
	d := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	tr, err := DayRange(d, d, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, tr.End.Sub(tr.Start))
}

func TestDayRange_Reversed(t *testing.T) {
	from := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)
	_, err := DayRange(from, to, time.UTC)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDayRange_Zone(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	d, err := ParseDate("2025-02-01", loc)
	require.NoError(t, err)

	tr, err := DayRange(d, d, loc)
	require.NoError(t, err)
	assert.True(t, tr.Start.Equal(time.Date(2025, 1, 31, 21, 0, 0, 0, time.UTC)))
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("01/02/2025", time.UTC)
	assert.ErrorIs(t, err, ErrValidation)
}
