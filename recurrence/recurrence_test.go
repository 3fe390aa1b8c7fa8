package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpandDailyHalfOpen(t *testing.T) {
	start := date(2024, time.March, 1)
	end := date(2024, time.March, 8)

	dates, err := Expand(start, end, Daily, 0)
	require.NoError(t, err)

	// [start, end): ровно 7 дат, end не входит
	require.Len(t, dates, 7)
	assert.Equal(t, start, dates[0])
	assert.Equal(t, date(2024, time.March, 7), dates[len(dates)-1])

	for i := 1; i < len(dates); i++ {
		assert.Equal(t, dates[i-1].AddDate(0, 0, 1), dates[i])
	}
}

func TestExpandDailySameDay(t *testing.T) {
	d := date(2024, time.March, 1)
	dates, err := Expand(d, d, Daily, 0)
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestExpandWeeklyInclusiveEnd(t *testing.T) {
	// Понедельник 2024-01-01 .. понедельник 2024-01-29 по понедельникам:
	// конец диапазона, в отличие от daily, включается.
	dates, err := Expand(date(2024, time.January, 1), date(2024, time.January, 29), Weekly, time.Monday)
	require.NoError(t, err)

	expected := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 8),
		date(2024, time.January, 15),
		date(2024, time.January, 22),
		date(2024, time.January, 29),
	}
	assert.Equal(t, expected, dates)
}

func TestExpandWeeklyTargetWeekdayAndSpacing(t *testing.T) {
	dates, err := Expand(date(2024, time.February, 1), date(2024, time.March, 15), Weekly, time.Friday)
	require.NoError(t, err)
	require.NotEmpty(t, dates)

	for _, d := range dates {
		assert.Equal(t, time.Friday, d.Weekday())
	}
	for i := 1; i < len(dates); i++ {
		assert.Equal(t, dates[i-1].AddDate(0, 0, 7), dates[i])
	}
}

func TestExpandWeeklyNoMatchInRange(t *testing.T) {
	// Среда..пятница, цель - понедельник: ни одной даты.
	dates, err := Expand(date(2024, time.January, 3), date(2024, time.January, 5), Weekly, time.Monday)
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestExpandMissingEndDate(t *testing.T) {
	_, err := Expand(date(2024, time.January, 1), time.Time{}, Daily, 0)
	assert.ErrorIs(t, err, ErrMissingEndDate)
}

func TestExpandInvalidRange(t *testing.T) {
	_, err := Expand(date(2024, time.January, 2), date(2024, time.January, 1), Daily, 0)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestExpandUnknownFrequency(t *testing.T) {
	_, err := Expand(date(2024, time.January, 1), date(2024, time.January, 2), Frequency("monthly"), 0)
	assert.ErrorIs(t, err, ErrUnknownFrequency)
}

func TestExpandNormalizesTimeOfDay(t *testing.T) {
	start := time.Date(2024, time.March, 1, 15, 30, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 3, 8, 0, 0, 0, time.UTC)

	dates, err := Expand(start, end, Daily, 0)
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, date(2024, time.March, 1), dates[0])
}

func TestParseFrequency(t *testing.T) {
	f, err := ParseFrequency("Daily")
	require.NoError(t, err)
	assert.Equal(t, Daily, f)

	f, err = ParseFrequency("weekly")
	require.NoError(t, err)
	assert.Equal(t, Weekly, f)

	_, err = ParseFrequency("fortnightly")
	assert.ErrorIs(t, err, ErrUnknownFrequency)
}

func TestParseWeekday(t *testing.T) {
	d, err := ParseWeekday("Monday")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d)

	_, err = ParseWeekday("Someday")
	assert.ErrorIs(t, err, ErrUnknownWeekday)
}

func TestMidnightUsesUTCCalendarDay(t *testing.T) {
	// 10 июня 02:30 в UTC+5 - это ещё 9 июня по UTC
	loc := time.FixedZone("UTC+5", 5*60*60)
	got := Midnight(time.Date(2024, time.June, 10, 2, 30, 0, 0, loc))
	assert.Equal(t, date(2024, time.June, 9), got)
}
