package generic_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/vacancy-engine/generic"
)

// =============================================================================
// DATES AND CLOCK TIMES
// =============================================================================

func TestParseDate(t *testing.T) {
	d, err := generic.ParseDate("2025-03-04")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-04", d.Key())
	assert.Equal(t, time.Tuesday, d.Weekday())
	assert.False(t, d.IsWeekend())
	assert.True(t, d.AddDays(4).IsWeekend())

	for _, bad := range []string{"", "2025-02-30", "04/03/2025", "2025-3-4"} {
		_, err := generic.ParseDate(bad)
		assert.ErrorIs(t, err, generic.ErrInvalidDate, bad)
	}
}

func TestDateOf_TruncatesInstant(t *testing.T) {
	at := time.Date(2025, 3, 4, 23, 59, 0, 0, time.UTC)
	assert.True(t, generic.DateOf(at).Equal(generic.MustParseDate("2025-03-04")))
}

func TestParseClockTime(t *testing.T) {
	c, err := generic.ParseClockTime("21:30")
	require.NoError(t, err)
	assert.Equal(t, "21:30", c.String())
	assert.Equal(t, 21*time.Hour+30*time.Minute, c.Offset())

	for _, bad := range []string{"24:00", "7:5", "noon", ""} {
		_, err := generic.ParseClockTime(bad)
		assert.ErrorIs(t, err, generic.ErrInvalidClockTime, bad)
	}
}

func TestTimePoint_At(t *testing.T) {
	d := generic.MustParseDate("2025-03-04")
	at := d.At(generic.NewClockTime(8, 15))
	assert.Equal(t, time.Date(2025, 3, 4, 8, 15, 0, 0, time.UTC), at)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), d.Midnight())
}

// =============================================================================
// PERIODS
// =============================================================================

func TestPeriod(t *testing.T) {
	start := generic.MustParseDate("2025-03-04")
	end := generic.MustParseDate("2025-03-06")

	p, err := generic.NewPeriod(start, end)
	require.NoError(t, err)
	assert.True(t, p.Contains(start))
	assert.True(t, p.Contains(end))
	assert.False(t, p.Contains(end.AddDays(1)))
	assert.Len(t, p.Days(), 3)
	assert.Equal(t, "[2025-03-04, 2025-03-06]", p.String())

	_, err = generic.NewPeriod(end, start)
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)
}

// =============================================================================
// CALENDAR
// =============================================================================

func TestCalendarFromHolidays(t *testing.T) {
	cal := generic.NewCalendarFromHolidays([]generic.Holiday{
		{Date: generic.MustParseDate("2025-12-25"), Name: "Juldagen", Major: true},
		{Date: generic.MustParseDate("2025-05-01"), Name: "Första maj"},
	})

	assert.True(t, cal.IsMajorHoliday(generic.MustParseDate("2025-12-25")))
	assert.False(t, cal.IsHoliday(generic.MustParseDate("2025-12-25")))
	assert.True(t, cal.IsHoliday(generic.MustParseDate("2025-05-01")))
	assert.False(t, cal.IsHoliday(generic.MustParseDate("2025-05-02")))

	assert.Equal(t, []generic.TimePoint{generic.MustParseDate("2025-05-01")}, cal.Holidays())
	assert.Equal(t, []generic.TimePoint{generic.MustParseDate("2025-12-25")}, cal.MajorHolidays())
}

func TestCalendar_NilIsEmpty(t *testing.T) {
	var cal *generic.Calendar
	assert.False(t, cal.IsHoliday(generic.MustParseDate("2025-12-25")))
	assert.False(t, cal.IsMajorHoliday(generic.MustParseDate("2025-12-25")))
}

// =============================================================================
// HOURS
// =============================================================================

func TestHoursOf(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0"},
		{90 * time.Minute, "1.5"},
		{3*time.Hour + 30*time.Minute, "3.5"},
		{45 * time.Minute, "0.75"},
	}
	for _, tt := range tests {
		got := generic.HoursOf(tt.d)
		assert.True(t, generic.MustParseDecimal(tt.want).Equal(got), "%s: got %s", tt.d, got)
		assert.Equal(t, tt.d, generic.DurationOfHours(got))
	}
}

// =============================================================================
// ERRORS
// =============================================================================

func TestErrorClassification(t *testing.T) {
	parse := &generic.ParseError{Field: "date", Value: "x", Err: generic.ErrInvalidDate}
	record := &generic.RecordError{Kind: "interval", Index: 2, Err: parse}

	assert.True(t, generic.IsClientError(record))
	assert.False(t, generic.IsNotFound(record))
	assert.Contains(t, record.Error(), "interval")

	wrapped := fmt.Errorf("load: %w", generic.ErrRunNotFound)
	assert.True(t, generic.IsNotFound(wrapped))
	assert.False(t, generic.IsClientError(wrapped))

	assert.False(t, generic.IsClientError(errors.New("disk full")))
}
