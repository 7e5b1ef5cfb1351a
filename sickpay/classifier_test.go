package sickpay_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/vacancy-engine/generic"
	"github.com/warp/vacancy-engine/sickpay"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// March 2025: the 3rd and 10th are Mondays, the 7th is a Friday.
var (
	monday   = generic.MustParseDate("2025-03-03")
	tuesday  = generic.MustParseDate("2025-03-04")
	thursday = generic.MustParseDate("2025-03-06")
	friday   = generic.MustParseDate("2025-03-07")
	saturday = generic.MustParseDate("2025-03-08")
)

func at(date generic.TimePoint, clock string) time.Time {
	c, err := generic.ParseClockTime(clock)
	if err != nil {
		panic(err)
	}
	return date.At(c)
}

// swedishCalendar has May 1 (Thursday) as an ordinary holiday and Christmas
// Day as a major holiday listed in both sets.
func swedishCalendar() *generic.Calendar {
	return generic.NewCalendar(
		[]generic.TimePoint{generic.MustParseDate("2025-05-01"), generic.MustParseDate("2025-12-25")},
		[]generic.TimePoint{generic.MustParseDate("2025-12-25")},
	)
}

// =============================================================================
// REGULAR SHIFTS
// =============================================================================

func TestClassify_MajorHolidayCoversWholeDay(t *testing.T) {
	cal := swedishCalendar()
	christmas := generic.MustParseDate("2025-12-25")

	for _, clock := range []string{"00:00", "03:30", "06:59", "07:00", "12:00", "19:00", "22:00", "23:59"} {
		assert.Equal(t, sickpay.OBMajorHoliday, sickpay.Classify(at(christmas, clock), cal), clock)
	}
}

func TestClassify_FridayEveningLooksAhead(t *testing.T) {
	assert.Equal(t, sickpay.OBWeekend, sickpay.Classify(at(friday, "19:00"), nil))
	assert.Equal(t, sickpay.OBWeekend, sickpay.Classify(at(friday, "23:00"), nil))
	assert.Equal(t, sickpay.OBEvening, sickpay.Classify(at(thursday, "19:00"), nil))
	assert.Equal(t, sickpay.OBDay, sickpay.Classify(at(friday, "18:59"), nil))
}

func TestClassify_MondayMorningLooksBehind(t *testing.T) {
	assert.Equal(t, sickpay.OBWeekend, sickpay.Classify(at(monday, "05:00"), nil))
	assert.Equal(t, sickpay.OBWeekend, sickpay.Classify(at(monday, "06:30"), nil))
	assert.Equal(t, sickpay.OBDay, sickpay.Classify(at(monday, "07:00"), nil))
}

func TestClassify_WeekdayTimeOfDay(t *testing.T) {
	tests := []struct {
		clock string
		want  sickpay.OBClass
	}{
		{"00:00", sickpay.OBNight},
		{"05:59", sickpay.OBNight},
		{"06:00", sickpay.OBDay},
		{"06:30", sickpay.OBDay},
		{"12:00", sickpay.OBDay},
		{"18:59", sickpay.OBDay},
		{"19:00", sickpay.OBEvening},
		{"21:59", sickpay.OBEvening},
		{"22:00", sickpay.OBNight},
		{"23:59", sickpay.OBNight},
	}
	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			assert.Equal(t, tt.want, sickpay.Classify(at(tuesday, tt.clock), generic.EmptyCalendar{}))
		})
	}
}

func TestClassify_WeekendAllDay(t *testing.T) {
	for _, clock := range []string{"00:00", "06:30", "12:00", "20:00", "23:00"} {
		assert.Equal(t, sickpay.OBWeekend, sickpay.Classify(at(saturday, clock), nil), clock)
	}
}

func TestClassify_HolidayEveAndMorrow(t *testing.T) {
	cal := swedishCalendar()

	assert.Equal(t, sickpay.OBHoliday, sickpay.Classify(at(generic.MustParseDate("2025-05-01"), "10:00"), cal))
	assert.Equal(t, sickpay.OBHoliday, sickpay.Classify(at(generic.MustParseDate("2025-04-30"), "20:00"), cal))
	assert.Equal(t, sickpay.OBDay, sickpay.Classify(at(generic.MustParseDate("2025-04-30"), "18:00"), cal))
	assert.Equal(t, sickpay.OBHoliday, sickpay.Classify(at(generic.MustParseDate("2025-05-02"), "06:30"), cal))
	assert.Equal(t, sickpay.OBDay, sickpay.Classify(at(generic.MustParseDate("2025-05-02"), "07:00"), cal))

	// Christmas Eve evening and the following early morning take the major premium.
	assert.Equal(t, sickpay.OBMajorHoliday, sickpay.Classify(at(generic.MustParseDate("2025-12-24"), "19:30"), cal))
	assert.Equal(t, sickpay.OBMajorHoliday, sickpay.Classify(at(generic.MustParseDate("2025-12-26"), "05:00"), cal))
}

func TestOBClass_Labels(t *testing.T) {
	assert.Equal(t, "Helg", sickpay.OBHoliday.Label())
	assert.Equal(t, "Helg", sickpay.OBWeekend.Label())
	assert.Equal(t, "Storhelg", sickpay.OBMajorHoliday.Label())
	assert.True(t, sickpay.OBWeekend.Helg())
	assert.False(t, sickpay.OBMajorHoliday.Helg())
	assert.True(t, sickpay.OBOnCallOrdinary.OnCall())
	require.Len(t, sickpay.OBClasses, 8)
}

// =============================================================================
// ON-CALL SHIFTS
// =============================================================================

func TestClassifyOnCall(t *testing.T) {
	cal := swedishCalendar()
	tests := []struct {
		name string
		at   time.Time
		want sickpay.OBClass
	}{
		{"saturday noon", at(saturday, "12:00"), sickpay.OBOnCallPremium},
		{"friday evening", at(friday, "19:00"), sickpay.OBOnCallPremium},
		{"thursday evening", at(thursday, "19:00"), sickpay.OBOnCallOrdinary},
		{"tuesday night", at(tuesday, "23:00"), sickpay.OBOnCallOrdinary},
		{"monday before six", at(monday, "05:30"), sickpay.OBOnCallPremium},
		{"monday after six", at(monday, "06:30"), sickpay.OBOnCallOrdinary},
		{"holiday eve", at(generic.MustParseDate("2025-04-30"), "21:00"), sickpay.OBOnCallPremium},
		{"holiday morrow early", at(generic.MustParseDate("2025-05-02"), "05:00"), sickpay.OBOnCallPremium},
		{"holiday morrow late", at(generic.MustParseDate("2025-05-02"), "06:00"), sickpay.OBOnCallOrdinary},
		{"major holiday", at(generic.MustParseDate("2025-12-25"), "03:00"), sickpay.OBOnCallPremium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sickpay.ClassifyOnCall(tt.at, cal))
		})
	}
}
