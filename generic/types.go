/*
Package generic provides the domain-agnostic building blocks of the engine.

PURPOSE:
  This package contains the calendar and quantity primitives the sick-pay
  engine is built from. Nothing here knows about karens, OB classes or
  payslips; it only knows about dates, wall-clock times, holiday calendars,
  date ranges and hour quantities.

KEY CONCEPTS IN THIS FILE (types.go):
  - EntityID: Type-safe person identifier
  - Hours: Decimal hour quantities derived from exact durations

DESIGN PRINCIPLES:
  1. Precision: Durations are exact (time.Duration); hours are decimal.Decimal
     derived from them, never accumulated floats
  2. Type Safety: Strong typing for IDs and dates
  3. Immutability: Calendars and periods are values, never mutated after build

USAGE:
  cal := generic.NewCalendar(holidays, major)
  h := generic.HoursOf(90 * time.Minute) // 1.5

SEE ALSO:
  - time.go: TimePoint, ClockTime, HolidayCalendar
  - period.go: Inclusive date ranges
  - errors.go: Sentinel and structured errors
*/
package generic

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// EntityID identifies a person (personnummer or employment number).
type EntityID string

// =============================================================================
// HOURS - Decimal quantities derived from exact durations
// =============================================================================

var secondsPerHour = decimal.NewFromInt(3600)

// HoursOf converts a duration to decimal hours at second resolution.
func HoursOf(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d / time.Second)).Div(secondsPerHour)
}

// DurationOfHours converts decimal hours back to a duration, rounded to the
// nearest second.
func DurationOfHours(h decimal.Decimal) time.Duration {
	secs := h.Mul(secondsPerHour).Round(0).IntPart()
	return time.Duration(secs) * time.Second
}

// MustParseDecimal parses a literal, returning zero on failure.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
