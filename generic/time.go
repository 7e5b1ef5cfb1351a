package generic

import (
	"fmt"
	"sort"
	"time"
)

// =============================================================================
// TIME POINT - Calendar date used as the key for every per-day lookup
// =============================================================================

type TimePoint struct {
	Time        time.Time
	Granularity Granularity
}

type Granularity int

const (
	GranularityDay Granularity = iota
	GranularityHour
	GranularityMinute
)

const DateLayout = "2006-01-02"

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Granularity: GranularityDay}
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

// ParseDate parses an ISO date (YYYY-MM-DD).
func ParseDate(s string) (TimePoint, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return TimePoint{}, &ParseError{Field: "date", Value: s, Err: ErrInvalidDate}
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate for literals in tests and presets.
func MustParseDate(s string) TimePoint {
	tp, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return tp
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return tp.Before(other) || tp.Equal(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return tp.After(other) || tp.Equal(other) }

func (tp TimePoint) normalize() time.Time {
	switch tp.Granularity {
	case GranularityDay:
		return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
	case GranularityHour:
		return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), tp.Time.Hour(), 0, 0, 0, time.UTC)
	default:
		return tp.Time
	}
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint { return TimePoint{Time: tp.Time.AddDate(0, 0, n), Granularity: tp.Granularity} }

// At places a wall-clock time on this date.
func (tp TimePoint) At(c ClockTime) time.Time {
	d := tp.normalize()
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour, c.Minute, 0, 0, time.UTC)
}

// Midnight returns 00:00 of this date.
func (tp TimePoint) Midnight() time.Time { return tp.normalize() }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsWeekend() bool       { wd := tp.Weekday(); return wd == time.Saturday || wd == time.Sunday }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

func (tp TimePoint) String() string {
	switch tp.Granularity {
	case GranularityDay:
		return tp.Time.Format(DateLayout)
	case GranularityHour:
		return tp.Time.Format("2006-01-02 15:00")
	default:
		return tp.Time.Format(time.RFC3339)
	}
}

// Key is the map key for a date. time.Time values make poor map keys.
func (tp TimePoint) Key() string { return tp.normalize().Format(DateLayout) }

// =============================================================================
// CLOCK TIME - Wall-clock time of day as reported on a sick list row
// =============================================================================

// ClockTime is a time of day with minute resolution.
type ClockTime struct {
	Hour   int
	Minute int
}

func NewClockTime(hour, minute int) ClockTime { return ClockTime{Hour: hour, Minute: minute} }

// ParseClockTime parses "HH:MM". "24:00" is rejected; use "00:00" and let the
// midnight-crossing rule move it to the next day.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, &ParseError{Field: "time", Value: s, Err: ErrInvalidClockTime}
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c ClockTime) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// Offset returns the time elapsed since midnight.
func (c ClockTime) Offset() time.Duration {
	return time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute
}

// =============================================================================
// HOLIDAY CALENDAR - Ordinary and major (storhelg) public holidays
// =============================================================================

// Holiday is a single calendar entry. Major marks the higher-premium subset
// (Easter, Midsummer, Christmas, New Year).
type Holiday struct {
	Date  TimePoint
	Name  string
	Major bool
}

// HolidayCalendar provides holiday lookup functionality.
type HolidayCalendar interface {
	// IsHoliday reports whether date is an ordinary public holiday.
	IsHoliday(date TimePoint) bool

	// IsMajorHoliday reports whether date belongs to the major-holiday set.
	IsMajorHoliday(date TimePoint) bool
}

// Calendar is an immutable HolidayCalendar backed by two date sets.
type Calendar struct {
	holidays map[string]struct{}
	major    map[string]struct{}
}

// NewCalendar builds a calendar. A date may appear in both lists; major wins
// during classification.
func NewCalendar(holidays, major []TimePoint) *Calendar {
	c := &Calendar{
		holidays: make(map[string]struct{}, len(holidays)),
		major:    make(map[string]struct{}, len(major)),
	}
	for _, d := range holidays {
		c.holidays[d.Key()] = struct{}{}
	}
	for _, d := range major {
		c.major[d.Key()] = struct{}{}
	}
	return c
}

// NewCalendarFromHolidays builds a calendar from stored holiday records.
func NewCalendarFromHolidays(hs []Holiday) *Calendar {
	var holidays, major []TimePoint
	for _, h := range hs {
		if h.Major {
			major = append(major, h.Date)
		} else {
			holidays = append(holidays, h.Date)
		}
	}
	return NewCalendar(holidays, major)
}

func (c *Calendar) IsHoliday(date TimePoint) bool {
	if c == nil {
		return false
	}
	_, ok := c.holidays[date.Key()]
	return ok
}

func (c *Calendar) IsMajorHoliday(date TimePoint) bool {
	if c == nil {
		return false
	}
	_, ok := c.major[date.Key()]
	return ok
}

// Holidays returns the ordinary holiday dates, sorted.
func (c *Calendar) Holidays() []TimePoint { return sortedDates(c.holidays) }

// MajorHolidays returns the major holiday dates, sorted.
func (c *Calendar) MajorHolidays() []TimePoint { return sortedDates(c.major) }

func sortedDates(set map[string]struct{}) []TimePoint {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]TimePoint, 0, len(keys))
	for _, k := range keys {
		out = append(out, MustParseDate(k))
	}
	return out
}

// EmptyCalendar has no holidays; weekends still classify as weekends.
type EmptyCalendar struct{}

func (EmptyCalendar) IsHoliday(TimePoint) bool      { return false }
func (EmptyCalendar) IsMajorHoliday(TimePoint) bool { return false }
