// Package sickpay computes karens (waiting period) consumption and OB
// (unsocial hours) classification for sick leave covered by vacant shifts.
// It builds on the generic calendar primitives.
package sickpay

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/vacancy-engine/generic"
)

// =============================================================================
// OB CLASS
// =============================================================================

// OBClass is the unsocial-hours category of a sub-segment.
type OBClass string

const (
	OBMajorHoliday   OBClass = "major_holiday"
	OBHoliday        OBClass = "holiday"
	OBWeekend        OBClass = "weekend"
	OBNight          OBClass = "night"
	OBEvening        OBClass = "evening"
	OBDay            OBClass = "day"
	OBOnCallPremium  OBClass = "on_call_premium"
	OBOnCallOrdinary OBClass = "on_call_ordinary"
)

// Helg reports whether the class belongs to the weekend/holiday premium group.
func (c OBClass) Helg() bool { return c == OBHoliday || c == OBWeekend }

// OnCall reports whether the class is one of the two on-call buckets.
func (c OBClass) OnCall() bool { return c == OBOnCallPremium || c == OBOnCallOrdinary }

// Label is the name used on payroll reports.
func (c OBClass) Label() string {
	switch c {
	case OBMajorHoliday:
		return "Storhelg"
	case OBHoliday, OBWeekend:
		return "Helg"
	case OBNight:
		return "Natt"
	case OBEvening:
		return "Kväll"
	case OBDay:
		return "Dag"
	case OBOnCallPremium:
		return "Sjuk jourers helg"
	case OBOnCallOrdinary:
		return "Sjuk jourers vardag"
	}
	return string(c)
}

// OBClasses lists every class in report row order.
var OBClasses = []OBClass{
	OBOnCallPremium, OBOnCallOrdinary, OBMajorHoliday, OBHoliday, OBWeekend, OBNight, OBEvening, OBDay,
}

// =============================================================================
// STATUS
// =============================================================================

// Status is the payment status of a sub-segment.
type Status string

const (
	StatusWaitingPeriod Status = "Karens"
	StatusPaidDay1      Status = "Sjuklön dag 1 - utanför karens"
	StatusPaidDay2To14  Status = "Sjuklön dag 2-14"
	StatusBeyondDay14   Status = "Karens och >14"
)

// Paid reports whether the employer pays sick pay for the status.
func (s Status) Paid() bool { return s == StatusPaidDay1 || s == StatusPaidDay2To14 }

// =============================================================================
// MODE - How an interval relates to the karens balance
// =============================================================================

// Mode is computed once per interval by consuming the entering balance.
type Mode int

const (
	ModeBeyondDay14 Mode = iota
	ModeUnknownDeduction
	ModePaidFirstDay
	ModePaidContinuation
	ModeFullyWaitingPeriod
	ModePartialWaitingPeriod
)

func (m Mode) String() string {
	switch m {
	case ModeBeyondDay14:
		return "beyond_day_14"
	case ModeUnknownDeduction:
		return "unknown_deduction"
	case ModePaidFirstDay:
		return "paid_first_day"
	case ModePaidContinuation:
		return "paid_continuation"
	case ModeFullyWaitingPeriod:
		return "fully_waiting_period"
	case ModePartialWaitingPeriod:
		return "partial_waiting_period"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// consumesKarens reports whether sub-segments may fall inside the waiting period.
func (m Mode) consumesKarens() bool {
	return m == ModeFullyWaitingPeriod || m == ModePartialWaitingPeriod
}

// =============================================================================
// INPUT RECORDS
// =============================================================================

// SickInterval is one reported absence interval. End at or before Start means
// the interval runs past midnight into the next day.
type SickInterval struct {
	PersonID      generic.EntityID
	Date          generic.TimePoint
	Start         generic.ClockTime
	End           generic.ClockTime
	ReportedHours decimal.Decimal
	Vacant        bool
	OnCall        bool
}

// Span resolves the interval to absolute instants.
func (iv SickInterval) Span() (time.Time, time.Time) {
	start := iv.Date.At(iv.Start)
	end := iv.Date.At(iv.End)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end
}

// Duration is the midnight-adjusted length of the interval.
func (iv SickInterval) Duration() time.Duration {
	start, end := iv.Span()
	return end.Sub(start)
}

// PersonDate keys per-day lookups.
type PersonDate struct {
	PersonID generic.EntityID
	Date     string // YYYY-MM-DD
}

func KeyOf(person generic.EntityID, date generic.TimePoint) PersonDate {
	return PersonDate{PersonID: person, Date: date.Key()}
}

// KarensEntries holds the waiting-period deduction recorded on the first day
// of a sick spell.
type KarensEntries map[PersonDate]time.Duration

// Lookup returns the entry for person and date, if any.
func (k KarensEntries) Lookup(person generic.EntityID, date generic.TimePoint) (time.Duration, bool) {
	d, ok := k[KeyOf(person, date)]
	return d, ok
}

// RangeSet maps a person to inclusive date ranges.
type RangeSet map[generic.EntityID][]generic.Period

// Find returns the first range containing date.
func (r RangeSet) Find(person generic.EntityID, date generic.TimePoint) (generic.Period, bool) {
	for _, p := range r[person] {
		if p.Contains(date) {
			return p, true
		}
	}
	return generic.Period{}, false
}

// Contains reports whether any range of person contains date.
func (r RangeSet) Contains(person generic.EntityID, date generic.TimePoint) bool {
	_, ok := r.Find(person, date)
	return ok
}

// Add appends a range for person.
func (r RangeSet) Add(person generic.EntityID, p generic.Period) {
	r[person] = append(r[person], p)
}

// Input is everything one computation run needs, fully materialized.
type Input struct {
	Calendar       generic.HolidayCalendar
	Intervals      []SickInterval
	KarensEntries  KarensEntries
	SickDayRanges  RangeSet
	LongTermRanges RangeSet
}

// =============================================================================
// OUTPUT RECORDS
// =============================================================================

// Segment is a classified piece of a vacant interval.
type Segment struct {
	PersonID  generic.EntityID
	Date      generic.TimePoint // date of Start
	Start     time.Time
	End       time.Time
	Hours     decimal.Decimal
	OBClass   OBClass
	Status    Status
	PaidHours decimal.Decimal
}

func (s Segment) Duration() time.Duration { return s.End.Sub(s.Start) }

// IntervalOutcome records the mode chosen for one interval.
type IntervalOutcome struct {
	Interval         SickInterval
	Mode             Mode
	KarensInInterval time.Duration
}

// Result is the output of Engine.Compute.
type Result struct {
	Segments  []Segment
	Intervals []IntervalOutcome
	Ledgers   map[generic.EntityID][]LedgerEntry
}

// Persons returns the persons present in the result, sorted.
func (r Result) Persons() []generic.EntityID {
	ids := make([]generic.EntityID, 0, len(r.Ledgers))
	for id := range r.Ledgers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
