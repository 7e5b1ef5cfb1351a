package sickpay

import (
	"time"

	"github.com/warp/vacancy-engine/generic"
)

// Time-of-day boundaries, as offsets from midnight.
const (
	nightEnd      = 6 * time.Hour
	morningEnd    = 7 * time.Hour
	eveningStart  = 19 * time.Hour
	nightStart    = 22 * time.Hour
	onCallMorning = nightEnd
	onCallEvening = eveningStart
)

// Classify maps an instant to its OB class for a regular (non on-call) shift.
//
// Holidays and weekends cover the whole day. From 19:00 the coming day's
// premium is anticipated (Friday evening, the eve of a holiday) and before
// 07:00 the previous day's premium is retained (Monday morning, the morning
// after a holiday).
func Classify(at time.Time, cal generic.HolidayCalendar) OBClass {
	if cal == nil {
		cal = generic.EmptyCalendar{}
	}
	d := generic.DateOf(at)
	tod := sinceMidnight(at)

	if cal.IsMajorHoliday(d) {
		return OBMajorHoliday
	}
	if cal.IsHoliday(d) {
		return OBHoliday
	}
	if d.IsWeekend() {
		return OBWeekend
	}

	if tod >= eveningStart {
		next := d.AddDays(1)
		if cal.IsMajorHoliday(next) {
			return OBMajorHoliday
		}
		if cal.IsHoliday(next) {
			return OBHoliday
		}
		if d.Weekday() == time.Friday {
			return OBWeekend
		}
	}

	if tod < morningEnd {
		prev := d.AddDays(-1)
		if cal.IsMajorHoliday(prev) {
			return OBMajorHoliday
		}
		if cal.IsHoliday(prev) {
			return OBHoliday
		}
		if d.Weekday() == time.Monday {
			return OBWeekend
		}
	}

	if tod >= nightStart || tod < nightEnd {
		return OBNight
	}
	if tod >= eveningStart {
		return OBEvening
	}
	return OBDay
}

// ClassifyOnCall maps an instant to one of the two on-call buckets. The
// look-behind window ends at 06:00 instead of 07:00.
func ClassifyOnCall(at time.Time, cal generic.HolidayCalendar) OBClass {
	if isOnCallPremium(at, cal) {
		return OBOnCallPremium
	}
	return OBOnCallOrdinary
}

func isOnCallPremium(at time.Time, cal generic.HolidayCalendar) bool {
	if cal == nil {
		cal = generic.EmptyCalendar{}
	}
	d := generic.DateOf(at)
	tod := sinceMidnight(at)

	if cal.IsMajorHoliday(d) || cal.IsHoliday(d) || d.IsWeekend() {
		return true
	}
	if tod >= onCallEvening {
		next := d.AddDays(1)
		if cal.IsMajorHoliday(next) || cal.IsHoliday(next) || d.Weekday() == time.Friday {
			return true
		}
	}
	if tod < onCallMorning {
		prev := d.AddDays(-1)
		if cal.IsMajorHoliday(prev) || cal.IsHoliday(prev) || d.Weekday() == time.Monday {
			return true
		}
	}
	return false
}

func sinceMidnight(t time.Time) time.Duration {
	return t.Sub(generic.DateOf(t).Midnight())
}
