package sickpay_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/vacancy-engine/generic"
	"github.com/warp/vacancy-engine/sickpay"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func interval(date generic.TimePoint, start, end string, vacant bool) sickpay.SickInterval {
	s, err := generic.ParseClockTime(start)
	if err != nil {
		panic(err)
	}
	e, err := generic.ParseClockTime(end)
	if err != nil {
		panic(err)
	}
	iv := sickpay.SickInterval{PersonID: person, Date: date, Start: s, End: e, Vacant: vacant}
	iv.ReportedHours = generic.HoursOf(iv.Duration())
	return iv
}

func onCall(iv sickpay.SickInterval) sickpay.SickInterval {
	iv.OnCall = true
	return iv
}

func compute(t *testing.T, in sickpay.Input) sickpay.Result {
	t.Helper()
	res, err := sickpay.NewEngine(zerolog.Nop()).Compute(context.Background(), in)
	require.NoError(t, err)
	return res
}

func hours(s string) decimal.Decimal { return generic.MustParseDecimal(s) }

func assertHours(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, hours(want).Equal(got), "want %s hours, got %s", want, got)
}

func modeOf(t *testing.T, res sickpay.Result, date generic.TimePoint) sickpay.Mode {
	t.Helper()
	for _, o := range res.Intervals {
		if o.Interval.Date.Equal(date) {
			return o.Mode
		}
	}
	t.Fatalf("no interval outcome for %s", date)
	return 0
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestEngine_MajorHolidayWithoutEvidence(t *testing.T) {
	christmas := generic.MustParseDate("2025-12-25")
	res := compute(t, sickpay.Input{
		Calendar:  swedishCalendar(),
		Intervals: []sickpay.SickInterval{interval(christmas, "15:00", "17:00", true)},
	})

	require.Len(t, res.Segments, 1)
	seg := res.Segments[0]
	assert.Equal(t, sickpay.OBMajorHoliday, seg.OBClass)
	assert.Equal(t, sickpay.StatusPaidDay2To14, seg.Status)
	assertHours(t, "2", seg.Hours)
	assertHours(t, "2", seg.PaidHours)
	assert.Equal(t, sickpay.ModeUnknownDeduction, modeOf(t, res, christmas))
}

func TestEngine_FullWaitingPeriodThenContinuation(t *testing.T) {
	res := compute(t, sickpay.Input{
		Intervals: []sickpay.SickInterval{
			interval(tuesday, "08:00", "16:00", true),
			interval(tuesday.AddDays(1), "08:00", "10:00", true),
		},
		KarensEntries: karensOn(tuesday, 8*time.Hour),
	})

	require.Len(t, res.Intervals, 2)
	first := res.Intervals[0]
	assert.Equal(t, sickpay.ModeFullyWaitingPeriod, first.Mode)
	assert.Equal(t, 8*time.Hour, first.KarensInInterval)
	assert.Equal(t, sickpay.ModePaidContinuation, res.Intervals[1].Mode)

	ledger := res.Ledgers[person]
	require.Len(t, ledger, 2)
	assert.Equal(t, sickpay.KnownBalance(0), ledger[0].Leaving)

	for _, s := range res.Segments {
		if s.Date.Equal(tuesday) {
			assert.Equal(t, sickpay.StatusWaitingPeriod, s.Status)
			assert.True(t, s.PaidHours.IsZero())
		} else {
			assert.Equal(t, sickpay.StatusPaidDay2To14, s.Status)
		}
	}
}

func TestEngine_PaidFirstDayAcrossMidnight(t *testing.T) {
	// A non-vacant morning shift uses up the karens entry; the vacant evening
	// shift runs into Wednesday.
	res := compute(t, sickpay.Input{
		Intervals: []sickpay.SickInterval{
			interval(tuesday, "08:00", "09:00", false),
			interval(tuesday, "21:00", "01:00", true),
		},
		KarensEntries: karensOn(tuesday, time.Hour),
	})

	require.Len(t, res.Intervals, 2)
	assert.Equal(t, sickpay.ModeFullyWaitingPeriod, res.Intervals[0].Mode)
	assert.Equal(t, sickpay.ModePaidFirstDay, res.Intervals[1].Mode)

	require.Len(t, res.Segments, 3)
	wednesday := tuesday.AddDays(1)
	want := []struct {
		start, end time.Time
		ob         sickpay.OBClass
	}{
		{at(tuesday, "21:00"), at(tuesday, "22:00"), sickpay.OBEvening},
		{at(tuesday, "22:00"), at(wednesday, "00:00"), sickpay.OBNight},
		{at(wednesday, "00:00"), at(wednesday, "01:00"), sickpay.OBNight},
	}
	for i, w := range want {
		s := res.Segments[i]
		assert.True(t, w.start.Equal(s.Start), "segment %d start", i)
		assert.True(t, w.end.Equal(s.End), "segment %d end", i)
		assert.Equal(t, w.ob, s.OBClass, "segment %d class", i)
		assert.Equal(t, sickpay.StatusPaidDay1, s.Status, "segment %d status", i)
	}
	assert.True(t, res.Segments[2].Date.Equal(wednesday))
}

// =============================================================================
// KARENS SPLITTING
// =============================================================================

func TestEngine_PartialWaitingPeriodCutsInterval(t *testing.T) {
	res := compute(t, sickpay.Input{
		Intervals:     []sickpay.SickInterval{interval(tuesday, "08:00", "16:00", true)},
		KarensEntries: karensOn(tuesday, 3*time.Hour+30*time.Minute),
	})

	require.Len(t, res.Intervals, 1)
	assert.Equal(t, sickpay.ModePartialWaitingPeriod, res.Intervals[0].Mode)
	assert.Equal(t, 3*time.Hour+30*time.Minute, res.Intervals[0].KarensInInterval)

	require.Len(t, res.Segments, 2)
	assert.Equal(t, sickpay.StatusWaitingPeriod, res.Segments[0].Status)
	assertHours(t, "3.5", res.Segments[0].Hours)
	assert.Equal(t, sickpay.StatusPaidDay1, res.Segments[1].Status)
	assertHours(t, "4.5", res.Segments[1].Hours)
	assertHours(t, "4.5", res.Segments[1].PaidHours)
}

func TestEngine_KarensSpansTwoIntervalsSameDay(t *testing.T) {
	res := compute(t, sickpay.Input{
		Intervals: []sickpay.SickInterval{
			interval(tuesday, "13:00", "17:00", true),
			interval(tuesday, "08:00", "12:00", true),
		},
		KarensEntries: karensOn(tuesday, 6*time.Hour),
	})

	require.Len(t, res.Intervals, 2)
	assert.Equal(t, sickpay.ModeFullyWaitingPeriod, res.Intervals[0].Mode, "morning interval is processed first")
	assert.Equal(t, sickpay.ModePartialWaitingPeriod, res.Intervals[1].Mode)
	assert.Equal(t, 2*time.Hour, res.Intervals[1].KarensInInterval)

	var waiting, paid decimal.Decimal
	for _, s := range res.Segments {
		if s.Status == sickpay.StatusWaitingPeriod {
			waiting = waiting.Add(s.Hours)
		} else {
			paid = paid.Add(s.Hours)
		}
	}
	assertHours(t, "6", waiting)
	assertHours(t, "2", paid)
}

func TestEngine_KarensCarriesAcrossNightShift(t *testing.T) {
	// 8h karens, 4h consumed Tuesday night; the rest carries to Wednesday.
	wednesday := tuesday.AddDays(1)
	res := compute(t, sickpay.Input{
		Intervals: []sickpay.SickInterval{
			interval(tuesday, "20:00", "00:00", true),
			interval(wednesday, "18:00", "23:00", true),
		},
		KarensEntries: karensOn(tuesday, 8*time.Hour),
	})

	require.Len(t, res.Intervals, 2)
	assert.Equal(t, sickpay.ModeFullyWaitingPeriod, res.Intervals[0].Mode)
	assert.Equal(t, sickpay.ModePartialWaitingPeriod, res.Intervals[1].Mode)
	assert.Equal(t, 4*time.Hour, res.Intervals[1].KarensInInterval)

	ledger := res.Ledgers[person]
	require.Len(t, ledger, 2)
	assert.Equal(t, sickpay.TransitionCarryOver, ledger[1].Transition)
	assert.Equal(t, sickpay.KnownBalance(4*time.Hour), ledger[1].Entering)
}

func TestEngine_NonVacantIntervalsConsumeButEmitNothing(t *testing.T) {
	res := compute(t, sickpay.Input{
		Intervals: []sickpay.SickInterval{
			interval(tuesday, "07:00", "11:00", false),
			interval(tuesday, "12:00", "16:00", true),
		},
		KarensEntries: karensOn(tuesday, 6*time.Hour),
	})

	assert.Equal(t, sickpay.ModePartialWaitingPeriod, res.Intervals[1].Mode)
	require.Len(t, res.Segments, 2)
	assert.True(t, at(tuesday, "14:00").Equal(res.Segments[0].End))
	assert.Equal(t, sickpay.StatusWaitingPeriod, res.Segments[0].Status)
	assert.Equal(t, sickpay.StatusPaidDay1, res.Segments[1].Status)
}

func TestEngine_LongTermWinsOverBalance(t *testing.T) {
	longTerm := sickpay.RangeSet{}
	longTerm.Add(person, generic.Period{Start: tuesday, End: tuesday})

	res := compute(t, sickpay.Input{
		Intervals:      []sickpay.SickInterval{interval(tuesday, "08:00", "12:00", true)},
		KarensEntries:  karensOn(tuesday, 8*time.Hour),
		LongTermRanges: longTerm,
	})

	assert.Equal(t, sickpay.ModeBeyondDay14, res.Intervals[0].Mode)
	require.Len(t, res.Segments, 1)
	assert.Equal(t, sickpay.StatusBeyondDay14, res.Segments[0].Status)
	assert.True(t, res.Segments[0].PaidHours.IsZero())
	// The balance is left untouched.
	assert.Equal(t, sickpay.KnownBalance(8*time.Hour), res.Ledgers[person][0].Leaving)
}

func TestEngine_OnCallUsesCoarseBuckets(t *testing.T) {
	res := compute(t, sickpay.Input{
		Intervals: []sickpay.SickInterval{onCall(interval(friday, "17:00", "23:00", true))},
	})

	require.Len(t, res.Segments, 2)
	assert.Equal(t, sickpay.OBOnCallOrdinary, res.Segments[0].OBClass)
	assertHours(t, "2", res.Segments[0].Hours)
	assert.Equal(t, sickpay.OBOnCallPremium, res.Segments[1].OBClass)
	assertHours(t, "4", res.Segments[1].Hours)
}

func TestEngine_OnCallKarensCutoff(t *testing.T) {
	res := compute(t, sickpay.Input{
		Intervals:     []sickpay.SickInterval{onCall(interval(tuesday, "08:00", "16:00", true))},
		KarensEntries: karensOn(tuesday, 2*time.Hour),
	})

	require.Len(t, res.Segments, 2)
	assert.Equal(t, sickpay.StatusWaitingPeriod, res.Segments[0].Status)
	assert.Equal(t, sickpay.StatusPaidDay1, res.Segments[1].Status)
}

// =============================================================================
// MULTI-PERSON
// =============================================================================

func TestEngine_PersonsAreIsolated(t *testing.T) {
	other := generic.EntityID("Q")
	q := interval(tuesday, "08:00", "12:00", true)
	q.PersonID = other

	entries := karensOn(tuesday, 8*time.Hour)
	res := compute(t, sickpay.Input{
		Intervals:     []sickpay.SickInterval{interval(tuesday, "08:00", "12:00", true), q},
		KarensEntries: entries,
	})

	assert.Equal(t, []generic.EntityID{person, other}, res.Persons())
	require.Len(t, res.Segments, 2)
	assert.Equal(t, person, res.Segments[0].PersonID)
	assert.Equal(t, sickpay.StatusWaitingPeriod, res.Segments[0].Status)
	assert.Equal(t, other, res.Segments[1].PersonID)
	assert.Equal(t, sickpay.StatusPaidDay2To14, res.Segments[1].Status)
}

func TestEngine_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sickpay.NewEngine(zerolog.Nop()).Compute(ctx, sickpay.Input{
		Intervals: []sickpay.SickInterval{interval(tuesday, "08:00", "12:00", true)},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_EmptyInput(t *testing.T) {
	res := compute(t, sickpay.Input{})
	assert.Empty(t, res.Segments)
	assert.Empty(t, res.Persons())
}
