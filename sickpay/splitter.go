package sickpay

import (
	"sort"
	"time"

	"github.com/warp/vacancy-engine/generic"
)

// =============================================================================
// MODE SELECTION
// =============================================================================

// chooseMode consumes the ledger's open balance against an interval of
// length d. The returned duration is the part of the interval that falls
// inside the waiting period.
func chooseMode(l *Ledger, d time.Duration, longTerm bool) (Mode, time.Duration) {
	b := l.Balance()
	switch {
	case longTerm:
		return ModeBeyondDay14, 0
	case !b.Known:
		return ModeUnknownDeduction, 0
	case b.Remaining <= 0:
		if l.KarensDay() {
			return ModePaidFirstDay, 0
		}
		return ModePaidContinuation, 0
	case b.Remaining >= d:
		return ModeFullyWaitingPeriod, l.Consume(d)
	default:
		return ModePartialWaitingPeriod, l.Consume(d)
	}
}

// statusFor derives the payment status of a sub-segment starting offset
// into its interval.
func statusFor(mode Mode, karens, offset time.Duration) Status {
	switch mode {
	case ModeBeyondDay14:
		return StatusBeyondDay14
	case ModeUnknownDeduction:
		return StatusPaidDay2To14
	case ModePaidFirstDay:
		return StatusPaidDay1
	case ModePaidContinuation:
		return StatusPaidDay2To14
	case ModeFullyWaitingPeriod, ModePartialWaitingPeriod:
		if offset < karens {
			return StatusWaitingPeriod
		}
		return StatusPaidDay1
	}
	panic("sickpay: unhandled mode " + mode.String())
}

// =============================================================================
// BOUNDARIES
// =============================================================================

var (
	regularCuts = []time.Duration{nightEnd, morningEnd, eveningStart, nightStart}
	onCallCuts  = []time.Duration{onCallMorning, onCallEvening}
)

// boundarySet is a sorted, deduplicated set of cut points.
type boundarySet []time.Time

func (b *boundarySet) add(t time.Time) {
	s := *b
	i := sort.Search(len(s), func(i int) bool { return !s[i].Before(t) })
	if i < len(s) && s[i].Equal(t) {
		return
	}
	s = append(s, time.Time{})
	copy(s[i+1:], s[i:])
	s[i] = t
	*b = s
}

// next returns the first boundary strictly after cur, capped at end.
func (b boundarySet) next(cur, end time.Time) time.Time {
	for _, t := range b {
		if t.After(cur) {
			if t.Before(end) {
				return t
			}
			return end
		}
	}
	return end
}

// boundariesFor builds the cut points of the day containing cur.
func boundariesFor(cur time.Time, onCall bool, cutoff *time.Time) boundarySet {
	day := generic.DateOf(cur)
	midnight := day.Midnight()

	cuts := regularCuts
	if onCall {
		cuts = onCallCuts
	}

	b := make(boundarySet, 0, len(cuts)+2)
	b.add(day.AddDays(1).Midnight())
	for _, c := range cuts {
		b.add(midnight.Add(c))
	}
	if cutoff != nil {
		b.add(*cutoff)
	}
	return b
}

// =============================================================================
// SPLITTER
// =============================================================================

// splitInterval walks a vacant interval from start to end, cutting at
// classification boundaries and at the karens cutoff.
func splitInterval(iv SickInterval, mode Mode, karens time.Duration, cal generic.HolidayCalendar) []Segment {
	start, end := iv.Span()

	var cutoff *time.Time
	if mode.consumesKarens() && karens > 0 {
		c := start.Add(karens)
		if c.After(start) && c.Before(end) {
			cutoff = &c
		}
	}

	var segments []Segment
	for cur := start; cur.Before(end); {
		next := boundariesFor(cur, iv.OnCall, cutoff).next(cur, end)

		ob := Classify(cur, cal)
		if iv.OnCall {
			ob = ClassifyOnCall(cur, cal)
		}

		segments = append(segments, Segment{
			PersonID: iv.PersonID,
			Date:     generic.DateOf(cur),
			Start:    cur,
			End:      next,
			Hours:    generic.HoursOf(next.Sub(cur)),
			OBClass:  ob,
			Status:   statusFor(mode, karens, cur.Sub(start)),
		})
		cur = next
	}
	return segments
}

// splitDate processes one person-date. Intervals are consumed against the
// ledger in start order whether vacant or not; only vacant intervals yield
// segments. The ledger must have the date open.
func splitDate(l *Ledger, intervals []SickInterval, longTerm bool, cal generic.HolidayCalendar) ([]IntervalOutcome, []Segment) {
	ordered := make([]SickInterval, len(intervals))
	copy(ordered, intervals)
	sort.SliceStable(ordered, func(i, j int) bool {
		si, _ := ordered[i].Span()
		sj, _ := ordered[j].Span()
		return si.Before(sj)
	})

	outcomes := make([]IntervalOutcome, 0, len(ordered))
	var segments []Segment
	for _, iv := range ordered {
		mode, karens := chooseMode(l, iv.Duration(), longTerm)
		outcomes = append(outcomes, IntervalOutcome{Interval: iv, Mode: mode, KarensInInterval: karens})
		if !iv.Vacant {
			continue
		}
		segments = append(segments, splitInterval(iv, mode, karens, cal)...)
	}
	return outcomes, segments
}
