package sickpay

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PostProcess merges adjacent segments, tags paid hours and orders the
// result chronologically.
func PostProcess(segments []Segment) []Segment {
	out := Merge(segments)
	TagPaidHours(out)
	SortChronologically(out)
	return out
}

// Merge coalesces consecutive segments of the same person, date, OB class and
// status where one ends exactly where the next starts. Merging already merged
// output is a no-op.
func Merge(segments []Segment) []Segment {
	if len(segments) == 0 {
		return nil
	}
	sorted := make([]Segment, len(segments))
	copy(sorted, segments)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.PersonID != b.PersonID {
			return a.PersonID < b.PersonID
		}
		if ka, kb := a.Date.Key(), b.Date.Key(); ka != kb {
			return ka < kb
		}
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if a.OBClass != b.OBClass {
			return a.OBClass < b.OBClass
		}
		return a.Status < b.Status
	})

	merged := make([]Segment, 0, len(sorted))
	for _, s := range sorted {
		if n := len(merged); n > 0 && mergeable(merged[n-1], s) {
			last := &merged[n-1]
			last.End = s.End
			last.Hours = last.Hours.Add(s.Hours)
			last.PaidHours = last.PaidHours.Add(s.PaidHours)
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

func mergeable(a, b Segment) bool {
	return a.PersonID == b.PersonID &&
		a.Date.Equal(b.Date) &&
		a.OBClass == b.OBClass &&
		a.Status == b.Status &&
		a.End.Equal(b.Start)
}

// TagPaidHours sets PaidHours to the segment's hours for employer-paid
// statuses and to zero otherwise.
func TagPaidHours(segments []Segment) {
	for i := range segments {
		if segments[i].Status.Paid() {
			segments[i].PaidHours = segments[i].Hours
		} else {
			segments[i].PaidHours = decimal.Zero
		}
	}
}

// SortChronologically orders segments by person, then date and start.
func SortChronologically(segments []Segment) {
	sort.SliceStable(segments, func(i, j int) bool {
		a, b := segments[i], segments[j]
		if a.PersonID != b.PersonID {
			return a.PersonID < b.PersonID
		}
		if ka, kb := a.Date.Key(), b.Date.Key(); ka != kb {
			return ka < kb
		}
		return a.Start.Before(b.Start)
	})
}
