package factory

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/vacancy-engine/generic"
	"github.com/warp/vacancy-engine/sickpay"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================
//
//   {
//     "intervals": [
//       {"person_id": "P1", "date": "2025-03-04", "start": "21:00",
//        "end": "01:00", "reported_hours": 4, "vacant": true, "on_call": false}
//     ],
//     "karens_entries":   [{"person_id": "P1", "date": "2025-03-04", "seconds": 28800}],
//     "sick_day_ranges":  [{"person_id": "P1", "start": "2025-03-04", "end": "2025-03-10"}],
//     "long_term_ranges": [{"person_id": "P1", "start": "2025-03-18", "end": "2025-04-30"}],
//     "holidays":         ["2025-05-01"],
//     "major_holidays":   ["2025-12-25"]
//   }
//
// holidays/major_holidays are optional; without them the stored calendar is
// used.

// BatchJSON is the JSON representation of one calculation batch.
type BatchJSON struct {
	Intervals      []IntervalJSON    `json:"intervals"`
	KarensEntries  []KarensEntryJSON `json:"karens_entries,omitempty"`
	SickDayRanges  []RangeJSON       `json:"sick_day_ranges,omitempty"`
	LongTermRanges []RangeJSON       `json:"long_term_ranges,omitempty"`
	Holidays       []string          `json:"holidays,omitempty"`
	MajorHolidays  []string          `json:"major_holidays,omitempty"`
}

// IntervalJSON is one sick interval.
type IntervalJSON struct {
	PersonID      string           `json:"person_id"`
	Date          string           `json:"date"`
	Start         string           `json:"start"`
	End           string           `json:"end"`
	ReportedHours *decimal.Decimal `json:"reported_hours,omitempty"`
	Vacant        bool             `json:"vacant"`
	OnCall        bool             `json:"on_call,omitempty"`
}

// KarensEntryJSON is the waiting-period deduction for a person-date.
type KarensEntryJSON struct {
	PersonID string `json:"person_id"`
	Date     string `json:"date"`
	Seconds  int64  `json:"seconds"`
}

// RangeJSON is an inclusive date range for a person.
type RangeJSON struct {
	PersonID string `json:"person_id"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

// Batch is a parsed batch. Calendar is nil when the document carried no
// holiday lists.
type Batch struct {
	Input    sickpay.Input
	Calendar *generic.Calendar
}

// =============================================================================
// PARSING
// =============================================================================

// ParseBatch parses and validates a JSON batch. Errors name the failing record
// and wrap the generic parse sentinels.
func ParseBatch(data []byte) (*Batch, error) {
	var bj BatchJSON
	if err := json.Unmarshal(data, &bj); err != nil {
		return nil, fmt.Errorf("failed to parse batch JSON: %w", err)
	}
	return FromJSON(bj)
}

// FromJSON converts a decoded batch into engine input.
func FromJSON(bj BatchJSON) (*Batch, error) {
	b := &Batch{
		Input: sickpay.Input{
			KarensEntries:  make(sickpay.KarensEntries, len(bj.KarensEntries)),
			SickDayRanges:  sickpay.RangeSet{},
			LongTermRanges: sickpay.RangeSet{},
		},
	}

	for i, ij := range bj.Intervals {
		iv, err := parseInterval(ij)
		if err != nil {
			return nil, &generic.RecordError{Kind: "interval", Index: i, Err: err}
		}
		b.Input.Intervals = append(b.Input.Intervals, iv)
	}

	for i, kj := range bj.KarensEntries {
		if kj.PersonID == "" {
			return nil, &generic.RecordError{Kind: "karens_entry", Index: i, Err: generic.ErrMissingPerson}
		}
		d, err := parseDateField("date", kj.Date)
		if err != nil {
			return nil, &generic.RecordError{Kind: "karens_entry", Index: i, Err: err}
		}
		if kj.Seconds < 0 {
			return nil, &generic.RecordError{Kind: "karens_entry", Index: i,
				Err: &generic.ParseError{Field: "seconds", Value: fmt.Sprint(kj.Seconds), Err: generic.ErrInvalidDuration}}
		}
		b.Input.KarensEntries[sickpay.KeyOf(generic.EntityID(kj.PersonID), d)] = time.Duration(kj.Seconds) * time.Second
	}

	if err := parseRanges("sick_day_range", bj.SickDayRanges, b.Input.SickDayRanges); err != nil {
		return nil, err
	}
	if err := parseRanges("long_term_range", bj.LongTermRanges, b.Input.LongTermRanges); err != nil {
		return nil, err
	}

	if len(bj.Holidays) > 0 || len(bj.MajorHolidays) > 0 {
		holidays, err := CalendarYAML{Holidays: bj.Holidays, Storhelg: bj.MajorHolidays}.Records()
		if err != nil {
			return nil, err
		}
		b.Calendar = generic.NewCalendarFromHolidays(holidays)
		b.Input.Calendar = b.Calendar
	}
	return b, nil
}

func parseInterval(ij IntervalJSON) (sickpay.SickInterval, error) {
	if ij.PersonID == "" {
		return sickpay.SickInterval{}, generic.ErrMissingPerson
	}
	d, err := parseDateField("date", ij.Date)
	if err != nil {
		return sickpay.SickInterval{}, err
	}
	start, err := parseClockField("start", ij.Start)
	if err != nil {
		return sickpay.SickInterval{}, err
	}
	end, err := parseClockField("end", ij.End)
	if err != nil {
		return sickpay.SickInterval{}, err
	}

	iv := sickpay.SickInterval{
		PersonID: generic.EntityID(ij.PersonID),
		Date:     d,
		Start:    start,
		End:      end,
		Vacant:   ij.Vacant,
		OnCall:   ij.OnCall,
	}
	if ij.ReportedHours != nil {
		iv.ReportedHours = *ij.ReportedHours
	} else {
		iv.ReportedHours = generic.HoursOf(iv.Duration())
	}
	return iv, nil
}

func parseRanges(kind string, in []RangeJSON, into sickpay.RangeSet) error {
	for i, rj := range in {
		if rj.PersonID == "" {
			return &generic.RecordError{Kind: kind, Index: i, Err: generic.ErrMissingPerson}
		}
		start, err := parseDateField("start", rj.Start)
		if err != nil {
			return &generic.RecordError{Kind: kind, Index: i, Err: err}
		}
		end, err := parseDateField("end", rj.End)
		if err != nil {
			return &generic.RecordError{Kind: kind, Index: i, Err: err}
		}
		p, err := generic.NewPeriod(start, end)
		if err != nil {
			return &generic.RecordError{Kind: kind, Index: i, Err: err}
		}
		into.Add(generic.EntityID(rj.PersonID), p)
	}
	return nil
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// ToJSON converts engine input back to its batch document. Map-backed parts
// are emitted in person/date order so the output is stable.
func ToJSON(in sickpay.Input, holidays []generic.Holiday) BatchJSON {
	bj := BatchJSON{Intervals: make([]IntervalJSON, 0, len(in.Intervals))}
	for _, iv := range in.Intervals {
		h := iv.ReportedHours
		bj.Intervals = append(bj.Intervals, IntervalJSON{
			PersonID:      string(iv.PersonID),
			Date:          iv.Date.Key(),
			Start:         iv.Start.String(),
			End:           iv.End.String(),
			ReportedHours: &h,
			Vacant:        iv.Vacant,
			OnCall:        iv.OnCall,
		})
	}

	for k, d := range in.KarensEntries {
		bj.KarensEntries = append(bj.KarensEntries, KarensEntryJSON{
			PersonID: string(k.PersonID),
			Date:     k.Date,
			Seconds:  int64(d / time.Second),
		})
	}
	sort.Slice(bj.KarensEntries, func(i, j int) bool {
		a, b := bj.KarensEntries[i], bj.KarensEntries[j]
		if a.PersonID != b.PersonID {
			return a.PersonID < b.PersonID
		}
		return a.Date < b.Date
	})

	bj.SickDayRanges = rangesToJSON(in.SickDayRanges)
	bj.LongTermRanges = rangesToJSON(in.LongTermRanges)

	doc := CalendarDocument(holidays)
	if len(doc.Holidays) > 0 {
		bj.Holidays = doc.Holidays
		bj.MajorHolidays = doc.Storhelg
	}
	return bj
}

func rangesToJSON(rs sickpay.RangeSet) []RangeJSON {
	persons := make([]string, 0, len(rs))
	for p := range rs {
		persons = append(persons, string(p))
	}
	sort.Strings(persons)

	var out []RangeJSON
	for _, p := range persons {
		for _, r := range rs[generic.EntityID(p)] {
			out = append(out, RangeJSON{PersonID: p, Start: r.Start.Key(), End: r.End.Key()})
		}
	}
	return out
}
