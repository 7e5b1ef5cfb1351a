/*
Package factory converts external documents into engine inputs.

PURPOSE:
  The engine works on fully materialized Go values. Holiday calendars and
  calculation batches arrive as documents (YAML config files, JSON request
  bodies); this package validates them and builds the typed inputs.

CALENDAR YAML:
  holidays:          # every public holiday, including the major ones
    - 2025-01-01
    - 2025-01-06
  storhelg:          # major holidays (Easter, Midsummer, Christmas, New Year)
    - 2025-12-25

  A date listed only under storhelg is still a holiday. Other top-level keys
  (rate tables and the like) are ignored on read and kept on merge.

BATCH JSON:
  See batch.go.
*/
package factory

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/warp/vacancy-engine/generic"
)

// =============================================================================
// CALENDAR DOCUMENT
// =============================================================================

// CalendarYAML is the on-disk shape of the holiday calendar.
type CalendarYAML struct {
	Holidays []string `yaml:"holidays"`
	Storhelg []string `yaml:"storhelg,omitempty"`
}

// ParseCalendarYAML parses a calendar document. The returned holidays are
// sorted by date, one record per date.
func ParseCalendarYAML(data []byte) (*generic.Calendar, []generic.Holiday, error) {
	var doc CalendarYAML
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse calendar YAML: %w", err)
	}
	holidays, err := doc.Records()
	if err != nil {
		return nil, nil, err
	}
	return generic.NewCalendarFromHolidays(holidays), holidays, nil
}

// Records validates the document's dates and merges the two lists.
func (doc CalendarYAML) Records() ([]generic.Holiday, error) {
	byDate := make(map[string]generic.Holiday)
	for _, s := range doc.Holidays {
		d, err := parseDateField("holidays", s)
		if err != nil {
			return nil, err
		}
		if _, ok := byDate[d.Key()]; !ok {
			byDate[d.Key()] = generic.Holiday{Date: d}
		}
	}
	for _, s := range doc.Storhelg {
		d, err := parseDateField("storhelg", s)
		if err != nil {
			return nil, err
		}
		h := byDate[d.Key()]
		h.Date = d
		h.Major = true
		byDate[d.Key()] = h
	}

	out := make([]generic.Holiday, 0, len(byDate))
	for _, h := range byDate {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// CalendarDocument builds the YAML shape from holiday records.
func CalendarDocument(holidays []generic.Holiday) CalendarYAML {
	sorted := make([]generic.Holiday, len(holidays))
	copy(sorted, holidays)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	doc := CalendarYAML{Holidays: []string{}}
	for _, h := range sorted {
		doc.Holidays = append(doc.Holidays, h.Date.Key())
		if h.Major {
			doc.Storhelg = append(doc.Storhelg, h.Date.Key())
		}
	}
	return doc
}

// MarshalCalendarYAML writes holidays in the calendar document shape.
func MarshalCalendarYAML(holidays []generic.Holiday) ([]byte, error) {
	return yaml.Marshal(CalendarDocument(holidays))
}

// MergeCalendarYAML replaces the holiday lists of an existing config
// document and keeps every other top-level key.
func MergeCalendarYAML(existing []byte, holidays []generic.Holiday) ([]byte, error) {
	data := make(map[string]interface{})
	if len(existing) > 0 {
		if err := yaml.Unmarshal(existing, &data); err != nil {
			return nil, fmt.Errorf("failed to parse existing config: %w", err)
		}
		if data == nil {
			data = make(map[string]interface{})
		}
	}
	doc := CalendarDocument(holidays)
	data["holidays"] = doc.Holidays
	if len(doc.Storhelg) > 0 {
		data["storhelg"] = doc.Storhelg
	} else {
		delete(data, "storhelg")
	}
	return yaml.Marshal(data)
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseDateField(field, s string) (generic.TimePoint, error) {
	d, err := generic.ParseDate(s)
	if err != nil {
		return generic.TimePoint{}, &generic.ParseError{Field: field, Value: s, Err: generic.ErrInvalidDate}
	}
	return d, nil
}

func parseClockField(field, s string) (generic.ClockTime, error) {
	c, err := generic.ParseClockTime(s)
	if err != nil {
		return generic.ClockTime{}, &generic.ParseError{Field: field, Value: s, Err: generic.ErrInvalidClockTime}
	}
	return c, nil
}
