/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's types (time.Time instants, decimal hours, closed enums) from
  the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Holidays:      HolidayDTO, CreateHolidayRequest
  Classify:      ClassifyDTO
  Calculations:  CalculationDTO, RunDTO, RunInfoDTO, SegmentDTO,
                 IntervalOutcomeDTO, LedgerEntryDTO, PersonSummaryDTO
  Scenarios:     ScenarioDTO

HOURS:
  Hours are rendered with two decimals ("2.50"), as payroll reports show them.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/batch.go: Request body for calculations (BatchJSON)
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/vacancy-engine/generic"
	"github.com/warp/vacancy-engine/sickpay"
)

// =============================================================================
// HOLIDAYS
// =============================================================================

// HolidayDTO represents a holiday in API responses.
type HolidayDTO struct {
	Date  string `json:"date"`
	Name  string `json:"name,omitempty"`
	Major bool   `json:"major"`
}

// CreateHolidayRequest is the body for POST /api/holidays.
type CreateHolidayRequest struct {
	Date  string `json:"date"`
	Name  string `json:"name"`
	Major bool   `json:"major"`
}

func toHolidayDTO(h generic.Holiday) HolidayDTO {
	return HolidayDTO{Date: h.Date.Key(), Name: h.Name, Major: h.Major}
}

// =============================================================================
// CLASSIFY
// =============================================================================

// ClassifyDTO is the OB class of one instant.
type ClassifyDTO struct {
	At      string `json:"at"`
	OnCall  bool   `json:"on_call"`
	OBClass string `json:"ob_class"`
	Label   string `json:"label"`
}

// =============================================================================
// CALCULATIONS
// =============================================================================

// SegmentDTO is one classified piece of a vacant interval.
type SegmentDTO struct {
	PersonID  string `json:"person_id"`
	Date      string `json:"date"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Hours     string `json:"hours"`
	OBClass   string `json:"ob_class"`
	OBLabel   string `json:"ob_label"`
	Status    string `json:"status"`
	PaidHours string `json:"paid_hours"`
}

// IntervalOutcomeDTO reports the mode chosen for an input interval.
type IntervalOutcomeDTO struct {
	PersonID      string `json:"person_id"`
	Date          string `json:"date"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Vacant        bool   `json:"vacant"`
	OnCall        bool   `json:"on_call"`
	Mode          string `json:"mode"`
	KarensSeconds int64  `json:"karens_seconds"`
}

// LedgerEntryDTO is one date of a person's karens ledger. Balances are
// seconds; null means unknown.
type LedgerEntryDTO struct {
	Date       string `json:"date"`
	Transition string `json:"transition"`
	Entering   *int64 `json:"entering_seconds"`
	Leaving    *int64 `json:"leaving_seconds"`
	KarensDay  bool   `json:"karens_day"`
	LongTerm   bool   `json:"long_term"`
}

// ClassHoursDTO is one summary row.
type ClassHoursDTO struct {
	OBClass string `json:"ob_class"`
	Label   string `json:"label"`
	Status  string `json:"status"`
	Hours   string `json:"hours"`
}

// PersonSummaryDTO totals a person's vacant hours.
type PersonSummaryDTO struct {
	PersonID     string          `json:"person_id"`
	Rows         []ClassHoursDTO `json:"rows"`
	PaidHours    string          `json:"paid_hours"`
	WaitingHours string          `json:"waiting_hours"`
	BeyondDay14  string          `json:"beyond_day_14_hours"`
	TotalHours   string          `json:"total_hours"`
}

// CalculationDTO is the response to a new calculation.
type CalculationDTO struct {
	ID        string                      `json:"id,omitempty"`
	Label     string                      `json:"label,omitempty"`
	CreatedAt string                      `json:"created_at,omitempty"`
	Segments  []SegmentDTO                `json:"segments"`
	Intervals []IntervalOutcomeDTO        `json:"intervals"`
	Ledgers   map[string][]LedgerEntryDTO `json:"ledgers"`
	Summary   []PersonSummaryDTO          `json:"summary"`
}

// RunDTO is a stored calculation.
type RunDTO struct {
	ID        string       `json:"id"`
	Label     string       `json:"label,omitempty"`
	CreatedAt string       `json:"created_at"`
	Segments  []SegmentDTO `json:"segments"`
}

// RunInfoDTO is a stored calculation without segments.
type RunInfoDTO struct {
	ID           string `json:"id"`
	Label        string `json:"label,omitempty"`
	CreatedAt    string `json:"created_at"`
	SegmentCount int    `json:"segment_count"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a built-in scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

// NewCalculationDTO renders a computed result. run supplies the identity
// fields and may be zero for unsaved calculations.
func NewCalculationDTO(run sickpay.Run, res sickpay.Result) CalculationDTO {
	dto := CalculationDTO{
		ID:        run.ID,
		Label:     run.Label,
		Segments:  toSegmentDTOs(res.Segments),
		Intervals: toIntervalDTOs(res.Intervals),
		Ledgers:   toLedgerDTOs(res.Ledgers),
		Summary:   toSummaryDTOs(sickpay.Summarize(res.Segments)),
	}
	if !run.CreatedAt.IsZero() {
		dto.CreatedAt = timestamp(run.CreatedAt)
	}
	return dto
}

func hoursString(d decimal.Decimal) string { return d.StringFixed(2) }

func timestamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func toSegmentDTOs(segments []sickpay.Segment) []SegmentDTO {
	out := make([]SegmentDTO, 0, len(segments))
	for _, s := range segments {
		out = append(out, SegmentDTO{
			PersonID:  string(s.PersonID),
			Date:      s.Date.Key(),
			Start:     timestamp(s.Start),
			End:       timestamp(s.End),
			Hours:     hoursString(s.Hours),
			OBClass:   string(s.OBClass),
			OBLabel:   s.OBClass.Label(),
			Status:    string(s.Status),
			PaidHours: hoursString(s.PaidHours),
		})
	}
	return out
}

func toIntervalDTOs(outcomes []sickpay.IntervalOutcome) []IntervalOutcomeDTO {
	out := make([]IntervalOutcomeDTO, 0, len(outcomes))
	for _, o := range outcomes {
		out = append(out, IntervalOutcomeDTO{
			PersonID:      string(o.Interval.PersonID),
			Date:          o.Interval.Date.Key(),
			Start:         o.Interval.Start.String(),
			End:           o.Interval.End.String(),
			Vacant:        o.Interval.Vacant,
			OnCall:        o.Interval.OnCall,
			Mode:          o.Mode.String(),
			KarensSeconds: int64(o.KarensInInterval / time.Second),
		})
	}
	return out
}

func balanceSeconds(b sickpay.Balance) *int64 {
	if !b.Known {
		return nil
	}
	s := int64(b.Remaining / time.Second)
	return &s
}

func toLedgerDTOs(ledgers map[generic.EntityID][]sickpay.LedgerEntry) map[string][]LedgerEntryDTO {
	out := make(map[string][]LedgerEntryDTO, len(ledgers))
	for person, entries := range ledgers {
		dtos := make([]LedgerEntryDTO, 0, len(entries))
		for _, e := range entries {
			dtos = append(dtos, LedgerEntryDTO{
				Date:       e.Date.Key(),
				Transition: string(e.Transition),
				Entering:   balanceSeconds(e.Entering),
				Leaving:    balanceSeconds(e.Leaving),
				KarensDay:  e.KarensDay,
				LongTerm:   e.LongTerm,
			})
		}
		out[string(person)] = dtos
	}
	return out
}

func toSummaryDTOs(summaries []sickpay.PersonSummary) []PersonSummaryDTO {
	out := make([]PersonSummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		dto := PersonSummaryDTO{
			PersonID:     string(s.PersonID),
			Rows:         make([]ClassHoursDTO, 0, len(s.ByClass)),
			PaidHours:    hoursString(s.PaidHours),
			WaitingHours: hoursString(s.WaitingHours),
			BeyondDay14:  hoursString(s.BeyondDay14),
			TotalHours:   hoursString(s.TotalHours),
		}
		for _, row := range s.ByClass {
			dto.Rows = append(dto.Rows, ClassHoursDTO{
				OBClass: string(row.OBClass),
				Label:   row.OBClass.Label(),
				Status:  string(row.Status),
				Hours:   hoursString(row.Hours),
			})
		}
		out = append(out, dto)
	}
	return out
}

func toRunInfoDTOs(runs []sickpay.RunInfo) []RunInfoDTO {
	out := make([]RunInfoDTO, 0, len(runs))
	for _, r := range runs {
		out = append(out, RunInfoDTO{
			ID:           r.ID,
			Label:        r.Label,
			CreatedAt:    timestamp(r.CreatedAt),
			SegmentCount: r.SegmentCount,
		})
	}
	return out
}
