/*
scenarios.go - Built-in calculation scenarios for demos and smoke tests

PURPOSE:

	Provides pre-built batches that exercise the karens ledger and the OB
	classifier end to end. Running a scenario goes through the same path as
	POST /api/calculations, so the run is stored and can be listed.

AVAILABLE SCENARIOS:

	major-holiday-unknown:   Christmas Day shift, no karens evidence
	full-waiting-period:     8h karens entry consumed by one 8h shift
	paid-continuation:       Day after a consumed karens, no new entry
	paid-first-day-midnight: Evening shift past karens, crossing midnight
	partial-waiting-period:  Karens ends mid-shift

USAGE VIA API:

	GET  /api/scenarios
	POST /api/scenarios/{id}/run

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Add its batch to scenarioBatches

SEE ALSO:
  - handlers.go: calculate, shared with POST /api/calculations
  - factory/batch.go: Batch JSON definitions
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warp/vacancy-engine/factory"
	"github.com/warp/vacancy-engine/generic"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "major-holiday-unknown",
		Name:        "Major Holiday, Unknown Deduction",
		Description: "Vacant shift on Christmas Day with no karens entry and no ranges; paid day 2-14 at the major holiday rate",
		Category:    "ob",
	},
	{
		ID:          "full-waiting-period",
		Name:        "Full Waiting Period",
		Description: "Karens entry of 8 hours consumed by one 8 hour vacant shift",
		Category:    "karens",
	},
	{
		ID:          "paid-continuation",
		Name:        "Paid Continuation",
		Description: "Next day after a consumed karens entry; the zero balance carries over and the shift is paid",
		Category:    "karens",
	},
	{
		ID:          "paid-first-day-midnight",
		Name:        "Paid First Day Across Midnight",
		Description: "Karens used by a morning shift; the vacant evening shift runs past midnight and is split at 22:00 and 00:00",
		Category:    "ob",
	},
	{
		ID:          "partial-waiting-period",
		Name:        "Partial Waiting Period",
		Description: "Karens entry of 3.5 hours ends inside an 8 hour shift",
		Category:    "karens",
	},
}

func scenarioInterval(date, start, end string, vacant bool) factory.IntervalJSON {
	return factory.IntervalJSON{PersonID: "P", Date: date, Start: start, End: end, Vacant: vacant}
}

var scenarioBatches = map[string]factory.BatchJSON{
	"major-holiday-unknown": {
		Intervals:     []factory.IntervalJSON{scenarioInterval("2025-12-25", "15:00", "17:00", true)},
		Holidays:      []string{"2025-12-25"},
		MajorHolidays: []string{"2025-12-25"},
	},
	"full-waiting-period": {
		Intervals:     []factory.IntervalJSON{scenarioInterval("2025-03-04", "08:00", "16:00", true)},
		KarensEntries: []factory.KarensEntryJSON{{PersonID: "P", Date: "2025-03-04", Seconds: 28800}},
	},
	"paid-continuation": {
		Intervals: []factory.IntervalJSON{
			scenarioInterval("2025-03-04", "08:00", "16:00", true),
			scenarioInterval("2025-03-05", "08:00", "10:00", true),
		},
		KarensEntries: []factory.KarensEntryJSON{{PersonID: "P", Date: "2025-03-04", Seconds: 28800}},
	},
	"paid-first-day-midnight": {
		Intervals: []factory.IntervalJSON{
			scenarioInterval("2025-03-04", "08:00", "09:00", false),
			scenarioInterval("2025-03-04", "21:00", "01:00", true),
		},
		KarensEntries: []factory.KarensEntryJSON{{PersonID: "P", Date: "2025-03-04", Seconds: 3600}},
	},
	"partial-waiting-period": {
		Intervals:     []factory.IntervalJSON{scenarioInterval("2025-03-04", "08:00", "16:00", true)},
		KarensEntries: []factory.KarensEntryJSON{{PersonID: "P", Date: "2025-03-04", Seconds: 12600}},
	},
}

// ScenarioBatch returns the batch document of a built-in scenario.
func ScenarioBatch(id string) ([]byte, error) {
	bj, ok := scenarioBatches[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", generic.ErrScenarioNotFound, id)
	}
	return json.Marshal(bj)
}

// =============================================================================
// HANDLERS
// =============================================================================

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// RunScenario computes and stores a built-in scenario.
func (h *Handler) RunScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	body, err := ScenarioBatch(id)
	if err != nil {
		writeDomainError(w, "Unknown scenario", err)
		return
	}

	dto, err := h.calculate(r.Context(), body, "scenario:"+id)
	if err != nil {
		writeDomainError(w, "Scenario failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}
