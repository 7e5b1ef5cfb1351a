/*
handlers.go - HTTP API handlers for the vacancy engine

PURPOSE:
  Exposes the karens/OB segmentation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the engine and
  the store.

ENDPOINTS:
  Holidays:
    GET    /api/holidays                  List calendar
    POST   /api/holidays                  Add or update one date
    DELETE /api/holidays/{date}           Remove one date
    POST   /api/holidays/import           Load a YAML calendar document
    GET    /api/holidays/export           Calendar as YAML

  Classify:
    GET    /api/classify?at=...&on_call=  OB class of one instant

  Calculations:
    POST   /api/calculations              Compute and store a batch
    GET    /api/calculations              List stored runs
    GET    /api/calculations/{id}         Stored run with segments
    GET    /api/calculations/{id}/summary Hours per OB class and status

  Scenarios:
    GET    /api/scenarios                 List built-in scenarios
    POST   /api/scenarios/{id}/run        Compute a built-in scenario

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: holidays and runs
  - Engine: the computation, which never touches the store
  - Logger: application events (request lines come from chi's middleware)

REQUEST FLOW (calculations):
  1. Parse batch JSON (factory.ParseBatch)
  2. Calendar from the batch, else from the store
  3. Engine.Compute
  4. Store the run with the batch as received
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed batch, date, clock time or query parameter
  - 404: Run, holiday or scenario not found
  - 409: Duplicate run id
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Built-in scenarios
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/warp/vacancy-engine/factory"
	"github.com/warp/vacancy-engine/generic"
	"github.com/warp/vacancy-engine/sickpay"
)

// maxBodyBytes bounds batch and calendar uploads.
const maxBodyBytes = 8 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  sickpay.Store
	Engine *sickpay.Engine
	Logger zerolog.Logger

	now   func() time.Time
	newID func() string
}

// NewHandler creates a new handler with the given store and engine.
func NewHandler(store sickpay.Store, engine *sickpay.Engine, logger zerolog.Logger) *Handler {
	return &Handler{
		Store:  store,
		Engine: engine,
		Logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns the stored calendar in date order.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		dtos = append(dtos, toHolidayDTO(hol))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds a date to the calendar, replacing an existing entry.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := generic.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format", err)
		return
	}

	holiday := generic.Holiday{Date: date, Name: req.Name, Major: req.Major}
	if err := h.Store.SaveHoliday(r.Context(), holiday); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
		return
	}

	writeJSON(w, http.StatusCreated, toHolidayDTO(holiday))
}

// DeleteHoliday removes a date from the calendar.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	date, err := generic.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format", err)
		return
	}

	if err := h.Store.DeleteHoliday(r.Context(), date); err != nil {
		writeDomainError(w, "Failed to delete holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportHolidays loads a YAML calendar document. With ?replace=true the
// existing calendar is cleared first.
func (h *Handler) ImportHolidays(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read body", err)
		return
	}

	_, holidays, err := factory.ParseCalendarYAML(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid calendar document", err)
		return
	}

	ctx := r.Context()
	if r.URL.Query().Get("replace") == "true" {
		existing, err := h.Store.ListHolidays(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
			return
		}
		for _, hol := range existing {
			if err := h.Store.DeleteHoliday(ctx, hol.Date); err != nil && !generic.IsNotFound(err) {
				writeError(w, http.StatusInternalServerError, "Failed to clear calendar", err)
				return
			}
		}
	}

	for _, hol := range holidays {
		if err := h.Store.SaveHoliday(ctx, hol); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
			return
		}
	}

	h.Logger.Info().Int("holidays", len(holidays)).Msg("calendar imported")
	writeJSON(w, http.StatusOK, map[string]int{"imported": len(holidays)})
}

// ExportHolidays writes the stored calendar as a YAML document.
func (h *Handler) ExportHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	doc, err := factory.MarshalCalendarYAML(holidays)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode calendar", err)
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

// =============================================================================
// CLASSIFY
// =============================================================================

// Classify reports the OB class of one instant against the stored calendar.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	at, err := parseInstant(q.Get("at"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid 'at' parameter", err)
		return
	}

	onCall := false
	if raw := q.Get("on_call"); raw != "" {
		onCall, err = strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid 'on_call' parameter", err)
			return
		}
	}

	cal, err := sickpay.LoadCalendar(r.Context(), h.Store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load calendar", err)
		return
	}

	class := sickpay.Classify(at, cal)
	if onCall {
		class = sickpay.ClassifyOnCall(at, cal)
	}

	writeJSON(w, http.StatusOK, ClassifyDTO{
		At:      at.Format("2006-01-02T15:04"),
		OnCall:  onCall,
		OBClass: string(class),
		Label:   class.Label(),
	})
}

// parseInstant accepts RFC 3339 or "YYYY-MM-DDTHH:MM". The wall clock is
// kept as given; any offset is dropped.
func parseInstant(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, &generic.ParseError{Field: "at", Value: s, Err: generic.ErrInvalidDate}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04", s)
	}
	if err != nil {
		return time.Time{}, &generic.ParseError{Field: "at", Value: s, Err: generic.ErrInvalidDate}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}

// =============================================================================
// CALCULATIONS
// =============================================================================

// CreateCalculation computes a batch and stores the run. ?label= names it.
func (h *Handler) CreateCalculation(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read body", err)
		return
	}

	dto, err := h.calculate(r.Context(), body, trimLabel(r.URL.Query().Get("label")))
	if err != nil {
		writeDomainError(w, "Calculation failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// errBadBatch marks batch documents that could not be parsed at all.
var errBadBatch = errors.New("invalid batch")

func (h *Handler) calculate(ctx context.Context, body []byte, label string) (*CalculationDTO, error) {
	batch, err := factory.ParseBatch(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBadBatch, err)
	}

	in := batch.Input
	if batch.Calendar == nil {
		cal, err := sickpay.LoadCalendar(ctx, h.Store)
		if err != nil {
			return nil, fmt.Errorf("failed to load calendar: %w", err)
		}
		in.Calendar = cal
	}

	res, err := h.Engine.Compute(ctx, in)
	if err != nil {
		return nil, err
	}

	run := sickpay.Run{
		ID:        h.newID(),
		Label:     label,
		CreatedAt: h.now().UTC(),
		InputJSON: string(body),
		Segments:  res.Segments,
	}
	if err := h.Store.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to save run: %w", err)
	}

	h.Logger.Info().
		Str("run", run.ID).
		Str("label", label).
		Int("intervals", len(in.Intervals)).
		Int("segments", len(res.Segments)).
		Msg("calculation stored")

	dto := NewCalculationDTO(run, res)
	return &dto, nil
}

// ListCalculations returns stored runs, newest first.
func (h *Handler) ListCalculations(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListRuns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list calculations", err)
		return
	}
	writeJSON(w, http.StatusOK, toRunInfoDTOs(runs))
}

// GetCalculation returns a stored run with its segments.
func (h *Handler) GetCalculation(w http.ResponseWriter, r *http.Request) {
	run, err := h.Store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to load calculation", err)
		return
	}

	writeJSON(w, http.StatusOK, RunDTO{
		ID:        run.ID,
		Label:     run.Label,
		CreatedAt: timestamp(run.CreatedAt),
		Segments:  toSegmentDTOs(run.Segments),
	})
}

// GetCalculationSummary totals a stored run per person.
func (h *Handler) GetCalculationSummary(w http.ResponseWriter, r *http.Request) {
	run, err := h.Store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to load calculation", err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTOs(sickpay.Summarize(run.Segments)))
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError picks the status from the error's category.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, errBadBatch), generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, generic.ErrDuplicateRun):
		writeError(w, http.StatusConflict, message, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

// trimLabel keeps stored labels short and single-line.
func trimLabel(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}
