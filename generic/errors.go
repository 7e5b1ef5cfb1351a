/*
errors.go - Centralized error types for the engine and its collaborators

PURPOSE:
  All error types in one place for consistency and discoverability.
  The computation core itself is total: it never fails on domain data.
  These errors belong to the layers around it (input parsing, storage,
  HTTP) which wrap them with additional context.

ERROR CATEGORIES:
  1. Parse errors - Malformed dates, clock times, periods in batch input
  2. Store errors - Missing runs or holidays, persistence failures

USAGE:
    if errors.Is(err, generic.ErrInvalidDate) {
        // 400 Bad Request
    }

SEE ALSO:
  - factory/batch.go: Produces ParseError for malformed batch input
  - api/handlers.go: Maps errors to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDate is returned when a date is not a valid YYYY-MM-DD value.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidClockTime is returned when a time of day is not a valid HH:MM value.
	ErrInvalidClockTime = errors.New("invalid clock time")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrInvalidDuration is returned for negative waiting-period durations.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrMissingPerson is returned when an input record has no person identifier.
	ErrMissingPerson = errors.New("missing person id")

	// ErrRunNotFound is returned when a calculation run doesn't exist.
	ErrRunNotFound = errors.New("calculation run not found")

	// ErrDuplicateRun is returned when a run id is saved twice.
	ErrDuplicateRun = errors.New("duplicate calculation run id")

	// ErrHolidayNotFound is returned when deleting a holiday that doesn't exist.
	ErrHolidayNotFound = errors.New("holiday not found")

	// ErrScenarioNotFound is returned for an unknown demo scenario id.
	ErrScenarioNotFound = errors.New("scenario not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ParseError reports which field and value failed to parse.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RecordError locates a parse failure inside a batch.
type RecordError struct {
	Kind  string // "interval", "karens_entry", "sick_day_range", ...
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s[%d]: %v", e.Kind, e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidClockTime) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidDuration) ||
		errors.Is(err, ErrMissingPerson)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRunNotFound) ||
		errors.Is(err, ErrHolidayNotFound) ||
		errors.Is(err, ErrScenarioNotFound)
}
