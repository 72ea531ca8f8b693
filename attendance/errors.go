/*
errors.go - Centralized error types for the attendance core

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers match with errors.Is / errors.As.

ERROR CATEGORIES:
  1. Ledger errors - uniqueness and lookup failures
  2. Store errors  - persistence failures, wrapped with context

SEE ALSO:
  - ledger.go: returns these errors
  - api/handlers.go: maps them to HTTP statuses
*/
package attendance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDuplicateDay is returned when appending a record for a date that
	// already has one. This enforces the one-record-per-date invariant.
	ErrDuplicateDay = errors.New("attendance already marked for this date")

	// ErrRecordNotFound is returned when removing an id that does not exist.
	ErrRecordNotFound = errors.New("attendance record not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DuplicateDayError reports which date was duplicated and which existing
// record holds it.
type DuplicateDayError struct {
	Date         Date
	ExistingID   string
	ExistingStat Status
}

func (e *DuplicateDayError) Error() string {
	return fmt.Sprintf("attendance already marked for %s (record %s, %s)",
		e.Date, e.ExistingID, e.ExistingStat)
}

func (e *DuplicateDayError) Unwrap() error {
	return ErrDuplicateDay
}

// IsClientError returns true if the error is due to invalid caller input
// rather than a persistence failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrDuplicateDay) || errors.Is(err, ErrRecordNotFound)
}
