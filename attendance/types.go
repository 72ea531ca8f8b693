/*
Package attendance implements the proximity-attendance core: the record
ledger and the decision policy.

PURPOSE:
  Given a point-in-time position, the stored office location, an allowed
  radius, and the existing history, decide whether to record attendance
  silently, ask the user to confirm, or reject - and never record the
  same calendar date twice.

KEY CONCEPTS:
  - Record: an immutable attendance entry (one per calendar date)
  - Ledger: the persisted, newest-first collection of records
  - Decision: the tagged-variant outcome of evaluating the policy

DESIGN PRINCIPLES:
  1. Immutability: records are never edited, only removed
  2. One record per date: enforced at append time, checked by the policy
  3. Pure decisions: Evaluate never mutates anything; the caller appends

SEE ALSO:
  - ledger.go: persistence and the per-date uniqueness invariant
  - policy.go: the decision algorithm
  - session/session.go: office location and radius state
*/
package attendance

import (
	"fmt"
	"time"

	"github.com/wfo/attendance-engine/geo"
)

// =============================================================================
// STATUS - How a record came to exist
// =============================================================================

type Status string

const (
	// StatusInRange: marked automatically, within the allowed radius on a workday.
	StatusInRange Status = "in_range"

	// StatusOutOfRange: recorded despite being outside the allowed radius.
	StatusOutOfRange Status = "out_of_range"

	// StatusManualEntry: entered by hand, outside the normal marking flow.
	StatusManualEntry Status = "manual_entry"

	// StatusProceeded: the user confirmed after a NeedsConfirmation decision.
	StatusProceeded Status = "proceeded"
)

// =============================================================================
// RECORD - One attendance entry
// =============================================================================

// Record is an immutable attendance entry. Only removable, never edited.
// ID is unique within the ledger; Date is the dedup key.
type Record struct {
	ID     string `json:"id"`
	Date   Date   `json:"-"`
	Day    string `json:"day"`
	Status Status `json:"status"`
}

// NewRecord builds a record for the given date. The id is the creation
// instant in nanoseconds, which is unique within a single session.
func NewRecord(date Date, status Status) Record {
	return Record{
		ID:     fmt.Sprintf("%d", time.Now().UnixNano()),
		Date:   date,
		Day:    date.Weekday().String(),
		Status: status,
	}
}

// =============================================================================
// OFFICE CONFIG - Reference location and tolerance
// =============================================================================

// OfficeConfig is the reference location attendance is measured against.
// AllowedRadiusMeters is always > 0 (enforced at configuration time).
type OfficeConfig struct {
	Location            geo.Point
	AllowedRadiusMeters float64
}
