/*
policy.go - The proximity decision

PURPOSE:
  Maps (current position, office config, today, history) to a Decision.
  Pure function: no mutation, no I/O, no suspension. The caller acts on
  the decision and, if it proceeds, appends to the ledger.

ALGORITHM (evaluated in order):
  1. No office configured          -> Rejected(NoOfficeConfigured)
  2. Record already exists today   -> Rejected(AlreadyMarkedToday)
  3. Compute distance, in-range, weekend
  4. In range on a workday         -> AutoApproved
  5. Anything else                 -> NeedsConfirmation with a prompt

  The duplicate-day check precedes the distance computation so the
  one-record-per-date invariant holds deterministically regardless of
  the distance outcome.

SEE ALSO:
  - ledger.go: the HasEntryFor query and the append the caller performs
  - geo/geo.go: DistanceMeters
*/
package attendance

import (
	"fmt"

	"github.com/wfo/attendance-engine/geo"
)

// =============================================================================
// DECISION - Tagged variant result of the policy
// =============================================================================

type DecisionKind string

const (
	DecisionRejected          DecisionKind = "rejected"
	DecisionAutoApproved      DecisionKind = "auto_approved"
	DecisionNeedsConfirmation DecisionKind = "needs_confirmation"
)

type RejectReason string

const (
	ReasonNoOfficeConfigured RejectReason = "no_office_configured"
	ReasonAlreadyMarkedToday RejectReason = "already_marked_today"
)

// Decision is the outcome of evaluating the proximity policy.
//
//   - Rejected: terminal, no ledger mutation. Reason is set.
//   - AutoApproved: the caller appends an InRange record for today.
//   - NeedsConfirmation: the caller asks the user; on acceptance it
//     appends a Proceeded record, on decline nothing happens.
//
// DistanceMeters, InRange and IsWeekend are populated for every
// non-rejected decision.
type Decision struct {
	Kind           DecisionKind
	Reason         RejectReason
	DistanceMeters float64
	InRange        bool
	IsWeekend      bool
	Prompt         string
}

// DayQuery is the slice of the ledger the policy needs.
type DayQuery interface {
	HasEntryFor(date Date) bool
}

// =============================================================================
// EVALUATE
// =============================================================================

// Evaluate runs the proximity decision for the given moment.
// cfg may be nil (office not configured).
func Evaluate(current geo.Point, cfg *OfficeConfig, today Date, history DayQuery) Decision {
	if cfg == nil {
		return Decision{Kind: DecisionRejected, Reason: ReasonNoOfficeConfigured}
	}
	if history.HasEntryFor(today) {
		return Decision{Kind: DecisionRejected, Reason: ReasonAlreadyMarkedToday}
	}

	d := geo.DistanceMeters(current, cfg.Location)
	inRange := d <= cfg.AllowedRadiusMeters
	isWeekend := today.IsWeekend()

	if inRange && !isWeekend {
		return Decision{
			Kind:           DecisionAutoApproved,
			DistanceMeters: d,
			InRange:        true,
		}
	}

	return Decision{
		Kind:           DecisionNeedsConfirmation,
		DistanceMeters: d,
		InRange:        inRange,
		IsWeekend:      isWeekend,
		Prompt:         confirmationPrompt(d, inRange, isWeekend),
	}
}

func confirmationPrompt(distance float64, inRange, isWeekend bool) string {
	switch {
	case isWeekend && inRange:
		return "It's the weekend. Do you still want to proceed with marking attendance?"
	case isWeekend:
		return fmt.Sprintf("It's the weekend and you are out of range (%.2f m). Do you still want to proceed with marking attendance?", distance)
	default:
		return fmt.Sprintf("You are not within the allowed distance (%.2f m). Do you still want to proceed?", distance)
	}
}

// StatusForOutcome returns the record status for a ledger append that
// follows a decision: InRange for an auto-approval, Proceeded for a
// confirmed NeedsConfirmation.
func StatusForOutcome(d Decision) Status {
	if d.Kind == DecisionAutoApproved {
		return StatusInRange
	}
	return StatusProceeded
}
