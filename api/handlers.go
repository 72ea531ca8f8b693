/*
handlers.go - HTTP API handlers for the attendance tracker

PURPOSE:
  Exposes the attendance engine via REST. Handles HTTP request/response
  and JSON serialization, and delegates every decision to the domain
  packages.

ENDPOINTS:
  Attendance:
    POST   /api/attendance/evaluate  Run the proximity decision (no mutation)
    POST   /api/attendance/mark      Run the decision and record attendance
    GET    /api/attendance           History, newest first
    DELETE /api/attendance/{id}      Remove a history entry

  Configuration:
    GET    /api/config/office        Current office state
    PUT    /api/config/office        Set office location (body or provider)
    DELETE /api/config/office        Reset office location
    PUT    /api/config/radius        Set allowed radius
    GET    /api/config/reminder      Reminder time and next trigger
    PUT    /api/config/reminder      Set reminder time (reschedules)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 409: Conflict (attendance already marked today)
  - 412: Office location not configured
  - 502/503: Position provider failures
  - 500: Internal errors

SEE ALSO:
  - dto.go: request/response data structures
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wfo/attendance-engine/attendance"
	"github.com/wfo/attendance-engine/geo"
	"github.com/wfo/attendance-engine/position"
	"github.com/wfo/attendance-engine/reminder"
	"github.com/wfo/attendance-engine/session"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Ledger    *attendance.Ledger
	Session   *session.Manager
	Reminder  *reminder.Service
	Positions position.Provider // may be nil; requests must then carry coordinates

	// Now is the clock; tests override it to pin the calendar date.
	Now func() time.Time
}

// NewHandler creates a handler with the real clock.
func NewHandler(ledger *attendance.Ledger, sess *session.Manager, rem *reminder.Service, positions position.Provider) *Handler {
	return &Handler{
		Ledger:    ledger,
		Session:   sess,
		Reminder:  rem,
		Positions: positions,
		Now:       time.Now,
	}
}

func (h *Handler) today() attendance.Date {
	return attendance.DateOf(h.Now())
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// EvaluateAttendance runs the proximity decision without mutating anything.
// POST /api/attendance/evaluate
func (h *Handler) EvaluateAttendance(w http.ResponseWriter, r *http.Request) {
	var req CoordinatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	current, ok := h.resolvePosition(w, r, req)
	if !ok {
		return
	}

	decision := attendance.Evaluate(current, h.Session.OfficeConfig(), h.today(), h.Ledger)
	writeJSON(w, http.StatusOK, toDecisionDTO(decision))
}

// MarkAttendance runs the decision and records attendance when allowed.
// POST /api/attendance/mark
func (h *Handler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	var req MarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	current, ok := h.resolvePosition(w, r, req.CoordinatesRequest)
	if !ok {
		return
	}

	today := h.today()
	decision := attendance.Evaluate(current, h.Session.OfficeConfig(), today, h.Ledger)

	resp := MarkResponse{Decision: toDecisionDTO(decision)}

	switch decision.Kind {
	case attendance.DecisionRejected:
		status := http.StatusConflict
		if decision.Reason == attendance.ReasonNoOfficeConfigured {
			status = http.StatusPreconditionFailed
		}
		writeJSON(w, status, resp)
		return

	case attendance.DecisionNeedsConfirmation:
		if !req.Confirm {
			// The caller must ask the user and retry with confirm set.
			writeJSON(w, http.StatusOK, resp)
			return
		}
	}

	record := attendance.NewRecord(today, attendance.StatusForOutcome(decision))
	if err := h.Ledger.Append(r.Context(), record); err != nil {
		if errors.Is(err, attendance.ErrDuplicateDay) {
			writeError(w, http.StatusConflict, "Attendance already marked for today", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to record attendance", err)
		return
	}

	resp.Marked = true
	dto := toRecordDTO(record)
	resp.Record = &dto
	writeJSON(w, http.StatusCreated, resp)
}

// ListAttendance returns the history, newest first.
// GET /api/attendance
func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toRecordDTOs(h.Ledger.Records()))
}

// RemoveAttendance deletes a history entry.
// DELETE /api/attendance/{id}
func (h *Handler) RemoveAttendance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Ledger.Remove(r.Context(), id); err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Record not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to remove record", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CONFIG HANDLERS
// =============================================================================

// GetOfficeConfig returns the configured office state.
// GET /api/config/office
func (h *Handler) GetOfficeConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK,
		toOfficeConfigDTO(h.Session.OfficeConfig(), h.Session.AllowedRadiusMeters()))
}

// SetOfficeConfig sets the office location from the request body, or
// captures it from the position provider when no coordinates are given.
// PUT /api/config/office
func (h *Handler) SetOfficeConfig(w http.ResponseWriter, r *http.Request) {
	var req CoordinatesRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	point, ok := h.resolvePosition(w, r, req)
	if !ok {
		return
	}

	cfg, err := h.Session.SetOfficeLocation(r.Context(), point)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save office location", err)
		return
	}

	writeJSON(w, http.StatusOK, toOfficeConfigDTO(&cfg, cfg.AllowedRadiusMeters))
}

// ResetOfficeConfig clears the office location.
// DELETE /api/config/office
func (h *Handler) ResetOfficeConfig(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.ResetOfficeLocation(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset office location", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetRadius validates and stores the allowed radius.
// PUT /api/config/radius
func (h *Handler) SetRadius(w http.ResponseWriter, r *http.Request) {
	var req SetRadiusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Session.SetAllowedRadius(r.Context(), req.Meters); err != nil {
		if errors.Is(err, session.ErrRadiusNotPositive) {
			writeError(w, http.StatusBadRequest, "Please enter a valid distance greater than zero", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save allowed radius", err)
		return
	}

	writeJSON(w, http.StatusOK,
		toOfficeConfigDTO(h.Session.OfficeConfig(), h.Session.AllowedRadiusMeters()))
}

// GetReminder returns the reminder time and its next trigger.
// GET /api/config/reminder
func (h *Handler) GetReminder(w http.ResponseWriter, r *http.Request) {
	cfg := h.Reminder.Config()
	writeJSON(w, http.StatusOK, ReminderDTO{
		Time:        cfg.String(),
		NextTrigger: reminder.NextTrigger(cfg, h.Now()).Format(time.RFC3339),
	})
}

// SetReminder stores a new reminder time and reschedules the daily
// notification.
// PUT /api/config/reminder
func (h *Handler) SetReminder(w http.ResponseWriter, r *http.Request) {
	var req SetReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Reminder.SetTime(r.Context(), req.Time); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid reminder time (use HH:MM)", err)
		return
	}

	cfg := h.Reminder.Config()
	writeJSON(w, http.StatusOK, ReminderDTO{
		Time:        cfg.String(),
		NextTrigger: reminder.NextTrigger(cfg, h.Now()).Format(time.RFC3339),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// resolvePosition returns the coordinates from the request, falling back
// to the position provider. Writes the error response itself and returns
// ok=false when no position could be obtained.
func (h *Handler) resolvePosition(w http.ResponseWriter, r *http.Request, req CoordinatesRequest) (geo.Point, bool) {
	point, provided, err := req.point()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid coordinates", err)
		return geo.Point{}, false
	}
	if provided {
		return point, true
	}

	if h.Positions == nil {
		writeError(w, http.StatusBadRequest, "Coordinates required", nil)
		return geo.Point{}, false
	}

	point, err = h.Positions.Current(r.Context())
	if err != nil {
		if errors.Is(err, position.ErrPermissionDenied) {
			writeError(w, http.StatusForbidden, "Permission to access location was denied", err)
		} else {
			writeError(w, http.StatusServiceUnavailable, "Unable to get current location", err)
		}
		return geo.Point{}, false
	}
	return point, true
}

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
