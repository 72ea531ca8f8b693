/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model
  from the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: uses these types
*/
package api

import (
	"github.com/wfo/attendance-engine/attendance"
	"github.com/wfo/attendance-engine/geo"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CoordinatesRequest carries the caller's current position. When both
// fields are nil the server falls back to its position provider.
type CoordinatesRequest struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// MarkRequest is the body of POST /api/attendance/mark.
type MarkRequest struct {
	CoordinatesRequest
	// Confirm accepts a NeedsConfirmation outcome in the same call.
	Confirm bool `json:"confirm,omitempty"`
}

// DecisionDTO is the serialized proximity decision.
type DecisionDTO struct {
	Kind           string  `json:"kind"`
	Reason         string  `json:"reason,omitempty"`
	DistanceMeters float64 `json:"distance_meters,omitempty"`
	InRange        bool    `json:"in_range"`
	IsWeekend      bool    `json:"is_weekend"`
	Prompt         string  `json:"prompt,omitempty"`
}

// RecordDTO is an attendance history entry.
type RecordDTO struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Day    string `json:"day"`
	Status string `json:"status"`
}

// MarkResponse reports the decision and, when one was appended, the
// resulting record.
type MarkResponse struct {
	Decision DecisionDTO `json:"decision"`
	Marked   bool        `json:"marked"`
	Record   *RecordDTO  `json:"record,omitempty"`
}

// OfficeConfigDTO is the configured office state.
type OfficeConfigDTO struct {
	Configured          bool     `json:"configured"`
	Latitude            *float64 `json:"latitude,omitempty"`
	Longitude           *float64 `json:"longitude,omitempty"`
	AllowedRadiusMeters float64  `json:"allowed_radius_meters"`
}

// SetRadiusRequest is the body of PUT /api/config/radius. Meters is a
// string so the server validates the exact user input.
type SetRadiusRequest struct {
	Meters string `json:"meters"`
}

// ReminderDTO is the configured reminder time.
type ReminderDTO struct {
	Time        string `json:"time"`
	NextTrigger string `json:"next_trigger"`
}

// SetReminderRequest is the body of PUT /api/config/reminder.
type SetReminderRequest struct {
	Time string `json:"time"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toDecisionDTO(d attendance.Decision) DecisionDTO {
	return DecisionDTO{
		Kind:           string(d.Kind),
		Reason:         string(d.Reason),
		DistanceMeters: d.DistanceMeters,
		InRange:        d.InRange,
		IsWeekend:      d.IsWeekend,
		Prompt:         d.Prompt,
	}
}

func toRecordDTO(r attendance.Record) RecordDTO {
	return RecordDTO{
		ID:     r.ID,
		Date:   r.Date.String(),
		Day:    r.Day,
		Status: string(r.Status),
	}
}

func toRecordDTOs(records []attendance.Record) []RecordDTO {
	dtos := make([]RecordDTO, len(records))
	for i, r := range records {
		dtos[i] = toRecordDTO(r)
	}
	return dtos
}

func toOfficeConfigDTO(cfg *attendance.OfficeConfig, radius float64) OfficeConfigDTO {
	if cfg == nil {
		return OfficeConfigDTO{Configured: false, AllowedRadiusMeters: radius}
	}
	lat, lon := cfg.Location.Latitude, cfg.Location.Longitude
	return OfficeConfigDTO{
		Configured:          true,
		Latitude:            &lat,
		Longitude:           &lon,
		AllowedRadiusMeters: cfg.AllowedRadiusMeters,
	}
}

func (c CoordinatesRequest) point() (geo.Point, bool, error) {
	if c.Latitude == nil || c.Longitude == nil {
		return geo.Point{}, false, nil
	}
	p, err := geo.New(*c.Latitude, *c.Longitude)
	return p, true, err
}
