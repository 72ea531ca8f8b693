/*
Package position defines the position-provider contract.

PURPOSE:
  The engine never talks to location hardware; it asks a Provider for
  the current coordinates and handles the two ways that can fail:
  permission was denied (hard stop for location features, not retried)
  or the position is transiently unavailable (surfaced with a retry
  affordance).

  A failed read never produces a Point - only an error.

SEE ALSO:
  - api/handlers.go: uses the provider when a request carries no coordinates
*/
package position

import (
	"context"
	"errors"

	"github.com/wfo/attendance-engine/geo"
)

var (
	// ErrPermissionDenied: location access was refused. Not retryable;
	// location-dependent features are disabled for the session.
	ErrPermissionDenied = errors.New("location permission denied")

	// ErrUnavailable: no position could be obtained right now. Transient.
	ErrUnavailable = errors.New("current position unavailable")
)

// Provider supplies the current coordinates. May take arbitrarily long;
// implementations honor ctx cancellation.
type Provider interface {
	Current(ctx context.Context) (geo.Point, error)
}

// IsRetryable reports whether a provider error might succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// =============================================================================
// STATIC PROVIDER - Fixture for tests and fixed deployments
// =============================================================================

// Static returns a fixed point, or a fixed error when Err is set.
type Static struct {
	Point geo.Point
	Err   error
}

func (s Static) Current(context.Context) (geo.Point, error) {
	if s.Err != nil {
		return geo.Point{}, s.Err
	}
	return s.Point, nil
}

// Func adapts a function to the Provider interface.
type Func func(ctx context.Context) (geo.Point, error)

func (f Func) Current(ctx context.Context) (geo.Point, error) {
	return f(ctx)
}
