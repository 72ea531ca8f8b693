/*
Package geo provides coordinate types and great-circle distance.

PURPOSE:
  The only geodesy this system needs: a validated latitude/longitude pair
  and the haversine distance between two of them. Everything is a pure
  function; there is no state and no error path once a Point exists.

INVARIANT:
  A Point is always within valid ranges. Construction through New is the
  only way callers should build one from untrusted input, so a bad reading
  from a position provider never becomes a Point.

SEE ALSO:
  - attendance/policy.go: consumes DistanceMeters for the in-range check
*/
package geo

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000.0

var (
	// ErrInvalidLatitude is returned for latitudes outside [-90, 90].
	ErrInvalidLatitude = errors.New("latitude out of range [-90, 90]")

	// ErrInvalidLongitude is returned for longitudes outside [-180, 180].
	ErrInvalidLongitude = errors.New("longitude out of range [-180, 180]")
)

// Point is an immutable latitude/longitude pair in decimal degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// New validates the coordinates and returns a Point.
func New(latitude, longitude float64) (Point, error) {
	if math.IsNaN(latitude) || latitude < -90 || latitude > 90 {
		return Point{}, fmt.Errorf("%w: %v", ErrInvalidLatitude, latitude)
	}
	if math.IsNaN(longitude) || longitude < -180 || longitude > 180 {
		return Point{}, fmt.Errorf("%w: %v", ErrInvalidLongitude, longitude)
	}
	return Point{Latitude: latitude, Longitude: longitude}, nil
}

func (p Point) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", p.Latitude, p.Longitude)
}

// DistanceMeters returns the great-circle distance between a and b using
// the haversine formula. Always finite and non-negative; 0 when a == b.
func DistanceMeters(a, b Point) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Latitude))*math.Cos(toRadians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
