package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfo/attendance-engine/geo"
)

func mustPoint(t *testing.T, lat, lon float64) geo.Point {
	t.Helper()
	p, err := geo.New(lat, lon)
	require.NoError(t, err)
	return p
}

// =============================================================================
// CONSTRUCTION / VALIDATION
// =============================================================================

func TestNew_ValidRanges(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
	}{
		{"origin", 0, 0},
		{"north pole", 90, 0},
		{"south pole", -90, 0},
		{"date line east", 0, 180},
		{"date line west", 0, -180},
		{"bangalore", 12.9716, 77.5946},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := geo.New(tt.lat, tt.lon)
			require.NoError(t, err)
			assert.Equal(t, tt.lat, p.Latitude)
			assert.Equal(t, tt.lon, p.Longitude)
		})
	}
}

func TestNew_RejectsOutOfRange(t *testing.T) {
	_, err := geo.New(90.0001, 0)
	assert.ErrorIs(t, err, geo.ErrInvalidLatitude)

	_, err = geo.New(-91, 0)
	assert.ErrorIs(t, err, geo.ErrInvalidLatitude)

	_, err = geo.New(0, 180.5)
	assert.ErrorIs(t, err, geo.ErrInvalidLongitude)

	_, err = geo.New(0, -200)
	assert.ErrorIs(t, err, geo.ErrInvalidLongitude)
}

// =============================================================================
// DISTANCE PROPERTIES
// =============================================================================

func TestDistanceMeters_ZeroAtIdentity(t *testing.T) {
	points := []geo.Point{
		mustPoint(t, 0, 0),
		mustPoint(t, 12.9716, 77.5946),
		mustPoint(t, -33.8688, 151.2093),
		mustPoint(t, 89.9, -179.9),
	}

	for _, p := range points {
		assert.Zero(t, geo.DistanceMeters(p, p), "distance to self should be zero for %v", p)
	}
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	pairs := [][2]geo.Point{
		{mustPoint(t, 0, 0), mustPoint(t, 0, 1)},
		{mustPoint(t, 12.9716, 77.5946), mustPoint(t, 12.2958, 76.6394)},
		{mustPoint(t, 51.5074, -0.1278), mustPoint(t, 40.7128, -74.0060)},
		{mustPoint(t, -45, 170), mustPoint(t, 45, -170)},
	}

	for _, pair := range pairs {
		ab := geo.DistanceMeters(pair[0], pair[1])
		ba := geo.DistanceMeters(pair[1], pair[0])
		assert.InEpsilon(t, ab, ba, 1e-6, "distance should be symmetric for %v <-> %v", pair[0], pair[1])
	}
}

func TestDistanceMeters_OneDegreeLongitudeAtEquator(t *testing.T) {
	// One degree of longitude at the equator is about 111.2 km.
	d := geo.DistanceMeters(mustPoint(t, 0, 0), mustPoint(t, 0, 1))
	assert.InDelta(t, 111195, d, 50)
}

func TestDistanceMeters_TriangleInequality(t *testing.T) {
	a := mustPoint(t, 12.9716, 77.5946)
	b := mustPoint(t, 13.0827, 80.2707)
	c := mustPoint(t, 17.3850, 78.4867)

	ab := geo.DistanceMeters(a, b)
	bc := geo.DistanceMeters(b, c)
	ac := geo.DistanceMeters(a, c)

	assert.LessOrEqual(t, ac, ab+bc+1e-6)
}

func TestDistanceMeters_SmallOffset(t *testing.T) {
	// Roughly 10 meters north of the office: one degree of latitude is
	// about 111,195 m everywhere.
	office := mustPoint(t, 12.9716, 77.5946)
	nearby := mustPoint(t, 12.9716+10.0/111195.0, 77.5946)

	d := geo.DistanceMeters(office, nearby)
	assert.InDelta(t, 10.0, d, 0.1)
}
