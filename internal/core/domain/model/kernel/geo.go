package kernel

import (
	"fmt"
	"math"
	"time"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

const (
	// LatitudeMin and LatitudeMax bound valid latitudes in degrees.
	LatitudeMin float64 = -90
	LatitudeMax float64 = 90
	// LongitudeMin and LongitudeMax bound valid longitudes in degrees.
	LongitudeMin float64 = -180
	LongitudeMax float64 = 180
)

// ErrGeoPointIsNotConstructed is returned when validating a GeoPoint that
// bypassed the NewGeoPoint constructor.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint")

// GeoPoint is an immutable latitude/longitude pair with the server-observed
// time it was recorded. It is used as the overwrite-only location cache on
// courier profiles and active deliveries; no history is kept.
type GeoPoint struct { //nolint:recvcheck //using for validation
	lat        float64
	lon        float64
	observedAt time.Time
	guard      guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint from coordinates in degrees and the time
// the position was observed. Coordinates outside the WGS84 bounds are
// rejected.
func NewGeoPoint(lat, lon float64, observedAt time.Time) (GeoPoint, error) {
	if lat < LatitudeMin || lat > LatitudeMax || math.IsNaN(lat) {
		return GeoPoint{}, errs.NewValueIsInvalidErrorWithCause("latitude",
			fmt.Errorf("%v is outside [%v, %v]", lat, LatitudeMin, LatitudeMax))
	}
	if lon < LongitudeMin || lon > LongitudeMax || math.IsNaN(lon) {
		return GeoPoint{}, errs.NewValueIsInvalidErrorWithCause("longitude",
			fmt.Errorf("%v is outside [%v, %v]", lon, LongitudeMin, LongitudeMax))
	}
	if observedAt.IsZero() {
		return GeoPoint{}, errs.NewValueIsRequiredError("observedAt")
	}

	return GeoPoint{
		lat:        lat,
		lon:        lon,
		observedAt: observedAt.UTC(),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the point came through NewGeoPoint.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Latitude returns the latitude in degrees.
func (p GeoPoint) Latitude() float64 {
	return p.lat
}

// Longitude returns the longitude in degrees.
func (p GeoPoint) Longitude() float64 {
	return p.lon
}

// ObservedAt returns when the position was recorded, in UTC.
func (p GeoPoint) ObservedAt() time.Time {
	return p.observedAt
}

// IsEqual compares coordinates only; the observation time is ignored.
func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p.lat == other.lat && p.lon == other.lon
}

// DistanceTo returns the great-circle distance to other in meters, using
// the haversine formula. Used to pick the nearest available courier.
func (p GeoPoint) DistanceTo(other GeoPoint) float64 {
	const earthRadiusMeters = 6371000.0

	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(other.lat - p.lat)
	dLon := toRad(other.lon - p.lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(p.lat))*math.Cos(toRad(other.lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// String implements fmt.Stringer.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.lat, p.lon)
}
