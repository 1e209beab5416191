package kernel

import (
	"errors"
	"fmt"

	"shipping/internal/pkg/errs"
	"shipping/internal/pkg/guard"
)

const (
	// LatitudeMin is the minimum valid latitude in degrees.
	LatitudeMin = -90.0
	// LatitudeMax is the maximum valid latitude in degrees.
	LatitudeMax = 90.0
	// LongitudeMin is the minimum valid longitude in degrees.
	LongitudeMin = -180.0
	// LongitudeMax is the maximum valid longitude in degrees.
	LongitudeMax = 180.0
)

// ErrGeoLocationIsNotConstructed is returned when attempting to use an
// improperly initialized GeoLocation. Locations must be created via the
// NewGeoLocation constructor to ensure the coordinates are valid.
var ErrGeoLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"geo location must be created via NewGeoLocation constructor")

// GeoLocation represents a WGS84 coordinate pair with validated bounds.
// It is an immutable value object; the zero value is invalid and fails
// validation.
//
// Example:
//
//	loc, err := kernel.NewGeoLocation(52.52, 13.405)
//	if err != nil {
//	    // handle validation error
//	}
//	fmt.Println(loc) // GeoLocation(52.520000,13.405000)
type GeoLocation struct { //nolint:recvcheck //using for validation
	lat   float64
	lon   float64
	guard guard.ConstructorGuard
}

// NewGeoLocation creates a GeoLocation with the given latitude and longitude
// in degrees. Returns an error if either value is outside its valid range.
func NewGeoLocation(lat, lon float64) (GeoLocation, error) {
	loc := GeoLocation{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setLat(lat), loc.setLon(lon)); err != nil {
		return GeoLocation{}, err
	}

	return loc, nil
}

// Lat returns the latitude in degrees.
func (l GeoLocation) Lat() float64 {
	return l.lat
}

// Lon returns the longitude in degrees.
func (l GeoLocation) Lon() float64 {
	return l.lon
}

// IsEqual compares two locations. Returns an error if either location was not
// properly constructed.
func (l GeoLocation) IsEqual(other GeoLocation) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}
	return l.lat == other.lat && l.lon == other.lon, nil
}

// String implements fmt.Stringer.
func (l GeoLocation) String() string {
	return fmt.Sprintf("GeoLocation(%f,%f)", l.lat, l.lon)
}

// Validate ensures the location was created via NewGeoLocation.
func (l GeoLocation) Validate() error {
	return l.guard.Validate(ErrGeoLocationIsNotConstructed)
}

func (l *GeoLocation) setLat(lat float64) error {
	if lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", lat, LatitudeMin, LatitudeMax)
	}
	l.lat = lat
	return nil
}

func (l *GeoLocation) setLon(lon float64) error {
	if lon < LongitudeMin || lon > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", lon, LongitudeMin, LongitudeMax)
	}
	l.lon = lon
	return nil
}
