// README: Shared value objects used across modules.
package types

import "math"

type ID string

// Point is a WGS84 coordinate pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point lies inside the physical coordinate range.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) {
		return false
	}
	if math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return false
	}
	return math.Abs(p.Lat) <= 90 && math.Abs(p.Lng) <= 180
}

// Repair returns a usable point, applying the lat/lng axis-swap fix for
// coordinates that arrive swapped upstream. Valid points pass through
// unchanged; the second return is false when no usable point exists.
func Repair(p Point) (Point, bool) {
	if p.Valid() {
		return p, true
	}
	swapped := Point{Lat: p.Lng, Lng: p.Lat}
	if swapped.Valid() {
		return swapped, true
	}
	return Point{}, false
}
