package domain

import "math"

// Immutable geographic point (latitude, longitude).
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Return coordinates as [lng, lat] for routing API compatibility.
func (c LatLng) LngLat() []float64 { return []float64{c.Lng, c.Lat} }

// Valid reports whether the point lies inside the WGS84 coordinate range.
func (c LatLng) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}
