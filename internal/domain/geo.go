package domain

import (
	"fmt"
	"math"
)

// LatLng is a WGS-84 latitude/longitude pair in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinate is finite and within range.
func (p LatLng) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// String formats the point the way the impact marker popup shows it.
func (p LatLng) String() string {
	return fmt.Sprintf("%.4f°, %.4f°", p.Lat, p.Lon)
}
