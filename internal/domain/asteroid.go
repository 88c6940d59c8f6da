package domain

import (
	"fmt"
	"strings"
)

// Asteroid is one preset shown in the carousel. Selecting it overwrites the
// slider parameters.
type Asteroid struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Details      string  `json:"details"`
	Source       string  `json:"source"`
	DiameterM    float64 `json:"diameter_m"`
	SpeedKmS     float64 `json:"speed_km_s"`
	AngleDeg     float64 `json:"angle_deg"`
	Hazardous    bool    `json:"hazardous"`
	ApproachDate string  `json:"approach_date,omitempty"`
	DistanceKm   float64 `json:"distance_km,omitempty"`
}

// NearEarthObject is the backend's description of a catalogued asteroid.
type NearEarthObject struct {
	Name         string
	Hazardous    bool
	DiameterM    float64
	VelocityKmh  float64
	ApproachDate string
	DistanceKm   float64
}

// Defaults applied when the backend leaves preset fields empty.
const (
	DefaultPresetDiameterM = 100
	DefaultPresetSpeedKmS  = 17
	DefaultPresetAngleDeg  = 45
)

// AsteroidFromNEO maps a catalogue entry to a carousel preset. index is used
// for the id and name when the backend omitted the name.
func AsteroidFromNEO(index int, neo NearEarthObject) Asteroid {
	a := Asteroid{
		ID:           strings.ToLower(strings.Join(strings.Fields(neo.Name), "")),
		Name:         neo.Name,
		Details:      "Near Earth Object",
		Source:       "NASA JPL",
		DiameterM:    neo.DiameterM,
		SpeedKmS:     DefaultPresetSpeedKmS,
		AngleDeg:     DefaultPresetAngleDeg,
		Hazardous:    neo.Hazardous,
		ApproachDate: neo.ApproachDate,
		DistanceKm:   neo.DistanceKm,
	}
	if a.ID == "" {
		a.ID = fmt.Sprintf("asteroid-%d", index)
	}
	if a.Name == "" {
		a.Name = fmt.Sprintf("Unknown Asteroid %d", index+1)
	}
	if neo.Hazardous {
		a.Details = "Potentially Hazardous Asteroid"
	}
	if a.DiameterM <= 0 {
		a.DiameterM = DefaultPresetDiameterM
	}
	if neo.VelocityKmh > 0 {
		a.SpeedKmS = neo.VelocityKmh / 3600
	}
	return a
}

// FallbackAsteroids is substituted whenever the backend list is unavailable,
// malformed or empty.
func FallbackAsteroids() []Asteroid {
	return []Asteroid{
		{
			ID:        "fallback1",
			Name:      "2023 TL",
			Details:   "Near Earth Object",
			Source:    "NASA JPL",
			DiameterM: 150,
			SpeedKmS:  15,
			AngleDeg:  45,
		},
		{
			ID:        "fallback2",
			Name:      "2024 AB",
			Details:   "Potentially Hazardous",
			Source:    "NASA JPL",
			DiameterM: 320,
			SpeedKmS:  18,
			AngleDeg:  45,
			Hazardous: true,
		},
	}
}
