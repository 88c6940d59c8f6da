package domain

import (
	"context"
	"fmt"
)

// ImpactRequest holds the parameters sent to the simulation backend.
type ImpactRequest struct {
	DiameterM   float64
	VelocityMS  float64
	AngleDeg    float64
	DensityKgM3 float64
	Point       LatLng
	Target      TargetType
}

// Key is a stable identity for caching identical requests.
func (r ImpactRequest) Key() string {
	return fmt.Sprintf("%g|%g|%g|%g|%.6f|%.6f|%s",
		r.DiameterM, r.VelocityMS, r.AngleDeg, r.DensityKgM3, r.Point.Lat, r.Point.Lon, r.Target)
}

// Simulator is the external physics backend.
type Simulator interface {
	// ListAsteroids returns the catalogue of near-earth objects.
	ListAsteroids(ctx context.Context) ([]NearEarthObject, error)

	// SimulateImpact runs one impact simulation.
	SimulateImpact(ctx context.Context, req ImpactRequest) (SimulationResult, error)
}

// PreferenceStore persists the colorblind-mode flag.
type PreferenceStore interface {
	LoadColorblind(ctx context.Context) (bool, error)
	SaveColorblind(ctx context.Context, enabled bool) error
}
