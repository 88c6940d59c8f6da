package app

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is returned for out-of-range or unknown inputs.
var ErrInvalidParameter = errors.New("invalid parameter")

// Range is the slider range of one parameter.
type Range struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Slider ranges.
var (
	DiameterRange = Range{Min: 1, Max: 2000, Step: 1}
	SpeedRange    = Range{Min: 11, Max: 72, Step: 1}
	AngleRange    = Range{Min: 5, Max: 90, Step: 1}
)

// Parameters are the impactor settings shown on the sliders.
type Parameters struct {
	DiameterM float64 `json:"diameter_m"`
	SpeedKmS  float64 `json:"speed_km_s"`
	AngleDeg  float64 `json:"angle_deg"`
}

// DefaultParameters returns the slider values shown on start.
func DefaultParameters() Parameters {
	return Parameters{DiameterM: 500, SpeedKmS: 17, AngleDeg: 45}
}

// Validate checks every value against its slider range.
func (p Parameters) Validate() error {
	checks := []struct {
		name string
		v    float64
		r    Range
	}{
		{"diameter", p.DiameterM, DiameterRange},
		{"speed", p.SpeedKmS, SpeedRange},
		{"angle", p.AngleDeg, AngleRange},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || c.v < c.r.Min || c.v > c.r.Max {
			return fmt.Errorf("%w: %s %g outside [%g, %g]", ErrInvalidParameter, c.name, c.v, c.r.Min, c.r.Max)
		}
	}
	return nil
}

// fromPreset clamps preset values into slider range, the way a range input
// clamps an assigned value.
func fromPreset(diameter, speed, angle float64) Parameters {
	return Parameters{
		DiameterM: clamp(diameter, DiameterRange),
		SpeedKmS:  clamp(speed, SpeedRange),
		AngleDeg:  clamp(angle, AngleRange),
	}
}

func clamp(v float64, r Range) float64 {
	if math.IsNaN(v) {
		return r.Min
	}
	return math.Min(math.Max(v, r.Min), r.Max)
}
