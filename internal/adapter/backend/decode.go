package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/couchcryptid/impact-map/internal/domain"
)

// ErrMalformedResponse is returned when a payload decodes but lacks a
// required member.
var ErrMalformedResponse = errors.New("malformed backend response")

// Wire types. The backend emits snake_case JSON.

type asteroidsResponse struct {
	Asteroids *[]neoDTO `json:"asteroids"`
}

type neoDTO struct {
	Name         string   `json:"name"`
	Hazardous    bool     `json:"hazardous"`
	DiameterM    optFloat `json:"diameter_m"`
	VelocityKmh  optFloat `json:"velocity_kmh"`
	ApproachDate string   `json:"approach_date"`
	DistanceKm   optFloat `json:"distance_km"`
}

type simulationResponse struct {
	Energy         *energyDTO        `json:"energy"`
	ImpactEffects  *impactEffectsDTO `json:"impact_effects"`
	SeismicEffects *seismicDTO       `json:"seismic_effects"`
	TsunamiEffects *tsunamiDTO       `json:"tsunami_effects"`
	Location       *locationDTO      `json:"location"`
}

type energyDTO struct {
	MassKg              optFloat `json:"mass_kg"`
	EnergyJoules        optFloat `json:"energy_joules"`
	EnergyMegatonsTNT   optFloat `json:"energy_megatons_tnt"`
	HiroshimaEquivalent optFloat `json:"hiroshima_equivalent"`
}

type impactEffectsDTO struct {
	CraterDiameterM optFloat                 `json:"crater_diameter_m"`
	CraterDepthM    optFloat                 `json:"crater_depth_m"`
	FireballRadiusM optFloat                 `json:"fireball_radius_m"`
	Thermal         thermalDTO               `json:"thermal_effects_m"`
	BlastRadii      map[string]optFloat      `json:"blast_overpressure_radii_m"`
	BlastWind       map[string]windEffectDTO `json:"blast_wind_effects"`
}

type thermalDTO struct {
	Lethal   optFloat `json:"lethal"`
	Burns3rd optFloat `json:"burns_3rd"`
	Burns2nd optFloat `json:"burns_2nd"`
	Ignition optFloat `json:"ignition"`
}

type windEffectDTO struct {
	WindSpeedKmh optFloat `json:"wind_speed_kmh"`
}

type seismicDTO struct {
	MomentMagnitudeMw   optFloat                `json:"moment_magnitude_Mw"`
	RegionalIntensities map[string]intensityDTO `json:"regional_intensities"`
}

type intensityDTO struct {
	MMI         looseString `json:"mmi"`
	PGAG        optFloat    `json:"pga_g"`
	Description looseString `json:"description"`
}

type tsunamiDTO struct {
	Likely         bool        `json:"likely"`
	MaxWaveHeightM optFloat    `json:"max_wave_height_m"`
	Classification looseString `json:"classification"`
	Notes          looseString `json:"notes"`
}

type locationDTO struct {
	Lat optFloat `json:"lat"`
	Lon optFloat `json:"lon"`
}

// DecodeAsteroids parses the asteroid catalogue. A body without an
// "asteroids" array is malformed.
func DecodeAsteroids(data []byte) ([]domain.NearEarthObject, error) {
	var resp asteroidsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode asteroids: %w", err)
	}
	if resp.Asteroids == nil {
		return nil, fmt.Errorf("%w: missing asteroids", ErrMalformedResponse)
	}

	out := make([]domain.NearEarthObject, 0, len(*resp.Asteroids))
	for _, n := range *resp.Asteroids {
		out = append(out, domain.NearEarthObject{
			Name:         strings.TrimSpace(n.Name),
			Hazardous:    n.Hazardous,
			DiameterM:    n.DiameterM.orZero(),
			VelocityKmh:  n.VelocityKmh.orZero(),
			ApproachDate: n.ApproachDate,
			DistanceKm:   n.DistanceKm.orZero(),
		})
	}
	return out, nil
}

// DecodeSimulation parses a simulation result. Blast keys outside the known
// pressure levels are dropped and returned as skipped. A body without
// "impact_effects" is malformed; every other member is optional.
func DecodeSimulation(data []byte) (result domain.SimulationResult, skipped []string, err error) {
	var resp simulationResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return domain.SimulationResult{}, nil, fmt.Errorf("decode simulation: %w", err)
	}
	if resp.ImpactEffects == nil {
		return domain.SimulationResult{}, nil, fmt.Errorf("%w: missing impact_effects", ErrMalformedResponse)
	}

	if e := resp.Energy; e != nil {
		result.Energy = domain.Energy{
			MassKg:              e.MassKg.v,
			Joules:              e.EnergyJoules.v,
			MegatonsTNT:         e.EnergyMegatonsTNT.v,
			HiroshimaEquivalent: e.HiroshimaEquivalent.v,
		}
	}

	ie := resp.ImpactEffects
	result.Impact = domain.ImpactEffects{
		CraterDiameterM: ie.CraterDiameterM.v,
		CraterDepthM:    ie.CraterDepthM.v,
		FireballRadiusM: ie.FireballRadiusM.v,
		Thermal: domain.ThermalEffects{
			Lethal:   ie.Thermal.Lethal.v,
			Burns3rd: ie.Thermal.Burns3rd.v,
			Burns2nd: ie.Thermal.Burns2nd.v,
			Ignition: ie.Thermal.Ignition.v,
		},
	}
	result.Impact.Blast, skipped = blastRings(ie.BlastRadii, ie.BlastWind)

	if s := resp.SeismicEffects; s != nil {
		intensities := make(map[string]domain.SeismicIntensity, len(s.RegionalIntensities))
		for k, v := range s.RegionalIntensities {
			intensities[k] = domain.SeismicIntensity{
				MMI:         string(v.MMI),
				PGAG:        v.PGAG.v,
				Description: string(v.Description),
			}
		}
		bands, rejected := domain.ParseSeismicBands(intensities)
		result.Seismic = &domain.SeismicEffects{
			MomentMagnitudeMw: s.MomentMagnitudeMw.v,
			Bands:             bands,
			RejectedKeys:      rejected,
		}
	}

	if t := resp.TsunamiEffects; t != nil {
		result.Tsunami = &domain.TsunamiEffects{
			Likely:         t.Likely,
			MaxWaveHeightM: t.MaxWaveHeightM.v,
			Classification: string(t.Classification),
			Notes:          string(t.Notes),
		}
	}

	if l := resp.Location; l != nil && l.Lat.v != nil && l.Lon.v != nil {
		p := domain.LatLng{Lat: *l.Lat.v, Lon: *l.Lon.v}
		if p.Valid() {
			result.Location = &p
		}
	}

	return result, skipped, nil
}

// blastRings converts the keyed radius map into rings in enumeration order.
// Radii are kept as sent; the renderer decides which ones to draw.
func blastRings(radii map[string]optFloat, wind map[string]windEffectDTO) ([]domain.BlastRing, []string) {
	var (
		rings   []domain.BlastRing
		skipped []string
	)
	for key, r := range radii {
		level, ok := domain.ParsePressureLevel(key)
		if !ok || r.v == nil {
			skipped = append(skipped, key)
			continue
		}
		ring := domain.BlastRing{Level: level, RadiusM: *r.v}
		if w, ok := wind[key]; ok {
			ring.WindSpeedKmh = w.WindSpeedKmh.v
		}
		rings = append(rings, ring)
	}
	sort.Slice(rings, func(i, j int) bool { return rings[i].Level < rings[j].Level })
	sort.Strings(skipped)
	return rings, skipped
}

// optFloat accepts a JSON number, a numeric string or null. Anything else
// decodes as absent rather than failing the whole payload.
type optFloat struct {
	v *float64
}

func (o *optFloat) UnmarshalJSON(b []byte) error {
	o.v = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			o.v = &f
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		o.v = &f
	}
	return nil
}

func (o optFloat) orZero() float64 {
	if o.v == nil {
		return 0
	}
	return *o.v
}

// looseString accepts a JSON string or number.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = looseString(str)
		return nil
	}
	*s = looseString(b)
	return nil
}
