package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// SimulationResult is the decoded backend response for one impact run.
// Seismic and Tsunami are nil when the backend omitted them.
type SimulationResult struct {
	Energy   Energy          `json:"energy"`
	Impact   ImpactEffects   `json:"impact_effects"`
	Seismic  *SeismicEffects `json:"seismic_effects,omitempty"`
	Tsunami  *TsunamiEffects `json:"tsunami_effects,omitempty"`
	Location *LatLng         `json:"location,omitempty"`
}

// Energy describes the kinetic energy released by the impactor.
type Energy struct {
	MassKg              *float64 `json:"mass_kg,omitempty"`
	Joules              *float64 `json:"energy_joules,omitempty"`
	MegatonsTNT         *float64 `json:"energy_megatons_tnt,omitempty"`
	HiroshimaEquivalent *float64 `json:"hiroshima_equivalent,omitempty"`
}

// ImpactEffects holds the near-field effect radii.
type ImpactEffects struct {
	CraterDiameterM *float64       `json:"crater_diameter_m,omitempty"`
	CraterDepthM    *float64       `json:"crater_depth_m,omitempty"`
	FireballRadiusM *float64       `json:"fireball_radius_m,omitempty"`
	Thermal         ThermalEffects `json:"thermal_effects_m"`
	Blast           []BlastRing    `json:"blast_rings,omitempty"`
}

// ThermalEffects holds the radius of each thermal-radiation band in meters.
type ThermalEffects struct {
	Lethal   *float64 `json:"lethal,omitempty"`
	Burns3rd *float64 `json:"burns_3rd,omitempty"`
	Burns2nd *float64 `json:"burns_2nd,omitempty"`
	Ignition *float64 `json:"ignition,omitempty"`
}

// BlastRing is one overpressure threshold and the distance at which it is reached.
type BlastRing struct {
	Level        PressureLevel `json:"level"`
	RadiusM      float64       `json:"radius_m"`
	WindSpeedKmh *float64      `json:"wind_speed_kmh,omitempty"`
}

// SeismicEffects describes ground shaking from the impact.
type SeismicEffects struct {
	MomentMagnitudeMw *float64 `json:"moment_magnitude_mw,omitempty"`
	// Bands are sorted by distance, farthest first.
	Bands []SeismicBand `json:"bands,omitempty"`
	// RejectedKeys lists intensity keys that were not "<positive int>_km".
	RejectedKeys []string `json:"rejected_keys,omitempty"`
}

// SeismicIntensity is the shaking expected at one distance.
type SeismicIntensity struct {
	MMI         string   `json:"mmi"`
	PGAG        *float64 `json:"pga_g,omitempty"`
	Description string   `json:"description"`
}

// SeismicBand is a SeismicIntensity at a parsed distance.
type SeismicBand struct {
	DistanceKm int `json:"distance_km"`
	SeismicIntensity
}

// TsunamiEffects is the backend's tsunami assessment.
type TsunamiEffects struct {
	Likely         bool     `json:"likely"`
	MaxWaveHeightM *float64 `json:"max_wave_height_m,omitempty"`
	Classification string   `json:"classification,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// Positive returns the pointed-to value and true when it is present, finite
// and greater than zero. Everything else means "skip this layer".
func Positive(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	f := *v
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, false
	}
	return f, true
}

// Float returns a pointer to f. Handy for building results in code and tests.
func Float(f float64) *float64 { return &f }

// ThermalBand identifies one thermal-radiation threshold.
type ThermalBand int

const (
	ThermalLethal ThermalBand = iota
	ThermalBurns3rd
	ThermalBurns2nd
	ThermalIgnition
)

var thermalBandNames = [...]string{"lethal", "burns_3rd", "burns_2nd", "ignition"}

var thermalBandLabels = [...]string{
	"Lethal thermal radiation",
	"Third-degree burns",
	"Second-degree burns",
	"Clothing/vegetation ignition",
}

func (b ThermalBand) String() string {
	if b < 0 || int(b) >= len(thermalBandNames) {
		return "unknown"
	}
	return thermalBandNames[b]
}

// Label is the human-readable band name used in popups.
func (b ThermalBand) Label() string {
	if b < 0 || int(b) >= len(thermalBandLabels) {
		return "Thermal"
	}
	return thermalBandLabels[b]
}

// ThermalRing is a present thermal band with its radius.
type ThermalRing struct {
	Band    ThermalBand
	RadiusM float64
}

// Rings returns every band with a positive radius, sorted largest first.
// The sort is stable so equal radii keep enumeration order.
func (t ThermalEffects) Rings() []ThermalRing {
	candidates := []struct {
		band ThermalBand
		v    *float64
	}{
		{ThermalLethal, t.Lethal},
		{ThermalBurns3rd, t.Burns3rd},
		{ThermalBurns2nd, t.Burns2nd},
		{ThermalIgnition, t.Ignition},
	}

	rings := make([]ThermalRing, 0, len(candidates))
	for _, c := range candidates {
		if r, ok := Positive(c.v); ok {
			rings = append(rings, ThermalRing{Band: c.band, RadiusM: r})
		}
	}
	sort.SliceStable(rings, func(i, j int) bool { return rings[i].RadiusM > rings[j].RadiusM })
	return rings
}

// PressureLevel is a blast-overpressure threshold from the fixed enumeration.
type PressureLevel int

const (
	PSI1 PressureLevel = iota
	PSI3
	PSI5
	PSI10
	PSI20
	PSI50
)

type pressureLevelInfo struct {
	key   string
	psi   float64
	label string
}

// pressureLevels is indexed by PressureLevel. Labels follow the usual
// overpressure damage descriptions.
var pressureLevels = [...]pressureLevelInfo{
	PSI1:  {"1_psi", 1, "Window glass shatters"},
	PSI3:  {"3_psi", 3, "Residential structures collapse"},
	PSI5:  {"5_psi", 5, "Most buildings collapse"},
	PSI10: {"10_psi", 10, "Reinforced structures destroyed"},
	PSI20: {"20_psi", 20, "Heavy concrete structures destroyed"},
	PSI50: {"50_psi", 50, "Total destruction"},
}

// PressureLevels returns every known level, lowest pressure first.
func PressureLevels() []PressureLevel {
	return []PressureLevel{PSI1, PSI3, PSI5, PSI10, PSI20, PSI50}
}

// ParsePressureLevel matches a wire key such as "5_psi" against the enumeration.
func ParsePressureLevel(key string) (PressureLevel, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for i, info := range pressureLevels {
		if info.key == key {
			return PressureLevel(i), true
		}
	}
	return 0, false
}

func (p PressureLevel) valid() bool { return p >= 0 && int(p) < len(pressureLevels) }

// String returns the wire key, e.g. "5_psi".
func (p PressureLevel) String() string {
	if !p.valid() {
		return "unknown"
	}
	return pressureLevels[p].key
}

// PSI is the threshold value in pounds per square inch.
func (p PressureLevel) PSI() float64 {
	if !p.valid() {
		return 0
	}
	return pressureLevels[p].psi
}

// Label describes the expected damage at this level.
func (p PressureLevel) Label() string {
	if !p.valid() {
		return ""
	}
	return pressureLevels[p].label
}

// MarshalText encodes the level as its wire key.
func (p PressureLevel) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a wire key such as "10_psi".
func (p *PressureLevel) UnmarshalText(b []byte) error {
	level, ok := ParsePressureLevel(string(b))
	if !ok {
		return fmt.Errorf("unknown pressure level %q", b)
	}
	*p = level
	return nil
}

// SortBlastRings orders rings by radius, largest first. Equal radii fall back
// to the lower pressure first, which is the wider damage zone physically.
func SortBlastRings(rings []BlastRing) {
	sort.SliceStable(rings, func(i, j int) bool {
		if rings[i].RadiusM != rings[j].RadiusM {
			return rings[i].RadiusM > rings[j].RadiusM
		}
		return rings[i].Level < rings[j].Level
	})
}

// ParseSeismicBands converts "<N>_km" keyed intensities into bands sorted by
// distance, farthest first. Keys whose numeric part is not a positive integer
// are returned in rejected, sorted for stable logging.
func ParseSeismicBands(intensities map[string]SeismicIntensity) (bands []SeismicBand, rejected []string) {
	for key, intensity := range intensities {
		d, ok := parseDistanceKey(key)
		if !ok {
			rejected = append(rejected, key)
			continue
		}
		bands = append(bands, SeismicBand{DistanceKm: d, SeismicIntensity: intensity})
	}
	sort.Slice(bands, func(i, j int) bool { return bands[i].DistanceKm > bands[j].DistanceKm })
	sort.Strings(rejected)
	return bands, rejected
}

func parseDistanceKey(key string) (int, bool) {
	s := strings.TrimSpace(key)
	s, found := strings.CutSuffix(s, "_km")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
