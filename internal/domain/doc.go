// Package domain models asteroid impact simulations as returned by the
// external simulation backend, plus the small amount of client-side logic
// that surrounds them (presets, target classification, number formatting).
//
// # Data Source
//
// All physics is computed by the backend. A simulation request carries the
// projectile diameter (m), velocity (m/s), entry angle (deg), density
// (kg/m³), the impact coordinates, and a target type ("land" or "water").
// The response is decoded by the backend adapter into a [SimulationResult].
//
// # Presence Conventions
//
// Every radius and magnitude in a result may be absent or zero. Absence and
// zero both mean "do not render this layer", never an error. Optional values
// are carried as pointers so that absence is distinguishable from zero where
// the panel text needs it ("N/A" vs "0"); rendering code uses [Positive] to
// collapse both cases.
//
// Blast overpressure levels arrive keyed as "<N>_psi". Keys are matched once
// against the fixed [PressureLevel] enumeration at decode time; unknown keys
// are dropped.
//
// Seismic intensities arrive keyed as "<N>_km". Keys are parsed once by
// [ParseSeismicBands] into distance bands sorted farthest first; keys that are
// not positive integers are reported back so callers can log them.
//
// # Target Classification
//
// [ClassifyTarget] is a coarse longitude/latitude band heuristic, not a
// coastline lookup. It exists only to choose the backend's target type and to
// decide whether a tsunami layer may be drawn:
//
//	water: lon ∈ [-170,-80] ∪ [-60,20] ∪ [40,120]
//	       lat ≥ 70 or lat ≤ -60
//	       Mediterranean (lat 30–45, lon -10–40)
//	       Caribbean (lat 10–25, lon -90–-60)
//	land:  everything else
package domain
