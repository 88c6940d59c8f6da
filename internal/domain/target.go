package domain

// TargetType is the surface the asteroid strikes.
type TargetType string

const (
	TargetLand  TargetType = "land"
	TargetWater TargetType = "water"
)

// ClassifyTarget guesses whether a point is over water using coarse ocean
// bands. See the package documentation for the exact bands.
func ClassifyTarget(p LatLng) TargetType {
	lat, lon := p.Lat, p.Lon
	water := (lon >= -170 && lon <= -80) || // Pacific
		(lon >= -60 && lon <= 20) || // Atlantic
		(lon >= 40 && lon <= 120) || // Indian
		lat >= 70 || lat <= -60 || // polar
		(lat >= 30 && lat <= 45 && lon >= -10 && lon <= 40) || // Mediterranean
		(lat >= 10 && lat <= 25 && lon >= -90 && lon <= -60) // Caribbean
	if water {
		return TargetWater
	}
	return TargetLand
}

// Label is the results-panel wording.
func (t TargetType) Label() string {
	if t == TargetWater {
		return "Water (Ocean/Lake)"
	}
	return "Land"
}
