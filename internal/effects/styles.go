package effects

import (
	"fmt"
	"html"
	"strings"

	"github.com/couchcryptid/impact-map/internal/domain"
)

const (
	colorCrater   = "#5d4037"
	colorFireball = "#ff6f00"
	colorTsunami  = "#0277bd"
	colorSeismic  = "#795548"
)

var thermalColors = map[domain.ThermalBand]string{
	domain.ThermalLethal:   "#d50000",
	domain.ThermalBurns3rd: "#ff3d00",
	domain.ThermalBurns2nd: "#ff9100",
	domain.ThermalIgnition: "#ffc400",
}

var blastColors = map[domain.PressureLevel]string{
	domain.PSI50: "#4a148c",
	domain.PSI20: "#6a1b9a",
	domain.PSI10: "#8e24aa",
	domain.PSI5:  "#ab47bc",
	domain.PSI3:  "#ce93d8",
	domain.PSI1:  "#e1bee7",
}

// mmiColors is indexed by Mercalli level; I..III share the first entry.
var mmiColors = [...]string{
	"#9ccc65", "#9ccc65", "#9ccc65", "#9ccc65",
	"#ffee58", "#ffca28", "#ffa726", "#ff7043",
	"#f4511e", "#e53935", "#c62828", "#b71c1c", "#b71c1c",
}

func solid(color string, weight, fillOpacity float64) Style {
	return Style{Color: color, Weight: weight, Opacity: 0.8, FillColor: color, FillOpacity: fillOpacity}
}

func craterStyle() Style   { return solid(colorCrater, 2, 0.6) }
func fireballStyle() Style { return solid(colorFireball, 2, 0.45) }
func tsunamiStyle() Style  { return solid(colorTsunami, 2, 0.15) }

func thermalStyle(b domain.ThermalBand) Style {
	return solid(thermalColors[b], 1.5, 0.2)
}

func blastStyle(p domain.PressureLevel) Style {
	color, ok := blastColors[p]
	if !ok {
		color = blastColors[domain.PSI1]
	}
	return solid(color, 1.5, 0.18)
}

func seismicRegionStyle() Style {
	return Style{Color: colorSeismic, Weight: 1, Opacity: 0.6, FillColor: colorSeismic, FillOpacity: 0.05, DashArray: "6 6"}
}

func seismicRingStyle(mmi string) Style {
	color := colorSeismic
	if level, ok := ParseMMI(mmi); ok {
		color = mmiColors[level]
	}
	return Style{Color: color, Weight: 1.5, Opacity: 0.7, FillColor: color, FillOpacity: 0.08}
}

var romanValues = map[byte]int{'I': 1, 'V': 5, 'X': 10}

// ParseMMI reads the leading Roman numeral of a Mercalli intensity such as
// "VII" or "VI (Strong)". Only levels I to XII are accepted.
func ParseMMI(s string) (int, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	end := 0
	for end < len(s) {
		if _, ok := romanValues[s[end]]; !ok {
			break
		}
		end++
	}
	if end == 0 {
		return 0, false
	}
	if end < len(s) && s[end] != ' ' && s[end] != '(' && s[end] != '-' {
		return 0, false
	}

	total := 0
	numeral := s[:end]
	for i := 0; i < len(numeral); i++ {
		v := romanValues[numeral[i]]
		if i+1 < len(numeral) && v < romanValues[numeral[i+1]] {
			total -= v
		} else {
			total += v
		}
	}
	if total < 1 || total > 12 {
		return 0, false
	}
	return total, true
}

func popup(title string, lines ...string) string {
	var b strings.Builder
	b.WriteString("<strong>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</strong>")
	for _, l := range lines {
		if l == "" {
			continue
		}
		b.WriteString("<br>")
		b.WriteString(l)
	}
	return b.String()
}

func radiusLine(m float64) string {
	return "Radius: " + domain.FormatDistance(m)
}

func craterPopup(impact domain.ImpactEffects, radius float64) string {
	lines := []string{"Diameter: " + domain.FormatDistance(radius*2)}
	if depth, ok := domain.Positive(impact.CraterDepthM); ok {
		lines = append(lines, "Depth: "+domain.FormatDistance(depth))
	}
	return popup("Crater", lines...)
}

func blastPopup(r domain.BlastRing) string {
	lines := []string{html.EscapeString(r.Level.Label()), radiusLine(r.RadiusM)}
	if w, ok := domain.Positive(r.WindSpeedKmh); ok {
		lines = append(lines, fmt.Sprintf("Wind speed: %s km/h", domain.FormatValue(w)))
	}
	return popup(fmt.Sprintf("Blast overpressure %g psi", r.Level.PSI()), lines...)
}

func seismicRegionPopup(s *domain.SeismicEffects, radius float64) string {
	var lines []string
	if mw, ok := domain.Positive(s.MomentMagnitudeMw); ok {
		lines = append(lines, fmt.Sprintf("Moment magnitude: Mw %.1f", mw))
	}
	lines = append(lines, "Felt up to "+domain.FormatDistance(radius))
	return popup("Seismic region", lines...)
}

func seismicRingPopup(b domain.SeismicBand) string {
	lines := []string{fmt.Sprintf("Distance: %d km", b.DistanceKm)}
	if b.MMI != "" {
		lines = append(lines, "MMI: "+html.EscapeString(b.MMI))
	}
	if pga, ok := domain.Positive(b.PGAG); ok {
		lines = append(lines, fmt.Sprintf("PGA: %.3f g", pga))
	}
	if b.Description != "" {
		lines = append(lines, html.EscapeString(b.Description))
	}
	return popup("Seismic intensity", lines...)
}

func tsunamiPopup(t *domain.TsunamiEffects) string {
	var lines []string
	if h, ok := domain.Positive(t.MaxWaveHeightM); ok {
		lines = append(lines, "Max wave height: "+domain.FormatDistance(h))
	}
	if t.Classification != "" {
		lines = append(lines, "Classification: "+html.EscapeString(t.Classification))
	}
	if t.Notes != "" {
		lines = append(lines, html.EscapeString(t.Notes))
	}
	return popup("Tsunami zone", lines...)
}
