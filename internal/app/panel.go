package app

import (
	"fmt"
	"strconv"

	"github.com/couchcryptid/impact-map/internal/domain"
)

// PanelKind distinguishes the results panel from the error panel.
type PanelKind string

const (
	PanelResults PanelKind = "results"
	PanelError   PanelKind = "error"
)

// Panel is the side panel shown after a simulation.
type Panel struct {
	Kind     PanelKind `json:"kind"`
	Sections []Section `json:"sections"`
}

// Section is a titled group of rows.
type Section struct {
	Title string `json:"title"`
	Icon  string `json:"icon,omitempty"`
	Items []Item `json:"items"`
}

// Item is one label/value row. Warning rows are highlighted.
type Item struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Warning bool   `json:"warning,omitempty"`
}

const notAvailable = "N/A"

func errorPanel(err error) *Panel {
	msg := "Unable to connect to simulation server"
	if err != nil {
		msg = err.Error()
	}
	return &Panel{Kind: PanelError, Sections: []Section{{
		Title: "Simulation Error",
		Icon:  "fa-exclamation-triangle",
		Items: []Item{
			{Label: "Status", Value: "Backend Unavailable", Warning: true},
			{Label: "Message", Value: msg},
			{Label: "Action", Value: "Please try again later or check your connection"},
		},
	}}}
}

// resultsPanel summarises a simulation for the side panel.
func resultsPanel(p Parameters, result domain.SimulationResult, impact domain.LatLng, target domain.TargetType) *Panel {
	meters := func(v *float64) string { return domain.FormatNumber(v) + " m" }

	sections := []Section{
		{Title: "Asteroid Information", Icon: "fa-info-circle", Items: []Item{
			{Label: "Diameter", Value: strconv.FormatFloat(p.DiameterM, 'f', 0, 64) + " m"},
			{Label: "Speed", Value: strconv.FormatFloat(p.SpeedKmS, 'f', -1, 64) + " km/s"},
			{Label: "Angle", Value: strconv.FormatFloat(p.AngleDeg, 'f', -1, 64) + "°"},
			{Label: "Mass", Value: domain.FormatNumber(result.Energy.MassKg) + " kg"},
		}},
		{Title: "Impact Energy", Icon: "fa-bolt", Items: []Item{
			{Label: "Energy", Value: energyJoules(result.Energy.Joules)},
			{Label: "Equivalent", Value: megatons(result.Energy.MegatonsTNT)},
			{Label: "Hiroshima Bombs", Value: domain.FormatNumber(result.Energy.HiroshimaEquivalent)},
		}},
		{Title: "Crater Formation", Icon: "fa-mountain", Items: []Item{
			{Label: "Diameter", Value: meters(result.Impact.CraterDiameterM)},
			{Label: "Depth", Value: meters(result.Impact.CraterDepthM)},
		}},
		{Title: "Blast Effects", Icon: "fa-fire", Items: []Item{
			{Label: "Fireball Radius", Value: meters(result.Impact.FireballRadiusM)},
			{Label: "Thermal Lethal Radius", Value: meters(result.Impact.Thermal.Lethal)},
		}},
		blastSection(result.Impact.Blast),
		windSection(result.Impact.Blast),
		seismicSection(result.Seismic),
		{Title: "Impact Location", Icon: "fa-map-pin", Items: locationItems(result.Location, impact, target)},
	}

	if t := result.Tsunami; t != nil && t.Likely {
		notes := t.Notes
		if notes == "" {
			notes = "Significant tsunami expected"
		}
		items := []Item{{Label: "Tsunami Risk", Value: "HIGH", Warning: true}}
		if h, ok := domain.Positive(t.MaxWaveHeightM); ok {
			items = append(items, Item{Label: "Max Wave Height", Value: domain.FormatDistance(h)})
		}
		items = append(items, Item{Label: "Notes", Value: notes})
		sections = append(sections, Section{Title: "Tsunami Effects", Icon: "fa-water", Items: items})
	}

	return &Panel{Kind: PanelResults, Sections: sections}
}

func energyJoules(v *float64) string {
	if j, ok := domain.Positive(v); ok {
		return strconv.FormatFloat(j/1e15, 'f', 2, 64) + " × 10¹⁵ J"
	}
	return notAvailable
}

func megatons(v *float64) string {
	if mt, ok := domain.Positive(v); ok {
		return strconv.FormatFloat(mt, 'f', 2, 64) + " megatons TNT"
	}
	return notAvailable
}

func blastSection(rings []domain.BlastRing) Section {
	byLevel := make(map[domain.PressureLevel]domain.BlastRing, len(rings))
	for _, r := range rings {
		byLevel[r.Level] = r
	}
	var items []Item
	for _, level := range []domain.PressureLevel{domain.PSI50, domain.PSI10, domain.PSI5, domain.PSI1} {
		r := byLevel[level]
		items = append(items, Item{
			Label: fmt.Sprintf("%g PSI", level.PSI()),
			Value: domain.FormatValue(r.RadiusM) + " m",
		})
	}
	return Section{Title: "Overpressure Radii", Icon: "fa-wind", Items: items}
}

func windSection(rings []domain.BlastRing) Section {
	byLevel := make(map[domain.PressureLevel]*float64, len(rings))
	for _, r := range rings {
		byLevel[r.Level] = r.WindSpeedKmh
	}
	var items []Item
	for _, level := range []domain.PressureLevel{domain.PSI50, domain.PSI10, domain.PSI5} {
		v := notAvailable
		if w := byLevel[level]; w != nil {
			v = strconv.FormatFloat(*w, 'f', -1, 64)
		}
		items = append(items, Item{Label: fmt.Sprintf("%g PSI Wind", level.PSI()), Value: v + " km/h"})
	}
	return Section{Title: "Blast Wind Effects", Icon: "fa-wind", Items: items}
}

func seismicSection(s *domain.SeismicEffects) Section {
	sec := Section{Title: "Seismic Effects", Icon: "fa-earthquake"}
	mag := notAvailable
	if s != nil && s.MomentMagnitudeMw != nil {
		mag = strconv.FormatFloat(*s.MomentMagnitudeMw, 'f', -1, 64)
	}
	sec.Items = append(sec.Items, Item{Label: "Magnitude", Value: mag + " Mw"})
	if s == nil {
		return sec
	}
	for i := len(s.Bands) - 1; i >= 0; i-- {
		b := s.Bands[i]
		mmi := b.MMI
		if mmi == "" {
			mmi = notAvailable
		}
		sec.Items = append(sec.Items, Item{Label: fmt.Sprintf("At %d_km", b.DistanceKm), Value: mmi})
	}
	return sec
}

func locationItems(loc *domain.LatLng, impact domain.LatLng, target domain.TargetType) []Item {
	p := impact
	if loc != nil {
		p = *loc
	}
	return []Item{
		{Label: "Latitude", Value: strconv.FormatFloat(p.Lat, 'f', -1, 64) + "°"},
		{Label: "Longitude", Value: strconv.FormatFloat(p.Lon, 'f', -1, 64) + "°"},
		{Label: "Target Type", Value: target.Label()},
	}
}
