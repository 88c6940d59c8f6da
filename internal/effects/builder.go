package effects

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/impact-map/internal/domain"
	"github.com/couchcryptid/impact-map/internal/observability"
)

const (
	// TsunamiNominalRadiusM is the fixed radius of the tsunami zone. The
	// backend does not provide an extent, only a wave height.
	TsunamiNominalRadiusM = 500_000.0
	// SeismicRegionFloorM keeps small seismic regions visible at world zoom.
	SeismicRegionFloorM = 10_000.0
)

// Timing is the expansion schedule of one category.
type Timing struct {
	Duration time.Duration `json:"duration"`
	Delay    time.Duration `json:"delay"`
}

// DefaultTimings returns the per-category schedule. Delays grow along the
// draw order so outer zones start expanding first.
func DefaultTimings() map[domain.Category]Timing {
	return map[domain.Category]Timing{
		domain.Seismic:  {Duration: 2000 * time.Millisecond, Delay: 0},
		domain.Tsunami:  {Duration: 1800 * time.Millisecond, Delay: 150 * time.Millisecond},
		domain.Blast:    {Duration: 1500 * time.Millisecond, Delay: 300 * time.Millisecond},
		domain.Thermal:  {Duration: 1200 * time.Millisecond, Delay: 450 * time.Millisecond},
		domain.Fireball: {Duration: 1000 * time.Millisecond, Delay: 600 * time.Millisecond},
		domain.Crater:   {Duration: 800 * time.Millisecond, Delay: 750 * time.Millisecond},
	}
}

// Builder turns a simulation result into registered, animating circles.
type Builder struct {
	store    *Store
	animator *Animator
	timings  map[domain.Category]Timing
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewBuilder creates a Builder using DefaultTimings.
func NewBuilder(store *Store, animator *Animator, logger *slog.Logger, metrics *observability.Metrics) *Builder {
	return &Builder{
		store:    store,
		animator: animator,
		timings:  DefaultTimings(),
		logger:   logger,
		metrics:  metrics,
	}
}

// Timing returns the schedule used for a category.
func (b *Builder) Timing(category domain.Category) Timing {
	return b.timings[category]
}

// Build creates every applicable overlay around center in draw order and
// returns them in the order they were registered. The store must have been
// cleared by the caller.
func (b *Builder) Build(ctx context.Context, result domain.SimulationResult, center domain.LatLng, target domain.TargetType) []*Circle {
	var out []*Circle
	place := func(category domain.Category, radius float64, style Style, popupHTML, tooltip string) {
		c := NewCircle(category, center, radius, style, popupHTML, tooltip)
		b.store.Register(category, c)
		if m := b.store.Map(); m != nil && b.store.Visible(category) {
			c.AddTo(m)
		}
		t := b.timings[category]
		b.animator.Animate(ctx, c, radius, t.Duration, t.Delay)
		b.metrics.OverlaysRendered.WithLabelValues(category.String()).Inc()
		out = append(out, c)
	}

	b.buildSeismic(result.Seismic, place)
	b.buildTsunami(result.Tsunami, target, place)
	b.buildBlast(result.Impact.Blast, place)
	b.buildThermal(result.Impact.Thermal, place)

	if r, ok := domain.Positive(result.Impact.FireballRadiusM); ok {
		place(domain.Fireball, r, fireballStyle(), popup("Fireball", radiusLine(r)), "Fireball")
	}
	if d, ok := domain.Positive(result.Impact.CraterDiameterM); ok {
		r := d / 2
		place(domain.Crater, r, craterStyle(), craterPopup(result.Impact, r), "Crater")
	}

	return out
}

type placeFunc func(category domain.Category, radius float64, style Style, popupHTML, tooltip string)

func (b *Builder) buildSeismic(s *domain.SeismicEffects, place placeFunc) {
	if s == nil {
		return
	}
	if len(s.RejectedKeys) > 0 {
		b.logger.Warn("skipping seismic bands with invalid distance keys", "keys", s.RejectedKeys)
	}
	if len(s.Bands) == 0 {
		b.logger.Info("no seismic bands to render")
		return
	}

	farthest := 0
	for _, band := range s.Bands {
		farthest = max(farthest, band.DistanceKm)
	}
	region := max(float64(farthest)*1000, SeismicRegionFloorM)
	place(domain.Seismic, region, seismicRegionStyle(), seismicRegionPopup(s, region), "Seismic region")

	for _, band := range s.Bands {
		tooltip := fmt.Sprintf("Seismic %d km", band.DistanceKm)
		if band.MMI != "" {
			tooltip += " (MMI " + band.MMI + ")"
		}
		place(domain.Seismic, float64(band.DistanceKm)*1000, seismicRingStyle(band.MMI), seismicRingPopup(band), tooltip)
	}
}

func (b *Builder) buildTsunami(t *domain.TsunamiEffects, target domain.TargetType, place placeFunc) {
	if t == nil || !t.Likely || target != domain.TargetWater {
		return
	}
	place(domain.Tsunami, TsunamiNominalRadiusM, tsunamiStyle(), tsunamiPopup(t), "Tsunami zone")
}

func (b *Builder) buildBlast(rings []domain.BlastRing, place placeFunc) {
	valid := make([]domain.BlastRing, 0, len(rings))
	for _, r := range rings {
		if _, ok := domain.Positive(&r.RadiusM); ok {
			valid = append(valid, r)
		}
	}
	domain.SortBlastRings(valid)
	for _, r := range valid {
		place(domain.Blast, r.RadiusM, blastStyle(r.Level), blastPopup(r), fmt.Sprintf("%g psi", r.Level.PSI()))
	}
}

func (b *Builder) buildThermal(t domain.ThermalEffects, place placeFunc) {
	for _, r := range t.Rings() {
		place(domain.Thermal, r.RadiusM, thermalStyle(r.Band),
			popup(r.Band.Label(), radiusLine(r.RadiusM)), r.Band.Label())
	}
}
