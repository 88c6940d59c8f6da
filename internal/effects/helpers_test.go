package effects

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/impact-map/internal/domain"
	"github.com/couchcryptid/impact-map/internal/observability"
	"github.com/jonboulle/clockwork"
)

// fakeMap records every call made by the effects package.
type fakeMap struct {
	mu          sync.Mutex
	attached    map[*Circle]bool
	added       []*Circle
	removed     int
	redraws     map[*Circle]int
	fits        []Bounds
	fitOpts     []FitOptions
	views       []domain.LatLng
	zooms       []int
	marker      *domain.LatLng
	markerPopup string
	batches     int
}

func newFakeMap() *fakeMap {
	return &fakeMap{attached: make(map[*Circle]bool), redraws: make(map[*Circle]int)}
}

func (f *fakeMap) AddLayer(c *Circle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attached[c] = true
	f.added = append(f.added, c)
}

func (f *fakeMap) RemoveLayer(c *Circle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attached[c] {
		f.removed++
	}
	delete(f.attached, c)
}

func (f *fakeMap) HasLayer(c *Circle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attached[c]
}

func (f *fakeMap) Redraw(c *Circle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.redraws[c]++
}

func (f *fakeMap) FitBounds(b Bounds, opts FitOptions) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fits = append(f.fits, b)
	f.fitOpts = append(f.fitOpts, opts)
}

func (f *fakeMap) SetView(center domain.LatLng, zoom int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views = append(f.views, center)
	f.zooms = append(f.zooms, zoom)
}

func (f *fakeMap) PlaceMarker(pos domain.LatLng, popup string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marker = &pos
	f.markerPopup = popup
}

func (f *fakeMap) RemoveMarker() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marker = nil
}

func (f *fakeMap) Batch(fn func()) {
	f.mu.Lock()
	f.batches++
	f.mu.Unlock()
	fn()
}

func (f *fakeMap) attachedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.attached)
}

func (f *fakeMap) removedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.removed
}

func (f *fakeMap) redrawCount(c *Circle) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.redraws[c]
}

func (f *fakeMap) fitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fits)
}

func (f *fakeMap) viewCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.views)
}

// fakeIndicator records the last state pushed for each category.
type fakeIndicator struct {
	mu    sync.Mutex
	state map[domain.Category]bool
	calls int
}

func newFakeIndicator() *fakeIndicator {
	return &fakeIndicator{state: make(map[domain.Category]bool)}
}

func (f *fakeIndicator) SetIndicator(category domain.Category, checked bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state[category] = checked
	f.calls++
}

func (f *fakeIndicator) get(category domain.Category) (bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.state[category]
	return v, ok
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// harness bundles the effect components around a fake map and clock.
type harness struct {
	m            *fakeMap
	clock        *clockwork.FakeClock
	store        *Store
	animator     *Animator
	builder      *Builder
	visibility   *VisibilityController
	indicator    *fakeIndicator
	orchestrator *Orchestrator
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		m:         newFakeMap(),
		clock:     clockwork.NewFakeClock(),
		indicator: newFakeIndicator(),
	}
	metrics := observability.NewMetricsForTesting()
	h.store = NewStore(h.m)
	h.animator = NewAnimator(h.clock, 16*time.Millisecond, metrics)
	h.builder = NewBuilder(h.store, h.animator, discardLogger(), metrics)
	h.visibility = NewVisibilityController(h.store, h.indicator)
	h.orchestrator = NewOrchestrator(h.m, h.store, h.builder, h.visibility, h.clock, DefaultOrchestratorConfig(), discardLogger())
	t.Cleanup(h.orchestrator.Close)
	return h
}

// fullResult has data for every category.
func fullResult() domain.SimulationResult {
	return domain.SimulationResult{
		Impact: domain.ImpactEffects{
			CraterDiameterM: domain.Float(1200),
			CraterDepthM:    domain.Float(300),
			FireballRadiusM: domain.Float(900),
			Thermal: domain.ThermalEffects{
				Lethal:   domain.Float(2000),
				Burns3rd: domain.Float(4000),
				Burns2nd: domain.Float(6000),
				Ignition: domain.Float(9000),
			},
			Blast: []domain.BlastRing{
				{Level: domain.PSI50, RadiusM: 500},
				{Level: domain.PSI10, RadiusM: 1500},
				{Level: domain.PSI5, RadiusM: 3000},
				{Level: domain.PSI1, RadiusM: 8000, WindSpeedKmh: domain.Float(60)},
			},
		},
		Seismic: &domain.SeismicEffects{
			MomentMagnitudeMw: domain.Float(6.1),
			Bands: []domain.SeismicBand{
				{DistanceKm: 100, SeismicIntensity: domain.SeismicIntensity{MMI: "IV", Description: "Light"}},
				{DistanceKm: 10, SeismicIntensity: domain.SeismicIntensity{MMI: "VII", PGAG: domain.Float(0.2), Description: "Very strong"}},
			},
		},
		Tsunami: &domain.TsunamiEffects{Likely: true, MaxWaveHeightM: domain.Float(12), Classification: "major"},
	}
}

func categoriesOf(circles []*Circle) []domain.Category {
	out := make([]domain.Category, len(circles))
	for i, c := range circles {
		out[i] = c.Category()
	}
	return out
}

func radiiOf(circles []*Circle) []float64 {
	out := make([]float64, len(circles))
	for i, c := range circles {
		out[i] = c.TargetRadius()
	}
	return out
}
