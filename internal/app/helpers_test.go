package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/couchcryptid/impact-map/internal/domain"
	"github.com/couchcryptid/impact-map/internal/observability"
	"github.com/couchcryptid/impact-map/internal/scene"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

var errBackendDown = errors.New("connection refused")

// fakeSimulator returns canned responses. When gate is set SimulateImpact
// blocks until it is closed.
type fakeSimulator struct {
	mu       sync.Mutex
	neos     []domain.NearEarthObject
	listErr  error
	result   domain.SimulationResult
	simErr   error
	requests []domain.ImpactRequest
	gate     chan struct{}
	entered  chan struct{}
}

func (f *fakeSimulator) ListAsteroids(_ context.Context) ([]domain.NearEarthObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.neos, f.listErr
}

func (f *fakeSimulator) SimulateImpact(ctx context.Context, req domain.ImpactRequest) (domain.SimulationResult, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	gate, entered := f.gate, f.entered
	result, err := f.result, f.simErr
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return domain.SimulationResult{}, ctx.Err()
		}
	}
	return result, err
}

func (f *fakeSimulator) setError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.simErr = err
}

func (f *fakeSimulator) lastRequest() domain.ImpactRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

type memPrefs struct {
	mu      sync.Mutex
	on      bool
	saves   int
	loadErr error
	saveErr error
}

func (m *memPrefs) LoadColorblind(_ context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.on, m.loadErr
}

func (m *memPrefs) SaveColorblind(_ context.Context, on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.on = on
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type harness struct {
	c     *Controller
	sim   *fakeSimulator
	prefs *memPrefs
	scene *scene.Scene
	clock *clockwork.FakeClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	sc, err := scene.New(domain.LatLng{Lat: 20, Lon: 0}, 2, discardLogger())
	require.NoError(t, err)
	return newHarnessWithScene(t, sc)
}

func newHarnessWithScene(t *testing.T, sc *scene.Scene) *harness {
	t.Helper()
	h := &harness{
		sim:   &fakeSimulator{result: sampleResult()},
		prefs: &memPrefs{},
		scene: sc,
		clock: clockwork.NewFakeClock(),
	}
	h.c = NewController(
		Config{DensityKgM3: 3000},
		h.sim, h.prefs, sc, h.clock,
		observability.NewMetricsForTesting(), discardLogger(),
	)
	t.Cleanup(h.c.Close)
	return h
}

// pacific is classified as water.
var pacific = domain.LatLng{Lat: 0, Lon: -150}

func sampleResult() domain.SimulationResult {
	return domain.SimulationResult{
		Energy: domain.Energy{
			MassKg:      domain.Float(1.96e11),
			Joules:      domain.Float(2.8e19),
			MegatonsTNT: domain.Float(6700),
		},
		Impact: domain.ImpactEffects{
			CraterDiameterM: domain.Float(9000),
			FireballRadiusM: domain.Float(4000),
			Thermal:         domain.ThermalEffects{Lethal: domain.Float(20000), Burns2nd: domain.Float(60000)},
			Blast: []domain.BlastRing{
				{Level: domain.PSI1, RadiusM: 90000, WindSpeedKmh: domain.Float(70)},
				{Level: domain.PSI20, RadiusM: 12000},
			},
		},
		Seismic: &domain.SeismicEffects{
			MomentMagnitudeMw: domain.Float(7.4),
			Bands: []domain.SeismicBand{
				{DistanceKm: 500, SeismicIntensity: domain.SeismicIntensity{MMI: "III"}},
				{DistanceKm: 50, SeismicIntensity: domain.SeismicIntensity{MMI: "VIII"}},
			},
		},
		Tsunami: &domain.TsunamiEffects{Likely: true, MaxWaveHeightM: domain.Float(40)},
	}
}

func findSection(p *Panel, title string) (Section, bool) {
	for _, s := range p.Sections {
		if s.Title == title {
			return s, true
		}
	}
	return Section{}, false
}

func itemValue(s Section, label string) string {
	for _, it := range s.Items {
		if it.Label == label {
			return it.Value
		}
	}
	return ""
}
