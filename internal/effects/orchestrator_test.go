package effects

import (
	"testing"
	"time"

	"github.com/couchcryptid/impact-map/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrchestrator_RenderRequiresImpactPoint(t *testing.T) {
	h := newHarness(t)
	err := h.orchestrator.RenderEffects(fullResult(), domain.TargetLand, impactPoint)
	require.ErrorIs(t, err, ErrNoImpactPoint)
	assert.Zero(t, h.store.Len())
}

func TestOrchestrator_RenderRequiresMap(t *testing.T) {
	h := newHarness(t)
	o := NewOrchestrator(nil, h.store, h.builder, h.visibility, h.clock, DefaultOrchestratorConfig(), discardLogger())
	t.Cleanup(o.Close)

	require.ErrorIs(t, o.SetImpactPoint(impactPoint), ErrMapUnavailable)
	require.ErrorIs(t, o.RenderEffects(fullResult(), domain.TargetLand, impactPoint), ErrMapUnavailable)
	assert.NotPanics(t, o.ResetAll)
}

func TestOrchestrator_SetImpactPointPlacesMarker(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.orchestrator.SetImpactPoint(domain.LatLng{Lat: 12.5, Lon: -45.25}))

	p, ok := h.orchestrator.ImpactPoint()
	require.True(t, ok)
	assert.Equal(t, domain.LatLng{Lat: 12.5, Lon: -45.25}, p)
	assert.Equal(t, "<strong>Impact Location</strong><br>Lat: 12.5000°<br>Lng: -45.2500°", h.m.markerPopup)
}

func TestOrchestrator_SetImpactPointRejectsInvalid(t *testing.T) {
	h := newHarness(t)
	require.Error(t, h.orchestrator.SetImpactPoint(domain.LatLng{Lat: 91}))
	_, ok := h.orchestrator.ImpactPoint()
	assert.False(t, ok)
}

func TestOrchestrator_ReplaceNotMerge(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.orchestrator.SetImpactPoint(impactPoint))
	require.NoError(t, h.orchestrator.RenderEffects(fullResult(), domain.TargetWater, impactPoint))
	first := h.store.All()
	require.NotEmpty(t, first)

	second := domain.LatLng{Lat: -33.86, Lon: 151.2}
	require.NoError(t, h.orchestrator.SetImpactPoint(second))
	result := domain.SimulationResult{Impact: domain.ImpactEffects{
		CraterDiameterM: domain.Float(100),
		FireballRadiusM: domain.Float(80),
	}}
	require.NoError(t, h.orchestrator.RenderEffects(result, domain.TargetLand, second))

	for _, c := range first {
		assert.False(t, h.m.HasLayer(c), "overlay from first render still attached")
		assert.True(t, c.Disposed())
	}
	now := h.store.All()
	require.Len(t, now, 2)
	assert.Equal(t, now, h.store.AllVisibleOverlays())
	for _, c := range now {
		assert.Equal(t, second, c.Center())
	}
	assert.Equal(t, 2, h.m.attachedCount())
}

func TestOrchestrator_RenderResetsVisibility(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.orchestrator.SetImpactPoint(impactPoint))
	h.visibility.SetVisible(domain.Blast, false)

	require.NoError(t, h.orchestrator.RenderEffects(fullResult(), domain.TargetLand, impactPoint))
	assert.True(t, h.visibility.Visible(domain.Blast))
	checked, _ := h.indicator.get(domain.Blast)
	assert.True(t, checked)
}

func TestOrchestrator_FitsAfterSettleDelay(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.orchestrator.SetImpactPoint(impactPoint))
	require.NoError(t, h.orchestrator.RenderEffects(fullResult(), domain.TargetLand, impactPoint))

	assert.Zero(t, h.m.fitCount())
	h.clock.Advance(DefaultOrchestratorConfig().SettleDelay)
	assert.Eventually(t, func() bool { return h.m.fitCount() == 1 }, time.Second, 5*time.Millisecond)

	h.m.mu.Lock()
	b, opts := h.m.fits[0], h.m.fitOpts[0]
	h.m.mu.Unlock()
	assert.Equal(t, 50, opts.PaddingPx)
	// The seismic region (100 km) dominates the bounds.
	assert.InDelta(t, impactPoint.Lat-0.9, b.SouthWest.Lat, 0.05)
	assert.InDelta(t, impactPoint.Lat+0.9, b.NorthEast.Lat, 0.05)
	assert.Less(t, b.SouthWest.Lon, impactPoint.Lon)
	assert.Greater(t, b.NorthEast.Lon, impactPoint.Lon)
}

func TestOrchestrator_FallbackViewWhenNothingAttached(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.orchestrator.SetImpactPoint(impactPoint))
	require.NoError(t, h.orchestrator.RenderEffects(domain.SimulationResult{}, domain.TargetLand, impactPoint))

	h.clock.Advance(time.Second)
	assert.Eventually(t, func() bool { return h.m.viewCount() == 1 }, time.Second, 5*time.Millisecond)
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	assert.Equal(t, impactPoint, h.m.views[0])
	assert.Equal(t, 8, h.m.zooms[0])
	assert.Empty(t, h.m.fits)
}

func TestOrchestrator_StaleFitIgnored(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.orchestrator.SetImpactPoint(impactPoint))
	require.NoError(t, h.orchestrator.RenderEffects(fullResult(), domain.TargetLand, impactPoint))
	h.orchestrator.ResetAll()

	h.clock.Advance(time.Second)
	assert.Never(t, func() bool { return h.m.fitCount() > 0 || h.m.viewCount() > 0 }, 100*time.Millisecond, 10*time.Millisecond)
}

func TestOrchestrator_ResetAll(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.orchestrator.SetImpactPoint(impactPoint))
	require.NoError(t, h.orchestrator.RenderEffects(fullResult(), domain.TargetWater, impactPoint))
	h.visibility.SetVisible(domain.Seismic, false)

	h.orchestrator.ResetAll()

	_, ok := h.orchestrator.ImpactPoint()
	assert.False(t, ok)
	assert.Nil(t, h.m.marker)
	assert.Zero(t, h.store.Len())
	assert.Zero(t, h.m.attachedCount())
	for _, cat := range domain.Categories() {
		assert.True(t, h.visibility.Visible(cat))
		checked, _ := h.indicator.get(cat)
		assert.True(t, checked)
	}

	assert.NotPanics(t, h.orchestrator.ResetAll)
}

func TestOrchestrator_ClearEffectsKeepsMarker(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.orchestrator.SetImpactPoint(impactPoint))
	require.NoError(t, h.orchestrator.RenderEffects(fullResult(), domain.TargetLand, impactPoint))

	h.orchestrator.ClearEffects()

	assert.Zero(t, h.store.Len())
	assert.Zero(t, h.m.attachedCount())
	assert.NotNil(t, h.m.marker)
	_, ok := h.orchestrator.ImpactPoint()
	assert.True(t, ok)
}

func TestOrchestrator_AnimationsFinishAtTarget(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.orchestrator.SetImpactPoint(impactPoint))
	require.NoError(t, h.orchestrator.RenderEffects(fullResult(), domain.TargetWater, impactPoint))

	h.clock.Advance(5 * time.Second)
	for _, c := range h.store.All() {
		assert.Eventually(t, func() bool { return c.Radius() == c.TargetRadius() }, time.Second, 5*time.Millisecond,
			"%s circle %d", c.Category(), c.SubIndex())
	}
}

func TestOrchestrator_RenderRejectsMovedImpactPoint(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.orchestrator.SetImpactPoint(impactPoint))
	require.NoError(t, h.orchestrator.RenderEffects(fullResult(), domain.TargetWater, impactPoint))
	before := h.store.All()

	moved := domain.LatLng{Lat: 50, Lon: 30}
	require.NoError(t, h.orchestrator.SetImpactPoint(moved))
	err := h.orchestrator.RenderEffects(fullResult(), domain.TargetWater, impactPoint)

	require.ErrorIs(t, err, ErrImpactChanged)
	assert.Equal(t, before, h.store.All(), "overlays of the earlier render stay in place")
	for _, c := range h.store.All() {
		assert.NotEqual(t, moved, c.Center())
	}
}
