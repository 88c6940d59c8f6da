package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/couchcryptid/impact-map/internal/domain"
	"github.com/couchcryptid/impact-map/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingSimulator struct {
	listCalls     int
	simulateCalls int
	result        domain.SimulationResult
	err           error
}

func (m *countingSimulator) ListAsteroids(_ context.Context) ([]domain.NearEarthObject, error) {
	m.listCalls++
	return []domain.NearEarthObject{{Name: "Apophis"}}, m.err
}

func (m *countingSimulator) SimulateImpact(_ context.Context, _ domain.ImpactRequest) (domain.SimulationResult, error) {
	m.simulateCalls++
	return m.result, m.err
}

var testRequest = domain.ImpactRequest{
	DiameterM:   500,
	VelocityMS:  17000,
	AngleDeg:    45,
	DensityKgM3: 3000,
	Point:       domain.LatLng{Lat: 10, Lon: 20},
	Target:      domain.TargetLand,
}

// --- CachedSimulator tests ---

func TestCachedSimulator_CacheHit(t *testing.T) {
	inner := &countingSimulator{result: domain.SimulationResult{
		Impact: domain.ImpactEffects{CraterDiameterM: domain.Float(1200)},
	}}
	cached := NewCachedSimulator(inner, 10, observability.NewMetricsForTesting())

	r1, err := cached.SimulateImpact(context.Background(), testRequest)
	require.NoError(t, err)
	r2, err := cached.SimulateImpact(context.Background(), testRequest)
	require.NoError(t, err)

	assert.Equal(t, 1200.0, *r1.Impact.CraterDiameterM)
	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, inner.simulateCalls, "should only call inner once")
}

func TestCachedSimulator_DifferentRequestsMiss(t *testing.T) {
	inner := &countingSimulator{}
	cached := NewCachedSimulator(inner, 10, observability.NewMetricsForTesting())

	other := testRequest
	other.Target = domain.TargetWater

	_, _ = cached.SimulateImpact(context.Background(), testRequest)
	_, _ = cached.SimulateImpact(context.Background(), other)

	assert.Equal(t, 2, inner.simulateCalls)
}

func TestCachedSimulator_ErrorsNotCached(t *testing.T) {
	inner := &countingSimulator{err: errors.New("backend down")}
	cached := NewCachedSimulator(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.SimulateImpact(context.Background(), testRequest)
	require.Error(t, err)
	_, err = cached.SimulateImpact(context.Background(), testRequest)
	require.Error(t, err)

	assert.Equal(t, 2, inner.simulateCalls)
}

func TestCachedSimulator_AsteroidsPassThrough(t *testing.T) {
	inner := &countingSimulator{}
	cached := NewCachedSimulator(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.ListAsteroids(context.Background())
	_, _ = cached.ListAsteroids(context.Background())

	assert.Equal(t, 2, inner.listCalls)
}

// --- eviction ---

func requestAt(lon float64) domain.ImpactRequest {
	r := testRequest
	r.Point.Lon = lon
	return r
}

func TestCachedSimulator_EvictsLeastRecentlyUsed(t *testing.T) {
	inner := &countingSimulator{}
	cached := NewCachedSimulator(inner, 2, observability.NewMetricsForTesting())
	ctx := context.Background()

	for _, lon := range []float64{1, 2} {
		_, err := cached.SimulateImpact(ctx, requestAt(lon))
		require.NoError(t, err)
	}
	_, err := cached.SimulateImpact(ctx, requestAt(1)) // 2 is now least recent
	require.NoError(t, err)
	_, err = cached.SimulateImpact(ctx, requestAt(3)) // evicts 2
	require.NoError(t, err)
	assert.Equal(t, 3, inner.simulateCalls)
	assert.Equal(t, 2, cached.Len())

	_, err = cached.SimulateImpact(ctx, requestAt(1))
	require.NoError(t, err)
	assert.Equal(t, 3, inner.simulateCalls, "recently used entry survives")

	_, err = cached.SimulateImpact(ctx, requestAt(2))
	require.NoError(t, err)
	assert.Equal(t, 4, inner.simulateCalls, "evicted entry goes back to the backend")
}

func TestCachedSimulator_ZeroCapacityPassesThrough(t *testing.T) {
	inner := &countingSimulator{}
	cached := NewCachedSimulator(inner, 0, observability.NewMetricsForTesting())

	for range 2 {
		_, err := cached.SimulateImpact(context.Background(), testRequest)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, inner.simulateCalls)
	assert.Equal(t, 0, cached.Len())
}
