package backend

import (
	"context"

	"github.com/couchcryptid/impact-map/internal/domain"
	"github.com/couchcryptid/impact-map/internal/observability"
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedSimulator wraps a Simulator with an in-memory LRU of simulation
// results keyed by ImpactRequest.Key. Repeating a run with unchanged sliders
// and impact point skips the backend. The asteroid list is always fetched
// fresh and errors are never cached.
type CachedSimulator struct {
	inner   domain.Simulator
	results *lru.Cache[string, domain.SimulationResult] // nil when disabled
	metrics *observability.Metrics
}

// NewCachedSimulator creates a cache decorator holding at most maxEntries
// results. maxEntries <= 0 disables caching.
func NewCachedSimulator(inner domain.Simulator, maxEntries int, metrics *observability.Metrics) *CachedSimulator {
	c := &CachedSimulator{inner: inner, metrics: metrics}
	if maxEntries > 0 {
		// New only fails for a non-positive size.
		c.results, _ = lru.New[string, domain.SimulationResult](maxEntries)
	}
	return c
}

func (c *CachedSimulator) ListAsteroids(ctx context.Context) ([]domain.NearEarthObject, error) {
	return c.inner.ListAsteroids(ctx)
}

func (c *CachedSimulator) SimulateImpact(ctx context.Context, req domain.ImpactRequest) (domain.SimulationResult, error) {
	if c.results == nil {
		return c.inner.SimulateImpact(ctx, req)
	}

	key := req.Key()
	if result, ok := c.results.Get(key); ok {
		c.metrics.SimulationCache.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.metrics.SimulationCache.WithLabelValues("miss").Inc()

	result, err := c.inner.SimulateImpact(ctx, req)
	if err != nil {
		return result, err
	}
	c.results.Add(key, result)
	return result, nil
}

// Len reports how many results are cached.
func (c *CachedSimulator) Len() int {
	if c.results == nil {
		return 0
	}
	return c.results.Len()
}
