package effects

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/impact-map/internal/domain"
	"github.com/jonboulle/clockwork"
)

var (
	// ErrNoImpactPoint is returned when effects are requested before an impact point is set.
	ErrNoImpactPoint = errors.New("no impact point selected")
	// ErrMapUnavailable is returned when the map failed to initialise.
	ErrMapUnavailable = errors.New("map unavailable")
	// ErrImpactChanged is returned when the impact point moved after the
	// result being rendered was requested.
	ErrImpactChanged = errors.New("impact point changed")
)

// OrchestratorConfig tunes the viewport fit that follows a render.
type OrchestratorConfig struct {
	SettleDelay  time.Duration
	FallbackZoom int
	FitPadding   int
	FitMaxZoom   int
}

// DefaultOrchestratorConfig returns the settings used by the map view.
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		SettleDelay:  500 * time.Millisecond,
		FallbackZoom: 8,
		FitPadding:   50,
		FitMaxZoom:   12,
	}
}

// Orchestrator is the entry point for drawing a simulation on the map. It
// owns the impact point, the layer store and the pending viewport fit.
type Orchestrator struct {
	m          Map
	store      *Store
	builder    *Builder
	visibility *VisibilityController
	clock      clockwork.Clock
	cfg        OrchestratorConfig
	logger     *slog.Logger

	base context.Context
	stop context.CancelFunc

	mu           sync.Mutex
	impact       *domain.LatLng
	renderCancel context.CancelFunc
	fitTimer     clockwork.Timer
	generation   uint64
}

// NewOrchestrator wires the effect components together. m may be nil, in
// which case every map-dependent operation reports ErrMapUnavailable.
func NewOrchestrator(m Map, store *Store, builder *Builder, visibility *VisibilityController, clock clockwork.Clock, cfg OrchestratorConfig, logger *slog.Logger) *Orchestrator {
	base, stop := context.WithCancel(context.Background())
	return &Orchestrator{
		m:          m,
		store:      store,
		builder:    builder,
		visibility: visibility,
		clock:      clock,
		cfg:        cfg,
		logger:     logger,
		base:       base,
		stop:       stop,
	}
}

// SetImpactPoint records p and moves the impact marker there.
func (o *Orchestrator) SetImpactPoint(p domain.LatLng) error {
	if !p.Valid() {
		return fmt.Errorf("impact point %s out of range", p)
	}
	if o.m == nil {
		return ErrMapUnavailable
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.impact = &p
	o.m.PlaceMarker(p, fmt.Sprintf("<strong>Impact Location</strong><br>Lat: %.4f°<br>Lng: %.4f°", p.Lat, p.Lon))
	return nil
}

// ImpactPoint returns the current impact point, if any.
func (o *Orchestrator) ImpactPoint() (domain.LatLng, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.impact == nil {
		return domain.LatLng{}, false
	}
	return *o.impact, true
}

// RenderEffects replaces the current overlays with those of result, centered
// on center, and schedules a viewport fit after the settle delay. center must
// be the impact point the result was requested for; if the point has since
// moved or been cleared, nothing changes and ErrImpactChanged or
// ErrNoImpactPoint is returned.
func (o *Orchestrator) RenderEffects(result domain.SimulationResult, target domain.TargetType, center domain.LatLng) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.m == nil {
		o.logger.Warn("render skipped", "error", ErrMapUnavailable)
		return ErrMapUnavailable
	}
	if o.impact == nil {
		o.logger.Warn("render skipped", "error", ErrNoImpactPoint)
		return ErrNoImpactPoint
	}
	if *o.impact != center {
		o.logger.Info("render skipped", "error", ErrImpactChanged,
			"requested", center.String(), "current", o.impact.String())
		return ErrImpactChanged
	}

	o.cancelRenderLocked()

	ctx, cancel := context.WithCancel(o.base)
	o.renderCancel = cancel
	var circles []*Circle
	batch(o.m, func() {
		o.store.Clear()
		o.visibility.Sync()
		circles = o.builder.Build(ctx, result, center, target)
	})

	o.generation++
	gen := o.generation
	o.fitTimer = o.clock.AfterFunc(o.cfg.SettleDelay, func() { o.fit(gen) })

	o.logger.Info("effects rendered",
		"overlays", len(circles),
		"target", string(target),
		"impact", center.String(),
	)
	return nil
}

// fit adjusts the viewport to the attached overlays. A fit scheduled by an
// older render is ignored.
func (o *Orchestrator) fit(gen uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.generation || o.impact == nil {
		return
	}

	if b, ok := UnionBounds(o.store.AllVisibleOverlays()); ok {
		o.m.FitBounds(b, FitOptions{PaddingPx: o.cfg.FitPadding, MaxZoom: o.cfg.FitMaxZoom})
		return
	}
	o.m.SetView(*o.impact, o.cfg.FallbackZoom)
}

// ClearEffects drops every overlay but keeps the impact point and marker.
func (o *Orchestrator) ClearEffects() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cancelRenderLocked()
	o.store.Clear()
	o.visibility.Sync()
}

// ResetAll removes the marker, forgets the impact point and clears every
// overlay, restoring default visibility.
func (o *Orchestrator) ResetAll() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cancelRenderLocked()
	if o.m != nil {
		o.m.RemoveMarker()
	}
	o.impact = nil
	o.store.Clear()
	o.visibility.Sync()
}

// Close stops every running animation and any pending fit.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.cancelRenderLocked()
	o.mu.Unlock()
	o.stop()
}

func (o *Orchestrator) cancelRenderLocked() {
	o.generation++
	if o.fitTimer != nil {
		o.fitTimer.Stop()
		o.fitTimer = nil
	}
	if o.renderCancel != nil {
		o.renderCancel()
		o.renderCancel = nil
	}
}
