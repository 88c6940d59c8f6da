// Package app is the map-view controller. It owns the slider parameters, the
// asteroid carousel, the side panel and the effect pipeline, and exposes the
// user actions the HTTP adapter calls.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/impact-map/internal/domain"
	"github.com/couchcryptid/impact-map/internal/effects"
	"github.com/couchcryptid/impact-map/internal/observability"
	"github.com/couchcryptid/impact-map/internal/scene"
	"github.com/jonboulle/clockwork"
)

// ErrBusy is returned when a simulation is already running.
var ErrBusy = errors.New("simulation already running")

// Config holds controller settings.
type Config struct {
	DensityKgM3   float64
	SettleDelay   time.Duration
	FrameInterval time.Duration
}

// State is everything the page needs besides the map scene.
type State struct {
	Parameters Parameters               `json:"parameters"`
	Ranges     map[string]Range         `json:"ranges"`
	Asteroids  []domain.Asteroid        `json:"asteroids"`
	Selected   int                      `json:"selected"`
	Impact     *domain.LatLng           `json:"impact,omitempty"`
	ShowHelp   bool                     `json:"show_help"`
	Busy       bool                     `json:"busy"`
	Panel      *Panel                   `json:"panel,omitempty"`
	Visibility map[domain.Category]bool `json:"visibility"`
	Colorblind bool                     `json:"colorblind"`
	MapError   string                   `json:"map_error,omitempty"`
}

// Controller coordinates user actions. All methods are safe for concurrent use.
type Controller struct {
	sim          domain.Simulator
	prefs        domain.PreferenceStore
	scene        *scene.Scene
	orchestrator *effects.Orchestrator
	visibility   *effects.VisibilityController
	density      float64
	metrics      *observability.Metrics
	logger       *slog.Logger

	busy    atomic.Bool
	changes scene.Broadcaster

	// effectsMu serialises operations on the effect pipeline so that a
	// visibility toggle cannot interleave with a render.
	effectsMu sync.Mutex

	mu         sync.Mutex
	params     Parameters
	asteroids  []domain.Asteroid
	selected   int
	showHelp   bool
	panel      *Panel
	colorblind bool
	mapError   string
}

// NewController builds the effect pipeline on top of sc. A nil sc means the
// map failed to initialise: the controller still serves parameters and the
// carousel, and map actions report effects.ErrMapUnavailable.
func NewController(cfg Config, sim domain.Simulator, prefs domain.PreferenceStore, sc *scene.Scene, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Controller {
	var (
		m   effects.Map
		ind effects.Indicator
	)
	if sc != nil {
		m, ind = sc, sc
	}

	store := effects.NewStore(m)
	animator := effects.NewAnimator(clock, cfg.FrameInterval, metrics)
	builder := effects.NewBuilder(store, animator, logger, metrics)
	visibility := effects.NewVisibilityController(store, ind)

	ocfg := effects.DefaultOrchestratorConfig()
	if cfg.SettleDelay > 0 {
		ocfg.SettleDelay = cfg.SettleDelay
	}
	orchestrator := effects.NewOrchestrator(m, store, builder, visibility, clock, ocfg, logger)

	c := &Controller{
		sim:          sim,
		prefs:        prefs,
		scene:        sc,
		orchestrator: orchestrator,
		visibility:   visibility,
		density:      cfg.DensityKgM3,
		metrics:      metrics,
		logger:       logger,
		params:       DefaultParameters(),
		asteroids:    domain.FallbackAsteroids(),
		showHelp:     true,
	}
	if sc == nil {
		c.mapError = "Error loading map"
	}
	return c
}

// Start loads the colorblind preference and the asteroid catalogue.
func (c *Controller) Start(ctx context.Context) {
	c.loadColorblind(ctx)
	c.LoadAsteroids(ctx)
}

// Close stops running animations.
func (c *Controller) Close() {
	c.orchestrator.Close()
}

// Subscribe notifies on controller state changes. See scene.Broadcaster.
func (c *Controller) Subscribe() (<-chan struct{}, func()) {
	return c.changes.Subscribe()
}

// Scene returns the map scene, or nil when the map failed to initialise.
func (c *Controller) Scene() *scene.Scene {
	return c.scene
}

// State returns a copy of the controller state.
func (c *Controller) State() State {
	impact, hasImpact := c.orchestrator.ImpactPoint()

	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		Parameters: c.params,
		Ranges: map[string]Range{
			"diameter": DiameterRange,
			"speed":    SpeedRange,
			"angle":    AngleRange,
		},
		Asteroids:  append([]domain.Asteroid(nil), c.asteroids...),
		Selected:   c.selected,
		ShowHelp:   c.showHelp,
		Busy:       c.busy.Load(),
		Panel:      c.panel,
		Visibility: make(map[domain.Category]bool),
		Colorblind: c.colorblind,
		MapError:   c.mapError,
	}
	if hasImpact {
		s.Impact = &impact
	}
	for _, cat := range domain.Categories() {
		s.Visibility[cat] = c.visibility.Visible(cat)
	}
	return s
}

// SetParameters replaces the slider values.
func (c *Controller) SetParameters(p Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.params = p
	c.mu.Unlock()
	c.changes.Signal()
	return nil
}

// Parameters returns the slider values.
func (c *Controller) Parameters() Parameters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// LoadAsteroids replaces the carousel with the backend catalogue, falling back
// to the built-in presets when the request fails or returns nothing. The first
// entry is selected.
func (c *Controller) LoadAsteroids(ctx context.Context) {
	asteroids := c.fetchAsteroids(ctx)

	c.mu.Lock()
	c.asteroids = asteroids
	c.selected = 0
	c.mu.Unlock()
	c.changes.Signal()
}

func (c *Controller) fetchAsteroids(ctx context.Context) []domain.Asteroid {
	neos, err := c.sim.ListAsteroids(ctx)
	if err != nil {
		c.logger.Warn("asteroid list unavailable, using presets", "error", err)
		c.metrics.AsteroidFallbacks.Inc()
		return domain.FallbackAsteroids()
	}
	if len(neos) == 0 {
		c.logger.Warn("asteroid list empty, using presets")
		c.metrics.AsteroidFallbacks.Inc()
		return domain.FallbackAsteroids()
	}

	out := make([]domain.Asteroid, len(neos))
	for i, n := range neos {
		out[i] = domain.AsteroidFromNEO(i, n)
	}
	c.logger.Info("asteroid list loaded", "count", len(out))
	return out
}

// Select shows carousel entry i and copies its values to the sliders.
func (c *Controller) Select(i int) error {
	c.mu.Lock()
	if i < 0 || i >= len(c.asteroids) {
		n := len(c.asteroids)
		c.mu.Unlock()
		return fmt.Errorf("%w: asteroid index %d outside [0, %d)", ErrInvalidParameter, i, n)
	}
	a := c.asteroids[i]
	c.selected = i
	c.params = fromPreset(a.DiameterM, a.SpeedKmS, a.AngleDeg)
	c.mu.Unlock()

	c.changes.Signal()
	return nil
}

// Next moves to the following carousel entry. It stops at the last one.
func (c *Controller) Next() {
	c.step(1)
}

// Prev moves to the preceding carousel entry. It stops at the first one.
func (c *Controller) Prev() {
	c.step(-1)
}

func (c *Controller) step(delta int) {
	c.mu.Lock()
	i := c.selected + delta
	ok := i >= 0 && i < len(c.asteroids)
	c.mu.Unlock()
	if ok {
		_ = c.Select(i)
	}
}

// SetImpact handles a map click.
func (c *Controller) SetImpact(p domain.LatLng) error {
	c.effectsMu.Lock()
	err := c.orchestrator.SetImpactPoint(p)
	c.effectsMu.Unlock()
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.showHelp = false
	c.mu.Unlock()
	c.changes.Signal()
	return nil
}

// DismissHelp hides the initial help message.
func (c *Controller) DismissHelp() {
	c.mu.Lock()
	c.showHelp = false
	c.mu.Unlock()
	c.changes.Signal()
}

// ClosePanel hides the side panel.
func (c *Controller) ClosePanel() {
	c.setPanel(nil)
}

// Simulate runs the backend simulation for the current impact point and
// parameters and renders the result. Only one simulation runs at a time; a
// concurrent call returns ErrBusy. On backend failure the error panel is shown
// and the overlays are cleared. A result that arrives after the impact point
// was moved or cleared is discarded without error.
func (c *Controller) Simulate(ctx context.Context) error {
	impact, ok := c.orchestrator.ImpactPoint()
	if !ok {
		c.metrics.Simulations.WithLabelValues("rejected").Inc()
		return effects.ErrNoImpactPoint
	}
	if !c.busy.CompareAndSwap(false, true) {
		c.metrics.Simulations.WithLabelValues("rejected").Inc()
		return ErrBusy
	}
	c.changes.Signal()
	defer func() {
		c.busy.Store(false)
		c.changes.Signal()
	}()

	params := c.Parameters()
	target := domain.ClassifyTarget(impact)
	req := domain.ImpactRequest{
		DiameterM:   params.DiameterM,
		VelocityMS:  params.SpeedKmS * 1000,
		AngleDeg:    params.AngleDeg,
		DensityKgM3: c.density,
		Point:       impact,
		Target:      target,
	}

	c.logger.Info("simulating impact",
		"diameter_m", req.DiameterM,
		"velocity_ms", req.VelocityMS,
		"angle_deg", req.AngleDeg,
		"impact", impact.String(),
		"target", string(target),
	)

	result, err := c.sim.SimulateImpact(ctx, req)
	if err != nil {
		c.logger.Error("simulation failed", "error", err)
		c.metrics.Simulations.WithLabelValues("error").Inc()
		c.setPanel(errorPanel(err))
		c.effectsMu.Lock()
		c.orchestrator.ClearEffects()
		c.effectsMu.Unlock()
		return fmt.Errorf("simulate impact: %w", err)
	}

	c.effectsMu.Lock()
	err = c.orchestrator.RenderEffects(result, target, impact)
	c.effectsMu.Unlock()
	switch {
	case errors.Is(err, effects.ErrImpactChanged), errors.Is(err, effects.ErrNoImpactPoint):
		// The point was moved or cleared while the backend was working.
		c.logger.Info("simulation result discarded", "impact", impact.String(), "reason", err)
		c.metrics.Simulations.WithLabelValues("discarded").Inc()
		return nil
	case err != nil:
		c.metrics.Simulations.WithLabelValues("error").Inc()
		return fmt.Errorf("render effects: %w", err)
	}

	c.setPanel(resultsPanel(params, result, impact, target))
	c.metrics.Simulations.WithLabelValues("success").Inc()
	return nil
}

// ClearEffects removes the marker and every overlay and restores default
// visibility.
func (c *Controller) ClearEffects() {
	c.effectsMu.Lock()
	c.orchestrator.ResetAll()
	c.effectsMu.Unlock()
	c.changes.Signal()
}

// SetVisible toggles one category.
func (c *Controller) SetVisible(category domain.Category, visible bool) {
	c.effectsMu.Lock()
	c.visibility.SetVisible(category, visible)
	c.effectsMu.Unlock()
	c.changes.Signal()
}

// SetAllVisible shows or hides every category.
func (c *Controller) SetAllVisible(visible bool) {
	c.effectsMu.Lock()
	if visible {
		c.visibility.ShowAll()
	} else {
		c.visibility.HideAll()
	}
	c.effectsMu.Unlock()
	c.changes.Signal()
}

// SetColorblind switches colorblind mode and persists the choice. The mode
// changes even if saving fails; the error is returned for reporting.
func (c *Controller) SetColorblind(ctx context.Context, on bool) error {
	c.applyColorblind(on)
	if err := c.prefs.SaveColorblind(ctx, on); err != nil {
		c.logger.Error("saving colorblind preference failed", "error", err)
		return fmt.Errorf("save colorblind preference: %w", err)
	}
	return nil
}

// ToggleColorblind flips colorblind mode.
func (c *Controller) ToggleColorblind(ctx context.Context) (bool, error) {
	c.mu.Lock()
	on := !c.colorblind
	c.mu.Unlock()
	return on, c.SetColorblind(ctx, on)
}

func (c *Controller) loadColorblind(ctx context.Context) {
	on, err := c.prefs.LoadColorblind(ctx)
	if err != nil {
		c.logger.Warn("colorblind preference unavailable", "error", err)
		return
	}
	c.applyColorblind(on)
}

func (c *Controller) applyColorblind(on bool) {
	c.mu.Lock()
	c.colorblind = on
	c.mu.Unlock()
	if c.scene != nil {
		c.scene.SetColorblind(on)
	}
	c.changes.Signal()
}

func (c *Controller) setPanel(p *Panel) {
	c.mu.Lock()
	c.panel = p
	c.mu.Unlock()
	c.changes.Signal()
}

// CheckReadiness returns nil once the map scene is available.
func (c *Controller) CheckReadiness(_ context.Context) error {
	if c.scene == nil {
		return effects.ErrMapUnavailable
	}
	return nil
}
