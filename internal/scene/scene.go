// Package scene is the in-process map surface. It tracks attached overlays,
// the impact marker, the viewport and the checkbox indicators, and notifies
// subscribers whenever any of them change so the browser can re-render.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/couchcryptid/impact-map/internal/domain"
	"github.com/couchcryptid/impact-map/internal/effects"
	"github.com/google/uuid"
)

// ErrInvalidView is returned by New when the initial view is unusable.
var ErrInvalidView = errors.New("invalid initial map view")

const (
	minZoom = 0
	maxZoom = 19
)

// Marker is the impact location pin.
type Marker struct {
	ID       string        `json:"id"`
	Position domain.LatLng `json:"position"`
	Popup    string        `json:"popup"`
}

// View is the requested viewport. When Bounds is set the client fits it,
// otherwise it centers on Center at Zoom. Seq increases with every request so
// clients can tell a repeated request from an unchanged one.
type View struct {
	Center domain.LatLng       `json:"center"`
	Zoom   int                 `json:"zoom"`
	Bounds *effects.Bounds     `json:"bounds,omitempty"`
	Fit    *effects.FitOptions `json:"fit,omitempty"`
	Seq    uint64              `json:"seq"`
}

// Snapshot is the full render state at one version.
type Snapshot struct {
	Version    uint64                   `json:"version"`
	Overlays   []effects.CircleState    `json:"overlays"`
	Marker     *Marker                  `json:"marker,omitempty"`
	View       View                     `json:"view"`
	Indicators map[domain.Category]bool `json:"indicators"`
	Colorblind bool                     `json:"colorblind"`
}

// Scene implements effects.Map, effects.Batcher and effects.Indicator.
type Scene struct {
	logger *slog.Logger

	mu         sync.Mutex
	layers     map[*effects.Circle]struct{}
	marker     *Marker
	view       View
	indicators map[domain.Category]bool
	colorblind bool
	version    uint64
	batchDepth int
	dirty      bool

	changes Broadcaster
}

// New creates a scene centered on initial. An out-of-range center or zoom is
// reported as ErrInvalidView, which callers treat as a map initialisation
// failure.
func New(initial domain.LatLng, zoom int, logger *slog.Logger) (*Scene, error) {
	if !initial.Valid() || zoom < minZoom || zoom > maxZoom {
		return nil, fmt.Errorf("%w: center %s zoom %d", ErrInvalidView, initial, zoom)
	}
	indicators := make(map[domain.Category]bool, len(domain.Categories()))
	for _, c := range domain.Categories() {
		indicators[c] = true
	}
	return &Scene{
		logger:     logger,
		layers:     make(map[*effects.Circle]struct{}),
		view:       View{Center: initial, Zoom: zoom},
		indicators: indicators,
	}, nil
}

// AddLayer attaches c.
func (s *Scene) AddLayer(c *effects.Circle) {
	s.mutate(func() bool {
		if _, ok := s.layers[c]; ok {
			return false
		}
		s.layers[c] = struct{}{}
		return true
	})
}

// RemoveLayer detaches c. Removing an unknown circle is a no-op.
func (s *Scene) RemoveLayer(c *effects.Circle) {
	s.mutate(func() bool {
		if _, ok := s.layers[c]; !ok {
			return false
		}
		delete(s.layers, c)
		return true
	})
}

// HasLayer reports whether c is attached.
func (s *Scene) HasLayer(c *effects.Circle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.layers[c]
	return ok
}

// Redraw marks the scene changed after an attached circle grew.
func (s *Scene) Redraw(c *effects.Circle) {
	s.mutate(func() bool {
		_, ok := s.layers[c]
		return ok
	})
}

// FitBounds asks the client to fit b.
func (s *Scene) FitBounds(b effects.Bounds, opts effects.FitOptions) {
	s.mutate(func() bool {
		center := domain.LatLng{
			Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
			Lon: normalizeLon((b.SouthWest.Lon + b.NorthEast.Lon) / 2),
		}
		s.view = View{Center: center, Zoom: s.view.Zoom, Bounds: &b, Fit: &opts, Seq: s.view.Seq + 1}
		return true
	})
}

// SetView centers the map on center at zoom, clamped to the supported range.
func (s *Scene) SetView(center domain.LatLng, zoom int) {
	zoom = min(max(zoom, minZoom), maxZoom)
	s.mutate(func() bool {
		s.view = View{Center: center, Zoom: zoom, Seq: s.view.Seq + 1}
		return true
	})
}

// PlaceMarker moves the impact marker, creating it if needed.
func (s *Scene) PlaceMarker(pos domain.LatLng, popup string) {
	s.mutate(func() bool {
		id := uuid.NewString()
		if s.marker != nil {
			id = s.marker.ID
		}
		s.marker = &Marker{ID: id, Position: pos, Popup: popup}
		return true
	})
}

// RemoveMarker removes the impact marker, if any.
func (s *Scene) RemoveMarker() {
	s.mutate(func() bool {
		if s.marker == nil {
			return false
		}
		s.marker = nil
		return true
	})
}

// SetIndicator records the checkbox state of a category.
func (s *Scene) SetIndicator(category domain.Category, checked bool) {
	s.mutate(func() bool {
		if s.indicators[category] == checked {
			return false
		}
		s.indicators[category] = checked
		return true
	})
}

// SetColorblind switches the colorblind display filter.
func (s *Scene) SetColorblind(on bool) {
	s.mutate(func() bool {
		if s.colorblind == on {
			return false
		}
		s.colorblind = on
		return true
	})
}

// Colorblind reports the colorblind display filter.
func (s *Scene) Colorblind() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.colorblind
}

// Batch runs fn and sends a single change notification for everything it did.
func (s *Scene) Batch(fn func()) {
	s.mu.Lock()
	s.batchDepth++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.batchDepth--
		notify := s.batchDepth == 0 && s.dirty
		if notify {
			s.dirty = false
			s.version++
			s.signalLocked()
		}
		s.mu.Unlock()
	}()

	fn()
}

// Version is the number of committed changes.
func (s *Scene) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Snapshot copies the current state. Overlays are in draw order: by category
// rank, then by sub-index.
func (s *Scene) Snapshot() Snapshot {
	s.mu.Lock()
	circles := make([]*effects.Circle, 0, len(s.layers))
	for c := range s.layers {
		circles = append(circles, c)
	}
	snap := Snapshot{
		Version:    s.version,
		View:       s.view,
		Colorblind: s.colorblind,
		Indicators: make(map[domain.Category]bool, len(s.indicators)),
	}
	if s.marker != nil {
		m := *s.marker
		snap.Marker = &m
	}
	for k, v := range s.indicators {
		snap.Indicators[k] = v
	}
	s.mu.Unlock()

	snap.Overlays = make([]effects.CircleState, 0, len(circles))
	for _, c := range circles {
		snap.Overlays = append(snap.Overlays, c.State())
	}
	sort.Slice(snap.Overlays, func(i, j int) bool {
		a, b := snap.Overlays[i], snap.Overlays[j]
		if ra, rb := drawRank(a.Category), drawRank(b.Category); ra != rb {
			return ra < rb
		}
		return a.SubIndex < b.SubIndex
	})
	return snap
}

// Subscribe returns a channel that receives a value after changes. Signals
// coalesce: a slow reader sees one pending signal, never a backlog. Call the
// returned function to unsubscribe.
func (s *Scene) Subscribe() (<-chan struct{}, func()) {
	ch, cancel := s.changes.Subscribe()
	s.logger.Debug("scene subscriber added", "subscribers", s.changes.Len())
	return ch, cancel
}

// mutate applies fn under the lock and publishes the change if fn reports one.
func (s *Scene) mutate(fn func() bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !fn() {
		return
	}
	if s.batchDepth > 0 {
		s.dirty = true
		return
	}
	s.version++
	s.signalLocked()
}

func (s *Scene) signalLocked() {
	s.changes.Signal()
}

var drawRanks = func() map[domain.Category]int {
	ranks := make(map[domain.Category]int)
	for i, c := range domain.DrawOrder() {
		ranks[c] = i
	}
	return ranks
}()

func drawRank(c domain.Category) int {
	if r, ok := drawRanks[c]; ok {
		return r
	}
	return len(drawRanks)
}

func normalizeLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}
