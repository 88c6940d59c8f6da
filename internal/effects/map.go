package effects

import "github.com/couchcryptid/impact-map/internal/domain"

// Map is the rendering surface the effects are drawn on.
type Map interface {
	AddLayer(c *Circle)
	RemoveLayer(c *Circle)
	HasLayer(c *Circle) bool
	// Redraw is called after an attached circle changed radius.
	Redraw(c *Circle)
	FitBounds(b Bounds, opts FitOptions)
	SetView(center domain.LatLng, zoom int)
	PlaceMarker(pos domain.LatLng, popup string)
	RemoveMarker()
}

// Batcher is implemented by maps that can defer change notifications until a
// group of layer operations is complete.
type Batcher interface {
	Batch(fn func())
}

// FitOptions controls FitBounds.
type FitOptions struct {
	PaddingPx int `json:"padding_px"`
	MaxZoom   int `json:"max_zoom"`
}

func batch(m Map, fn func()) {
	if b, ok := m.(Batcher); ok {
		b.Batch(fn)
		return
	}
	fn()
}
