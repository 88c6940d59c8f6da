package effects

import (
	"sync"

	"github.com/couchcryptid/impact-map/internal/domain"
	"github.com/google/uuid"
)

// Style is the stroke and fill of a circle overlay.
type Style struct {
	Color       string  `json:"color"`
	Weight      float64 `json:"weight"`
	Opacity     float64 `json:"opacity"`
	FillColor   string  `json:"fill_color"`
	FillOpacity float64 `json:"fill_opacity"`
	DashArray   string  `json:"dash_array,omitempty"`
}

// Circle is one effect zone drawn around the impact point. The radius is the
// only field that changes after construction.
type Circle struct {
	id       string
	category domain.Category
	subIndex int
	center   domain.LatLng
	target   float64
	style    Style
	popup    string
	tooltip  string

	mu       sync.Mutex
	radius   float64
	m        Map
	disposed bool
}

// CircleState is a point-in-time copy of a circle for rendering.
type CircleState struct {
	ID           string          `json:"id"`
	Category     domain.Category `json:"category"`
	SubIndex     int             `json:"sub_index"`
	Center       domain.LatLng   `json:"center"`
	RadiusM      float64         `json:"radius_m"`
	TargetRadius float64         `json:"target_radius_m"`
	Style        Style           `json:"style"`
	Popup        string          `json:"popup"`
	Tooltip      string          `json:"tooltip"`
}

// NewCircle creates a detached circle with radius 0.
func NewCircle(category domain.Category, center domain.LatLng, targetRadiusM float64, style Style, popup, tooltip string) *Circle {
	return &Circle{
		id:       uuid.NewString(),
		category: category,
		center:   center,
		target:   targetRadiusM,
		style:    style,
		popup:    popup,
		tooltip:  tooltip,
	}
}

func (c *Circle) ID() string                { return c.id }
func (c *Circle) Category() domain.Category { return c.category }
func (c *Circle) Center() domain.LatLng     { return c.center }
func (c *Circle) TargetRadius() float64     { return c.target }
func (c *Circle) Style() Style              { return c.style }
func (c *Circle) Popup() string             { return c.popup }
func (c *Circle) Tooltip() string           { return c.tooltip }

// SubIndex is the ordinal within the category, assigned by the store.
func (c *Circle) SubIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subIndex
}

// Radius is the current (possibly mid-animation) radius in meters.
func (c *Circle) Radius() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.radius
}

// SetRadius stores r and asks the map to redraw if the circle is attached.
// A disposed circle ignores the call.
func (c *Circle) SetRadius(r float64) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.radius = r
	m := c.m
	c.mu.Unlock()

	if m != nil {
		m.Redraw(c)
	}
}

// AddTo attaches the circle to m. Attaching to the map it is already on is a no-op.
func (c *Circle) AddTo(m Map) {
	c.mu.Lock()
	if c.disposed || c.m == m {
		c.mu.Unlock()
		return
	}
	prev := c.m
	c.m = m
	c.mu.Unlock()

	if prev != nil {
		prev.RemoveLayer(c)
	}
	m.AddLayer(c)
}

// Remove detaches the circle from its map, if any.
func (c *Circle) Remove() {
	c.mu.Lock()
	m := c.m
	c.m = nil
	c.mu.Unlock()

	if m != nil {
		m.RemoveLayer(c)
	}
}

// Attached reports whether the circle is on a map.
func (c *Circle) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m != nil
}

// Disposed reports whether the owning store dropped the circle.
func (c *Circle) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

// State returns a copy of the circle for rendering.
func (c *Circle) State() CircleState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CircleState{
		ID:           c.id,
		Category:     c.category,
		SubIndex:     c.subIndex,
		Center:       c.center,
		RadiusM:      c.radius,
		TargetRadius: c.target,
		Style:        c.style,
		Popup:        c.popup,
		Tooltip:      c.tooltip,
	}
}

func (c *Circle) setSubIndex(i int) {
	c.mu.Lock()
	c.subIndex = i
	c.mu.Unlock()
}

// dispose detaches the circle and marks it dead so running animations stop.
func (c *Circle) dispose() {
	c.mu.Lock()
	c.disposed = true
	m := c.m
	c.m = nil
	c.mu.Unlock()

	if m != nil {
		m.RemoveLayer(c)
	}
}
