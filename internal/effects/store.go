package effects

import (
	"sync"

	"github.com/couchcryptid/impact-map/internal/domain"
)

// Store owns the circles of the current render and the per-category
// visibility flags. Visibility defaults to true for every category whether
// or not it has circles.
type Store struct {
	m Map

	mu      sync.Mutex
	layers  map[domain.Category][]*Circle
	visible map[domain.Category]bool
}

// NewStore creates an empty store for circles drawn on m. m may be nil when
// the map failed to initialise; circles are then tracked but never attached.
func NewStore(m Map) *Store {
	return &Store{
		m:       m,
		layers:  make(map[domain.Category][]*Circle),
		visible: defaultVisibility(),
	}
}

func defaultVisibility() map[domain.Category]bool {
	v := make(map[domain.Category]bool, len(domain.Categories()))
	for _, c := range domain.Categories() {
		v[c] = true
	}
	return v
}

// Map returns the map circles are attached to.
func (s *Store) Map() Map { return s.m }

// Clear detaches and disposes every circle, empties all categories and
// resets visibility to all-true. It is safe to call on an empty store.
func (s *Store) Clear() {
	s.mu.Lock()
	old := s.layers
	s.layers = make(map[domain.Category][]*Circle)
	s.visible = defaultVisibility()
	s.mu.Unlock()

	for _, cat := range domain.DrawOrder() {
		for _, c := range old[cat] {
			c.dispose()
		}
	}
}

// Register stores c under category and assigns its sub-index. It does not
// touch the map.
func (s *Store) Register(category domain.Category, c *Circle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.setSubIndex(len(s.layers[category]))
	s.layers[category] = append(s.layers[category], c)
}

// Layers returns the circles of one category in registration order.
func (s *Store) Layers(category domain.Category) []*Circle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Circle, len(s.layers[category]))
	copy(out, s.layers[category])
	return out
}

// All returns every tracked circle in draw order.
func (s *Store) All() []*Circle {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Circle
	for _, cat := range domain.DrawOrder() {
		out = append(out, s.layers[cat]...)
	}
	return out
}

// Len is the number of tracked circles.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.layers {
		n += len(l)
	}
	return n
}

// AllVisibleOverlays returns the circles currently attached to the map, in
// draw order.
func (s *Store) AllVisibleOverlays() []*Circle {
	if s.m == nil {
		return nil
	}
	var out []*Circle
	for _, c := range s.All() {
		if s.m.HasLayer(c) {
			out = append(out, c)
		}
	}
	return out
}

// Visible reports the visibility flag of a category.
func (s *Store) Visible(category domain.Category) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible[category]
}

// Visibility returns a copy of every flag.
func (s *Store) Visibility() map[domain.Category]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.Category]bool, len(s.visible))
	for k, v := range s.visible {
		out[k] = v
	}
	return out
}

func (s *Store) setVisible(category domain.Category, visible bool) {
	s.mu.Lock()
	s.visible[category] = visible
	s.mu.Unlock()
}
