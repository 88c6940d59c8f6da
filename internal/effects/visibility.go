package effects

import "github.com/couchcryptid/impact-map/internal/domain"

// Indicator mirrors visibility flags to the user interface, typically the
// per-category checkboxes.
type Indicator interface {
	SetIndicator(category domain.Category, checked bool)
}

// VisibilityController attaches and detaches whole categories.
type VisibilityController struct {
	store     *Store
	indicator Indicator
}

// NewVisibilityController creates a controller. indicator may be nil.
func NewVisibilityController(store *Store, indicator Indicator) *VisibilityController {
	return &VisibilityController{store: store, indicator: indicator}
}

// SetVisible records the flag for category and attaches or detaches every
// circle of that category. Circles already in the requested state are left
// alone, so repeated calls are no-ops.
func (v *VisibilityController) SetVisible(category domain.Category, visible bool) {
	v.store.setVisible(category, visible)

	if m := v.store.Map(); m != nil {
		layers := v.store.Layers(category)
		batch(m, func() {
			for _, c := range layers {
				if visible {
					c.AddTo(m)
				} else {
					c.Remove()
				}
			}
		})
	}

	if v.indicator != nil {
		v.indicator.SetIndicator(category, visible)
	}
}

// ShowAll makes every category visible.
func (v *VisibilityController) ShowAll() {
	v.setAll(true)
}

// HideAll hides every category.
func (v *VisibilityController) HideAll() {
	v.setAll(false)
}

func (v *VisibilityController) setAll(visible bool) {
	apply := func() {
		for _, cat := range domain.DrawOrder() {
			v.SetVisible(cat, visible)
		}
	}
	if m := v.store.Map(); m != nil {
		batch(m, apply)
		return
	}
	apply()
}

// Sync pushes the stored flags to the indicator without touching the map.
func (v *VisibilityController) Sync() {
	if v.indicator == nil {
		return
	}
	for _, cat := range domain.Categories() {
		v.indicator.SetIndicator(cat, v.store.Visible(cat))
	}
}

// Visible reports the flag for category.
func (v *VisibilityController) Visible(category domain.Category) bool {
	return v.store.Visible(category)
}
