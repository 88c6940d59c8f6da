package domain

import "fmt"

// Category groups overlays that share one visibility flag.
type Category int

const (
	Crater Category = iota
	Fireball
	Thermal
	Blast
	Seismic
	Tsunami
)

var categoryNames = [...]string{"crater", "fireball", "thermal", "blast", "seismic", "tsunami"}

// Categories returns every category in declaration order.
func Categories() []Category {
	return []Category{Crater, Fireball, Thermal, Blast, Seismic, Tsunami}
}

// DrawOrder returns the categories in construction order: largest expected
// extent first so that smaller zones stack on top.
func DrawOrder() []Category {
	return []Category{Seismic, Tsunami, Blast, Thermal, Fireball, Crater}
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// ParseCategory accepts the lowercase category name.
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown effect category %q", s)
}

// MarshalText encodes the category as its name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category name.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
