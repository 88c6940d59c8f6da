package effects

import (
	"github.com/couchcryptid/impact-map/internal/domain"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// EarthRadiusM is the sphere radius used to turn circle radii into angles.
const EarthRadiusM = 6371000.0

// Bounds is a lat/lng rectangle. East may exceed 180 when the rectangle
// crosses the antimeridian, so that West < East always holds.
type Bounds struct {
	SouthWest domain.LatLng `json:"south_west"`
	NorthEast domain.LatLng `json:"north_east"`
}

// circleRect is the lat/lng rectangle enclosing a circle on the sphere.
func circleRect(center domain.LatLng, radiusM float64) s2.Rect {
	p := s2.PointFromLatLng(s2.LatLngFromDegrees(center.Lat, center.Lon))
	return s2.CapFromCenterAngle(p, s1.Angle(radiusM/EarthRadiusM)).RectBound()
}

// CircleBounds returns the bounds of one circle at the given radius.
func CircleBounds(center domain.LatLng, radiusM float64) Bounds {
	return boundsFromRect(circleRect(center, radiusM))
}

// UnionBounds returns the smallest rectangle containing every circle at its
// target radius. The target is used rather than the current radius because
// fitting happens while animations are still running.
func UnionBounds(circles []*Circle) (Bounds, bool) {
	rect := s2.EmptyRect()
	for _, c := range circles {
		rect = rect.Union(circleRect(c.Center(), c.TargetRadius()))
	}
	if rect.IsEmpty() {
		return Bounds{}, false
	}
	return boundsFromRect(rect), true
}

func boundsFromRect(r s2.Rect) Bounds {
	lo, hi := r.Lo(), r.Hi()
	west, east := lo.Lng.Degrees(), hi.Lng.Degrees()
	if r.Lng.IsInverted() {
		east += 360
	}
	return Bounds{
		SouthWest: domain.LatLng{Lat: lo.Lat.Degrees(), Lon: west},
		NorthEast: domain.LatLng{Lat: hi.Lat.Degrees(), Lon: east},
	}
}
