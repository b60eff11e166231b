package geom

import "math"

// AARectangle is an axis-aligned bounding box.
type AARectangle struct {
	XMin, YMin, XMax, YMax float64
}

func (r AARectangle) Width() float64  { return r.XMax - r.XMin }
func (r AARectangle) Height() float64 { return r.YMax - r.YMin }
func (r AARectangle) Area() float64   { return r.Width() * r.Height() }

func (r AARectangle) Center() Point {
	return Point{(r.XMin + r.XMax) / 2, (r.YMin + r.YMax) / 2}
}

func (r AARectangle) Contains(p Point) bool {
	return p.X >= r.XMin && p.X <= r.XMax && p.Y >= r.YMin && p.Y <= r.YMax
}

// Intersects reports whether r and o overlap (touching edges count as overlap).
func (r AARectangle) Intersects(o AARectangle) bool {
	return r.XMin <= o.XMax && r.XMax >= o.XMin && r.YMin <= o.YMax && r.YMax >= o.YMin
}

// IntersectionArea returns the area of overlap between r and o, or 0 when
// they are disjoint.
func (r AARectangle) IntersectionArea(o AARectangle) float64 {
	ix := math.Min(r.XMax, o.XMax) - math.Max(r.XMin, o.XMin)
	iy := math.Min(r.YMax, o.YMax) - math.Max(r.YMin, o.YMin)
	if ix >= 0 && iy >= 0 {
		return ix * iy
	}
	return 0
}

// ContainmentDeficit measures how much of r lies outside o: 0 when r is
// fully inside o, otherwise the area of r not covered by o — plus, when r
// and o don't overlap at all, the squared center-to-center distance as an
// extra penalty so fully-disjoint placements are still ordered by how far
// away they drifted. Used by the bin-overlap proxy.
func (r AARectangle) ContainmentDeficit(o AARectangle) float64 {
	inter := r.IntersectionArea(o)
	outside := r.Area() - inter
	if inter == 0 {
		outside += SqDist(r.Center(), o.Center())
	}
	return outside
}

func (r AARectangle) Translate(d Point) AARectangle {
	return AARectangle{r.XMin + d.X, r.YMin + d.Y, r.XMax + d.X, r.YMax + d.Y}
}

// Circle is used both for surrogate poles and as a quick bounding shape.
type Circle struct {
	Center Point
	Radius float64
}

func (c Circle) BBox() AARectangle {
	return AARectangle{c.Center.X - c.Radius, c.Center.Y - c.Radius, c.Center.X + c.Radius, c.Center.Y + c.Radius}
}

func NewCircle(center Point, radius float64) Circle { return Circle{center, radius} }
