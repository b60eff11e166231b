package geom

import (
	"math"
	"sort"
)

// Polygon is a simple (non-self-intersecting) closed polygon given by its
// vertices in order. The last vertex is implicitly connected back to the
// first.
type Polygon struct {
	Points []Point
}

func NewPolygon(points []Point) Polygon { return Polygon{Points: points} }

func (p Polygon) NumEdges() int { return len(p.Points) }

// Edge returns the i'th edge (Points[i], Points[(i+1)%n]).
func (p Polygon) Edge(i int) (Point, Point) {
	n := len(p.Points)
	return p.Points[i], p.Points[(i+1)%n]
}

func (p Polygon) BBox() AARectangle {
	r := AARectangle{XMin: math.Inf(1), YMin: math.Inf(1), XMax: math.Inf(-1), YMax: math.Inf(-1)}
	for _, pt := range p.Points {
		r.XMin = math.Min(r.XMin, pt.X)
		r.YMin = math.Min(r.YMin, pt.Y)
		r.XMax = math.Max(r.XMax, pt.X)
		r.YMax = math.Max(r.YMax, pt.Y)
	}
	return r
}

// Area returns the (always non-negative) area via the shoelace formula.
func (p Polygon) Area() float64 {
	return math.Abs(p.signedArea())
}

func (p Polygon) signedArea() float64 {
	n := len(p.Points)
	sum := 0.0
	for i := 0; i < n; i++ {
		a, b := p.Points[i], p.Points[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

func (p Polygon) Centroid() Point {
	n := len(p.Points)
	cx, cy, a := 0.0, 0.0, 0.0
	for i := 0; i < n; i++ {
		pi, pj := p.Points[i], p.Points[(i+1)%n]
		cross := pi.X*pj.Y - pj.X*pi.Y
		cx += (pi.X + pj.X) * cross
		cy += (pi.Y + pj.Y) * cross
		a += cross
	}
	a /= 2
	if a == 0 {
		return p.BBox().Center()
	}
	return Point{cx / (6 * a), cy / (6 * a)}
}

// Diameter returns the largest pairwise distance between vertices.
func (p Polygon) Diameter() float64 {
	hull := p.ConvexHull()
	max := 0.0
	for i := range hull.Points {
		for j := i + 1; j < len(hull.Points); j++ {
			if d := Dist(hull.Points[i], hull.Points[j]); d > max {
				max = d
			}
		}
	}
	return max
}

// ConvexHull computes the convex hull via the monotone chain algorithm.
func (p Polygon) ConvexHull() Polygon {
	pts := append([]Point(nil), p.Points...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})
	cross := func(o, a, b Point) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}
	n := len(pts)
	hull := make([]Point, 0, 2*n)
	for _, pt := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], pt) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, pt)
	}
	lower := len(hull) + 1
	for i := n - 2; i >= 0; i-- {
		pt := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], pt) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, pt)
	}
	return Polygon{Points: hull[:len(hull)-1]}
}

func (p Polygon) ConvexHullArea() float64 { return p.ConvexHull().Area() }

// ContainsPoint uses the ray-casting rule.
func (p Polygon) ContainsPoint(pt Point) bool {
	n := len(p.Points)
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := p.Points[i], p.Points[j]
		if (pi.Y > pt.Y) != (pj.Y > pt.Y) &&
			pt.X < (pj.X-pi.X)*(pt.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
	}
	return inside
}

// Contains reports whether o lies entirely within p (vertex containment and
// no edge crossings — sufficient for the simple, non-concave-adversarial
// shapes this engine targets).
func (p Polygon) Contains(o Polygon) bool {
	for _, pt := range o.Points {
		if !p.ContainsPoint(pt) {
			return false
		}
	}
	for i := 0; i < p.NumEdges(); i++ {
		a1, a2 := p.Edge(i)
		for j := 0; j < o.NumEdges(); j++ {
			b1, b2 := o.Edge(j)
			if SegmentsIntersect(a1, a2, b1, b2) {
				return false
			}
		}
	}
	return true
}

// Intersects reports whether p and o overlap: either a vertex of one lies
// inside the other, or any pair of edges cross.
func (p Polygon) Intersects(o Polygon) bool {
	if !p.BBox().Intersects(o.BBox()) {
		return false
	}
	for i := 0; i < p.NumEdges(); i++ {
		a1, a2 := p.Edge(i)
		for j := 0; j < o.NumEdges(); j++ {
			b1, b2 := o.Edge(j)
			if SegmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	if len(o.Points) > 0 && p.ContainsPoint(o.Points[0]) {
		return true
	}
	if len(p.Points) > 0 && o.ContainsPoint(p.Points[0]) {
		return true
	}
	return false
}

func orient(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func onSegment(a, b, p Point) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}

// SegmentsIntersect reports whether segments (a1,a2) and (b1,b2) cross or touch.
func SegmentsIntersect(a1, a2, b1, b2 Point) bool {
	d1 := orient(b1, b2, a1)
	d2 := orient(b1, b2, a2)
	d3 := orient(a1, a2, b1)
	d4 := orient(a1, a2, b2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(b1, b2, a1) {
		return true
	}
	if d2 == 0 && onSegment(b1, b2, a2) {
		return true
	}
	if d3 == 0 && onSegment(a1, a2, b1) {
		return true
	}
	if d4 == 0 && onSegment(a1, a2, b2) {
		return true
	}
	return false
}

// Transform returns a copy of p rotated by dt.Rotation around the origin and
// then translated by dt.Translation.
func (p Polygon) Transform(dt DTransformation) Polygon {
	out := make([]Point, len(p.Points))
	for i, pt := range p.Points {
		out[i] = pt.Rotate(dt.Rotation).Add(dt.Translation)
	}
	return Polygon{Points: out}
}
