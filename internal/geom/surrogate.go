package geom

import "math"

// Surrogate is the cheap-to-evaluate approximation of a polygon used by the
// overlap proxy and the hazard detector's fail-fast pass: a handful of
// interior "poles" (inscribed circles), a small fail-fast subset of those
// poles, a bounding circle enclosing all poles, and the convex hull area.
//
// This is a deliberately simplified stand-in for jagua-rs's pole-fitting
// algorithm (SPEC_FULL.md "Geometry Engine"): poles are found by a bounded
// greedy search over a sampling grid for the largest empty inscribed circle,
// repeated until a pole-count budget is hit or no candidate clears a minimum
// radius.
type Surrogate struct {
	Poles          []Circle
	FFPoles        []Circle
	PoleBoundCirc  Circle
	ConvexHullArea float64
}

// SurrogateConfig controls the pole-fitting budget.
type SurrogateConfig struct {
	MaxPoles      int
	NFailFastPole int
	GridDensity   int // candidate centers per bbox axis
}

func DefaultSurrogateConfig() SurrogateConfig {
	return SurrogateConfig{MaxPoles: 8, NFailFastPole: 2, GridDensity: 24}
}

// BuildSurrogate computes a Surrogate for the untransformed shape p.
func BuildSurrogate(p Polygon, cfg SurrogateConfig) Surrogate {
	bbox := p.BBox()
	hull := p.ConvexHull()
	hullArea := hull.Area()

	step := math.Max(bbox.Width(), bbox.Height()) / float64(cfg.GridDensity)
	if step <= 0 {
		step = 1
	}

	var candidates []Point
	for x := bbox.XMin; x <= bbox.XMax; x += step {
		for y := bbox.YMin; y <= bbox.YMax; y += step {
			pt := Point{x, y}
			if p.ContainsPoint(pt) {
				candidates = append(candidates, pt)
			}
		}
	}

	distToBoundary := func(pt Point) float64 {
		min := math.Inf(1)
		for i := 0; i < p.NumEdges(); i++ {
			a, b := p.Edge(i)
			if d := distPointSegment(pt, a, b); d < min {
				min = d
			}
		}
		return min
	}

	var poles []Circle
	for len(poles) < cfg.MaxPoles && len(candidates) > 0 {
		bestIdx, bestRadius := -1, 0.0
		for i, c := range candidates {
			r := distToBoundary(c)
			for _, pole := range poles {
				if d := Dist(c, pole.Center) - pole.Radius; d < r {
					r = math.Min(r, math.Max(0, d))
				}
			}
			if r > bestRadius {
				bestRadius, bestIdx = r, i
			}
		}
		if bestIdx < 0 || bestRadius <= 0 {
			break
		}
		poles = append(poles, Circle{Center: candidates[bestIdx], Radius: bestRadius})
		candidates = append(candidates[:bestIdx], candidates[bestIdx+1:]...)
	}
	if len(poles) == 0 {
		// Degenerate shape (no interior grid hit): fall back to the bbox center.
		c := bbox.Center()
		poles = []Circle{{Center: c, Radius: math.Min(bbox.Width(), bbox.Height()) / 4}}
	}

	ffCount := cfg.NFailFastPole
	if ffCount > len(poles) {
		ffCount = len(poles)
	}
	ffPoles := append([]Circle(nil), poles[:ffCount]...)

	boundCirc := boundingCircle(poles)

	return Surrogate{
		Poles:          poles,
		FFPoles:        ffPoles,
		PoleBoundCirc:  boundCirc,
		ConvexHullArea: hullArea,
	}
}

// Transform returns the surrogate transformed by dt (poles and bounding
// circle recentered/rescaled appropriately; areas are rotation/translation
// invariant).
func (s Surrogate) Transform(dt DTransformation) Surrogate {
	tf := func(c Circle) Circle {
		return Circle{Center: c.Center.Rotate(dt.Rotation).Add(dt.Translation), Radius: c.Radius}
	}
	out := Surrogate{ConvexHullArea: s.ConvexHullArea}
	out.Poles = make([]Circle, len(s.Poles))
	for i, p := range s.Poles {
		out.Poles[i] = tf(p)
	}
	out.FFPoles = make([]Circle, len(s.FFPoles))
	for i, p := range s.FFPoles {
		out.FFPoles[i] = tf(p)
	}
	out.PoleBoundCirc = tf(s.PoleBoundCirc)
	return out
}

func boundingCircle(poles []Circle) Circle {
	center := Point{}
	for _, p := range poles {
		center = center.Add(p.Center)
	}
	center = center.Scale(1 / float64(len(poles)))
	radius := 0.0
	for _, p := range poles {
		if r := Dist(center, p.Center) + p.Radius; r > radius {
			radius = r
		}
	}
	return Circle{Center: center, Radius: radius}
}

func distPointSegment(p, a, b Point) float64 {
	ab := b.Sub(a)
	denom := ab.X*ab.X + ab.Y*ab.Y
	if denom == 0 {
		return Dist(p, a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	proj := a.Add(ab.Scale(t))
	return Dist(p, proj)
}
