package gls

import (
	"math"

	"github.com/rbscholtus/glspack/internal/geom"
)

// Overlap proxy tuning constants, named and valued after
// original_source/src/overlap/proxy.rs.
const (
	overlapProxyEpsilonDiamRatio   = 0.01
	overlapProxyNeglectEpsilonRate = 10.0
	binOverlapProxyMultiplier      = 10.0
)

// PolyOverlapProxy is a continuous, commutative, monotone approximation of
// how much two shapes overlap, computed from their precomputed pole
// surrogates rather than an exact polygon intersection. Grounded on
// original_source/src/overlap/proxy.rs's poly_overlap_proxy.
func PolyOverlapProxy(s1, s2 geom.Surrogate, diam1, diam2 float64) float64 {
	diam := diam1
	if diam2 > diam {
		diam = diam2
	}
	epsilon := diam * overlapProxyEpsilonDiamRatio

	deficit := polesOverlapProxy(s1, s2, epsilon)
	if deficit <= 0 {
		return 0
	}

	minCH, maxCH := s1.ConvexHullArea, s2.ConvexHullArea
	if minCH > maxCH {
		minCH, maxCH = maxCH, minCH
	}
	penalty := 0.95*minCH + 0.05*maxCH

	return math.Sqrt(deficit * penalty)
}

// polesOverlapProxy sums, over every pair of poles from the smaller-bounding
// surrogate ("inner") against every pole of the larger ("outer"), a
// decayed penetration depth weighted by the smaller pole's radius. Poles
// whose bounding circles can't possibly reach each other are skipped.
func polesOverlapProxy(sp1, sp2 geom.Surrogate, epsilon float64) float64 {
	inner, outer := sp1, sp2
	if !innerFirst(sp1, sp2) {
		inner, outer = sp2, sp1
	}

	neglectDist := epsilon * overlapProxyNeglectEpsilonRate
	total := 0.0
	for _, op := range outer.Poles {
		maxReach := op.Radius + inner.PoleBoundCirc.Radius + neglectDist
		if geom.SqDist(op.Center, inner.PoleBoundCirc.Center) > maxReach*maxReach {
			continue
		}
		for _, ip := range inner.Poles {
			dist := geom.Dist(op.Center, ip.Center)
			pd := (op.Radius + ip.Radius) - dist
			var decay float64
			if pd >= epsilon {
				decay = pd
			} else {
				decay = (epsilon * epsilon) / (-pd + 2*epsilon)
			}
			minR := op.Radius
			if ip.Radius < minR {
				minR = ip.Radius
			}
			total += decay * minR
		}
	}
	return total
}

// innerFirst picks the surrogate with the smaller bounding circle as
// "inner"; ties are broken deterministically by the sum of the bounding
// circle's center coordinates (matches the original's tie-break).
func innerFirst(a, b geom.Surrogate) bool {
	if a.PoleBoundCirc.Radius != b.PoleBoundCirc.Radius {
		return a.PoleBoundCirc.Radius < b.PoleBoundCirc.Radius
	}
	sa := a.PoleBoundCirc.Center.X + a.PoleBoundCirc.Center.Y
	sb := b.PoleBoundCirc.Center.X + b.PoleBoundCirc.Center.Y
	return sa <= sb
}

// BinOverlapProxy measures how far a shape strays outside the strip's
// bounds: the non-negative containment deficit of the shape's bbox against
// the bin's (larger still for disjoint cases), scaled by the shape's convex hull area and
// weighted 10x relative to an item-item overlap — original_source/src/overlap/proxy.rs.
func BinOverlapProxy(shapeBox, binBox geom.AARectangle, chArea float64) float64 {
	deficit := shapeBox.ContainmentDeficit(binBox)
	if deficit <= 0 {
		return 0
	}
	return binOverlapProxyMultiplier * math.Sqrt(deficit*chArea)
}
