package gls

import (
	"math/bits"

	"github.com/rbscholtus/glspack/internal/geom"
	"github.com/rbscholtus/glspack/internal/model"
)

// SpecializedHazardDetector is the specialized collision-detection pipeline
// (§4.D): a HazardDetector that tracks a running weighted-loss bound and
// aborts the moment it's exceeded, rather than finding every collision.
// Traversal order is a fail-fast poles-first pass over cheap bounding-circle
// checks, then the remaining broad-phase candidates in bit-reversed index
// order (maximizing how quickly a bad placement's loss crosses the bound),
// grounded on original_source/src/eval/custom_cde.rs's DetectionMap2 /
// GeneralizedBitReversalIterator.
type SpecializedHazardDetector struct {
	p  *Problem
	ct *CollisionTracker

	currentKey ItemKey
	shape      geom.Polygon
	surrogate  geom.Surrogate
	diam       float64

	detectedItems map[model.ItemKey]bool
	detectedBin   bool

	runningWeightedLoss float64
	woUpperBound        float64
	terminated          bool
}

func NewSpecializedHazardDetector(p *Problem, ct *CollisionTracker) *SpecializedHazardDetector {
	return &SpecializedHazardDetector{p: p, ct: ct, detectedItems: make(map[model.ItemKey]bool)}
}

// Reload resets the detector for a new candidate placement of item currentKey.
func (d *SpecializedHazardDetector) Reload(currentKey ItemKey, shape geom.Polygon, surrogate geom.Surrogate, diam, upperBound float64) {
	d.currentKey = currentKey
	d.shape = shape
	d.surrogate = surrogate
	d.diam = diam
	d.detectedItems = make(map[model.ItemKey]bool)
	d.detectedBin = false
	d.runningWeightedLoss = 0
	d.woUpperBound = upperBound
	d.terminated = false
}

func (d *SpecializedHazardDetector) EarlyTerminated() bool { return d.terminated }

func (d *SpecializedHazardDetector) Contains(h model.HazardEntity) bool {
	if h.Kind == model.HazardBinExterior {
		return d.detectedBin
	}
	return d.detectedItems[h.Key]
}

// Push implements model.HazardDetector: records the hazard, adds its
// weighted contribution to the running loss, and signals the scan to stop
// (by returning false) once the bound is exceeded.
func (d *SpecializedHazardDetector) Push(h model.HazardEntity) bool {
	if d.Contains(h) {
		return !d.terminated
	}
	switch h.Kind {
	case model.HazardBinExterior:
		d.detectedBin = true
		weight := d.ct.binOverlap[d.mustIdx(d.currentKey)].Weight
		overlap := BinOverlapProxy(d.shape.BBox(), d.p.BinBBox(), d.itemOf(d.currentKey).ConvexHullArea)
		d.runningWeightedLoss += 2.0 * weight * overlap
	case model.HazardPlacedItem:
		d.detectedItems[h.Key] = true
		otherPi, _ := d.p.Placement(h.Key)
		otherItem := d.itemOf(otherPi.ItemID)
		otherSurrogate := otherPi.TransformedSurrogate(otherItem)
		otherShape := otherPi.TransformedShape(otherItem)
		overlap := PolyOverlapProxy(d.surrogate, otherSurrogate, d.diam, otherShape.Diameter())
		weight := d.pairWeight(d.currentKey, h.Key)
		d.runningWeightedLoss += weight * overlap
	}
	if d.runningWeightedLoss > d.woUpperBound {
		d.terminated = true
	}
	return !d.terminated
}

func (d *SpecializedHazardDetector) mustIdx(k ItemKey) int {
	idx, _ := d.ct.idxOf(k)
	return idx
}

func (d *SpecializedHazardDetector) itemOf(id ItemID) Item { return d.p.Item(id) }

func (d *SpecializedHazardDetector) pairWeight(a, b ItemKey) float64 {
	ia, aok := d.ct.idxOf(a)
	ib, bok := d.ct.idxOf(b)
	if !aok || !bok {
		return 1.0
	}
	return d.ct.pairOverlap.Get(ia, ib).Weight
}

// Loss returns the final (non-early-terminated) collected weighted loss.
func (d *SpecializedHazardDetector) Loss() float64 { return d.runningWeightedLoss }

func (d *SpecializedHazardDetector) IsEmpty() bool {
	return !d.detectedBin && len(d.detectedItems) == 0
}

// CollectPolyCollisions runs the fail-fast-poles-then-bit-reversed scan
// policy against p, pushing every hazard found into d until either the
// candidate set is exhausted or d signals early termination.
func (d *SpecializedHazardDetector) CollectPolyCollisions() {
	bbox := d.shape.BBox()

	// Pass 1: fail-fast poles — a cheap bounding-circle pre-check against
	// nearby items that can catch an obviously-bad placement before paying
	// for any exact polygon test.
	candidates := d.candidateKeys(bbox)
	for _, k := range candidates {
		if d.terminated {
			return
		}
		pi, ok := d.p.Placement(k)
		if !ok {
			continue
		}
		other := pi.TransformedSurrogate(d.itemOf(pi.ItemID))
		if d.ffPolesCollide(other) {
			if !d.Push(model.ItemHazard(k)) {
				return
			}
		}
	}
	if bbox.XMin < 0 || bbox.YMin < 0 || bbox.XMax > d.p.BinBBox().XMax || bbox.YMax > d.p.BinBBox().YMax {
		if !d.Push(model.BinHazard) {
			return
		}
	}

	// Pass 2: remaining candidates in bit-reversed order — exact narrow-phase.
	order := bitReversedOrder(len(candidates))
	for _, pos := range order {
		if d.terminated {
			return
		}
		k := candidates[pos]
		if d.Contains(model.ItemHazard(k)) {
			continue
		}
		pi, ok := d.p.Placement(k)
		if !ok {
			continue
		}
		other := pi.TransformedShape(d.itemOf(pi.ItemID))
		if d.shape.Intersects(other) {
			if !d.Push(model.ItemHazard(k)) {
				return
			}
		}
	}
}

// candidateKeys delegates to the Problem's broad-phase index (the same one
// CollectCollisions itself queries) rather than scanning every placed item,
// so the fail-fast-poles and bit-reversed passes only ever visit items
// whose bbox actually overlaps bbox.
func (d *SpecializedHazardDetector) candidateKeys(bbox geom.AARectangle) []ItemKey {
	all := d.p.Candidates(bbox)
	out := make([]ItemKey, 0, len(all))
	for _, k := range all {
		if k != d.currentKey {
			out = append(out, k)
		}
	}
	return out
}

func (d *SpecializedHazardDetector) ffPolesCollide(other geom.Surrogate) bool {
	for _, mp := range d.surrogate.FFPoles {
		for _, op := range other.FFPoles {
			dist := geom.Dist(mp.Center, op.Center)
			if dist < mp.Radius+op.Radius {
				return true
			}
		}
	}
	return false
}

// bitReversedOrder returns the permutation of [0,n) produced by visiting
// indices in bit-reversed-binary order, matching
// GeneralizedBitReversalIterator: this maximizes the odds of hitting a
// high-loss hazard early, since adjacent items in placement order tend to
// be spatially correlated and a linear scan would cluster similar hazards.
func bitReversedOrder(n int) []int {
	if n == 0 {
		return nil
	}
	k := bits.Len(uint(n - 1))
	if n == 1 {
		k = 1
	}
	out := make([]int, 0, n)
	total := 1 << uint(k)
	for i := 0; i < total; i++ {
		rev := int(bits.Reverse64(uint64(i)) >> (64 - k))
		if rev < n {
			out = append(out, rev)
		}
	}
	return out
}
