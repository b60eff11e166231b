package gls

import (
	"github.com/rbscholtus/glspack/internal/model"
)

// GLS weight-update constants, named and valued after
// original_source/src/config.rs.
const (
	otMaxIncrease = 2.0
	otMinIncrease = 1.2
	otDecay       = 0.95
	jumpCooldown  = 5
)

// CollisionTracker is the Collision Tracker (§4.B): a live, incrementally
// maintained map from every placed item to its weighted overlap with every
// other item and with the bin exterior, plus the GLS pair weights that bias
// future search away from chronically-colliding pairs.
type CollisionTracker struct {
	size int

	pkToIdx map[model.ItemKey]int
	idxToPk []model.ItemKey

	pairOverlap *PairMatrix
	binOverlap  []OTEntry

	lastJumpIter []int
	currentIter  int
}

// NewCollisionTracker builds a tracker from scratch, recomputing every
// placed item's collisions against the problem (O(n^2) full pass) —
// original_source/src/overlap/tracker.rs's `new`/`init`.
func NewCollisionTracker(p *Problem) *CollisionTracker {
	keys := p.AllKeys()
	ct := &CollisionTracker{
		size:         len(keys),
		pkToIdx:      make(map[model.ItemKey]int, len(keys)),
		idxToPk:      append([]model.ItemKey(nil), keys...),
		pairOverlap:  NewPairMatrix(len(keys)),
		binOverlap:   make([]OTEntry, len(keys)),
		lastJumpIter: make([]int, len(keys)),
	}
	for i := range ct.binOverlap {
		ct.binOverlap[i] = newOTEntry()
	}
	for i, k := range keys {
		ct.pkToIdx[k] = i
		ct.lastJumpIter[i] = -jumpCooldown
	}
	for _, k := range keys {
		ct.RecomputeOverlapForItem(k, p)
	}
	return ct
}

func (ct *CollisionTracker) idxOf(k model.ItemKey) (int, bool) {
	i, ok := ct.pkToIdx[k]
	return i, ok
}

// RecomputeOverlapForItem zeroes item k's row/column (and bin entry) and
// recomputes it against the current placement state — an O(n) update, not
// the full O(n^2) recompute, matching the incremental-maintenance invariant.
func (ct *CollisionTracker) RecomputeOverlapForItem(k model.ItemKey, p *Problem) {
	idx, ok := ct.idxOf(k)
	if !ok {
		return
	}
	ct.pairOverlap.ClearOverlapsFor(idx)
	be := ct.binOverlap[idx]
	be.Overlap = 0
	ct.binOverlap[idx] = be

	pi, ok := p.Placement(k)
	if !ok {
		return
	}
	item := p.Item(pi.ItemID)
	shape := pi.TransformedShape(item)
	surrogate := pi.TransformedSurrogate(item)
	shapeBox := shape.BBox()
	diam := shape.Diameter()

	collector := model.NewSimpleHazardCollector()
	p.CollectCollisions(shape, k, collector)

	bin := p.BinBBox()
	for _, h := range collector.Hazards() {
		switch h.Kind {
		case model.HazardBinExterior:
			e := ct.binOverlap[idx]
			e.Overlap = BinOverlapProxy(shapeBox, bin, item.ConvexHullArea)
			ct.binOverlap[idx] = e
		case model.HazardPlacedItem:
			otherIdx, ok := ct.idxOf(h.Key)
			if !ok {
				continue
			}
			otherPi, _ := p.Placement(h.Key)
			otherItem := p.Item(otherPi.ItemID)
			otherSurrogate := otherPi.TransformedSurrogate(otherItem)
			otherShape := otherPi.TransformedShape(otherItem)
			overlap := PolyOverlapProxy(surrogate, otherSurrogate, diam, otherShape.Diameter())
			e := ct.pairOverlap.Get(idx, otherIdx)
			e.Overlap = overlap
			ct.pairOverlap.Set(idx, otherIdx, e)
		}
	}
}

// RegisterItemMove updates the tracker after oldKey was replaced by newKey
// (same slot being reused, or a move that kept the same key — call with
// oldKey == newKey for an in-place move).
func (ct *CollisionTracker) RegisterItemMove(p *Problem, oldKey, newKey model.ItemKey) {
	if idx, ok := ct.pkToIdx[oldKey]; ok && oldKey != newKey {
		delete(ct.pkToIdx, oldKey)
		ct.pkToIdx[newKey] = idx
		ct.idxToPk[idx] = newKey
	}
	ct.RecomputeOverlapForItem(newKey, p)
}

// IncrementWeights is the GLS weight update: pairs and bin-violations that
// currently have zero overlap decay toward 1.0; overlapping pairs grow in
// proportion to their share of the worst current overlap, and overlapping
// bin entries grow by the maximum factor; all weights are floored at 1.0. Grounded on
// original_source/src/overlap/tracker.rs's increment_weights.
func (ct *CollisionTracker) IncrementWeights() {
	maxO := 0.0
	for i := 0; i < ct.size; i++ {
		ct.pairOverlap.Row(i, func(j int, e OTEntry) {
			if i < j && e.Overlap > maxO {
				maxO = e.Overlap
			}
		})
		if ct.binOverlap[i].Overlap > maxO {
			maxO = ct.binOverlap[i].Overlap
		}
	}

	for i := 0; i < ct.size; i++ {
		for j := i + 1; j < ct.size; j++ {
			e := ct.pairOverlap.Get(i, j)
			e.Weight = nextWeight(e.Weight, e.Overlap, maxO)
			ct.pairOverlap.Set(i, j, e)
		}
		e := ct.binOverlap[i]
		mult := otDecay
		if e.Overlap > 0 {
			mult = otMaxIncrease
		}
		e.Weight = max1(e.Weight * mult)
		ct.binOverlap[i] = e
	}
	ct.currentIter++
}

func nextWeight(weight, overlap, maxO float64) float64 {
	var mult float64
	if overlap == 0 {
		mult = otDecay
	} else {
		frac := 0.0
		if maxO > 0 {
			frac = overlap / maxO
		}
		mult = otMinIncrease + (otMaxIncrease-otMinIncrease)*frac
	}
	return max1(weight * mult)
}

func max1(v float64) float64 {
	if v < 1.0 {
		return 1.0
	}
	return v
}

func (ct *CollisionTracker) GetLoss(k model.ItemKey) float64 {
	idx, ok := ct.idxOf(k)
	if !ok {
		return 0
	}
	sum := ct.binOverlap[idx].Overlap
	ct.pairOverlap.Row(idx, func(_ int, e OTEntry) { sum += e.Overlap })
	return sum
}

func (ct *CollisionTracker) GetWeightedLoss(k model.ItemKey) float64 {
	idx, ok := ct.idxOf(k)
	if !ok {
		return 0
	}
	sum := ct.binOverlap[idx].WeightedOverlap()
	ct.pairOverlap.Row(idx, func(_ int, e OTEntry) { sum += e.WeightedOverlap() })
	return sum
}

func (ct *CollisionTracker) TotalLoss() float64 {
	sum := 0.0
	for i := 0; i < ct.size; i++ {
		sum += ct.binOverlap[i].Overlap
		ct.pairOverlap.Row(i, func(j int, e OTEntry) {
			if i < j {
				sum += e.Overlap
			}
		})
	}
	return sum
}

func (ct *CollisionTracker) TotalWeightedLoss() float64 {
	sum := 0.0
	for i := 0; i < ct.size; i++ {
		sum += ct.binOverlap[i].WeightedOverlap()
		ct.pairOverlap.Row(i, func(j int, e OTEntry) {
			if i < j {
				sum += e.WeightedOverlap()
			}
		})
	}
	return sum
}

// RegisterJump records that k's move at the current GLS iteration produced a
// disjoint old/new bounding box (a "jump", per the GLOSSARY): the escape
// move in the Orchestrator treats jumped large items as temporarily
// ineligible again for JUMP_COOLDOWN iterations (SPEC_FULL.md supplemented
// feature), mirroring tracker.rs's register_jump/is_on_jump_cooldown.
func (ct *CollisionTracker) RegisterJump(k model.ItemKey) {
	if idx, ok := ct.idxOf(k); ok {
		ct.lastJumpIter[idx] = ct.currentIter
	}
}

func (ct *CollisionTracker) IsOnJumpCooldown(k model.ItemKey) bool {
	idx, ok := ct.idxOf(k)
	if !ok {
		return false
	}
	return ct.currentIter-ct.lastJumpIter[idx] < jumpCooldown
}

// Clone deep-copies the tracker for a separator worker's private scratch state.
func (ct *CollisionTracker) Clone() *CollisionTracker {
	clone := &CollisionTracker{
		size:         ct.size,
		pkToIdx:      make(map[model.ItemKey]int, len(ct.pkToIdx)),
		idxToPk:      append([]model.ItemKey(nil), ct.idxToPk...),
		pairOverlap:  ct.pairOverlap.Clone(),
		binOverlap:   append([]OTEntry(nil), ct.binOverlap...),
		lastJumpIter: append([]int(nil), ct.lastJumpIter...),
		currentIter:  ct.currentIter,
	}
	for k, v := range ct.pkToIdx {
		clone.pkToIdx[k] = v
	}
	return clone
}

// Snapshot captures enough of the tracker's overlap state (not its weights)
// to be restored later while the caller keeps accumulated weights —
// mirrors tracker.rs's OTSnapshot / restore_but_keep_weights.
type Snapshot struct {
	pkToIdx     map[model.ItemKey]int
	idxToPk     []model.ItemKey
	pairOverlap *PairMatrix
	binOverlap  []OTEntry
}

func (ct *CollisionTracker) CreateSnapshot() Snapshot {
	pkToIdx := make(map[model.ItemKey]int, len(ct.pkToIdx))
	for k, v := range ct.pkToIdx {
		pkToIdx[k] = v
	}
	return Snapshot{
		pkToIdx:     pkToIdx,
		idxToPk:     append([]model.ItemKey(nil), ct.idxToPk...),
		pairOverlap: ct.pairOverlap.Clone(),
		binOverlap:  append([]OTEntry(nil), ct.binOverlap...),
	}
}

// RestoreButKeepWeights restores overlap values and keys from a snapshot
// while preserving this tracker's accumulated GLS weights, and fast-forwards
// the jump-cooldown clock by jumpCooldown iterations, which ends every jump
// cooldown in effect before the restore.
func (ct *CollisionTracker) RestoreButKeepWeights(snap Snapshot) {
	ct.size = len(snap.idxToPk)
	ct.pkToIdx = make(map[model.ItemKey]int, len(snap.pkToIdx))
	for k, v := range snap.pkToIdx {
		ct.pkToIdx[k] = v
	}
	ct.idxToPk = append([]model.ItemKey(nil), snap.idxToPk...)

	merged := NewPairMatrix(ct.size)
	for i := 0; i < ct.size; i++ {
		for j := i + 1; j < ct.size; j++ {
			e := snap.pairOverlap.Get(i, j)
			if i < len(ct.idxToPk) && j < len(ct.idxToPk) {
				e.Weight = ct.pairOverlap.Get(i, j).Weight
			}
			merged.Set(i, j, e)
		}
	}
	ct.pairOverlap = merged

	binCopy := append([]OTEntry(nil), snap.binOverlap...)
	for i := range binCopy {
		if i < len(ct.binOverlap) {
			binCopy[i].Weight = ct.binOverlap[i].Weight
		}
	}
	ct.binOverlap = binCopy

	if len(ct.lastJumpIter) < ct.size {
		grown := make([]int, ct.size)
		copy(grown, ct.lastJumpIter)
		ct.lastJumpIter = grown
	}
	ct.currentIter += jumpCooldown
}
