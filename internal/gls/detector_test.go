package gls

import (
	"math"
	"sort"
	"testing"

	"github.com/rbscholtus/glspack/internal/geom"
	"github.com/rbscholtus/glspack/internal/model"
)

func TestSpecializedHazardDetectorMatchesBaselineWithNoBound(t *testing.T) {
	item := testSquareItem(1, 4)
	p := model.NewProblem([]Item{item}, 20, 20, 4)
	k1 := p.PlaceItem(item.ID, geom.NewDTransformation(0, geom.Point{X: 0, Y: 0}))
	k2 := p.PlaceItem(item.ID, geom.NewDTransformation(0, geom.Point{X: 10, Y: 10}))
	ct := NewCollisionTracker(p)

	// A candidate that collides with k1 and crosses the bin boundary, but
	// not with k2 (k2's own prior placement at (10,10) is far away).
	dt := geom.NewDTransformation(0, geom.Point{X: 2, Y: -2})
	candidate := item.Shape.Transform(dt)

	det := NewSpecializedHazardDetector(p, ct)
	det.Reload(k2, candidate, item.Surrogate.Transform(dt), candidate.Diameter(), math.Inf(1))
	det.CollectPolyCollisions()

	if det.EarlyTerminated() {
		t.Fatal("detector terminated early with an infinite bound")
	}

	baseline := model.NewSimpleHazardCollector()
	p.CollectCollisions(candidate, k2, baseline)

	var gotKeys, wantKeys []model.ItemKey
	gotBin, wantBin := det.Contains(model.BinHazard), baseline.Contains(model.BinHazard)
	for _, h := range baseline.Hazards() {
		if h.Kind == model.HazardPlacedItem {
			wantKeys = append(wantKeys, h.Key)
		}
	}
	for _, k := range []model.ItemKey{k1, k2} {
		if det.Contains(model.ItemHazard(k)) {
			gotKeys = append(gotKeys, k)
		}
	}
	sort.Slice(gotKeys, func(i, j int) bool { return gotKeys[i].Index < gotKeys[j].Index })
	sort.Slice(wantKeys, func(i, j int) bool { return wantKeys[i].Index < wantKeys[j].Index })

	if gotBin != wantBin {
		t.Errorf("detector bin hazard = %v, want %v", gotBin, wantBin)
	}
	if len(gotKeys) != len(wantKeys) {
		t.Fatalf("detector item hazards = %v, want %v", gotKeys, wantKeys)
	}
	for i := range gotKeys {
		if gotKeys[i] != wantKeys[i] {
			t.Errorf("detector item hazards = %v, want %v", gotKeys, wantKeys)
		}
	}
}

func TestSpecializedHazardDetectorEarlyTerminates(t *testing.T) {
	item := testSquareItem(1, 4)
	p := model.NewProblem([]Item{item}, 20, 20, 4)
	k1 := p.PlaceItem(item.ID, geom.NewDTransformation(0, geom.Point{X: 0, Y: 0}))
	k2 := p.PlaceItem(item.ID, geom.NewDTransformation(0, geom.Point{X: 2, Y: 2}))
	k3 := p.PlaceItem(item.ID, geom.NewDTransformation(0, geom.Point{X: 1, Y: -1}))
	ct := NewCollisionTracker(p)
	_ = k1
	_ = k2
	_ = k3

	candidate := item.Shape.Transform(geom.NewDTransformation(0, geom.Point{X: 1, Y: 1}))
	sur := item.Surrogate.Transform(geom.NewDTransformation(0, geom.Point{X: 1, Y: 1}))

	det := NewSpecializedHazardDetector(p, ct)
	// A bound of 0 means any positive loss immediately exceeds it.
	det.Reload(model.ItemKey{Index: -1}, candidate, sur, candidate.Diameter(), 0)
	det.CollectPolyCollisions()

	if !det.EarlyTerminated() {
		t.Error("detector did not terminate early with a zero loss bound against overlapping items")
	}
}

func TestSpecializedHazardDetectorIsEmptyWhenClear(t *testing.T) {
	item := testSquareItem(1, 4)
	p := model.NewProblem([]Item{item}, 20, 20, 4)
	p.PlaceItem(item.ID, geom.NewDTransformation(0, geom.Point{X: 0, Y: 0}))
	ct := NewCollisionTracker(p)

	candidate := item.Shape.Transform(geom.NewDTransformation(0, geom.Point{X: 10, Y: 10}))
	det := NewSpecializedHazardDetector(p, ct)
	det.Reload(model.ItemKey{Index: -1}, candidate, item.Surrogate, candidate.Diameter(), math.Inf(1))
	det.CollectPolyCollisions()

	if !det.IsEmpty() {
		t.Error("IsEmpty() = false for a placement with no collisions")
	}
	if det.EarlyTerminated() {
		t.Error("EarlyTerminated() = true for a clear placement")
	}
}

func TestBitReversedOrderIsAPermutation(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 4, 5, 8, 13} {
		order := bitReversedOrder(n)
		if len(order) != n {
			t.Fatalf("bitReversedOrder(%d) has length %d, want %d", n, len(order), n)
		}
		seen := make(map[int]bool, n)
		for _, v := range order {
			if v < 0 || v >= n {
				t.Fatalf("bitReversedOrder(%d) produced out-of-range index %d", n, v)
			}
			if seen[v] {
				t.Fatalf("bitReversedOrder(%d) produced duplicate index %d", n, v)
			}
			seen[v] = true
		}
	}
}
