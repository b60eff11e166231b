package gls

import (
	"testing"

	"github.com/rbscholtus/glspack/internal/geom"
	"github.com/rbscholtus/glspack/internal/model"
)

func TestSearchPlacementFindsClearSpotWhenOneExists(t *testing.T) {
	item := testSquareItem(1, 4)
	p := model.NewProblem([]Item{item}, 40, 40, 4)
	p.PlaceItem(item.ID, geom.NewDTransformation(0, geom.Point{X: 0, Y: 0}))
	k2 := p.PlaceItem(item.ID, geom.NewDTransformation(0, geom.Point{X: 2, Y: 2})) // overlapping k1

	ct := NewCollisionTracker(p)
	eval := NewSeparationEvaluator(p, item, k2, ct)
	cfg := SearchConfig{NBinSamples: 64, NFocussedSamples: 32, NCoordDescents: 4}

	dt, best := SearchPlacement(p, item, &k2, eval, cfg, testRng(7))
	if best.Kind != Clear {
		t.Errorf("SearchPlacement in a mostly-empty 40x40 bin = %+v, want Clear", best)
	}
	_ = dt
}

func TestSearchPlacementUsesCurrentPositionAsABaseline(t *testing.T) {
	item := testSquareItem(1, 4)
	p := model.NewProblem([]Item{item}, 40, 40, 4)
	k1 := p.PlaceItem(item.ID, geom.NewDTransformation(0, geom.Point{X: 18, Y: 18})) // already clear

	ct := NewCollisionTracker(p)
	eval := NewSeparationEvaluator(p, item, k1, ct)
	cfg := SearchConfig{NBinSamples: 0, NFocussedSamples: 0, NCoordDescents: 1}

	_, best := SearchPlacement(p, item, &k1, eval, cfg, testRng(3))
	if best.Kind != Clear {
		t.Errorf("SearchPlacement with zero extra samples should still find the clear current position, got %+v", best)
	}
}

func TestUniformRectSamplerStaysWithinBBox(t *testing.T) {
	item := testSquareItem(1, 4)
	bbox := geom.AARectangle{XMin: 10, YMin: 20, XMax: 30, YMax: 50}
	s := newUniformRectSampler(bbox, item)
	rng := testRng(11)
	for i := 0; i < 100; i++ {
		dt := s.sample(rng)
		if dt.Translation.X < bbox.XMin || dt.Translation.X > bbox.XMax {
			t.Fatalf("sampled X=%v outside [%v, %v]", dt.Translation.X, bbox.XMin, bbox.XMax)
		}
		if dt.Translation.Y < bbox.YMin || dt.Translation.Y > bbox.YMax {
			t.Fatalf("sampled Y=%v outside [%v, %v]", dt.Translation.Y, bbox.YMin, bbox.YMax)
		}
	}
}

func TestUniformRectSamplerRotationNoneIsAlwaysZero(t *testing.T) {
	item := testSquareItem(1, 4)
	item.AllowedRotation = geom.AllowedRotation{Kind: geom.RotationNone}
	bbox := geom.AARectangle{XMin: 0, YMin: 0, XMax: 10, YMax: 10}
	s := newUniformRectSampler(bbox, item)
	rng := testRng(12)
	for i := 0; i < 10; i++ {
		if rot := s.sampleRotation(rng); rot != 0 {
			t.Errorf("sampleRotation() with RotationNone = %v, want 0", rot)
		}
	}
}
