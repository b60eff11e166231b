// Package builder is the constructive initial-layout collaborator: a
// Left-Bottom-Fill builder, treated as external to the core separation
// engine but implemented here as a real, minimal stand-in since this module
// has no external geometry crate to import. It places items one at a time,
// favoring the leftmost, then lowest, feasible position.
package builder

import (
	"math/rand/v2"
	"sort"

	"github.com/rbscholtus/glspack/internal/geom"
	"github.com/rbscholtus/glspack/internal/gls"
	"github.com/rbscholtus/glspack/internal/model"
)

// widthGrowthFactor is how much the working strip widens when no feasible
// placement is found at the current width (shouldn't happen given a
// reasonable initial width, but keeps Build total rather than fallible).
const widthGrowthFactor = 1.5

const maxWidthGrowthAttempts = 20

// ItemDemand is one item template plus how many copies of it the instance
// requires, the input Build consumes.
type ItemDemand struct {
	Item     model.Item
	Quantity int
}

// Build constructs an initial feasible-or-better layout for items inside a
// strip of the given height, starting from initialWidth and growing it only
// if a copy can't be placed at all (§1, §4.E's "LBF / constructive"
// evaluator flavor).
func Build(items []ItemDemand, stripHeight, initialWidth float64, cfg gls.SearchConfig, rng *rand.Rand) *model.Problem {
	instances := expandAndSortByArea(items)

	problem := model.NewProblem(itemTemplates(items), stripHeight, initialWidth, stripHeight/4)

	for _, item := range instances {
		placeOne(problem, item, cfg, rng)
	}
	return problem
}

func itemTemplates(items []ItemDemand) []model.Item {
	out := make([]model.Item, len(items))
	for i, d := range items {
		out[i] = d.Item
	}
	return out
}

// expandAndSortByArea repeats each item Quantity times and orders the
// resulting instances by descending convex-hull area — the standard
// constructive-heuristic ordering (biggest pieces placed first, since they
// constrain the remaining layout the most).
func expandAndSortByArea(items []ItemDemand) []model.Item {
	var out []model.Item
	for _, d := range items {
		for i := 0; i < d.Quantity; i++ {
			out = append(out, d.Item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ConvexHullArea > out[j].ConvexHullArea
	})
	return out
}

func placeOne(problem *model.Problem, item model.Item, cfg gls.SearchConfig, rng *rand.Rand) {
	for attempt := 0; attempt < maxWidthGrowthAttempts; attempt++ {
		evaluator := newLBFEvaluator(problem, item)
		dt, eval := gls.SearchPlacement(problem, item, nil, evaluator, cfg, rng)
		if eval.Kind == gls.Clear {
			problem.PlaceItem(item.ID, dt)
			return
		}
		problem.ChangeStripWidthNoShift(problem.StripWidth() * widthGrowthFactor)
	}
	// Last resort: place at the origin even if colliding; the Separator's
	// first pass will resolve it like any other overlap.
	problem.PlaceItem(item.ID, geom.NewDTransformation(0, geom.Point{}))
}

// lbfXMultiplier/lbfYMultiplier weight the constructive loss's
// point-of-interest + bbox-corner terms — grounded on
// original_source/src/eval/lbf_evaluator.rs's X_MULTIPLIER/Y_MULTIPLIER
// (X-dominant: the constructive builder favors the leftmost feasible column
// before it favors the lowest row within that column).
const (
	lbfXMultiplier = 10.0
	lbfYMultiplier = 1.0
)

// lbfEvaluator is the "LBF / constructive" evaluator flavor named in §4.E:
// Clear{loss} favoring bottom-left placements, used only by this builder.
type lbfEvaluator struct {
	p      *model.Problem
	item   model.Item
	nEvals int
}

func newLBFEvaluator(p *model.Problem, item model.Item) *lbfEvaluator {
	return &lbfEvaluator{p: p, item: item}
}

func (e *lbfEvaluator) NumEvals() int { return e.nEvals }

func (e *lbfEvaluator) Eval(dt geom.DTransformation, _ *gls.SampleEval) gls.SampleEval {
	e.nEvals++
	shape := e.item.Shape.Transform(dt)
	bbox := shape.BBox()
	bin := e.p.BinBBox()
	if bbox.XMin < bin.XMin || bbox.YMin < bin.YMin || bbox.XMax > bin.XMax || bbox.YMax > bin.YMax {
		return gls.InvalidEval()
	}

	collector := model.NewSimpleHazardCollector()
	e.p.CollectCollisions(shape, model.ItemKey{Index: -1}, collector)
	if len(collector.Hazards()) > 0 {
		return gls.InvalidEval()
	}

	// poi is the shape's point of interest (its largest pole's center, the
	// same "deepest interior point" jagua-rs's shape.poi names) and corner
	// is the bbox's bottom-left corner; summing them before weighting
	// matches lbf_evaluator.rs's loss exactly rather than using either term
	// alone.
	surrogate := e.item.Surrogate.Transform(dt)
	poi := surrogate.Poles[0].Center
	corner := geom.Point{X: bbox.XMin, Y: bbox.YMin}
	loss := lbfXMultiplier*(poi.X+corner.X) + lbfYMultiplier*(poi.Y+corner.Y)
	return gls.ClearEval(loss)
}
