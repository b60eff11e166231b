package gls

import (
	"math/rand/v2"

	"github.com/rbscholtus/glspack/internal/geom"
)

// SearchConfig controls the sampling budget of one search_placement call.
type SearchConfig struct {
	NBinSamples      int
	NFocussedSamples int
	NCoordDescents   int
}

// uniformRectSampler draws a uniformly-random transform whose translation
// lies inside bbox (the item's shape may extend past it), honoring its
// allowed rotation set — grounded on
// original_source/src/sample/uniform_sampler.rs.
type uniformRectSampler struct {
	bbox geom.AARectangle
	item Item
}

func newUniformRectSampler(bbox geom.AARectangle, item Item) uniformRectSampler {
	return uniformRectSampler{bbox: bbox, item: item}
}

func (s uniformRectSampler) sample(rng *rand.Rand) DTransformation {
	x := s.bbox.XMin + rng.Float64()*s.bbox.Width()
	y := s.bbox.YMin + rng.Float64()*s.bbox.Height()
	return geom.NewDTransformation(s.sampleRotation(rng), geom.Point{X: x, Y: y})
}

func (s uniformRectSampler) sampleRotation(rng *rand.Rand) float64 {
	switch s.item.AllowedRotation.Kind {
	case geom.RotationNone:
		return 0
	case geom.RotationDiscrete:
		opts := s.item.AllowedRotation.Discrete
		if len(opts) == 0 {
			return 0
		}
		return opts[rng.IntN(len(opts))]
	default: // RotationContinuous
		return rng.Float64() * 2 * 3.14159265358979323846
	}
}

// SearchPlacement finds a good transform for item, combining uniform bin
// sampling, focused sampling near its current position (when refKey names
// an existing placement), and coordinate descent from each of the K best
// samples found — §4.G, grounded on original_source/src/sample/search.rs.
func SearchPlacement(p *Problem, item Item, refKey *ItemKey, evaluator SampleEvaluator, cfg SearchConfig, rng *rand.Rand) (DTransformation, SampleEval) {
	itemMinDim := item.MinDim
	best := NewBestSamples(cfg.NCoordDescents, itemMinDim*0.05)

	var currentTransf DTransformation
	haveCurrent := false
	if refKey != nil {
		if pi, ok := p.Placement(*refKey); ok {
			currentTransf = pi.DTransf
			haveCurrent = true
			eval := evaluator.Eval(currentTransf, nil)
			best.Report(currentTransf, eval)
		}
	}

	binSampler := newUniformRectSampler(p.BinBBox(), item)
	for i := 0; i < cfg.NBinSamples; i++ {
		dt := binSampler.sample(rng)
		best.Report(dt, evaluator.Eval(dt, nil))
	}

	if haveCurrent {
		radius := itemMinDim * 0.5
		focusBox := geom.Circle{Center: currentTransf.Translation, Radius: radius}.BBox()
		focusSampler := newUniformRectSampler(focusBox, item)
		for i := 0; i < cfg.NFocussedSamples; i++ {
			dt := focusSampler.sample(rng)
			best.Report(dt, evaluator.Eval(dt, nil))
		}
	}

	for _, s := range best.Snapshot() {
		if s.eval.Kind == Invalid {
			continue
		}
		dt, ev := coordinateDescent(s.dt, s.eval, evaluator, itemMinDim, rng)
		best.Report(dt, ev)
	}

	return best.Best()
}
