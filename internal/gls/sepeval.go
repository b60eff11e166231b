package gls

import "math"

// SeparationEvaluator is the sample evaluator used during item separation
// (§4.E): it scores a candidate transform for one item by running it through
// the specialized hazard detector with an upper bound derived from the best
// sample found so far, so the search can cheaply reject bad candidates.
// Grounded on original_source/src/eval/sep_evaluator.rs.
type SeparationEvaluator struct {
	p        *Problem
	item     Item
	key      ItemKey
	detector *SpecializedHazardDetector
	nEvals   int
}

func NewSeparationEvaluator(p *Problem, item Item, key ItemKey, ct *CollisionTracker) *SeparationEvaluator {
	return &SeparationEvaluator{p: p, item: item, key: key, detector: NewSpecializedHazardDetector(p, ct)}
}

func (e *SeparationEvaluator) NumEvals() int { return e.nEvals }

func (e *SeparationEvaluator) Eval(dt DTransformation, upperBound *SampleEval) SampleEval {
	e.nEvals++

	lossBound := math.Inf(1)
	if upperBound != nil {
		switch upperBound.Kind {
		case Collision:
			lossBound = upperBound.Loss
		case Clear:
			lossBound = 0.0
		}
	}

	shape := e.item.Shape.Transform(dt)
	surrogate := e.item.Surrogate.Transform(dt)
	diam := shape.Diameter()

	e.detector.Reload(e.key, shape, surrogate, diam, lossBound)
	e.detector.CollectPolyCollisions()

	switch {
	case e.detector.EarlyTerminated():
		return InvalidEval()
	case e.detector.IsEmpty():
		return ClearEval(0)
	default:
		return CollisionEval(e.detector.Loss())
	}
}
