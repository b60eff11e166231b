package gls

import "math/rand/v2"

// debugAssertMoveDoesNotWorsenLoss, when true, panics if a single item move
// raises its own weighted loss beyond the tolerance spec §4.H allows — an
// invariant check, and the module's only panic (SPEC_FULL.md, Errors). It
// is on by default and nothing in the module turns it off; there
// is no separate debug or release build.
var debugAssertMoveDoesNotWorsenLoss = true

const moveLossTolerance = 1.001

// SeparateResult summarizes one SeparatorWorker.Separate() call.
type SeparateResult struct {
	TotalMoves int
	TotalEvals int
}

// SeparatorWorker is one local-search agent (§4.H): it owns a private clone
// of the Problem and Collision Tracker, and on Separate() visits every
// currently-colliding item once (in random order), moving each to the best
// transform Search can find.
type SeparatorWorker struct {
	problem   *Problem
	ct        *CollisionTracker
	rng       *rand.Rand
	sampleCfg SearchConfig
}

// NewSeparatorWorker creates a worker with its own RNG, seeded independently
// by the caller (§5: "one per worker, seeded from the orchestrator's RNG at
// worker creation").
func NewSeparatorWorker(rng *rand.Rand, cfg SearchConfig) *SeparatorWorker {
	return &SeparatorWorker{rng: rng, sampleCfg: cfg}
}

// Load deep-copies master's problem and CT into this worker's private
// state, run at the start of every parallel round (§5: "load() deep-copies
// from master into worker before each parallel round").
func (w *SeparatorWorker) Load(problem *Problem, ct *CollisionTracker) {
	w.problem = problem.Clone()
	w.ct = ct.Clone()
}

func (w *SeparatorWorker) Problem() *Problem              { return w.problem }
func (w *SeparatorWorker) Tracker() *CollisionTracker     { return w.ct }
func (w *SeparatorWorker) SetSampleConfig(c SearchConfig) { w.sampleCfg = c }

// Separate runs one pass of the worker's local search: gather every
// currently-colliding item, shuffle the visit order, and move each in turn
// to the best placement Search finds for it — §4.H.
func (w *SeparatorWorker) Separate() SeparateResult {
	keys := w.collidingKeys()
	w.rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })

	var res SeparateResult
	for _, k := range keys {
		if w.ct.GetLoss(k) <= 0 {
			continue // may have been resolved incidentally by an earlier move this pass
		}
		pi, ok := w.problem.Placement(k)
		if !ok {
			continue
		}
		item := w.problem.Item(pi.ItemID)
		evaluator := NewSeparationEvaluator(w.problem, item, k, w.ct)
		dt, _ := SearchPlacement(w.problem, item, &k, evaluator, w.sampleCfg, w.rng)
		w.moveItem(k, dt)
		res.TotalMoves++
		res.TotalEvals += evaluator.NumEvals()
	}
	return res
}

func (w *SeparatorWorker) collidingKeys() []ItemKey {
	var out []ItemKey
	for _, k := range w.problem.AllKeys() {
		if w.ct.GetLoss(k) > 0 {
			out = append(out, k)
		}
	}
	return out
}

// moveItem commits dt as item k's new transform, updates the Collision
// Tracker incrementally, and records a Jump (§9 / GLOSSARY) when the move's
// old and new bounding boxes are disjoint.
func (w *SeparatorWorker) moveItem(k ItemKey, dt DTransformation) {
	pi, ok := w.problem.Placement(k)
	if !ok {
		return
	}
	item := w.problem.Item(pi.ItemID)
	oldBox := pi.BBox(item)
	oldWeighted := w.ct.GetWeightedLoss(k)

	w.problem.MoveItem(k, dt)
	w.ct.RegisterItemMove(w.problem, k, k)

	newPi, _ := w.problem.Placement(k)
	newBox := newPi.BBox(item)
	if !oldBox.Intersects(newBox) {
		w.ct.RegisterJump(k)
	}

	if debugAssertMoveDoesNotWorsenLoss {
		if newWeighted := w.ct.GetWeightedLoss(k); newWeighted > oldWeighted*moveLossTolerance && oldWeighted > 0 {
			panic("gls: item move worsened its own weighted loss beyond tolerance")
		}
	}
}
