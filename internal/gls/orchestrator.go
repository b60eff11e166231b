package gls

import (
	"math"
	"math/rand/v2"
	"time"
)

// poolEntry is one (solution, loss) pair kept in the Explore phase's
// solution pool (§4.J).
type poolEntry struct {
	problem *Problem
	ct      *CollisionTracker
	loss    float64
}

// FeasibleSolution records one zero-loss layout the Explore phase reached,
// at the strip width it was found at.
type FeasibleSolution struct {
	Problem *Problem
	Width   float64
	Density float64
}

// Orchestrator is the top-level control loop (§4.J): it alternates strip
// shrinking, separation, solution-pool bookkeeping and escape moves during
// Explore, then fine-grained width reduction during Compress.
type Orchestrator struct {
	problem *Problem
	ct      *CollisionTracker
	sep     *Separator
	cfg     GLSConfig
	rng     *rand.Rand
	logger  *Logger

	maxItemCHArea float64

	currentWidth float64
	bestWidth    float64
	bestProblem  *Problem

	feasibleSolutions []FeasibleSolution
	solutionPool      []poolEntry
}

// NewOrchestrator builds an Orchestrator from an already-constructed initial
// layout (the LBF collaborator's output, per spec §1) and its strip width.
func NewOrchestrator(problem *Problem, cfg GLSConfig, rng *rand.Rand, logger *Logger) *Orchestrator {
	ct := NewCollisionTracker(problem)
	sep := NewSeparator(problem, ct, cfg, cfg.SepSampleConfigExplore, rng, logger)

	maxCH := 0.0
	for _, it := range problem.Items {
		if it.ConvexHullArea > maxCH {
			maxCH = it.ConvexHullArea
		}
	}

	return &Orchestrator{
		problem:       problem,
		ct:            ct,
		sep:           sep,
		cfg:           cfg,
		rng:           rng,
		logger:        logger,
		maxItemCHArea: maxCH,
		currentWidth:  problem.StripWidth(),
		bestWidth:     problem.StripWidth(),
		bestProblem:   problem.Clone(),
	}
}

// BestWidth returns the narrowest feasible strip width found so far.
func (o *Orchestrator) BestWidth() float64 { return o.bestWidth }

// BestProblem returns a copy of the best feasible layout found so far.
func (o *Orchestrator) BestProblem() *Problem { return o.bestProblem.Clone() }

// FeasibleSolutions returns every feasible width milestone Explore reached,
// in the order they were found.
func (o *Orchestrator) FeasibleSolutions() []FeasibleSolution {
	return append([]FeasibleSolution(nil), o.feasibleSolutions...)
}

// Explore runs the time-bounded explore phase of §4.J until term.Kill().
func (o *Orchestrator) Explore(term Terminator, listener SolutionListener) {
	if listener == nil {
		listener = NoopListener{}
	}
	o.sep.SetSampleConfig(o.cfg.SepSampleConfigExplore)

	for !term.Kill() {
		solvedProblem, solvedCT := o.sep.Separate(term, listener)
		o.problem, o.ct = solvedProblem, solvedCT

		if solvedCT.TotalLoss() == 0 {
			o.onFeasible(listener)
			newWidth := o.currentWidth * (1 - o.cfg.RShrink)
			o.problem.ChangeStripWidthNoShift(newWidth)
			o.currentWidth = newWidth
			o.ct = NewCollisionTracker(o.problem)
			o.sep.SetMaster(o.problem, o.ct)
			o.solutionPool = nil
			continue
		}

		o.insertIntoPool(o.problem.Clone(), o.ct.Clone(), solvedCT.TotalLoss())
		o.rollbackToSampledPoolEntry()
		o.swapEscape()
		o.sep.SetMaster(o.problem, o.ct)
	}
}

func (o *Orchestrator) onFeasible(listener SolutionListener) {
	density := o.problem.Density()
	if o.currentWidth < o.bestWidth || o.bestProblem == nil {
		o.bestWidth = o.currentWidth
		o.bestProblem = o.problem.Clone()
	}
	o.feasibleSolutions = append(o.feasibleSolutions, FeasibleSolution{
		Problem: o.problem.Clone(), Width: o.currentWidth, Density: density,
	})
	if o.logger != nil {
		o.logger.LogFeasible(o.currentWidth, density)
	}
	listener.OnFeasible(o.problem, o.ct)
}

// insertIntoPool keeps the Explore solution pool sorted ascending by loss.
func (o *Orchestrator) insertIntoPool(p *Problem, ct *CollisionTracker, loss float64) {
	entry := poolEntry{problem: p, ct: ct, loss: loss}
	i := 0
	for i < len(o.solutionPool) && o.solutionPool[i].loss <= loss {
		i++
	}
	o.solutionPool = append(o.solutionPool, poolEntry{})
	copy(o.solutionPool[i+1:], o.solutionPool[i:])
	o.solutionPool[i] = entry
}

// rollbackToSampledPoolEntry samples an index from a half-normal
// distribution (favoring better-ranked, lower-loss entries) and restores
// the working problem/CT to that pool entry — §4.J.
func (o *Orchestrator) rollbackToSampledPoolEntry() {
	n := len(o.solutionPool)
	if n == 0 {
		return
	}
	stddev := math.Max(1, float64(n)*o.cfg.ExploreSolDistrStd)
	idx := int(math.Abs(o.rng.NormFloat64()) * stddev)
	if idx >= n {
		idx = n - 1
	}
	entry := o.solutionPool[idx]
	o.problem = entry.problem.Clone()
	o.ct = entry.ct.Clone()
}

// swapEscape picks two random "large" items (by the CH-area cutoff, §4.J)
// with distinct item IDs that aren't on jump cooldown, and swaps their
// transforms in place — the GLOSSARY's "escape move".
func (o *Orchestrator) swapEscape() {
	cutoff := o.maxItemCHArea * o.cfg.LargeItemCHAreaRatio
	var candidates []ItemKey
	for _, k := range o.problem.AllKeys() {
		if o.ct.IsOnJumpCooldown(k) {
			continue
		}
		pi, ok := o.problem.Placement(k)
		if !ok {
			continue
		}
		if o.problem.Item(pi.ItemID).ConvexHullArea > cutoff {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) < 2 {
		return
	}
	o.rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	var k1, k2 ItemKey
	found := false
	for i := 0; i < len(candidates) && !found; i++ {
		pi1, _ := o.problem.Placement(candidates[i])
		for j := i + 1; j < len(candidates); j++ {
			pi2, _ := o.problem.Placement(candidates[j])
			if pi1.ItemID != pi2.ItemID {
				k1, k2 = candidates[i], candidates[j]
				found = true
				break
			}
		}
	}
	if !found {
		return
	}

	pi1, _ := o.problem.Placement(k1)
	pi2, _ := o.problem.Placement(k2)
	item1, item2 := o.problem.Item(pi1.ItemID), o.problem.Item(pi2.ItemID)
	box1, box2 := pi1.BBox(item1), pi2.BBox(item2)

	o.problem.MoveItem(k1, pi2.DTransf)
	o.problem.MoveItem(k2, pi1.DTransf)
	o.ct.RegisterItemMove(o.problem, k1, k1)
	o.ct.RegisterItemMove(o.problem, k2, k2)

	newPi1, _ := o.problem.Placement(k1)
	newPi2, _ := o.problem.Placement(k2)
	if !box1.Intersects(newPi1.BBox(item1)) {
		o.ct.RegisterJump(k1)
	}
	if !box2.Intersects(newPi2.BBox(item2)) {
		o.ct.RegisterJump(k2)
	}
}

// Compress runs the time-bounded compress phase of §4.J: repeated
// small-step width reductions from the best feasible layout found during
// Explore, each applied via a split-and-shift strip resize so the reduction
// is distributed rather than uniform.
func (o *Orchestrator) Compress(term Terminator, listener SolutionListener) {
	if listener == nil {
		listener = NoopListener{}
	}
	o.sep.SetSampleConfig(o.cfg.SepSampleConfigCompress)

	ratio := o.cfg.Compression.StartRatio
	failures := 0
	phaseStart := time.Now()

	for !term.Kill() {
		problem := o.bestProblem.Clone()
		width := o.bestWidth

		splitX := o.rng.Float64() * width
		newWidth := width * (1 - ratio)
		problem.ChangeStripWidth(newWidth, splitX)

		ct := NewCollisionTracker(problem)
		o.sep.SetMaster(problem, ct)

		finalProblem, finalCT := o.sep.Separate(term, listener)

		ok := finalCT.TotalLoss() == 0
		if o.logger != nil {
			o.logger.LogCompress(ratio, failures, ok)
		}
		if ok {
			o.bestProblem = finalProblem.Clone()
			o.bestWidth = newWidth
			o.feasibleSolutions = append(o.feasibleSolutions, FeasibleSolution{
				Problem: o.bestProblem.Clone(), Width: o.bestWidth, Density: finalProblem.Density(),
			})
			listener.OnFeasible(finalProblem, finalCT)
			failures = 0
			ratio = o.cfg.Compression.StartRatio
			continue
		}

		failures++
		ratio = o.nextCompressRatio(ratio, failures, term, phaseStart)
		if ratio < o.cfg.Compression.EndRatio {
			ratio = o.cfg.Compression.EndRatio
		}
	}
}

// nextCompressRatio computes the next attempt's shrink ratio per the
// configured decay strategy (SPEC_FULL.md's supplemented compression-shrink
// strategies): FailureBased decays geometrically per consecutive failure;
// TimeBased linearly interpolates from StartRatio to EndRatio across the
// phase's remaining time budget, ignoring the failure count entirely.
func (o *Orchestrator) nextCompressRatio(ratio float64, failures int, term Terminator, phaseStart time.Time) float64 {
	switch o.cfg.Compression.ShrinkDecay {
	case ShrinkDecayFailureBased:
		return ratio * o.cfg.Compression.FailureFactor
	default: // ShrinkDecayTimeBased
		frac := term.ElapsedFraction(phaseStart)
		start, end := o.cfg.Compression.StartRatio, o.cfg.Compression.EndRatio
		return start + (end-start)*frac
	}
}
