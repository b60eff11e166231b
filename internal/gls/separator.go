package gls

import (
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
)

// SolutionListener decouples "what to do with a new solution" from the
// search loop itself, ported in spirit from original_source/src/util/io's
// reporting hook (SPEC_FULL.md's supplemented "solution listener" feature).
// Implementations must be safe to call synchronously from the Separator's
// single driver thread (never from inside the parallel section).
type SolutionListener interface {
	OnImprovement(p *Problem, ct *CollisionTracker)
	OnFeasible(p *Problem, ct *CollisionTracker)
}

// NoopListener implements SolutionListener with no side effects.
type NoopListener struct{}

func (NoopListener) OnImprovement(*Problem, *CollisionTracker) {}
func (NoopListener) OnFeasible(*Problem, *CollisionTracker)    {}

// Separator is the Separator (§4.I): it owns the master Problem and
// Collision Tracker, forks n_workers independent SeparatorWorker clones each
// round, keeps whichever achieves the lowest weighted total loss, and
// repeats a strike/no-improvement control loop while incrementing GLS
// weights between rounds.
type Separator struct {
	master   *Problem
	masterCT *CollisionTracker

	workers []*SeparatorWorker
	cfg     GLSConfig
	logger  *Logger
}

// NewSeparator builds a Separator with cfg.NWorkers independently-seeded
// workers (§5: "one per worker, seeded from the orchestrator's RNG at
// worker creation").
func NewSeparator(problem *Problem, ct *CollisionTracker, cfg GLSConfig, sampleCfg SearchConfig, rng *rand.Rand, logger *Logger) *Separator {
	workers := make([]*SeparatorWorker, cfg.NWorkers)
	for i := range workers {
		seed1, seed2 := rng.Uint64(), rng.Uint64()
		workerRng := rand.New(rand.NewPCG(seed1, seed2))
		workers[i] = NewSeparatorWorker(workerRng, sampleCfg)
	}
	return &Separator{master: problem, masterCT: ct, workers: workers, cfg: cfg, logger: logger}
}

func (s *Separator) SetSampleConfig(cfg SearchConfig) {
	for _, w := range s.workers {
		w.SetSampleConfig(cfg)
	}
}

// SetMaster replaces the master Problem/CollisionTracker pair wholesale,
// used by the Orchestrator after a strip-width change rebuilds the tracker.
func (s *Separator) SetMaster(p *Problem, ct *CollisionTracker) {
	s.master, s.masterCT = p, ct
}

func (s *Separator) Problem() *Problem          { return s.master }
func (s *Separator) Tracker() *CollisionTracker { return s.masterCT }

// Separate runs the strike/no-improvement/escape-free separation loop of
// §4.I and returns the best (Problem, CollisionTracker) pair it found —
// zero total loss means the layout is fully feasible.
func (s *Separator) Separate(term Terminator, listener SolutionListener) (*Problem, *CollisionTracker) {
	if listener == nil {
		listener = NoopListener{}
	}

	minLossProblem := s.master.Clone()
	minLossCT := s.masterCT.Clone()
	minLoss := s.masterCT.TotalLoss()

	strike := 0
	for strike < s.cfg.NStrikes && !term.Kill() {
		iterNoImpr := 0
		initLoss := s.masterCT.TotalLoss()

		for iterNoImpr < s.cfg.NIterNoImprvLimit && !term.Kill() {
			s.runWorkerRound()

			loss := s.masterCT.TotalLoss()
			switch {
			case loss == 0:
				listener.OnFeasible(s.master, s.masterCT)
				return s.master, s.masterCT
			case loss < minLoss:
				minLossProblem = s.master.Clone()
				minLossCT = s.masterCT.Clone()
				improved := loss < 0.98*minLoss
				minLoss = loss
				listener.OnImprovement(s.master, s.masterCT)
				if improved {
					iterNoImpr = 0
				}
			default:
				iterNoImpr++
			}

			s.masterCT.IncrementWeights()
		}

		if initLoss*0.98 <= minLoss {
			strike++
		} else {
			strike = 0
		}
		if s.logger != nil {
			s.logger.LogStrike(strike, minLoss)
		}

		s.rollback(minLossProblem, minLossCT)
	}

	return minLossProblem, minLossCT
}

// runWorkerRound is the joinable fork-join parallel section of §5: every
// worker independently loads the master state and separates; only the
// winner (lowest weighted total loss) propagates back, on the driver
// thread, after the join.
func (s *Separator) runWorkerRound() {
	var eg errgroup.Group
	for _, w := range s.workers {
		w := w
		eg.Go(func() error {
			w.Load(s.master, s.masterCT)
			w.Separate()
			return nil
		})
	}
	_ = eg.Wait() // workers never return an error; join is the only sync point

	best := 0
	bestLoss := s.workers[0].Tracker().TotalWeightedLoss()
	for i := 1; i < len(s.workers); i++ {
		if l := s.workers[i].Tracker().TotalWeightedLoss(); l < bestLoss {
			bestLoss, best = l, i
		}
	}
	s.master = s.workers[best].Problem()
	s.masterCT = s.workers[best].Tracker()
}

// rollback restores the master Problem to snap and the master CT's overlaps
// to ctSnap while keeping the weights the master CT has accumulated so far
// (§4.I: "Rollback restores the Problem and ... a CT snapshot (keeping
// current weights)").
func (s *Separator) rollback(snap *Problem, ctSnap *CollisionTracker) {
	s.master.Restore(snap)
	s.masterCT.RestoreButKeepWeights(ctSnap.CreateSnapshot())
}
