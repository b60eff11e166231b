package gls

import (
	"math/rand/v2"
	"testing"

	"github.com/rbscholtus/glspack/internal/geom"
	"github.com/rbscholtus/glspack/internal/model"
)

func smallGLSConfig() GLSConfig {
	cfg := DefaultGLSConfig(2)
	cfg.NWorkers = 2
	cfg.NStrikes = 3
	cfg.NIterNoImprvLimit = 20
	cfg.SepSampleConfigExplore = SearchConfig{NBinSamples: 32, NFocussedSamples: 16, NCoordDescents: 3}
	return cfg
}

func TestSeparatorResolvesOverlapToZeroLoss(t *testing.T) {
	item := testSquareItem(1, 4)
	p := model.NewProblem([]Item{item}, 40, 40, 4)
	p.PlaceItem(item.ID, geom.NewDTransformation(0, geom.Point{X: 0, Y: 0}))
	p.PlaceItem(item.ID, geom.NewDTransformation(0, geom.Point{X: 2, Y: 0}))
	ct := NewCollisionTracker(p)

	cfg := smallGLSConfig()
	rng := rand.New(rand.NewPCG(1, 2))
	sep := NewSeparator(p, ct, cfg, cfg.SepSampleConfigExplore, rng, nil)

	finalP, finalCT := sep.Separate(NewTerminator(), nil)
	if finalCT.TotalLoss() != 0 {
		t.Errorf("Separate() final TotalLoss() = %v, want 0 in a mostly-empty bin", finalCT.TotalLoss())
	}
	_ = finalP
}

func TestSeparatorStopsImmediatelyWhenTerminatorIsKilled(t *testing.T) {
	item := testSquareItem(1, 4)
	p := model.NewProblem([]Item{item}, 40, 40, 4)
	p.PlaceItem(item.ID, geom.NewDTransformation(0, geom.Point{X: 0, Y: 0}))
	p.PlaceItem(item.ID, geom.NewDTransformation(0, geom.Point{X: 2, Y: 0}))
	ct := NewCollisionTracker(p)
	initLoss := ct.TotalLoss()

	cfg := smallGLSConfig()
	rng := rand.New(rand.NewPCG(3, 4))
	sep := NewSeparator(p, ct, cfg, cfg.SepSampleConfigExplore, rng, nil)

	term := NewTerminator()
	term.Stop()
	_, finalCT := sep.Separate(term, nil)

	if finalCT.TotalLoss() != initLoss {
		t.Errorf("Separate() with a pre-killed terminator changed the loss: got %v, want unchanged %v", finalCT.TotalLoss(), initLoss)
	}
}

type recordingListener struct {
	feasibleCalls int
}

func (l *recordingListener) OnImprovement(*Problem, *CollisionTracker) {}
func (l *recordingListener) OnFeasible(*Problem, *CollisionTracker)    { l.feasibleCalls++ }

func TestSeparatorCallsOnFeasibleWhenLossReachesZero(t *testing.T) {
	item := testSquareItem(1, 4)
	p := model.NewProblem([]Item{item}, 40, 40, 4)
	p.PlaceItem(item.ID, geom.NewDTransformation(0, geom.Point{X: 0, Y: 0}))
	p.PlaceItem(item.ID, geom.NewDTransformation(0, geom.Point{X: 2, Y: 0}))
	ct := NewCollisionTracker(p)

	cfg := smallGLSConfig()
	rng := rand.New(rand.NewPCG(5, 6))
	sep := NewSeparator(p, ct, cfg, cfg.SepSampleConfigExplore, rng, nil)

	listener := &recordingListener{}
	_, finalCT := sep.Separate(NewTerminator(), listener)

	if finalCT.TotalLoss() == 0 && listener.feasibleCalls == 0 {
		t.Error("Separate() reached zero loss but never called OnFeasible")
	}
}
