package gls

import (
	"math"
	"math/rand/v2"

	"github.com/rbscholtus/glspack/internal/geom"
)

// Coordinate-descent step constants, named and valued after
// original_source/src/sample/coord_descent.rs.
const (
	cdStepSuccessGrowth = 1.1
	cdStepFailShrink    = 0.5
	cdStepInitRatio     = 0.25
	cdStepLimitRatio    = 0.001
	cdMaxIterations     = 100_000
)

type cdAxis int

const (
	axisHorizontal cdAxis = iota
	axisVertical
	axisDiagForward
	axisDiagBackward
)

func (a cdAxis) cycle() cdAxis {
	switch a {
	case axisHorizontal:
		return axisVertical
	case axisVertical:
		return axisDiagForward
	case axisDiagForward:
		return axisDiagBackward
	default:
		return axisHorizontal
	}
}

var cdAxes = [4]cdAxis{axisHorizontal, axisVertical, axisDiagForward, axisDiagBackward}

type cdState struct {
	pos       geom.Point
	eval      SampleEval
	axis      cdAxis
	stepX     float64
	stepY     float64
	stepLimit float64
}

func (s cdState) candidates() ([2]geom.Point, bool) {
	if s.stepX < s.stepLimit && s.stepY < s.stepLimit {
		return [2]geom.Point{}, false
	}
	p, sx, sy := s.pos, s.stepX, s.stepY
	switch s.axis {
	case axisHorizontal:
		return [2]geom.Point{{X: p.X + sx, Y: p.Y}, {X: p.X - sx, Y: p.Y}}, true
	case axisVertical:
		return [2]geom.Point{{X: p.X, Y: p.Y + sy}, {X: p.X, Y: p.Y - sy}}, true
	case axisDiagForward:
		return [2]geom.Point{{X: p.X + sx, Y: p.Y + sy}, {X: p.X - sx, Y: p.Y - sy}}, true
	default: // axisDiagBackward
		return [2]geom.Point{{X: p.X - sx, Y: p.Y + sy}, {X: p.X + sx, Y: p.Y - sy}}, true
	}
}

func (s cdState) adjustSteps(improved bool) cdState {
	m := cdStepFailShrink
	if improved {
		m = cdStepSuccessGrowth
	}
	switch s.axis {
	case axisHorizontal:
		s.stepX *= m
	case axisVertical:
		s.stepY *= m
	default:
		sq := math.Sqrt(m)
		s.stepX *= sq
		s.stepY *= sq
	}
	return s
}

func (s cdState) evolve(newPos *geom.Point, newEval SampleEval, improved bool) cdState {
	if newPos != nil {
		s.pos = *newPos
		s.eval = newEval
	}
	s = s.adjustSteps(improved)
	if !improved {
		s.axis = s.axis.cycle()
	}
	return s
}

// moveTied relocates to a tied-equal candidate without growing or shrinking
// the step or cycling the axis — §4.G: "Tied-equal cases move to one of the
// equals without changing step."
func (s cdState) moveTied(newPos geom.Point, newEval SampleEval) cdState {
	s.pos = newPos
	s.eval = newEval
	return s
}

// coordinateDescent runs 4-axis step-based local search from (initDT,
// initEval), returning the best transform/eval found — §4.G, grounded on
// original_source/src/sample/coord_descent.rs.
func coordinateDescent(initDT DTransformation, initEval SampleEval, evaluator SampleEvaluator, minDim float64, rng *rand.Rand) (DTransformation, SampleEval) {
	rot := initDT.Rotation
	state := cdState{
		pos:       initDT.Translation,
		eval:      initEval,
		axis:      cdAxes[rng.IntN(4)],
		stepX:     minDim * cdStepInitRatio,
		stepY:     minDim * cdStepInitRatio,
		stepLimit: minDim * cdStepLimitRatio,
	}

	counter := 0
	for {
		cands, ok := state.candidates()
		if !ok {
			break
		}
		c0, c1 := cands[0], cands[1]
		bound := state.eval
		e0 := evaluator.Eval(geom.NewDTransformation(rot, c0), &bound)
		e1 := evaluator.Eval(geom.NewDTransformation(rot, c1), &bound)

		c0Better := e0.Less(state.eval)
		c1Better := e1.Less(state.eval)
		c0Equal := e0.Equal(state.eval)
		c1Equal := e1.Equal(state.eval)

		switch {
		case c0Better && c1Better:
			if e0.Less(e1) {
				state = state.evolve(&c0, e0, true)
			} else {
				state = state.evolve(&c1, e1, true)
			}
		case c0Better:
			state = state.evolve(&c0, e0, true)
		case c1Better:
			state = state.evolve(&c1, e1, true)
		case c0Equal && c1Equal:
			state = state.moveTied(c0, e0)
		case c0Equal:
			state = state.moveTied(c0, e0)
		case c1Equal:
			state = state.moveTied(c1, e1)
		default:
			state = state.evolve(nil, state.eval, false)
		}

		counter += 2
		if counter >= cdMaxIterations {
			break
		}
	}

	return geom.NewDTransformation(rot, state.pos), state.eval
}
