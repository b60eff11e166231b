package gls

import "math"

// sample pairs a candidate transform with its evaluation.
type sample struct {
	dt   DTransformation
	eval SampleEval
}

// BestSamples is a fixed-capacity top-K buffer of (transform, eval) pairs
// that rejects near-duplicate transforms unless they're a strict
// improvement over the existing similar slot — §4.F, grounded on
// original_source/src/sample/best_samples.rs.
type BestSamples struct {
	samples     []sample
	uniqueThesh float64
}

func NewBestSamples(size int, uniqueThresh float64) *BestSamples {
	samples := make([]sample, size)
	for i := range samples {
		samples[i] = sample{eval: InvalidEval()}
	}
	return &BestSamples{samples: samples, uniqueThesh: uniqueThresh}
}

func (b *BestSamples) worst() SampleEval {
	return b.samples[len(b.samples)-1].eval
}

// Report considers a newly-evaluated candidate for inclusion.
func (b *BestSamples) Report(dt DTransformation, eval SampleEval) {
	if !eval.Less(b.worst()) && !eval.Equal(b.worst()) {
		return
	}

	for i, s := range b.samples {
		if s.eval.Kind == Invalid {
			continue
		}
		if dtransfsAreSimilar(s.dt, dt, b.uniqueThesh) {
			if eval.Less(s.eval) {
				b.samples[i] = sample{dt: dt, eval: eval}
				b.resort()
			}
			return
		}
	}

	if eval.Less(b.worst()) {
		b.samples[len(b.samples)-1] = sample{dt: dt, eval: eval}
		b.resort()
	}
}

func (b *BestSamples) resort() {
	for i := 1; i < len(b.samples); i++ {
		for j := i; j > 0 && b.samples[j].eval.Less(b.samples[j-1].eval); j-- {
			b.samples[j], b.samples[j-1] = b.samples[j-1], b.samples[j]
		}
	}
}

func (b *BestSamples) Best() (DTransformation, SampleEval) {
	return b.samples[0].dt, b.samples[0].eval
}

// Snapshot returns a copy of the current samples, taken before the
// coordinate-descent loop starts consuming (and mutating) the buffer.
func (b *BestSamples) Snapshot() []sample {
	return append([]sample(nil), b.samples...)
}

func dtransfsAreSimilar(a, b DTransformation, thresh float64) bool {
	if a.Rotation != b.Rotation {
		if math.Abs(a.Rotation-b.Rotation) > (1.0 * math.Pi / 180.0) {
			return false
		}
	}
	return math.Abs(a.Translation.X-b.Translation.X) < thresh && math.Abs(a.Translation.Y-b.Translation.Y) < thresh
}
