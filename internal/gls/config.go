package gls

import "time"

// ShrinkDecayKind selects how the Compress phase tapers its shrink-ratio
// between attempts (§4.J, SPEC_FULL.md's supplemented compression-shrink
// strategies), grounded on original_source/src/optimizer/compress.rs.
type ShrinkDecayKind int

const (
	// ShrinkDecayTimeBased linearly decays the shrink ratio from Start to
	// End across the remaining compress-phase time budget.
	ShrinkDecayTimeBased ShrinkDecayKind = iota
	// ShrinkDecayFailureBased geometrically decays the shrink ratio by
	// FailureFactor on every consecutive failed shrink attempt, resetting
	// to Start on success.
	ShrinkDecayFailureBased
)

// CompressionConfig parameterizes the Compress phase's shrink-step schedule.
type CompressionConfig struct {
	ShrinkDecay   ShrinkDecayKind
	StartRatio    float64 // initial shrink ratio r
	EndRatio      float64 // floor ratio (TimeBased) / never-go-below (FailureBased)
	FailureFactor float64 // geometric decay per failure (FailureBased only)
}

// DefaultCompressionConfig uses fixed, hand-tuned constants rather than
// instance-scaled ones, since the compression shrink ratio is a fraction of
// the current width and so is already self-scaling.
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		ShrinkDecay:   ShrinkDecayFailureBased,
		StartRatio:    0.01,
		EndRatio:      0.0001,
		FailureFactor: 0.7,
	}
}

// GLSConfig bundles every compile-time-constant tunable named in spec §6,
// the same way keycraft.BLSParams bundles BLS's tunables. DefaultGLSConfig
// scales the bin-sample counts off the instance size, mirroring
// DefaultBLSParams(numFreeKeys); the strike/no-improvement limits are fixed.
type GLSConfig struct {
	// Orchestrator / Separator control (§4.I, §4.J)
	RShrink              float64 // fractional strip-width reduction per successful shrink
	NIterNoImprvLimit    int
	NStrikes             int
	NWorkers             int
	LargeItemCHAreaRatio float64 // cutoff (relative to max item CH area) for swap-escape eligibility
	ExploreSolDistrStd   float64 // half-normal stddev, as a fraction of pool size

	Compression CompressionConfig

	// Sample-search budgets (§4.G), one per phase — separation during
	// exploration can afford to be looser than during final compression.
	SepSampleConfigExplore  SearchConfig
	SepSampleConfigCompress SearchConfig
	LBFSampleConfig         SearchConfig
}

// DefaultGLSConfig returns recommended defaults, scaling the bin-sample
// budgets off the number of items in the instance (iteration limits do not
// depend on it) — grounded on
// keycraft.DefaultBLSParams(numFreeKeys)'s own size-scaling pattern.
func DefaultGLSConfig(numItems int) GLSConfig {
	binSamples := 5
	if scaled := numItems / 2; scaled > binSamples {
		binSamples = scaled
	}
	return GLSConfig{
		RShrink:              0.005,
		NIterNoImprvLimit:    100,
		NStrikes:             5,
		NWorkers:             4,
		LargeItemCHAreaRatio: 0.5,
		ExploreSolDistrStd:   0.25,
		Compression:          DefaultCompressionConfig(),
		SepSampleConfigExplore: SearchConfig{
			NBinSamples:      binSamples,
			NFocussedSamples: 5,
			NCoordDescents:   3,
		},
		SepSampleConfigCompress: SearchConfig{
			NBinSamples:      binSamples * 2,
			NFocussedSamples: 10,
			NCoordDescents:   5,
		},
		LBFSampleConfig: SearchConfig{
			NBinSamples:      binSamples,
			NFocussedSamples: 0,
			NCoordDescents:   1,
		},
	}
}

// PhaseBudget splits a total time budget between the Explore and Compress
// phases, mirroring the CLI's `-t` (single budget, 80/20 split) vs
// `-e/-c` (explicit split) surface from spec §6.
type PhaseBudget struct {
	Explore  time.Duration
	Compress time.Duration
}

func SplitBudget(total time.Duration) PhaseBudget {
	return PhaseBudget{Explore: total * 8 / 10, Compress: total - total*8/10}
}
