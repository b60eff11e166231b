// Package gls is the CORE: the Guided Local Search separation engine that
// drives colliding items apart (Pair Matrix, Collision Tracker, Overlap
// Proxy, specialized Hazard Detector, Sample Evaluator, Best-Samples Buffer,
// Search/Coordinate-Descent, Separator Worker, Separator and Orchestrator).
package gls

// OTEntry is one guided-local-search weighted-overlap cell: the raw overlap
// magnitude and the multiplicative weight GLS has accumulated for it.
type OTEntry struct {
	Weight  float64
	Overlap float64
}

func newOTEntry() OTEntry { return OTEntry{Weight: 1.0} }

func (e OTEntry) WeightedOverlap() float64 { return e.Weight * e.Overlap }

// PairMatrix stores one OTEntry per unordered pair of item slots {i, j},
// i != j, packed into a flat triangular array so it costs O(n(n+1)/2)
// instead of O(n^2). Indices are the slot indices of a keyTable, not stable
// ItemKeys — the Collision Tracker maps ItemKey <-> slot index.
type PairMatrix struct {
	size int
	data []OTEntry
}

func NewPairMatrix(size int) *PairMatrix {
	n := size * (size + 1) / 2
	data := make([]OTEntry, n)
	for i := range data {
		data[i] = newOTEntry()
	}
	return &PairMatrix{size: size, data: data}
}

func (m *PairMatrix) calcIdx(i, j int) int {
	n := m.size
	if i <= j {
		return i*n - (i-1)*i/2 + j - i
	}
	return j*n - (j-1)*j/2 + i - j
}

func (m *PairMatrix) Get(i, j int) OTEntry {
	if i == j {
		return OTEntry{}
	}
	return m.data[m.calcIdx(i, j)]
}

func (m *PairMatrix) Set(i, j int, e OTEntry) {
	if i == j {
		return
	}
	m.data[m.calcIdx(i, j)] = e
}

// ClearOverlapsFor zeroes the overlap (but keeps the weight) for every pair
// involving row i, ahead of a recompute of that item's collisions.
func (m *PairMatrix) ClearOverlapsFor(i int) {
	for j := 0; j < m.size; j++ {
		if j == i {
			continue
		}
		e := m.Get(i, j)
		e.Overlap = 0
		m.Set(i, j, e)
	}
}

// Row iterates every other index paired with i, calling fn(j, entry).
func (m *PairMatrix) Row(i int, fn func(j int, e OTEntry)) {
	for j := 0; j < m.size; j++ {
		if j == i {
			continue
		}
		fn(j, m.Get(i, j))
	}
}

func (m *PairMatrix) Resize(newSize int) *PairMatrix {
	nm := NewPairMatrix(newSize)
	lim := m.size
	if newSize < lim {
		lim = newSize
	}
	for i := 0; i < lim; i++ {
		for j := i + 1; j < lim; j++ {
			nm.Set(i, j, m.Get(i, j))
		}
	}
	return nm
}

func (m *PairMatrix) Clone() *PairMatrix {
	return &PairMatrix{size: m.size, data: append([]OTEntry(nil), m.data...)}
}
