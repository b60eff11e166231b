package gls

import "testing"

func TestPairMatrixSetGetIsSymmetric(t *testing.T) {
	m := NewPairMatrix(4)
	m.Set(1, 2, OTEntry{Weight: 2, Overlap: 5})

	if got := m.Get(1, 2); got.Overlap != 5 || got.Weight != 2 {
		t.Errorf("Get(1,2) = %+v, want {Weight:2 Overlap:5}", got)
	}
	if got := m.Get(2, 1); got.Overlap != 5 || got.Weight != 2 {
		t.Errorf("Get(2,1) = %+v, want the same entry as Get(1,2)", got)
	}

	// Writing via the other order hits the same slot.
	m.Set(2, 1, OTEntry{Weight: 3, Overlap: 7})
	if got := m.Get(1, 2); got.Overlap != 7 || got.Weight != 3 {
		t.Errorf("Get(1,2) after Set(2,1,...) = %+v, want {Weight:3 Overlap:7}", got)
	}
}

func TestPairMatrixDiagonalIsZero(t *testing.T) {
	m := NewPairMatrix(3)
	m.Set(1, 1, OTEntry{Weight: 9, Overlap: 9})
	if got := m.Get(1, 1); got != (OTEntry{}) {
		t.Errorf("Get(i,i) = %+v, want the zero entry (diagonal writes are no-ops)", got)
	}
}

func TestPairMatrixNewEntriesHaveUnitWeight(t *testing.T) {
	m := NewPairMatrix(3)
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if got := m.Get(i, j); got.Weight != 1.0 {
				t.Errorf("Get(%d,%d).Weight = %v, want 1.0", i, j, got.Weight)
			}
		}
	}
}

func TestPairMatrixClearOverlapsFor(t *testing.T) {
	m := NewPairMatrix(3)
	m.Set(0, 1, OTEntry{Weight: 2, Overlap: 5})
	m.Set(0, 2, OTEntry{Weight: 3, Overlap: 6})
	m.Set(1, 2, OTEntry{Weight: 4, Overlap: 7})

	m.ClearOverlapsFor(0)

	if got := m.Get(0, 1); got.Overlap != 0 || got.Weight != 2 {
		t.Errorf("Get(0,1) after ClearOverlapsFor(0) = %+v, want overlap 0, weight kept at 2", got)
	}
	if got := m.Get(0, 2); got.Overlap != 0 || got.Weight != 3 {
		t.Errorf("Get(0,2) after ClearOverlapsFor(0) = %+v, want overlap 0, weight kept at 3", got)
	}
	// Untouched row must be unaffected.
	if got := m.Get(1, 2); got.Overlap != 7 || got.Weight != 4 {
		t.Errorf("Get(1,2) after ClearOverlapsFor(0) = %+v, want unaffected {Weight:4 Overlap:7}", got)
	}
}

func TestPairMatrixRowVisitsEveryOther(t *testing.T) {
	m := NewPairMatrix(4)
	m.Set(0, 1, OTEntry{Overlap: 1})
	m.Set(0, 2, OTEntry{Overlap: 2})
	m.Set(0, 3, OTEntry{Overlap: 3})

	visited := map[int]float64{}
	m.Row(0, func(j int, e OTEntry) { visited[j] = e.Overlap })

	if len(visited) != 3 {
		t.Fatalf("Row(0) visited %d entries, want 3", len(visited))
	}
	if visited[1] != 1 || visited[2] != 2 || visited[3] != 3 {
		t.Errorf("Row(0) visited = %v, want {1:1 2:2 3:3}", visited)
	}
}

func TestPairMatrixResizePreservesOverlaps(t *testing.T) {
	m := NewPairMatrix(4)
	m.Set(0, 1, OTEntry{Weight: 2, Overlap: 9})

	shrunk := m.Resize(2)
	if got := shrunk.Get(0, 1); got.Overlap != 9 || got.Weight != 2 {
		t.Errorf("Resize(2).Get(0,1) = %+v, want preserved {Weight:2 Overlap:9}", got)
	}

	grown := m.Resize(5)
	if got := grown.Get(0, 1); got.Overlap != 9 {
		t.Errorf("Resize(5).Get(0,1) = %+v, want preserved overlap 9", got)
	}
	if got := grown.Get(3, 4); got.Weight != 1.0 {
		t.Errorf("Resize(5).Get(3,4).Weight = %v, want 1.0 (newly grown slot)", got.Weight)
	}
}

func TestPairMatrixCloneIsIndependent(t *testing.T) {
	m := NewPairMatrix(3)
	m.Set(0, 1, OTEntry{Weight: 1, Overlap: 1})
	clone := m.Clone()
	clone.Set(0, 1, OTEntry{Weight: 5, Overlap: 5})

	if got := m.Get(0, 1); got.Overlap != 1 {
		t.Errorf("mutating clone affected original: Get(0,1) = %+v, want Overlap 1", got)
	}
}
