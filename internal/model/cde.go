package model

import "github.com/rbscholtus/glspack/internal/geom"

type cellIdx struct{ X, Y int }

// Grid is a uniform-cell broad-phase spatial index over placed items'
// bounding boxes. It stands in for the quadtree the production Geometry
// Engine would use (SPEC_FULL.md); the lookup it exposes (Candidates) is
// what both Problem.CollectCollisions and the specialized hazard detector
// build on.
type Grid struct {
	cellSize float64
	cells    map[cellIdx][]ItemKey
	boxes    map[ItemKey]geom.AARectangle
}

func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Grid{cellSize: cellSize, cells: make(map[cellIdx][]ItemKey), boxes: make(map[ItemKey]geom.AARectangle)}
}

func (g *Grid) cellsFor(b geom.AARectangle) []cellIdx {
	x0, y0 := int(floorDiv(b.XMin, g.cellSize)), int(floorDiv(b.YMin, g.cellSize))
	x1, y1 := int(floorDiv(b.XMax, g.cellSize)), int(floorDiv(b.YMax, g.cellSize))
	out := make([]cellIdx, 0, (x1-x0+1)*(y1-y0+1))
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			out = append(out, cellIdx{x, y})
		}
	}
	return out
}

func floorDiv(v, d float64) float64 {
	q := v / d
	if q < 0 {
		return q - 1
	}
	return q
}

func (g *Grid) Insert(k ItemKey, box geom.AARectangle) {
	g.boxes[k] = box
	for _, c := range g.cellsFor(box) {
		g.cells[c] = append(g.cells[c], k)
	}
}

func (g *Grid) Remove(k ItemKey) {
	box, ok := g.boxes[k]
	if !ok {
		return
	}
	for _, c := range g.cellsFor(box) {
		bucket := g.cells[c]
		for i, kk := range bucket {
			if kk == k {
				g.cells[c] = append(bucket[:i], bucket[i+1:]...)
				break
			}
		}
	}
	delete(g.boxes, k)
}

func (g *Grid) Update(k ItemKey, box geom.AARectangle) {
	g.Remove(k)
	g.Insert(k, box)
}

// Candidates returns the (deduplicated) set of keys whose bbox overlaps box,
// in deterministic ascending-index order.
func (g *Grid) Candidates(box geom.AARectangle) []ItemKey {
	seen := make(map[ItemKey]bool)
	var out []ItemKey
	for _, c := range g.cellsFor(box) {
		for _, k := range g.cells[c] {
			if !seen[k] && g.boxes[k].Intersects(box) {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	sortKeys(out)
	return out
}

func sortKeys(ks []ItemKey) {
	for i := 1; i < len(ks); i++ {
		for j := i; j > 0 && (ks[j].Index < ks[j-1].Index); j-- {
			ks[j], ks[j-1] = ks[j-1], ks[j]
		}
	}
}
