package model

import "github.com/rbscholtus/glspack/internal/geom"

// Problem is the strip-packing problem state: a fixed-height, variable-width
// strip, a registry of item templates, and the current set of placements.
// It owns the broad-phase index (Grid) used to answer collision queries.
type Problem struct {
	Items       map[ItemID]Item
	StripHeight float64
	stripWidth  float64

	placements *keyTable[PlacedItem]
	grid       *Grid
}

func NewProblem(items []Item, stripHeight, initialWidth, gridCellSize float64) *Problem {
	reg := make(map[ItemID]Item, len(items))
	for _, it := range items {
		reg[it.ID] = it
	}
	return &Problem{
		Items:       reg,
		StripHeight: stripHeight,
		stripWidth:  initialWidth,
		placements:  newKeyTable[PlacedItem](),
		grid:        NewGrid(gridCellSize),
	}
}

func (p *Problem) StripWidth() float64 { return p.stripWidth }

func (p *Problem) BinBBox() geom.AARectangle {
	return geom.AARectangle{XMin: 0, YMin: 0, XMax: p.stripWidth, YMax: p.StripHeight}
}

func (p *Problem) Item(id ItemID) Item { return p.Items[id] }

func (p *Problem) Placement(k ItemKey) (PlacedItem, bool) { return p.placements.get(k) }

// AllKeys returns every currently-placed item's key, in stable slot order.
func (p *Problem) AllKeys() []ItemKey { return p.placements.keys() }

func (p *Problem) NumPlaced() int { return p.placements.len() }

// Candidates returns the broad-phase index's keys whose bbox overlaps bbox,
// the same lookup CollectCollisions itself uses. Exposed so callers that
// need a custom traversal order over the broad-phase result (the
// specialized hazard detector's fail-fast-then-bit-reversed scan) don't have
// to fall back to a full scan of every placed item.
func (p *Problem) Candidates(bbox geom.AARectangle) []ItemKey { return p.grid.Candidates(bbox) }

// PlaceItem inserts a new placement and returns its stable key.
func (p *Problem) PlaceItem(id ItemID, dt geom.DTransformation) ItemKey {
	pi := PlacedItem{ItemID: id, DTransf: dt}
	k := p.placements.insert(pi)
	box := pi.TransformedShape(p.Items[id]).BBox()
	p.grid.Insert(k, box)
	return k
}

// RemoveItem deletes a placement, invalidating its key.
func (p *Problem) RemoveItem(k ItemKey) {
	p.grid.Remove(k)
	p.placements.remove(k)
}

// MoveItem updates a placement's transform in place, preserving its key.
func (p *Problem) MoveItem(k ItemKey, dt geom.DTransformation) {
	pi, ok := p.placements.get(k)
	if !ok {
		return
	}
	pi.DTransf = dt
	p.placements.set(k, pi)
	box := pi.TransformedShape(p.Items[pi.ItemID]).BBox()
	p.grid.Update(k, box)
}

// CollectCollisions pushes every hazard the shape of a candidate placement
// (not yet committed) collides with into detector, ignoring the item at
// ignoreSelf (its own prior placement, when re-evaluating a move). Detector
// may stop the scan early by returning false from Push.
func (p *Problem) CollectCollisions(shape geom.Polygon, ignoreSelf ItemKey, detector HazardDetector) {
	bbox := shape.BBox()
	bin := p.BinBBox()
	if !bin.Contains(bbox.Center()) || bbox.XMin < bin.XMin || bbox.YMin < bin.YMin ||
		bbox.XMax > bin.XMax || bbox.YMax > bin.YMax {
		if !detector.Push(BinHazard) {
			return
		}
	}
	for _, k := range p.grid.Candidates(bbox) {
		if k == ignoreSelf {
			continue
		}
		pi, ok := p.placements.get(k)
		if !ok {
			continue
		}
		other := pi.TransformedShape(p.Items[pi.ItemID])
		if shape.Intersects(other) {
			if !detector.Push(ItemHazard(k)) {
				return
			}
		}
	}
}

// ChangeStripWidth resizes the strip, shifting every item whose centroid lies
// at or beyond splitX rightward/leftward by the width delta (a split-and-
// shift strip resize).
func (p *Problem) ChangeStripWidth(newWidth, splitX float64) {
	delta := newWidth - p.stripWidth
	for _, k := range p.placements.keys() {
		pi, _ := p.placements.get(k)
		if pi.TransformedShape(p.Items[pi.ItemID]).Centroid().X >= splitX {
			pi.DTransf.Translation.X += delta
			p.placements.set(k, pi)
		}
	}
	p.stripWidth = newWidth
	p.rebuildGrid()
}

func (p *Problem) rebuildGrid() {
	cellSize := p.grid.cellSize
	g := NewGrid(cellSize)
	for _, k := range p.placements.keys() {
		pi, _ := p.placements.get(k)
		box := pi.TransformedShape(p.Items[pi.ItemID]).BBox()
		g.Insert(k, box)
	}
	p.grid = g
}

// Clone performs a deep copy suitable for a separator worker's private
// scratch problem, so the parallel worker round shares no mutable state.
func (p *Problem) Clone() *Problem {
	clone := &Problem{
		Items:       p.Items, // item templates are immutable, shared by reference
		StripHeight: p.StripHeight,
		stripWidth:  p.stripWidth,
		placements:  p.placements.clone(),
		grid:        NewGrid(p.grid.cellSize),
	}
	clone.rebuildGrid()
	return clone
}

// ChangeStripWidthNoShift resizes the strip without moving any placement,
// used by the Orchestrator's Explore-phase shrink: items that now straddle
// or cross the narrower right edge simply pick up a bin-exterior hazard on
// the next Collision Tracker rebuild, which the next Separator round
// resolves like any other collision.
func (p *Problem) ChangeStripWidthNoShift(newWidth float64) {
	p.stripWidth = newWidth
	p.rebuildGrid()
}

// OccupiedArea sums the (untransformed, hence rotation/translation
// invariant) shape area of every placed item.
func (p *Problem) OccupiedArea() float64 {
	sum := 0.0
	for _, k := range p.placements.keys() {
		pi, _ := p.placements.get(k)
		sum += p.Items[pi.ItemID].Shape.Area()
	}
	return sum
}

// Density reports the fraction of the strip's area currently covered by
// placed items.
func (p *Problem) Density() float64 {
	total := p.stripWidth * p.StripHeight
	if total <= 0 {
		return 0
	}
	return p.OccupiedArea() / total
}

// Restore replaces this problem's placements and width with other's,
// without touching the item registry.
func (p *Problem) Restore(other *Problem) {
	p.stripWidth = other.stripWidth
	p.placements = other.placements.clone()
	p.rebuildGrid()
}
