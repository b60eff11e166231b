package model

import "github.com/rbscholtus/glspack/internal/geom"

// ItemID identifies an item type/template in the instance (distinct from
// ItemKey, which identifies one placed instance of it).
type ItemID int

// Item is the immutable template for a piece to be packed: its untransformed
// shape, the rotations it may take, and precomputed geometric properties
// that don't change with placement.
type Item struct {
	ID              ItemID
	Shape           geom.Polygon
	AllowedRotation geom.AllowedRotation
	Surrogate       geom.Surrogate
	ConvexHullArea  float64
	MinDim          float64 // min(bbox width, bbox height) of the untransformed shape
}

func NewItem(id ItemID, shape geom.Polygon, rot geom.AllowedRotation, surCfg geom.SurrogateConfig) Item {
	bbox := shape.BBox()
	minDim := bbox.Width()
	if bbox.Height() < minDim {
		minDim = bbox.Height()
	}
	return Item{
		ID:              id,
		Shape:           shape,
		AllowedRotation: rot,
		Surrogate:       geom.BuildSurrogate(shape, surCfg),
		ConvexHullArea:  shape.ConvexHullArea(),
		MinDim:          minDim,
	}
}

// PlacedItem is one instance of an Item placed at a given transformation.
type PlacedItem struct {
	ItemID  ItemID
	DTransf geom.DTransformation
}

// TransformedShape returns the item's polygon at its current placement.
func (pi PlacedItem) TransformedShape(item Item) geom.Polygon {
	return item.Shape.Transform(pi.DTransf)
}

// TransformedSurrogate returns the item's surrogate at its current placement.
func (pi PlacedItem) TransformedSurrogate(item Item) geom.Surrogate {
	return item.Surrogate.Transform(pi.DTransf)
}

func (pi PlacedItem) BBox(item Item) geom.AARectangle {
	return pi.TransformedShape(item).BBox()
}
