// Package ioformat is the CLI driver's persistence boundary: reading a
// problem instance from JSON and writing a solution back out, plus a
// diagnostic SVG side-channel. Errors here are fatal and reported to
// stderr; none of this is part of the core separation engine.
package ioformat

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rbscholtus/glspack/internal/builder"
	"github.com/rbscholtus/glspack/internal/geom"
	"github.com/rbscholtus/glspack/internal/model"
)

// InstanceFile is the on-disk JSON shape of a problem instance: a strip
// height and a set of polygon items with required quantities and allowed
// rotations.
type InstanceFile struct {
	Name         string         `json:"name"`
	StripHeight  float64        `json:"strip_height"`
	InitialWidth float64        `json:"initial_width,omitempty"`
	Items        []InstanceItem `json:"items"`
}

// InstanceItem is one polygon item template plus its demanded quantity.
type InstanceItem struct {
	ID       int          `json:"id"`
	Quantity int          `json:"quantity"`
	Points   [][2]float64 `json:"points"`
	// Rotation describes the allowed-rotation set: "none", "continuous", or
	// a literal list of allowed angles in radians ("discrete").
	Rotation RotationSpec `json:"rotation"`
}

// RotationSpec is the JSON encoding of geom.AllowedRotation.
type RotationSpec struct {
	Kind     string    `json:"kind"`
	Discrete []float64 `json:"discrete,omitempty"`
}

func (r RotationSpec) toAllowedRotation() (geom.AllowedRotation, error) {
	switch r.Kind {
	case "", "none":
		return geom.AllowedRotation{Kind: geom.RotationNone}, nil
	case "continuous":
		return geom.AllowedRotation{Kind: geom.RotationContinuous}, nil
	case "discrete":
		if len(r.Discrete) == 0 {
			return geom.AllowedRotation{}, fmt.Errorf("rotation kind %q requires a non-empty discrete list", r.Kind)
		}
		return geom.AllowedRotation{Kind: geom.RotationDiscrete, Discrete: r.Discrete}, nil
	default:
		return geom.AllowedRotation{}, fmt.Errorf("unknown rotation kind %q", r.Kind)
	}
}

// LoadInstance reads and validates a problem instance from path.
func LoadInstance(path string) (*InstanceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading instance %s: %w", path, err)
	}
	var inst InstanceFile
	if err := json.Unmarshal(data, &inst); err != nil {
		return nil, fmt.Errorf("parsing instance %s: %w", path, err)
	}
	if err := inst.validate(); err != nil {
		return nil, fmt.Errorf("instance %s: %w", path, err)
	}
	return &inst, nil
}

func (inst *InstanceFile) validate() error {
	if inst.StripHeight <= 0 {
		return fmt.Errorf("strip_height must be positive, got %v", inst.StripHeight)
	}
	if len(inst.Items) == 0 {
		return fmt.Errorf("instance has no items")
	}
	seen := make(map[int]bool, len(inst.Items))
	for _, it := range inst.Items {
		if seen[it.ID] {
			return fmt.Errorf("duplicate item id %d", it.ID)
		}
		seen[it.ID] = true
		if it.Quantity <= 0 {
			return fmt.Errorf("item %d: quantity must be positive, got %d", it.ID, it.Quantity)
		}
		if len(it.Points) < 3 {
			return fmt.Errorf("item %d: polygon needs at least 3 points, got %d", it.ID, len(it.Points))
		}
	}
	return nil
}

// ToDemands converts the parsed instance into the builder's input shape,
// building each item's precomputed geometry.
func (inst *InstanceFile) ToDemands(surCfg geom.SurrogateConfig) ([]builder.ItemDemand, error) {
	out := make([]builder.ItemDemand, 0, len(inst.Items))
	for _, it := range inst.Items {
		rot, err := it.Rotation.toAllowedRotation()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", it.ID, err)
		}
		pts := make([]geom.Point, len(it.Points))
		for i, p := range it.Points {
			pts[i] = geom.Point{X: p[0], Y: p[1]}
		}
		shape := geom.NewPolygon(pts)
		item := model.NewItem(model.ItemID(it.ID), shape, rot, surCfg)
		out = append(out, builder.ItemDemand{Item: item, Quantity: it.Quantity})
	}
	return out, nil
}

// InitialStripWidth returns the instance's configured initial width, or a
// generous heuristic default (the summed bbox widths of every demanded copy)
// when unset.
func (inst *InstanceFile) InitialStripWidth(demands []builder.ItemDemand) float64 {
	if inst.InitialWidth > 0 {
		return inst.InitialWidth
	}
	total := 0.0
	for _, d := range demands {
		total += d.Item.Shape.BBox().Width() * float64(d.Quantity)
	}
	if total <= 0 {
		return inst.StripHeight * 10
	}
	return total
}
