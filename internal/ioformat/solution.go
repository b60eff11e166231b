package ioformat

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/rbscholtus/glspack/internal/model"
)

// SolutionFile is the on-disk JSON shape of an exported solution: which
// instance it solves, every placement, and aggregate run statistics. RunID
// and SolutionID are content-free identifiers; the JSONL log events do not
// carry either of them.
type SolutionFile struct {
	RunID       string            `json:"run_id"`
	SolutionID  string            `json:"solution_id"`
	Instance    string            `json:"instance"`
	StripWidth  float64           `json:"strip_width"`
	StripHeight float64           `json:"strip_height"`
	Density     float64           `json:"density"`
	ElapsedMs   int64             `json:"elapsed_ms"`
	Placements  []PlacementRecord `json:"placements"`
}

// PlacementRecord is one placed item in the exported solution.
type PlacementRecord struct {
	ItemID          int     `json:"item_id"`
	RotationRadians float64 `json:"rotation_radians"`
	TranslationX    float64 `json:"translation_x"`
	TranslationY    float64 `json:"translation_y"`
}

// NewRunID mints a fresh identifier for one CLI invocation, stored in the
// solution file it writes (log lines do not include it).
func NewRunID() string { return uuid.NewString() }

// BuildSolutionFile snapshots problem into the exportable solution shape.
func BuildSolutionFile(runID, instanceName string, problem *model.Problem, elapsed time.Duration) SolutionFile {
	keys := problem.AllKeys()
	placements := make([]PlacementRecord, 0, len(keys))
	for _, k := range keys {
		pi, ok := problem.Placement(k)
		if !ok {
			continue
		}
		placements = append(placements, PlacementRecord{
			ItemID:          int(pi.ItemID),
			RotationRadians: pi.DTransf.Rotation,
			TranslationX:    pi.DTransf.Translation.X,
			TranslationY:    pi.DTransf.Translation.Y,
		})
	}
	return SolutionFile{
		RunID:       runID,
		SolutionID:  uuid.NewString(),
		Instance:    instanceName,
		StripWidth:  problem.StripWidth(),
		StripHeight: problem.StripHeight,
		Density:     problem.Density(),
		ElapsedMs:   elapsed.Milliseconds(),
		Placements:  placements,
	}
}

// WriteSolution writes sol as indented JSON to path.
func WriteSolution(path string, sol SolutionFile) error {
	data, err := json.MarshalIndent(sol, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding solution: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing solution %s: %w", path, err)
	}
	return nil
}
