package builder

import (
	"math/rand/v2"
	"testing"

	"github.com/rbscholtus/glspack/internal/geom"
	"github.com/rbscholtus/glspack/internal/gls"
	"github.com/rbscholtus/glspack/internal/model"
)

func squareItem(id int, side float64) model.Item {
	pts := []geom.Point{{X: 0, Y: 0}, {X: side, Y: 0}, {X: side, Y: side}, {X: 0, Y: side}}
	shape := geom.NewPolygon(pts)
	return model.NewItem(model.ItemID(id), shape, geom.AllowedRotation{Kind: geom.RotationNone}, geom.DefaultSurrogateConfig())
}

func testSearchConfig() gls.SearchConfig {
	return gls.SearchConfig{NBinSamples: 64, NFocussedSamples: 16, NCoordDescents: 3}
}

func TestBuildPlacesAllItemsWithoutCollision(t *testing.T) {
	demands := []ItemDemand{
		{Item: squareItem(1, 4), Quantity: 3},
		{Item: squareItem(2, 2), Quantity: 2},
	}
	rng := rand.New(rand.NewPCG(1, 2))
	p := Build(demands, 40, 40, testSearchConfig(), rng)

	keys := p.AllKeys()
	if len(keys) != 5 {
		t.Fatalf("Build() placed %d items, want 5", len(keys))
	}

	for _, k := range keys {
		pi, ok := p.Placement(k)
		if !ok {
			t.Fatalf("key %v missing after Build()", k)
		}
		item := p.Item(pi.ItemID)
		shape := pi.TransformedShape(item)
		collector := model.NewSimpleHazardCollector()
		p.CollectCollisions(shape, k, collector)
		if len(collector.Hazards()) > 0 {
			t.Errorf("item %v has %d hazards after Build(), want 0", k, len(collector.Hazards()))
		}
	}
}

func TestBuildPlacesLargestItemFirst(t *testing.T) {
	demands := []ItemDemand{
		{Item: squareItem(1, 2), Quantity: 1},
		{Item: squareItem(2, 6), Quantity: 1},
	}
	instances := expandAndSortByArea(demands)
	if len(instances) != 2 {
		t.Fatalf("expandAndSortByArea produced %d instances, want 2", len(instances))
	}
	if instances[0].ConvexHullArea < instances[1].ConvexHullArea {
		t.Errorf("expandAndSortByArea did not sort descending by area: %v before %v",
			instances[0].ConvexHullArea, instances[1].ConvexHullArea)
	}
}

func TestBuildSingleItemSitsAtOrigin(t *testing.T) {
	demands := []ItemDemand{{Item: squareItem(1, 4), Quantity: 1}}
	rng := rand.New(rand.NewPCG(3, 4))
	p := Build(demands, 40, 40, testSearchConfig(), rng)

	keys := p.AllKeys()
	if len(keys) != 1 {
		t.Fatalf("Build() placed %d items, want 1", len(keys))
	}
	pi, _ := p.Placement(keys[0])
	// LBF favors the leftmost, then lowest feasible position, so a single
	// item in an empty bin should land at (or very near) the bin's corner.
	if pi.DTransf.Translation.X > 1 || pi.DTransf.Translation.Y > 1 {
		t.Errorf("single item placed at %+v, want near the bottom-left corner", pi.DTransf.Translation)
	}
}
