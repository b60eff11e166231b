package gls

import (
	"math/rand/v2"

	"github.com/rbscholtus/glspack/internal/geom"
	"github.com/rbscholtus/glspack/internal/model"
)

func testSquareItem(id int, side float64) Item {
	pts := []geom.Point{{X: 0, Y: 0}, {X: side, Y: 0}, {X: side, Y: side}, {X: 0, Y: side}}
	shape := geom.NewPolygon(pts)
	return model.NewItem(ItemID(id), shape, geom.AllowedRotation{Kind: geom.RotationNone}, geom.DefaultSurrogateConfig())
}

func testRng(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
