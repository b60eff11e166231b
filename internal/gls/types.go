package gls

import (
	"github.com/rbscholtus/glspack/internal/geom"
	"github.com/rbscholtus/glspack/internal/model"
)

// Local aliases keep the package's signatures readable without a model./geom.
// prefix on every line.
type (
	Problem         = model.Problem
	ItemKey         = model.ItemKey
	ItemID          = model.ItemID
	Item            = model.Item
	DTransformation = geom.DTransformation
)
