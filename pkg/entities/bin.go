package entities

import "github.com/jagua-go/packing/pkg/geo"

// Zone is an inferior-quality zone inside a bin: items whose base quality
// is strictly greater than Quality may not overlap it.
type Zone struct {
	ID      int
	Quality int
	Shape   *geo.SimplePolygon
}

// Hole is a forbidden interior region of a bin (e.g. a cutout).
type Hole struct {
	ID    int
	Shape *geo.SimplePolygon
}

// Bin is a catalog entry describing one container variant: its outer
// boundary, holes, quality zones, and available stock.
type Bin struct {
	ID    int
	Shape *geo.SimplePolygon
	Holes []Hole
	Zones []Zone

	// Stock is the number of bins of this template available; < 0 means
	// unbounded.
	Stock int
	Value float64

	Pretransform geo.Transformation
}

// UnboundedStock marks a bin template with no stock limit.
const UnboundedStock = -1

// NewBin builds a bin around shape, centering it and recording the
// recovering pretransform.
func NewBin(id int, shape *geo.SimplePolygon, holes []Hole, zones []Zone, stock int, value float64, centerPolygons bool) *Bin {
	b := &Bin{ID: id, Holes: holes, Zones: zones, Stock: stock, Value: value}
	if centerPolygons {
		centered, pretransform := shape.CenterAroundCentroid()
		b.Shape = centered
		b.Pretransform = pretransform
	} else {
		b.Shape = shape
		b.Pretransform = geo.Identity()
	}
	return b
}

// HasStock reports whether at least one more item can be placed in a bin of
// this template.
func (b *Bin) HasStock() bool {
	return b.Stock == UnboundedStock || b.Stock > 0
}
