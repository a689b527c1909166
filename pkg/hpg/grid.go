package hpg

import (
	"math"

	"github.com/jagua-go/packing/pkg/cde"
	"github.com/jagua-go/packing/pkg/geo"
)

// Grid is the full hazard proximity grid covering a bin's bounding box, plus
// a margin, at a fixed cell size.
type Grid struct {
	bbox     geo.AARectangle
	cellSize float64
	cols     int
	rows     int
	cells    []*Cell

	// allHazards tracks every active hazard registered so far, needed to
	// rebuild a cell's proximity after one of its cached entries is
	// deregistered (see DeregisterHazards).
	allHazards map[cde.HazardEntity]cde.Hazard
}

// NewGrid builds a grid covering bbox with roughly cellSize x cellSize cells
// (at least one row/column).
func NewGrid(bbox geo.AARectangle, cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols := int(math.Ceil(bbox.Width() / cellSize))
	rows := int(math.Ceil(bbox.Height() / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	g := &Grid{
		bbox:       bbox,
		cellSize:   cellSize,
		cols:       cols,
		rows:       rows,
		cells:      make([]*Cell, cols*rows),
		allHazards: make(map[cde.HazardEntity]cde.Hazard),
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cellBbox := geo.AARectangle{
				XMin: bbox.XMin + float64(col)*cellSize,
				YMin: bbox.YMin + float64(row)*cellSize,
				XMax: bbox.XMin + float64(col+1)*cellSize,
				YMax: bbox.YMin + float64(row+1)*cellSize,
			}
			g.cells[row*cols+col] = NewCell(cellBbox)
		}
	}
	return g
}

// CellAt returns the cell containing point, or nil if point falls outside
// the grid's covered bounding box.
func (g *Grid) CellAt(point geo.Point) *Cell {
	if !g.bbox.CollidesWithPoint(point) {
		return nil
	}
	col := int((point.X - g.bbox.XMin) / g.cellSize)
	row := int((point.Y - g.bbox.YMin) / g.cellSize)
	if col >= g.cols {
		col = g.cols - 1
	}
	if row >= g.rows {
		row = g.rows - 1
	}
	if col < 0 || row < 0 {
		return nil
	}
	return g.cells[row*g.cols+col]
}

// RegisterHazard folds a single hazard into every cell of the grid.
//
// The source grid sorts candidate cells by lower-bound distance to the
// hazard and stops early once further cells can no longer be improved. That
// optimization is dropped here: early-exit is only safe when a farther cell
// is guaranteed to already hold a closer hazard of the same class, which
// cannot be assumed for freshly built (empty) cells. Scanning every cell
// keeps the proximity cache exact at the cost of the micro-optimization —
// see DESIGN.md.
func (g *Grid) RegisterHazard(hazard cde.Hazard) {
	g.allHazards[hazard.Entity] = hazard
	for _, c := range g.cells {
		c.RegisterHazard(hazard)
	}
}

// RegisterHazards registers several hazards in one call.
func (g *Grid) RegisterHazards(hazards []cde.Hazard) {
	for _, h := range hazards {
		g.RegisterHazard(h)
	}
}

// DeregisterHazard removes a hazard entity from the grid. Cells whose cached
// nearest hazard was this entity are rescanned against the remaining active
// hazards to restore an exact cache.
func (g *Grid) DeregisterHazard(entity cde.HazardEntity) {
	delete(g.allHazards, entity)
	remaining := make([]cde.Hazard, 0, len(g.allHazards))
	for _, h := range g.allHazards {
		remaining = append(remaining, h)
	}
	for _, c := range g.cells {
		if c.DeregisterHazard(entity) {
			c.Reset()
			for _, h := range remaining {
				c.RegisterHazard(h)
			}
		}
	}
}

// DeregisterHazards removes several hazard entities in one call.
func (g *Grid) DeregisterHazards(entities []cde.HazardEntity) {
	for _, e := range entities {
		g.DeregisterHazard(e)
	}
}

// FlushChanges exists for architectural parity with the engine that composes
// this grid with the quadtree: registration here is synchronous, so there is
// nothing to flush. Kept as an explicit call site for callers that treat
// flushing as part of the collision-engine contract.
func (g *Grid) FlushChanges() {}

func (g *Grid) Bbox() geo.AARectangle { return g.bbox }
func (g *Grid) Cols() int             { return g.cols }
func (g *Grid) Rows() int             { return g.rows }
