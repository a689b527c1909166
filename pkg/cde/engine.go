package cde

import (
	"github.com/jagua-go/packing/pkg/geo"
	"github.com/jagua-go/packing/pkg/hpg"
	"github.com/jagua-go/packing/pkg/quadtree"
)

// EngineConfig controls the resolution of the two indices composed by Engine.
type EngineConfig struct {
	QuadtreeMaxDepth int
	HPGCellSize      float64
}

// DefaultEngineConfig returns conservative defaults suited to bins with
// dimensions in the low hundreds of units.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{QuadtreeMaxDepth: 5, HPGCellSize: 10}
}

// Engine is the collision detection engine: it composes a quadtree (the
// exact arbiter) with a hazard proximity grid (the fast conservative
// pre-check) over a single bin's bounding box.
type Engine struct {
	qt      *quadtree.Tree
	grid    *hpg.Grid
	hazards map[HazardEntity]Hazard
}

// NewEngine builds an engine covering bbox (typically the bin's bounding
// box, inflated by the config's margins upstream if desired).
func NewEngine(bbox geo.AARectangle, cfg EngineConfig) *Engine {
	return &Engine{
		qt:      quadtree.NewTree(bbox, cfg.QuadtreeMaxDepth),
		grid:    hpg.NewGrid(bbox, cfg.HPGCellSize),
		hazards: make(map[HazardEntity]Hazard),
	}
}

// Register indexes a hazard into both the quadtree and the hazard proximity grid.
func (e *Engine) Register(hazard Hazard) {
	e.hazards[hazard.Entity] = hazard
	e.qt.Register(hazard)
	e.grid.RegisterHazard(hazard)
}

// Deregister removes a hazard entity from both indices.
func (e *Engine) Deregister(entity HazardEntity) {
	delete(e.hazards, entity)
	e.qt.Deregister(entity)
	e.grid.DeregisterHazard(entity)
}

// ActiveHazards returns every currently registered hazard, in no particular
// order.
func (e *Engine) ActiveHazards() []Hazard {
	out := make([]Hazard, 0, len(e.hazards))
	for _, h := range e.hazards {
		out = append(out, h)
	}
	return out
}

// CouldAccommodateItem runs the fast conservative pre-check: given the
// candidate PoI center (already transformed into bin space), the item's PoI
// radius, and its base quality, reports whether a collision-free placement
// here remains possible. A false result is a sound rejection — no placement
// centered in this cell can be collision-free, so the caller must reject
// without running SurrogateCheck/ExactCheck. A true result is inconclusive:
// it never hides a real rejection, but the caller must still run the
// surrogate and exact checks before accepting.
func (e *Engine) CouldAccommodateItem(poiCenter geo.Point, poiRadius float64, baseQuality int) bool {
	cell := e.grid.CellAt(poiCenter)
	if cell == nil {
		return false
	}
	return cell.CouldAccommodateItem(poiRadius, baseQuality)
}

// SurrogateCollides runs the cheap surrogate pre-check: a candidate's poles
// (already transformed into bin space) against every active, non-ignored
// hazard's shape. A true result is decisive (definite collision); false only
// means the cheap check found nothing, not that the placement is safe.
func (e *Engine) SurrogateCollides(poles []geo.Circle, ignored []HazardEntity) bool {
	ignoredSet := toIgnoredSet(ignored)
	for _, hazard := range e.hazards {
		if _, skip := ignoredSet[hazard.Entity]; skip {
			continue
		}
		for _, pole := range poles {
			pos, d := hazard.Shape.DistanceFromBorder(pole.Center)
			if pos == hazard.Entity.Position() {
				// pole's center already lies in the forbidden region.
				return true
			}
			if d < pole.Radius {
				// pole's disk extends past the border into forbidden territory.
				return true
			}
		}
	}
	return false
}

// PolyCollides runs the exact collision check: polygon (already transformed
// into bin space) against every active, non-ignored hazard in the quadtree.
func (e *Engine) PolyCollides(polygon *geo.SimplePolygon, ignored []HazardEntity) bool {
	return e.qt.Collides(polygon, ignored)
}

// HPGCellFor returns the hazard proximity grid cell covering point, for
// callers (e.g. an optimizer) that want to filter candidate placements
// cheaply without going through CouldAccommodateItem.
func (e *Engine) HPGCellFor(point geo.Point) *hpg.Cell {
	return e.grid.CellAt(point)
}

// FlushChanges exists for API parity with the engine's components; both
// indices here apply registrations synchronously, so there is nothing
// deferred to flush.
func (e *Engine) FlushChanges() {
	e.grid.FlushChanges()
}

func toIgnoredSet(ignored []HazardEntity) map[HazardEntity]struct{} {
	if len(ignored) == 0 {
		return nil
	}
	set := make(map[HazardEntity]struct{}, len(ignored))
	for _, e := range ignored {
		set[e] = struct{}{}
	}
	return set
}
