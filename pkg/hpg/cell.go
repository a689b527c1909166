// Package hpg implements the hazard proximity grid: a coarse grid of cells,
// each tracking how close the nearest relevant hazard is, used as a fast
// conservative pre-check before the exact quadtree collision test runs.
package hpg

import (
	"math"

	"github.com/jagua-go/packing/pkg/cde"
	"github.com/jagua-go/packing/pkg/geo"
)

// HPGCellUpdate reports how a registration affected a cell's cached state,
// and whether propagating the registration to this cell's neighbors could
// still matter.
type HPGCellUpdate int

const (
	// Affected: the cell's cached nearest-hazard distance changed.
	Affected HPGCellUpdate = iota
	// NeighborsNotAffected: this cell's own cache did not improve, and the
	// hazard is farther than this cell's cached distance plus twice the
	// cell's radius — far enough that no neighboring cell's cache could be
	// improved by it either, so propagation outward from here can stop.
	NeighborsNotAffected
	// NotAffected: the hazard is farther than the cell's current cached
	// nearest hazard of the same class, but not by the neighbor-safe
	// margin above; a neighboring cell could still be closer to it.
	NotAffected
)

// proximity caches the nearest hazard of one class (universal, static-only,
// or one quality level) seen by a cell: its signed distance (negative when
// the cell's centroid already lies in the hazard's forbidden region) and the
// entity that produced it.
type proximity struct {
	present  bool
	distance float64
	entity   cde.HazardEntity
}

// update applies a newly observed (entity, distance) pair, keeping whichever
// is closer. Returns Affected if the cached value changed, NeighborsNotAffected
// if it didn't and the hazard is farther than the cached distance plus twice
// cellRadius (too far to matter to any neighbor either), and NotAffected
// otherwise (a neighboring cell could still be improved by it).
func (p *proximity) update(entity cde.HazardEntity, distance, cellRadius float64) HPGCellUpdate {
	prevPresent, prevDistance := p.present, p.distance
	if !p.present || distance < p.distance {
		p.present, p.distance, p.entity = true, distance, entity
		return Affected
	}
	if p.entity == entity && distance != p.distance {
		p.distance = distance
		return Affected
	}
	if prevPresent && distance > prevDistance+2*cellRadius {
		return NeighborsNotAffected
	}
	return NotAffected
}

// remove clears the cached value if it was produced by entity, signaling the
// caller that a full cell recompute (rescan of remaining hazards) is needed.
func (p *proximity) remove(entity cde.HazardEntity) (needsRecompute bool) {
	if p.present && p.entity == entity {
		*p = proximity{}
		return true
	}
	return false
}

// Cell is one coarse grid cell of the hazard proximity grid.
type Cell struct {
	bbox   geo.AARectangle
	radius float64 // half the cell's diagonal: the cell-wide slack subtracted from every cached distance

	uniProx       proximity             // nearest universal hazard (bin exterior, holes, placed items)
	staticUniProx proximity             // nearest STATIC universal hazard only (bin exterior, holes) — survives item churn
	qzProx        [cde.NQualities]proximity
}

// NewCell builds an empty cell covering bbox.
func NewCell(bbox geo.AARectangle) *Cell {
	return &Cell{bbox: bbox, radius: bbox.Diameter() / 2}
}

// surrogateShape is implemented by shapes carrying a pole-based surrogate —
// used here as the cheap, conservative stand-in for an exact border-distance
// computation against a dynamic hazard (a placed item), the same surrogate
// SurrogateCollides uses for its own pre-check stage.
type surrogateShape interface {
	Surrogate() geo.Surrogate
}

// polesSignedDistance approximates a shape's DistanceFromBorder using its
// surrogate poles: each pole is a disk fully inscribed in the shape, so the
// distance from point to the nearest pole's border is always an overestimate
// of the true distance to the shape's actual border (the border can only
// bulge farther out than the poles it contains) — safe to use as a cached
// proximity bound, since an overestimate only ever makes the HPG's reject
// check too cautious, never unsound.
func polesSignedDistance(poles []geo.Circle, point geo.Point) (geo.GeoPosition, float64) {
	best := math.MaxFloat64
	for _, pole := range poles {
		pos, d := pole.DistanceFromBorder(point)
		if pos == geo.Interior {
			return geo.Interior, d
		}
		if d < best {
			best = d
		}
	}
	return geo.Exterior, best
}

func signedDistance(hazard cde.Hazard, point geo.Point) float64 {
	if hazard.Entity.Kind == cde.PlacedItemKind {
		if s, ok := hazard.Shape.(surrogateShape); ok {
			if poles := s.Surrogate().Poles; len(poles) > 0 {
				pos, d := polesSignedDistance(poles, point)
				if pos == hazard.Entity.Position() {
					return -d
				}
				return d
			}
		}
	}
	pos, d := hazard.Shape.DistanceFromBorder(point)
	if pos == hazard.Entity.Position() {
		return -d
	}
	return d
}

func isStaticUniversal(entity cde.HazardEntity) bool {
	return entity.Kind == cde.BinExteriorKind || entity.Kind == cde.BinHoleKind
}

// RegisterHazard folds one hazard into the cell's cached proximities and
// reports the strongest (most "active") of the per-class results: Affected
// beats NotAffected beats NeighborsNotAffected, so a caller walking outward
// from a registration only stops at NeighborsNotAffected once every class
// this hazard touches agrees propagation is safe to prune.
func (c *Cell) RegisterHazard(hazard cde.Hazard) HPGCellUpdate {
	dist := signedDistance(hazard, c.bbox.Centroid())

	result := NeighborsNotAffected
	combine := func(u HPGCellUpdate) {
		if u == Affected || (u == NotAffected && result == NeighborsNotAffected) {
			result = u
		}
	}

	if hazard.Entity.Universal() {
		combine(c.uniProx.update(hazard.Entity, dist, c.radius))
		if isStaticUniversal(hazard.Entity) {
			combine(c.staticUniProx.update(hazard.Entity, dist, c.radius))
		}
	} else {
		q := hazard.Entity.Quality
		if q >= 0 && q < cde.NQualities {
			combine(c.qzProx[q].update(hazard.Entity, dist, c.radius))
		} else {
			result = NotAffected
		}
	}
	return result
}

// DeregisterHazard drops entity from the cell's cache. If entity was the
// cached nearest for some class, that class is left empty — the grid is
// responsible for triggering a rescan of the remaining hazards for
// correctness (see Grid.DeregisterHazards).
func (c *Cell) DeregisterHazard(entity cde.HazardEntity) (needsRecompute bool) {
	a := c.uniProx.remove(entity)
	b := false
	if isStaticUniversal(entity) {
		b = c.staticUniProx.remove(entity)
	}
	d := false
	if !entity.Universal() && entity.Quality >= 0 && entity.Quality < cde.NQualities {
		d = c.qzProx[entity.Quality].remove(entity)
	}
	return a || b || d
}

// Reset clears all cached proximities (used before a full rescan).
func (c *Cell) Reset() {
	c.uniProx = proximity{}
	c.staticUniProx = proximity{}
	for i := range c.qzProx {
		c.qzProx[i] = proximity{}
	}
}

// HazardProximity is the minimum of uni_prox and every qz_prox[q] for
// q in [0, qualityLevel) — the distance to the nearest hazard an item with
// this base quality must keep clear of. qualityLevel < 0 includes every
// quality zone.
func (c *Cell) HazardProximity(qualityLevel int) float64 {
	best := math.MaxFloat64
	if c.uniProx.present {
		best = c.uniProx.distance
	}
	limit := qualityLevel
	if limit < 0 {
		limit = cde.NQualities
	}
	for q := 0; q < limit && q < cde.NQualities; q++ {
		if c.qzProx[q].present && c.qzProx[q].distance < best {
			best = c.qzProx[q].distance
		}
	}
	return best
}

// CouldAccommodateItem is the placement pre-check: given the candidate
// item's PoI radius and base quality, reports whether a collision-free
// placement centered in this cell remains possible. false is a sound
// rejection: every point in this cell is close enough to a known hazard
// that the item's own PoI disk is guaranteed to overlap it, so no further
// check can save the placement. true is inconclusive — it covers both
// "provably safe" and "can't tell from cached distances alone" — and
// always requires the caller to still run SurrogateCheck/ExactCheck. A cell
// coarser than the item's PoI radius can never produce the false-rejection
// bound and always returns true.
func (c *Cell) CouldAccommodateItem(poiRadius float64, baseQuality int) bool {
	if c.radius > poiRadius {
		return true
	}
	return poiRadius < c.HazardProximity(baseQuality)+c.radius
}

// UniversalHazardProximity returns the cached distance to the nearest
// universal hazard, if any.
func (c *Cell) UniversalHazardProximity() (float64, bool) {
	return c.uniProx.distance, c.uniProx.present
}

// StaticHazardProximity returns the cached distance to the nearest static
// (bin exterior/hole) universal hazard, if any.
func (c *Cell) StaticHazardProximity() (float64, bool) {
	return c.staticUniProx.distance, c.staticUniProx.present
}

// QualityZoneProximity returns the cached distance to the nearest inferior
// quality zone hazard at the given quality level, if any.
func (c *Cell) QualityZoneProximity(quality int) (float64, bool) {
	if quality < 0 || quality >= cde.NQualities {
		return 0, false
	}
	return c.qzProx[quality].distance, c.qzProx[quality].present
}

func (c *Cell) Bbox() geo.AARectangle { return c.bbox }
