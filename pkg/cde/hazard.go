// Package cde implements the collision detection engine: hazards, hazard
// filters, and the composition of the quadtree and hazard proximity grid
// into a single "does this placement collide?" API.
package cde

import (
	"fmt"

	"github.com/jagua-go/packing/pkg/geo"
)

// NQualities is the fixed number of quality levels tracked per cell/bin.
const NQualities = 10

// HazardEntityKind tags the variant of a HazardEntity.
type HazardEntityKind int

const (
	BinExteriorKind HazardEntityKind = iota
	BinHoleKind
	PlacedItemKind
	InferiorQualityZoneKind
)

func (k HazardEntityKind) String() string {
	switch k {
	case BinExteriorKind:
		return "bin-exterior"
	case BinHoleKind:
		return "bin-hole"
	case PlacedItemKind:
		return "placed-item"
	case InferiorQualityZoneKind:
		return "inferior-quality-zone"
	default:
		return "unknown"
	}
}

// HazardEntity is a tagged variant identifying what forbids a region:
// everything outside the bin, a hole in the bin, a placed item, or an
// inferior-quality zone. It is comparable (usable as a map key).
type HazardEntity struct {
	Kind    HazardEntityKind
	ID      int // hole id / placed-item id / zone id, depending on Kind
	Quality int // meaningful only for InferiorQualityZoneKind: 0..NQualities-1
}

func BinExterior() HazardEntity { return HazardEntity{Kind: BinExteriorKind} }
func BinHole(id int) HazardEntity { return HazardEntity{Kind: BinHoleKind, ID: id} }
func PlacedItem(id int) HazardEntity { return HazardEntity{Kind: PlacedItemKind, ID: id} }
func InferiorQualityZone(quality, id int) HazardEntity {
	return HazardEntity{Kind: InferiorQualityZoneKind, ID: id, Quality: quality}
}

// Position reports whether the entity forbids the interior or the exterior
// of its shape: everything is forbidden outside a bin, so BinExterior
// forbids the shape's exterior; every other entity forbids its interior.
func (h HazardEntity) Position() geo.GeoPosition {
	if h.Kind == BinExteriorKind {
		return geo.Exterior
	}
	return geo.Interior
}

// Universal reports whether the entity forbids placement of every item
// regardless of quality (bin exterior, holes, placed items), as opposed to
// quality-zone hazards, which only forbid items whose base quality requires it.
func (h HazardEntity) Universal() bool {
	return h.Kind != InferiorQualityZoneKind
}

func (h HazardEntity) String() string {
	if h.Kind == InferiorQualityZoneKind {
		return fmt.Sprintf("%s[q=%d,id=%d]", h.Kind, h.Quality, h.ID)
	}
	return fmt.Sprintf("%s[id=%d]", h.Kind, h.ID)
}

// Hazard is an active-or-inactive forbidden region: a shape plus the
// HazardEntity describing what it represents.
type Hazard struct {
	Active bool
	Shape  geo.Shape
	Entity HazardEntity
}

// HazardFilter decides whether a hazard is relevant to a particular query
// (e.g. an item's quality cutoff, excluding zones that don't apply to it).
type HazardFilter interface {
	IsRelevant(entity HazardEntity) bool
}

// QZHazardFilter excludes inferior-quality zones of quality >= CutoffQuality
// (items with base_quality = q are only forbidden by zones of strictly
// lower quality).
type QZHazardFilter struct {
	CutoffQuality int
}

func (f QZHazardFilter) IsRelevant(entity HazardEntity) bool {
	if entity.Kind != InferiorQualityZoneKind {
		return true
	}
	return entity.Quality < f.CutoffQuality
}

// ComboHazardFilter is the conjunction of several filters: an entity is
// relevant only if every inner filter considers it relevant.
type ComboHazardFilter struct {
	Filters []HazardFilter
}

func NewComboHazardFilter(filters ...HazardFilter) ComboHazardFilter {
	return ComboHazardFilter{Filters: filters}
}

func (f ComboHazardFilter) IsRelevant(entity HazardEntity) bool {
	for _, inner := range f.Filters {
		if inner == nil {
			continue
		}
		if !inner.IsRelevant(entity) {
			return false
		}
	}
	return true
}

// IgnoredEntities collects the HazardEntity values a filter marks as NOT
// relevant, out of the given active hazards — the form the quadtree and HPG
// collision queries expect ("ignore this set of entities").
func IgnoredEntities(filter HazardFilter, hazards []Hazard) []HazardEntity {
	if filter == nil {
		return nil
	}
	var ignored []HazardEntity
	for _, h := range hazards {
		if !filter.IsRelevant(h.Entity) {
			ignored = append(ignored, h.Entity)
		}
	}
	return ignored
}
