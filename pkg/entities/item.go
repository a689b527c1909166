// Package entities implements the catalog and placement-state types that sit
// above geometry and collision detection: items, bins, placed items,
// instances, layouts, problems and solutions.
package entities

import (
	"github.com/jagua-go/packing/pkg/cde"
	"github.com/jagua-go/packing/pkg/geo"
)

// NoQualityFilter marks an item as having no base_quality restriction.
const NoQualityFilter = -1

// Item is a catalog entry: its shape, how it may be rotated, and (for
// strip/bin packing with quality zones) the quality level below which it may
// not be placed.
type Item struct {
	ID int

	Shape        *geo.SimplePolygon
	AllowedRotation geo.AllowedRotation

	// BaseQuality is 0..NQualities-1, or NoQualityFilter if this item is
	// unaffected by inferior-quality zones.
	BaseQuality int
	Value       float64

	// Pretransform recenters Shape around its own centroid, matching
	// center_polygons = true at parse time; identity otherwise.
	Pretransform geo.Transformation
}

// NewItem builds an item around shape, centering it and recording the
// recovering pretransform.
func NewItem(id int, shape *geo.SimplePolygon, rotation geo.AllowedRotation, baseQuality int, value float64, centerPolygons bool) *Item {
	it := &Item{ID: id, AllowedRotation: rotation, BaseQuality: baseQuality, Value: value}
	if centerPolygons {
		centered, pretransform := shape.CenterAroundCentroid()
		it.Shape = centered
		it.Pretransform = pretransform
	} else {
		it.Shape = shape
		it.Pretransform = geo.Identity()
	}
	return it
}

// WithID returns a shallow copy of the item carrying a different id, used
// when an instance needs several catalog entries sharing one shape (e.g. a
// demand expanded into per-bin-template variants).
func (it *Item) WithID(id int) *Item {
	clone := *it
	clone.ID = id
	return &clone
}

// HasQualityFilter reports whether the item is restricted by quality zones.
func (it *Item) HasQualityFilter() bool {
	return it.BaseQuality != NoQualityFilter
}

// QualityFilter returns the HazardFilter that excludes quality-zone hazards
// irrelevant to this item (zones of quality >= the item's base quality do
// not forbid it).
func (it *Item) QualityFilter() cde.HazardFilter {
	if !it.HasQualityFilter() {
		return nil
	}
	return cde.QZHazardFilter{CutoffQuality: it.BaseQuality}
}
