package entities

import "github.com/jagua-go/packing/pkg/geo"

// NewLayoutIndex marks a PlacingOption that targets a not-yet-materialized
// layout: BinID names which bin template to instantiate.
const NewLayoutIndex = -1

// PlacingOption is an optimizer's proposal: place ItemID into the layout at
// LayoutIndex (or a freshly materialized layout of bin BinID, for bin
// packing, when LayoutIndex == NewLayoutIndex) under Transformation.
type PlacingOption struct {
	ItemID         int
	LayoutIndex    int
	BinID          int
	Transformation geo.Transformation
}
