package entities

import "github.com/jagua-go/packing/pkg/geo"

// PlacedItemUID identifies one placement within a layout. UIDs come from an
// increasing counter, so removing a placed item does not free its UID for
// reuse; Restore rewinds the counter to the snapshot's value, after which
// UIDs issued since that snapshot can be issued again.
type PlacedItemUID uint64

// PlacedItem is one item placed into a layout: which catalog item, under
// which transformation, plus its cached transformed shape.
type PlacedItem struct {
	UID              PlacedItemUID
	ItemID           int
	Transformation   geo.Transformation
	TransformedShape *geo.SimplePolygon
}
