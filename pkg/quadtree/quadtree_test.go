package quadtree

import (
	"testing"

	"github.com/jagua-go/packing/pkg/cde"
	"github.com/jagua-go/packing/pkg/geo"
)

func rectPoly(t *testing.T, x, y, w, h float64) *geo.SimplePolygon {
	t.Helper()
	p, err := geo.NewSimplePolygon([]geo.Point{
		{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h},
	})
	if err != nil {
		t.Fatalf("NewSimplePolygon failed: %v", err)
	}
	return p
}

func TestTreeCollidesWithPartialHazard(t *testing.T) {
	bbox := geo.NewAARectangle(0, 0, 100, 100)
	tree := NewTree(bbox, 4)

	hazardShape := rectPoly(t, 40, 40, 20, 20)
	hazard := cde.Hazard{Active: true, Shape: hazardShape, Entity: cde.PlacedItem(1)}
	tree.Register(hazard)

	overlapping := rectPoly(t, 45, 45, 20, 20)
	if !tree.Collides(overlapping, nil) {
		t.Error("expected overlapping polygon to collide")
	}

	disjoint := rectPoly(t, 0, 0, 5, 5)
	if tree.Collides(disjoint, nil) {
		t.Error("expected disjoint polygon not to collide")
	}
}

func TestTreeCollidesRespectsIgnoredEntities(t *testing.T) {
	bbox := geo.NewAARectangle(0, 0, 100, 100)
	tree := NewTree(bbox, 4)

	hazardShape := rectPoly(t, 10, 10, 10, 10)
	entity := cde.PlacedItem(7)
	tree.Register(cde.Hazard{Active: true, Shape: hazardShape, Entity: entity})

	probe := rectPoly(t, 12, 12, 5, 5)
	if !tree.Collides(probe, nil) {
		t.Error("expected collision when entity is not ignored")
	}
	if tree.Collides(probe, []cde.HazardEntity{entity}) {
		t.Error("expected no collision when entity is ignored")
	}
}

func TestTreeDeregisterRemovesHazard(t *testing.T) {
	bbox := geo.NewAARectangle(0, 0, 100, 100)
	tree := NewTree(bbox, 4)

	hazardShape := rectPoly(t, 10, 10, 10, 10)
	entity := cde.PlacedItem(1)
	tree.Register(cde.Hazard{Active: true, Shape: hazardShape, Entity: entity})

	probe := rectPoly(t, 12, 12, 5, 5)
	if !tree.Collides(probe, nil) {
		t.Fatal("expected collision before deregister")
	}
	tree.Deregister(entity)
	if tree.Collides(probe, nil) {
		t.Error("expected no collision after deregister")
	}
}

func TestTreeBinExteriorEntirePresence(t *testing.T) {
	bbox := geo.NewAARectangle(0, 0, 10, 10)
	tree := NewTree(bbox, 2)

	// the bin's own shape forbids everything outside it: any polygon that
	// exits the bin's bounds should collide with the exterior hazard.
	binShape := rectPoly(t, 0, 0, 10, 10)
	tree.Register(cde.Hazard{Active: true, Shape: binShape, Entity: cde.BinExterior()})

	outside := rectPoly(t, 8, 8, 10, 10)
	if !tree.Collides(outside, nil) {
		t.Error("expected polygon extending past bin exterior to collide")
	}

	inside := rectPoly(t, 2, 2, 2, 2)
	if tree.Collides(inside, nil) {
		t.Error("expected fully interior polygon not to collide with bin exterior hazard")
	}
}

func TestNewTreeNegativeDepthClampsToZero(t *testing.T) {
	bbox := geo.NewAARectangle(0, 0, 10, 10)
	tree := NewTree(bbox, -5)
	if tree.maxDepth != 0 {
		t.Errorf("expected maxDepth clamped to 0, got %d", tree.maxDepth)
	}
	if !tree.root.isLeaf() {
		t.Error("expected root to be a leaf at depth 0")
	}
}

func lShapePolygon(t *testing.T) *geo.SimplePolygon {
	t.Helper()
	// an L occupying the bottom band [0,20]x[0,5] and the left band
	// [0,5]x[5,20], with a 15x15 notch carved out of the top-right corner.
	p, err := geo.NewSimplePolygon([]geo.Point{
		{0, 0}, {20, 0}, {20, 5}, {5, 5}, {5, 20}, {0, 20},
	})
	if err != nil {
		t.Fatalf("NewSimplePolygon failed: %v", err)
	}
	return p
}

func TestRectangleOverlapsPolygonNotchIsNotOverlap(t *testing.T) {
	polygon := lShapePolygon(t)
	// entirely inside the carved-out notch: overlaps the polygon's bbox but
	// shares no actual area with the polygon.
	notch := geo.NewAARectangle(10, 10, 15, 15)
	if rectangleOverlapsPolygon(notch, polygon) {
		t.Error("expected a rectangle inside the notch not to overlap the L-shape")
	}
}

func TestRectangleOverlapsPolygonSolidAreaOverlaps(t *testing.T) {
	polygon := lShapePolygon(t)
	solid := geo.NewAARectangle(1, 1, 3, 3) // inside the bottom solid band
	if !rectangleOverlapsPolygon(solid, polygon) {
		t.Error("expected a rectangle inside the solid band to overlap the L-shape")
	}
}

// TestTreeCollidesDoesNotOverRejectNotchedItem reproduces the PresenceEntire
// over-rejection bug: a leaf whose bbox is entirely forbidden must still be
// gated on real polygon-vs-leaf overlap, not bbox-vs-bbox overlap, or an
// item whose bbox merely clips a hazardous leaf (via a concave notch that
// never actually reaches it) is wrongly rejected.
func TestTreeCollidesDoesNotOverRejectNotchedItem(t *testing.T) {
	// the tree covers exactly the L-shape's notch; the hazard exceeds the
	// tree's bbox on every side so its border never crosses the root leaf,
	// making the whole leaf PresenceEntire.
	bbox := geo.NewAARectangle(10, 10, 15, 15)
	tree := NewTree(bbox, 0)
	hazardShape := rectPoly(t, 9, 9, 7, 7) // [9,16] x [9,16]
	tree.Register(cde.Hazard{Active: true, Shape: hazardShape, Entity: cde.PlacedItem(1)})

	polygon := lShapePolygon(t)
	if tree.Collides(polygon, nil) {
		t.Error("expected the notched polygon, which never actually enters the hazardous leaf, not to collide")
	}
}

func TestRegisterReplacesExistingPresence(t *testing.T) {
	bbox := geo.NewAARectangle(0, 0, 100, 100)
	tree := NewTree(bbox, 4)
	entity := cde.PlacedItem(1)

	shapeA := rectPoly(t, 10, 10, 5, 5)
	tree.Register(cde.Hazard{Active: true, Shape: shapeA, Entity: entity})

	shapeB := rectPoly(t, 50, 50, 5, 5)
	tree.Register(cde.Hazard{Active: true, Shape: shapeB, Entity: entity})

	probeOld := rectPoly(t, 10, 10, 5, 5)
	if tree.Collides(probeOld, nil) {
		t.Error("expected stale presence at old location to be replaced")
	}
	probeNew := rectPoly(t, 50, 50, 5, 5)
	if !tree.Collides(probeNew, nil) {
		t.Error("expected presence at new location after re-registration")
	}
}
