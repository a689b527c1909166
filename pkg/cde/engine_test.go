package cde

import (
	"testing"

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

func TestEngineRegisterAndPolyCollides(t *testing.T) {
	bbox := geo.NewAARectangle(0, 0, 100, 100)
	e := NewEngine(bbox, DefaultEngineConfig())

	hazard := Hazard{Active: true, Shape: rectPoly(t, 40, 40, 20, 20), Entity: PlacedItem(1)}
	e.Register(hazard)

	overlapping := rectPoly(t, 45, 45, 20, 20)
	if !e.PolyCollides(overlapping, nil) {
		t.Error("expected exact collision against registered hazard")
	}

	disjoint := rectPoly(t, 0, 0, 5, 5)
	if e.PolyCollides(disjoint, nil) {
		t.Error("expected no collision for a disjoint polygon")
	}
}

func TestEngineDeregisterRemovesFromBothIndices(t *testing.T) {
	bbox := geo.NewAARectangle(0, 0, 100, 100)
	e := NewEngine(bbox, DefaultEngineConfig())

	entity := PlacedItem(1)
	e.Register(Hazard{Active: true, Shape: rectPoly(t, 10, 10, 10, 10), Entity: entity})

	probe := rectPoly(t, 12, 12, 5, 5)
	if !e.PolyCollides(probe, nil) {
		t.Fatal("expected collision before deregister")
	}
	e.Deregister(entity)
	if e.PolyCollides(probe, nil) {
		t.Error("expected no collision after deregister")
	}
	if len(e.ActiveHazards()) != 0 {
		t.Errorf("expected no active hazards left, got %d", len(e.ActiveHazards()))
	}
}

func TestEngineSurrogateCollidesDecisiveOnTruePositive(t *testing.T) {
	bbox := geo.NewAARectangle(0, 0, 100, 100)
	e := NewEngine(bbox, DefaultEngineConfig())
	e.Register(Hazard{Active: true, Shape: rectPoly(t, 40, 40, 20, 20), Entity: PlacedItem(1)})

	poles := []geo.Circle{{Center: geo.Point{X: 50, Y: 50}, Radius: 1}}
	if !e.SurrogateCollides(poles, nil) {
		t.Error("expected surrogate check to catch a pole centered deep inside a hazard")
	}
}

func TestEngineSurrogateCollidesRespectsIgnored(t *testing.T) {
	bbox := geo.NewAARectangle(0, 0, 100, 100)
	e := NewEngine(bbox, DefaultEngineConfig())
	entity := PlacedItem(1)
	e.Register(Hazard{Active: true, Shape: rectPoly(t, 40, 40, 20, 20), Entity: entity})

	poles := []geo.Circle{{Center: geo.Point{X: 50, Y: 50}, Radius: 1}}
	if e.SurrogateCollides(poles, []HazardEntity{entity}) {
		t.Error("expected ignored entity to be excluded from the surrogate check")
	}
}

func TestEngineCouldAccommodateItemOutsideGrid(t *testing.T) {
	bbox := geo.NewAARectangle(0, 0, 100, 100)
	e := NewEngine(bbox, DefaultEngineConfig())
	if e.CouldAccommodateItem(geo.Point{X: -50, Y: -50}, 1, 0) {
		t.Error("expected a point outside the grid to be rejected (false)")
	}
}

func TestEngineCouldAccommodateItemEmptyGrid(t *testing.T) {
	bbox := geo.NewAARectangle(0, 0, 100, 100)
	e := NewEngine(bbox, DefaultEngineConfig())
	if !e.CouldAccommodateItem(geo.Point{X: 50, Y: 50}, 0.01, 0) {
		t.Error("expected a tiny item to be accommodable in an empty engine")
	}
}

func TestEngineHPGCellFor(t *testing.T) {
	bbox := geo.NewAARectangle(0, 0, 100, 100)
	e := NewEngine(bbox, DefaultEngineConfig())
	if c := e.HPGCellFor(geo.Point{X: 50, Y: 50}); c == nil {
		t.Error("expected a cell for a point inside the engine's bounds")
	}
}
