package jsonio

import (
	"math"
	"testing"

	"github.com/jagua-go/packing/pkg/config"
	"github.com/jagua-go/packing/pkg/entities"
	"github.com/jagua-go/packing/pkg/geo"
)

func rectJI(demand int, w, h float64) JsonItem {
	return JsonItem{Demand: demand, Shape: &JsonShape{Kind: ShapeRectangle, Width: w, Height: h}}
}

func TestParser_BinPackingRoundTrip(t *testing.T) {
	ji := &JsonInstance{
		Name: "demo",
		Items: []JsonItem{
			rectJI(3, 2, 1),
			rectJI(1, 4, 4),
		},
		Bins: []JsonBin{
			{Shape: &JsonShape{Kind: ShapeRectangle, Width: 10, Height: 10}},
		},
	}

	p := NewParser(config.Defaults())
	inst, err := p.Parse(ji)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if inst.Kind != entities.BPInstanceKind {
		t.Fatalf("expected BPInstanceKind, got %v", inst.Kind)
	}
	if len(inst.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(inst.Items))
	}
	if inst.TargetQty[0] != 3 || inst.TargetQty[1] != 1 {
		t.Fatalf("unexpected target quantities: %v", inst.TargetQty)
	}
	if len(inst.Bins) != 1 {
		t.Fatalf("expected 1 bin, got %d", len(inst.Bins))
	}
	if math.Abs(inst.Bins[0].Shape.Area()-100) > 1e-9 {
		t.Errorf("expected bin area 100, got %f", inst.Bins[0].Shape.Area())
	}
}

func TestParser_StripPackingRoundTrip(t *testing.T) {
	ji := &JsonInstance{
		Name:  "strip-demo",
		Items: []JsonItem{rectJI(5, 3, 2)},
		Strip: &JsonStrip{Height: 10},
	}

	p := NewParser(config.Defaults())
	inst, err := p.Parse(ji)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if inst.Kind != entities.SPInstanceKind {
		t.Fatalf("expected SPInstanceKind, got %v", inst.Kind)
	}
	if inst.StripHeight != 10 {
		t.Errorf("expected strip height 10, got %f", inst.StripHeight)
	}
}

func TestParser_RejectsBothBinsAndStrip(t *testing.T) {
	ji := &JsonInstance{
		Items: []JsonItem{rectJI(1, 1, 1)},
		Bins:  []JsonBin{{Shape: &JsonShape{Kind: ShapeRectangle, Width: 1, Height: 1}}},
		Strip: &JsonStrip{Height: 1},
	}
	p := NewParser(config.Defaults())
	if _, err := p.Parse(ji); err == nil {
		t.Error("expected error when both bins and strip are present")
	}
}

func TestParser_RejectsMultiPolygon(t *testing.T) {
	ji := &JsonInstance{
		Items: []JsonItem{{Demand: 1, Shape: &JsonShape{Kind: ShapeMultiPolygon}}},
		Strip: &JsonStrip{Height: 1},
	}
	p := NewParser(config.Defaults())
	if _, err := p.Parse(ji); err == nil {
		t.Error("expected error for MultiPolygon shape")
	}
}

func TestParser_PolygonWithHoles(t *testing.T) {
	ji := &JsonInstance{
		Items: []JsonItem{rectJI(1, 1, 1)},
		Bins: []JsonBin{
			{
				Shape: &JsonShape{
					Kind:      ShapePolygon,
					PolyOuter: [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
					PolyInner: [][][2]float64{
						{{2, 2}, {4, 2}, {4, 4}, {2, 4}},
					},
				},
			},
		},
	}
	p := NewParser(config.Defaults())
	inst, err := p.Parse(ji)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(inst.Bins[0].Holes) != 1 {
		t.Fatalf("expected 1 hole, got %d", len(inst.Bins[0].Holes))
	}
}

func TestParser_QualityZones(t *testing.T) {
	ji := &JsonInstance{
		Items: []JsonItem{rectJI(1, 1, 1)},
		Bins: []JsonBin{
			{
				Shape: &JsonShape{Kind: ShapeRectangle, Width: 10, Height: 10},
				Zones: []JsonZone{
					{Quality: 2, Shape: JsonShape{Kind: ShapeRectangle, Width: 2, Height: 2}},
				},
			},
		},
	}
	p := NewParser(config.Defaults())
	inst, err := p.Parse(ji)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(inst.Bins[0].Zones) != 1 || inst.Bins[0].Zones[0].Quality != 2 {
		t.Fatalf("unexpected zones: %+v", inst.Bins[0].Zones)
	}
}

func TestParser_StripsClosingVertex(t *testing.T) {
	ji := &JsonInstance{
		Items: []JsonItem{
			{
				Demand: 1,
				Shape: &JsonShape{
					Kind:  ShapeSimplePolygon,
					Outer: [][2]float64{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}},
				},
			},
		},
		Strip: &JsonStrip{Height: 10},
	}
	p := NewParser(config.Defaults())
	inst, err := p.Parse(ji)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if math.Abs(inst.Items[0].Shape.Area()-4) > 1e-9 {
		t.Errorf("expected area 4, got %f", inst.Items[0].Shape.Area())
	}
}

func TestAllowedRotationOf(t *testing.T) {
	if allowedRotationOf(nil).Kind != geo.RotationContinuous {
		t.Error("nil orientations should mean continuous rotation")
	}
	if allowedRotationOf([]float64{}).Kind != geo.RotationNone {
		t.Error("empty orientations should mean no rotation")
	}
	if allowedRotationOf([]float64{0}).Kind != geo.RotationNone {
		t.Error("[0] orientations should mean no rotation")
	}
	discrete := allowedRotationOf([]float64{0, 90, 180})
	if discrete.Kind != geo.RotationDiscrete || len(discrete.Angles) != 3 {
		t.Errorf("unexpected discrete rotation: %+v", discrete)
	}
}
