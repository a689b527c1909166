package entities

import (
	"testing"
	"time"

	"github.com/jagua-go/packing/pkg/geo"
	"github.com/jagua-go/packing/pkg/packerr"
)

func testInstance(t *testing.T, demand int, stock int) (*Instance, *Item, *Bin) {
	t.Helper()
	item := NewItem(1, mustRect(t, 2, 2), geo.NoRotation(), NoQualityFilter, 1, false)
	bin := NewBin(1, mustRect(t, 10, 10), nil, nil, stock, 1, false)
	inst := NewBPInstance([]*Item{item}, []int{demand}, []*Bin{bin})
	return inst, item, bin
}

func TestBPProblemPlaceItemMaterializesNewLayout(t *testing.T) {
	inst, item, bin := testInstance(t, 2, UnboundedStock)
	p := NewBPProblem(inst, testEngineConfig(), time.Now)

	_, layoutIdx, err := p.PlaceItem(PlacingOption{ItemID: item.ID, LayoutIndex: NewLayoutIndex, BinID: bin.ID, Transformation: geo.Identity()})
	if err != nil {
		t.Fatalf("PlaceItem failed: %v", err)
	}
	if layoutIdx != 0 {
		t.Errorf("expected first placement to materialize layout 0, got %d", layoutIdx)
	}
	if len(p.Layouts()) != 1 {
		t.Fatalf("expected 1 active layout, got %d", len(p.Layouts()))
	}
	if p.MissingQty()[0] != 1 {
		t.Errorf("expected missing qty 1 after one placement, got %d", p.MissingQty()[0])
	}
}

func TestBPProblemPlaceItemRejectsQuantityExhausted(t *testing.T) {
	inst, item, bin := testInstance(t, 1, UnboundedStock)
	p := NewBPProblem(inst, testEngineConfig(), time.Now)

	_, _, err := p.PlaceItem(PlacingOption{ItemID: item.ID, LayoutIndex: NewLayoutIndex, BinID: bin.ID, Transformation: geo.Identity()})
	if err != nil {
		t.Fatalf("first placement failed: %v", err)
	}
	_, _, err = p.PlaceItem(PlacingOption{ItemID: item.ID, LayoutIndex: NewLayoutIndex, BinID: bin.ID, Transformation: geo.FromRotateTranslate(0, geo.Point{X: 5, Y: 5})})
	if kind, ok := packerr.KindOf(err); !ok || kind != packerr.QuantityExhausted {
		t.Fatalf("expected QuantityExhausted, got %v", err)
	}
}

func TestBPProblemPlaceItemRejectsNoStock(t *testing.T) {
	inst, item, bin := testInstance(t, 5, 1)
	p := NewBPProblem(inst, testEngineConfig(), time.Now)

	_, _, err := p.PlaceItem(PlacingOption{ItemID: item.ID, LayoutIndex: NewLayoutIndex, BinID: bin.ID, Transformation: geo.Identity()})
	if err != nil {
		t.Fatalf("first placement failed: %v", err)
	}
	_, _, err = p.PlaceItem(PlacingOption{ItemID: item.ID, LayoutIndex: NewLayoutIndex, BinID: bin.ID, Transformation: geo.Identity()})
	if kind, ok := packerr.KindOf(err); !ok || kind != packerr.NoStock {
		t.Fatalf("expected NoStock, got %v", err)
	}
}

func TestBPProblemRemoveItemReturnsStockWhenLayoutEmpties(t *testing.T) {
	inst, item, bin := testInstance(t, 5, 1)
	p := NewBPProblem(inst, testEngineConfig(), time.Now)

	uid, layoutIdx, err := p.PlaceItem(PlacingOption{ItemID: item.ID, LayoutIndex: NewLayoutIndex, BinID: bin.ID, Transformation: geo.Identity()})
	if err != nil {
		t.Fatalf("PlaceItem failed: %v", err)
	}
	if p.RemainingStock(bin.ID) != 0 {
		t.Fatalf("expected stock consumed, got %d", p.RemainingStock(bin.ID))
	}

	if err := p.RemoveItem(layoutIdx, uid); err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	if len(p.Layouts()) != 0 {
		t.Errorf("expected layout to be dropped once emptied, got %d active", len(p.Layouts()))
	}
	if p.RemainingStock(bin.ID) != 1 {
		t.Errorf("expected stock returned, got %d", p.RemainingStock(bin.ID))
	}
	if p.MissingQty()[0] != 5 {
		t.Errorf("expected missing qty restored to 5, got %d", p.MissingQty()[0])
	}
}

func TestBPProblemMinUsageLayoutIndex(t *testing.T) {
	item := NewItem(1, mustRect(t, 2, 2), geo.NoRotation(), NoQualityFilter, 1, false)
	bin := NewBin(1, mustRect(t, 10, 10), nil, nil, UnboundedStock, 1, false)
	inst := NewBPInstance([]*Item{item}, []int{2}, []*Bin{bin})
	p := NewBPProblem(inst, testEngineConfig(), time.Now)

	if idx := p.MinUsageLayoutIndex(); idx != -1 {
		t.Errorf("expected -1 with no active layouts, got %d", idx)
	}

	_, _, err := p.PlaceItem(PlacingOption{ItemID: item.ID, LayoutIndex: NewLayoutIndex, BinID: bin.ID, Transformation: geo.Identity()})
	if err != nil {
		t.Fatalf("PlaceItem failed: %v", err)
	}
	if idx := p.MinUsageLayoutIndex(); idx != 0 {
		t.Errorf("expected layout 0 with a single active layout, got %d", idx)
	}
}

func TestBPProblemCreateAndRestoreSolution(t *testing.T) {
	inst, item, bin := testInstance(t, 2, UnboundedStock)
	p := NewBPProblem(inst, testEngineConfig(), time.Now)

	_, _, err := p.PlaceItem(PlacingOption{ItemID: item.ID, LayoutIndex: NewLayoutIndex, BinID: bin.ID, Transformation: geo.Identity()})
	if err != nil {
		t.Fatalf("PlaceItem failed: %v", err)
	}
	sol := p.CreateSolution(nil)
	if sol.IsComplete() {
		t.Error("expected solution with remaining demand not to be complete")
	}
	if sol.Completeness() <= 0 || sol.Completeness() >= 1 {
		t.Errorf("expected partial completeness in (0,1), got %f", sol.Completeness())
	}

	p2 := NewBPProblem(inst, testEngineConfig(), time.Now)
	p2.RestoreToSolution(sol)
	if len(p2.Layouts()) != 1 {
		t.Fatalf("expected restored problem to have 1 layout, got %d", len(p2.Layouts()))
	}
	if p2.MissingQty()[0] != sol.MissingQty[0] {
		t.Errorf("expected missing qty to match solution, got %d want %d", p2.MissingQty()[0], sol.MissingQty[0])
	}
}

func TestBPProblemUsedBinValue(t *testing.T) {
	item := NewItem(1, mustRect(t, 2, 2), geo.NoRotation(), NoQualityFilter, 1, false)
	bin := NewBin(1, mustRect(t, 10, 10), nil, nil, UnboundedStock, 7, false)
	inst := NewBPInstance([]*Item{item}, []int{1}, []*Bin{bin})
	p := NewBPProblem(inst, testEngineConfig(), time.Now)

	if p.UsedBinValue() != 0 {
		t.Errorf("expected zero value before any placement, got %f", p.UsedBinValue())
	}
	_, _, err := p.PlaceItem(PlacingOption{ItemID: item.ID, LayoutIndex: NewLayoutIndex, BinID: bin.ID, Transformation: geo.Identity()})
	if err != nil {
		t.Fatalf("PlaceItem failed: %v", err)
	}
	if p.UsedBinValue() != 7 {
		t.Errorf("expected used bin value 7, got %f", p.UsedBinValue())
	}
}

func TestBPProblemTemplateLayoutForBinUnknownBin(t *testing.T) {
	inst, _, _ := testInstance(t, 1, UnboundedStock)
	p := NewBPProblem(inst, testEngineConfig(), time.Now)
	if _, err := p.TemplateLayoutForBin(999); err == nil {
		t.Error("expected error for unknown bin id")
	}
}
