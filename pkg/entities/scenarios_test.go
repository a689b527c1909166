package entities

import (
	"math"
	"testing"
	"time"

	"github.com/jagua-go/packing/pkg/geo"
	"github.com/jagua-go/packing/pkg/packerr"
)

// ScenarioA: strip packing, strip height 10, two 3x3 squares. Placing the
// first at (1.5,1.5) succeeds; placing the second at the same spot collides;
// placing it at (4.6,1.5) instead succeeds, clear of the first. Final usage
// is the combined item area over bin area.
func TestScenarioAStripPackingTwoSquares(t *testing.T) {
	item := NewItem(1, mustRect(t, 3, 3), geo.NoRotation(), NoQualityFilter, 1, false)
	inst := NewSPInstance([]*Item{item}, []int{2}, 10, 10)
	p, err := NewSPProblem(inst, testEngineConfig(), time.Now)
	if err != nil {
		t.Fatalf("NewSPProblem failed: %v", err)
	}

	if _, _, err := p.PlaceItem(PlacingOption{ItemID: item.ID, Transformation: geo.FromRotateTranslate(0, geo.Point{X: 1.5, Y: 1.5})}); err != nil {
		t.Fatalf("first placement failed: %v", err)
	}
	_, _, err = p.PlaceItem(PlacingOption{ItemID: item.ID, Transformation: geo.FromRotateTranslate(0, geo.Point{X: 1.5, Y: 1.5})})
	if kind, ok := packerr.KindOf(err); !ok || kind != packerr.Collision {
		t.Fatalf("expected Collision for the overlapping second placement, got %v", err)
	}
	if _, _, err := p.PlaceItem(PlacingOption{ItemID: item.ID, Transformation: geo.FromRotateTranslate(0, geo.Point{X: 4.6, Y: 1.5})}); err != nil {
		t.Fatalf("clear second placement failed: %v", err)
	}

	sol := p.CreateSolution(nil)
	want := (9.0 + 9.0) / (p.Width() * 10)
	if math.Abs(sol.Usage-want) > 1e-9 {
		t.Errorf("expected usage %f, got %f", want, sol.Usage)
	}
}

// ScenarioB: bin packing, one 10x10 bin with stock 1, one circular-approx
// item of radius 4. The first placement at the bin's center succeeds; the
// second request fails with NoStock since no further bin of that template
// can be opened.
func TestScenarioBBinPackingSingleStockNoStock(t *testing.T) {
	circle := mustCircleApprox(t, 4)
	item := NewItem(1, circle, geo.NoRotation(), NoQualityFilter, 1, true)
	bin := NewBin(1, mustRect(t, 10, 10), nil, nil, 1, 1, true)
	inst := NewBPInstance([]*Item{item}, []int{2}, []*Bin{bin})
	p := NewBPProblem(inst, testEngineConfig(), time.Now)

	if _, _, err := p.PlaceItem(PlacingOption{ItemID: item.ID, LayoutIndex: NewLayoutIndex, BinID: bin.ID, Transformation: geo.Identity()}); err != nil {
		t.Fatalf("first placement at bin center failed: %v", err)
	}
	_, _, err := p.PlaceItem(PlacingOption{ItemID: item.ID, LayoutIndex: NewLayoutIndex, BinID: bin.ID, Transformation: geo.Identity()})
	if kind, ok := packerr.KindOf(err); !ok || kind != packerr.NoStock {
		t.Fatalf("expected NoStock once the single bin's stock is exhausted, got %v", err)
	}
}

// ScenarioC: the PoI of the axis-aligned unit square is exactly (0.5, 0.5)
// with radius 0.5.
func TestScenarioCPoIUnitSquare(t *testing.T) {
	square, err := geo.NewRectanglePolygon(1, 1)
	if err != nil {
		t.Fatalf("NewRectanglePolygon failed: %v", err)
	}
	poi := square.PoI()
	if !almostEqual(poi.Center.X, 0.5, 1e-6) || !almostEqual(poi.Center.Y, 0.5, 1e-6) {
		t.Errorf("expected PoI center (0.5,0.5), got %+v", poi.Center)
	}
	if !almostEqual(poi.Radius, 0.5, 1e-6) {
		t.Errorf("expected PoI radius 0.5, got %f", poi.Radius)
	}
}

// ScenarioD: the PoI of an L-shape formed by the union of [0,2]x[0,1] and
// [0,1]x[0,2] has radius 0.5, centered at one of the two arms (tie broken by
// search order).
func TestScenarioDPoILShape(t *testing.T) {
	lShape, err := geo.NewSimplePolygon([]geo.Point{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 2},
	})
	if err != nil {
		t.Fatalf("NewSimplePolygon failed: %v", err)
	}
	poi := lShape.PoI()
	if !almostEqual(poi.Radius, 0.5, 1e-6) {
		t.Errorf("expected PoI radius 0.5, got %f", poi.Radius)
	}
	if !lShape.CollidesWithPoint(poi.Center) {
		t.Errorf("expected PoI center %+v to lie inside the L-shape", poi.Center)
	}
}

// ScenarioE: quality zones. Bin 10x10 with a quality-3 zone covering
// [0,5]x[0,5]. An item of base_quality 2 may be placed anywhere, including
// over the zone. An item of base_quality 5 may not overlap the zone at all.
func TestScenarioEQualityZoneRestriction(t *testing.T) {
	zoneShape := mustRect(t, 5, 5)
	zone := Zone{ID: 1, Quality: 3, Shape: zoneShape}
	bin := NewBin(1, mustRect(t, 10, 10), nil, []Zone{zone}, UnboundedStock, 1, false)
	layout := NewLayout(bin, testEngineConfig())

	lowQuality := NewItem(1, mustRect(t, 2, 2), geo.NoRotation(), 2, 1, false)
	if _, err := layout.Place(lowQuality, geo.FromRotateTranslate(0, geo.Point{X: 1, Y: 1})); err != nil {
		t.Errorf("expected base_quality 2 item to be placeable inside the quality-3 zone, got %v", err)
	}

	highQuality := NewItem(2, mustRect(t, 2, 2), geo.NoRotation(), 5, 1, false)
	_, err := layout.Place(highQuality, geo.FromRotateTranslate(0, geo.Point{X: 4, Y: 1}))
	if kind, ok := packerr.KindOf(err); !ok || kind != packerr.Collision {
		t.Fatalf("expected base_quality 5 item overlapping the zone to collide, got %v", err)
	}

	// clear of both the zone and the low-quality item, the high-quality item
	// still succeeds.
	if _, err := layout.Place(highQuality, geo.FromRotateTranslate(0, geo.Point{X: 6, Y: 6})); err != nil {
		t.Errorf("expected base_quality 5 item clear of the zone to be placeable, got %v", err)
	}
}

// ScenarioF: reversibility. Place i1, i2, snapshot as S. Remove i1. Restore
// to S. The placed items set and per-item missing quantities must match the
// original post-place(i2) state.
func TestScenarioFReversibility(t *testing.T) {
	inst, item, bin := testInstance(t, 3, UnboundedStock)
	p := NewBPProblem(inst, testEngineConfig(), time.Now)

	uid1, layoutIdx, err := p.PlaceItem(PlacingOption{ItemID: item.ID, LayoutIndex: NewLayoutIndex, BinID: bin.ID, Transformation: geo.FromRotateTranslate(0, geo.Point{X: 1, Y: 1})})
	if err != nil {
		t.Fatalf("placing i1 failed: %v", err)
	}
	if _, _, err := p.PlaceItem(PlacingOption{ItemID: item.ID, LayoutIndex: layoutIdx, BinID: bin.ID, Transformation: geo.FromRotateTranslate(0, geo.Point{X: 5, Y: 5})}); err != nil {
		t.Fatalf("placing i2 failed: %v", err)
	}
	snapshot := p.CreateSolution(nil)

	if err := p.RemoveItem(layoutIdx, uid1); err != nil {
		t.Fatalf("removing i1 failed: %v", err)
	}

	p.RestoreToSolution(snapshot)

	if len(p.Layouts()) != 1 || len(p.Layouts()[0].PlacedItems()) != 2 {
		t.Fatalf("expected 2 placed items restored, got %+v", p.Layouts())
	}
	for i, missing := range p.MissingQty() {
		if missing != snapshot.MissingQty[i] {
			t.Errorf("expected missing qty %d at index %d after restore, got %d", snapshot.MissingQty[i], i, missing)
		}
	}
}

func almostEqual(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func mustCircleApprox(t *testing.T, radius float64) *geo.SimplePolygon {
	t.Helper()
	const sides = 24
	points := make([]geo.Point, sides)
	for i := 0; i < sides; i++ {
		angle := 2 * math.Pi * float64(i) / float64(sides)
		points[i] = geo.Point{X: radius + radius*math.Cos(angle), Y: radius + radius*math.Sin(angle)}
	}
	p, err := geo.NewSimplePolygon(points)
	if err != nil {
		t.Fatalf("NewSimplePolygon failed: %v", err)
	}
	return p
}
