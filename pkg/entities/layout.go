package entities

import (
	"time"

	"github.com/jagua-go/packing/pkg/cde"
	"github.com/jagua-go/packing/pkg/geo"
	"github.com/jagua-go/packing/pkg/observability"
	"github.com/jagua-go/packing/pkg/packerr"
)

// Layout is a bin plus the items currently placed in it, backed by its own
// collision detection engine pre-populated with the bin's static hazards.
type Layout struct {
	Bin         *Bin
	placedItems []PlacedItem
	engine      *cde.Engine
	nextUID     PlacedItemUID
	engineCfg   cde.EngineConfig

	placementLogger *observability.PlacementLogger
}

// NewLayout builds an empty layout over bin, registering its exterior,
// holes and quality zones as static hazards.
func NewLayout(bin *Bin, cfg cde.EngineConfig) *Layout {
	l := &Layout{Bin: bin, engineCfg: cfg}
	l.engine = buildEngine(bin, cfg)
	return l
}

// WithPlacementLogger attaches a placement logger every subsequent Place
// call records its accept/reject outcome and stage against. Optional; nil
// disables logging.
func (l *Layout) WithPlacementLogger(pl *observability.PlacementLogger) *Layout {
	l.placementLogger = pl
	return l
}

func buildEngine(bin *Bin, cfg cde.EngineConfig) *cde.Engine {
	margin := bin.Shape.Bbox().Diameter() * 0.01
	engine := cde.NewEngine(bin.Shape.Bbox().Inflate(margin), cfg)
	engine.Register(cde.Hazard{Active: true, Shape: bin.Shape, Entity: cde.BinExterior()})
	for _, hole := range bin.Holes {
		engine.Register(cde.Hazard{Active: true, Shape: hole.Shape, Entity: cde.BinHole(hole.ID)})
	}
	for _, zone := range bin.Zones {
		engine.Register(cde.Hazard{Active: true, Shape: zone.Shape, Entity: cde.InferiorQualityZone(zone.Quality, zone.ID)})
	}
	return engine
}

// PlacedItems returns the layout's current placements, in placement order.
// Callers must not mutate the returned slice.
func (l *Layout) PlacedItems() []PlacedItem { return l.placedItems }

// Usage returns the fraction of the bin's area covered by placed items.
func (l *Layout) Usage() float64 {
	var placedArea float64
	for _, pi := range l.placedItems {
		placedArea += pi.TransformedShape.Area()
	}
	binArea := l.Bin.Shape.Area()
	if binArea == 0 {
		return 0
	}
	return placedArea / binArea
}

// Place runs the HpgFilter -> SurrogateCheck -> ExactCheck pipeline and, if
// every stage clears, registers item as a new placed item and returns its UID.
func (l *Layout) Place(item *Item, transformation geo.Transformation) (PlacedItemUID, error) {
	start := time.Now()
	transformedShape := item.Shape.TransformClone(transformation)
	ignored := cde.IgnoredEntities(item.QualityFilter(), l.engine.ActiveHazards())

	poi := transformedShape.PoI()
	if !l.engine.CouldAccommodateItem(poi.Center, poi.Radius, item.BaseQuality) {
		l.logPlacement(item.ID, "hpg_filter", "rejected", start, nil)
		return 0, packerr.New(packerr.Collision, "hazard proximity grid rules out this placement")
	}
	if l.engine.SurrogateCollides(transformedShape.Surrogate().Poles, ignored) {
		l.logPlacement(item.ID, "surrogate_check", "rejected", start, nil)
		return 0, packerr.New(packerr.Collision, "item surrogate collides with an existing hazard")
	}
	if l.engine.PolyCollides(transformedShape, ignored) {
		l.logPlacement(item.ID, "exact_check", "rejected", start, nil)
		return 0, packerr.New(packerr.Collision, "item polygon collides with an existing hazard")
	}

	uid := l.nextUID
	l.nextUID++
	pi := PlacedItem{UID: uid, ItemID: item.ID, Transformation: transformation, TransformedShape: transformedShape}
	l.placedItems = append(l.placedItems, pi)
	l.engine.Register(cde.Hazard{Active: true, Shape: transformedShape, Entity: cde.PlacedItem(int(uid))})
	l.logPlacement(item.ID, "accepted", "accepted", start, map[string]interface{}{"bin_id": l.Bin.ID})
	return uid, nil
}

func (l *Layout) logPlacement(itemID int, stage, outcome string, start time.Time, fields map[string]interface{}) {
	if l.placementLogger == nil {
		return
	}
	l.placementLogger.LogPlacement(itemID, stage, outcome, time.Since(start), fields)
}

// Remove deregisters and drops the placed item identified by uid.
func (l *Layout) Remove(uid PlacedItemUID) error {
	idx := -1
	for i, pi := range l.placedItems {
		if pi.UID == uid {
			idx = i
			break
		}
	}
	if idx < 0 {
		return packerr.Newf(packerr.Internal, "remove: unknown placed item uid %d", uid)
	}
	l.engine.Deregister(cde.PlacedItem(int(uid)))
	l.placedItems = append(l.placedItems[:idx], l.placedItems[idx+1:]...)
	return nil
}

// IsEmpty reports whether the layout currently holds no placed items.
func (l *Layout) IsEmpty() bool { return len(l.placedItems) == 0 }

// LayoutSnapshot is an immutable capture of a layout's observable state.
type LayoutSnapshot struct {
	BinID       int
	PlacedItems []PlacedItem
	nextUID     PlacedItemUID
}

// Snapshot captures the layout's current placements. Geometry is shared by
// reference; the CDE is not captured (Restore rebuilds it).
func (l *Layout) Snapshot() LayoutSnapshot {
	return LayoutSnapshot{
		BinID:       l.Bin.ID,
		PlacedItems: append([]PlacedItem(nil), l.placedItems...),
		nextUID:     l.nextUID,
	}
}

// Restore resets the layout to match snapshot, rebuilding its CDE from
// scratch and re-registering every placed item without re-checking
// collisions: restoration assumes the snapshot is itself collision-free.
func (l *Layout) Restore(snapshot LayoutSnapshot) {
	l.engine = buildEngine(l.Bin, l.engineCfg)
	l.placedItems = append([]PlacedItem(nil), snapshot.PlacedItems...)
	l.nextUID = snapshot.nextUID
	for _, pi := range l.placedItems {
		l.engine.Register(cde.Hazard{Active: true, Shape: pi.TransformedShape, Entity: cde.PlacedItem(int(pi.UID))})
	}
}

// GrowStrip replaces the layout's bin with a wider rectangle sharing the
// same height, rebuilding the CDE and re-registering every existing placed
// item at its current transformation (strip packing only).
func (l *Layout) GrowStrip(newBin *Bin) {
	l.Bin = newBin
	placed := l.placedItems
	l.engine = buildEngine(newBin, l.engineCfg)
	l.placedItems = nil
	for _, pi := range placed {
		l.placedItems = append(l.placedItems, pi)
		l.engine.Register(cde.Hazard{Active: true, Shape: pi.TransformedShape, Entity: cde.PlacedItem(int(pi.UID))})
	}
}
