package entities

import (
	"time"

	"github.com/jagua-go/packing/pkg/cde"
	"github.com/jagua-go/packing/pkg/geo"
)

// stripBinID is the synthetic bin id used for the single strip layout.
const stripBinID = 0

// SPProblem is the strip-packing variant: exactly one layout, a rectangle of
// fixed height that grows width-first as items no longer fit.
type SPProblem struct {
	problemCore
	width float64
}

// NewSPProblem builds a strip-packing problem over instance, whose Kind
// must be SPInstanceKind.
func NewSPProblem(instance *Instance, cfg cde.EngineConfig, clock func() time.Time) (*SPProblem, error) {
	shape, err := geo.NewRectanglePolygon(instance.StripInitialWidth, instance.StripHeight)
	if err != nil {
		return nil, err
	}
	bin := NewBin(stripBinID, shape, nil, nil, UnboundedStock, 0, false)
	p := &SPProblem{problemCore: newProblemCore(instance, cfg, clock), width: instance.StripInitialWidth}
	p.activeLayouts = []*Layout{p.newLayout(bin)}
	return p, nil
}

func (p *SPProblem) layout() *Layout { return p.activeLayouts[0] }

// Width returns the strip's current width.
func (p *SPProblem) Width() float64 { return p.width }

// GrowStrip replaces the strip with a wider rectangle of the same height,
// rebuilding the layout's CDE and re-registering every existing placement.
func (p *SPProblem) GrowStrip(newWidth float64) error {
	if newWidth <= p.width {
		return nil
	}
	shape, err := geo.NewRectanglePolygon(newWidth, p.instance.StripHeight)
	if err != nil {
		return err
	}
	bin := NewBin(stripBinID, shape, nil, nil, UnboundedStock, 0, false)
	p.layout().GrowStrip(bin)
	p.width = newWidth
	return nil
}

// PlaceItem implements Problem. LayoutIndex/BinID on the option are ignored:
// there is exactly one strip layout.
func (p *SPProblem) PlaceItem(option PlacingOption) (PlacedItemUID, int, error) {
	item := p.instance.ItemByID(option.ItemID)
	if item == nil {
		return 0, 0, itemNotFoundErr(option.ItemID)
	}
	if idx := p.instance.ItemIndex(option.ItemID); idx < 0 || p.missingQty[idx] <= 0 {
		return 0, 0, quantityExhaustedErr(option.ItemID)
	}
	uid, err := p.layout().Place(item, option.Transformation)
	if err != nil {
		return 0, 0, err
	}
	if err := p.decrementMissing(option.ItemID); err != nil {
		_ = p.layout().Remove(uid)
		return 0, 0, err
	}
	return uid, 0, nil
}

// RemoveItem implements Problem. The strip layout is never dropped, even
// once emptied.
func (p *SPProblem) RemoveItem(layoutIndex int, uid PlacedItemUID) error {
	if layoutIndex != 0 {
		return layoutIndexErr(layoutIndex)
	}
	var itemID int
	found := false
	for _, pi := range p.layout().PlacedItems() {
		if pi.UID == uid {
			itemID, found = pi.ItemID, true
			break
		}
	}
	if !found {
		return uidNotFoundErr(uid)
	}
	if err := p.layout().Remove(uid); err != nil {
		return err
	}
	p.incrementMissing(itemID)
	return nil
}

// UsedBinValue is always zero for strip packing: the strip carries no
// material value, only placed items do.
func (p *SPProblem) UsedBinValue() float64 { return 0 }

// CreateSolution implements Problem.
func (p *SPProblem) CreateSolution(previous *Solution) *Solution {
	return buildSolution(&p.problemCore, previous, nil)
}

// RestoreToSolution implements Problem. The strip's width becomes the larger
// of its current width and the rightmost extent of the snapshot's placed
// items; items are re-placed without re-checking collisions, trusting the
// snapshot was itself collision-free.
func (p *SPProblem) RestoreToSolution(sol *Solution) {
	if len(sol.Layouts) != 1 {
		return
	}
	ls := sol.Layouts[0]
	var maxX float64
	for _, pi := range ls.PlacedItems {
		if b := pi.TransformedShape.Bbox(); b.XMax > maxX {
			maxX = b.XMax
		}
	}
	width := p.width
	if maxX > width {
		width = maxX
	}
	shape, err := geo.NewRectanglePolygon(width, p.instance.StripHeight)
	if err != nil {
		return
	}
	bin := NewBin(stripBinID, shape, nil, nil, UnboundedStock, 0, false)
	layout := p.newLayout(bin)
	layout.Restore(ls)
	p.activeLayouts = []*Layout{layout}
	p.width = width
	p.missingQty = append([]int(nil), sol.MissingQty...)
}
