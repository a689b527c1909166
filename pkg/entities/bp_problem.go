package entities

import (
	"time"

	"github.com/jagua-go/packing/pkg/cde"
)

// BPProblem is the bin-packing variant: several bin templates with finite
// stock, any number of simultaneously active layouts.
type BPProblem struct {
	problemCore
	binStock map[int]int // remaining stock per bin template id
}

// NewBPProblem builds a bin-packing problem over instance, whose Kind must
// be BPInstanceKind.
func NewBPProblem(instance *Instance, cfg cde.EngineConfig, clock func() time.Time) *BPProblem {
	stock := make(map[int]int, len(instance.Bins))
	for _, b := range instance.Bins {
		stock[b.ID] = b.Stock
	}
	return &BPProblem{problemCore: newProblemCore(instance, cfg, clock), binStock: stock}
}

// TemplateLayoutForBin returns a freshly built, uncommitted layout for the
// given bin template — useful for an optimizer to test candidate placements
// before calling PlaceItem, without consuming stock or touching active state.
func (p *BPProblem) TemplateLayoutForBin(binID int) (*Layout, error) {
	bin := p.instance.BinByID(binID)
	if bin == nil {
		return nil, binNotFoundErr(binID)
	}
	return p.newLayout(bin), nil
}

// PlaceItem implements Problem.
func (p *BPProblem) PlaceItem(option PlacingOption) (PlacedItemUID, int, error) {
	item := p.instance.ItemByID(option.ItemID)
	if item == nil {
		return 0, 0, itemNotFoundErr(option.ItemID)
	}
	if idx := p.instance.ItemIndex(option.ItemID); idx < 0 || p.missingQty[idx] <= 0 {
		return 0, 0, quantityExhaustedErr(option.ItemID)
	}

	layoutIndex := option.LayoutIndex
	var newBin *Bin
	if layoutIndex == NewLayoutIndex {
		bin := p.instance.BinByID(option.BinID)
		if bin == nil {
			return 0, 0, binNotFoundErr(option.BinID)
		}
		remaining, ok := p.binStock[option.BinID]
		if ok && bin.Stock != UnboundedStock && remaining <= 0 {
			return 0, 0, noStockErr(option.BinID)
		}
		p.activeLayouts = append(p.activeLayouts, p.newLayout(bin))
		layoutIndex = len(p.activeLayouts) - 1
		if bin.Stock != UnboundedStock {
			p.binStock[option.BinID]--
		}
		newBin = bin
	}
	if layoutIndex < 0 || layoutIndex >= len(p.activeLayouts) {
		return 0, 0, layoutIndexErr(layoutIndex)
	}
	undoNewLayout := func() {
		if newBin == nil {
			return
		}
		p.activeLayouts = p.activeLayouts[:layoutIndex]
		if newBin.Stock != UnboundedStock {
			p.binStock[option.BinID]++
		}
	}

	uid, err := p.activeLayouts[layoutIndex].Place(item, option.Transformation)
	if err != nil {
		undoNewLayout()
		return 0, 0, err
	}
	if err := p.decrementMissing(option.ItemID); err != nil {
		// Should not happen: already checked above, but keep placement and
		// bookkeeping atomic by undoing the layout mutation on failure.
		_ = p.activeLayouts[layoutIndex].Remove(uid)
		undoNewLayout()
		return 0, 0, err
	}
	return uid, layoutIndex, nil
}

// RemoveItem implements Problem. If the targeted layout becomes empty, its
// bin's stock is returned and the layout is dropped from the active set.
func (p *BPProblem) RemoveItem(layoutIndex int, uid PlacedItemUID) error {
	if layoutIndex < 0 || layoutIndex >= len(p.activeLayouts) {
		return layoutIndexErr(layoutIndex)
	}
	layout := p.activeLayouts[layoutIndex]

	var itemID int
	found := false
	for _, pi := range layout.PlacedItems() {
		if pi.UID == uid {
			itemID, found = pi.ItemID, true
			break
		}
	}
	if !found {
		return uidNotFoundErr(uid)
	}

	if err := layout.Remove(uid); err != nil {
		return err
	}
	p.incrementMissing(itemID)

	if layout.IsEmpty() {
		binID := layout.Bin.ID
		if layout.Bin.Stock != UnboundedStock {
			p.binStock[binID]++
		}
		p.activeLayouts = append(p.activeLayouts[:layoutIndex], p.activeLayouts[layoutIndex+1:]...)
	}
	return nil
}

// UsedBinValue sums the material value of every bin backing an active layout.
func (p *BPProblem) UsedBinValue() float64 {
	var total float64
	for _, l := range p.activeLayouts {
		total += l.Bin.Value
	}
	return total
}

// RemainingStock returns the remaining stock for a bin template.
func (p *BPProblem) RemainingStock(binID int) int {
	return p.binStock[binID]
}

// MinUsageLayoutIndex returns the index of the active layout with the
// lowest usage fraction, or -1 if there are no active layouts — support for
// a "remove the least-utilized bin" heuristic.
func (p *BPProblem) MinUsageLayoutIndex() int {
	best := -1
	bestUsage := 0.0
	for i, l := range p.activeLayouts {
		u := l.Usage()
		if best < 0 || u < bestUsage {
			best, bestUsage = i, u
		}
	}
	return best
}

// CreateSolution implements Problem.
func (p *BPProblem) CreateSolution(previous *Solution) *Solution {
	return buildSolution(&p.problemCore, previous, cloneIntMap(p.binStock))
}

// RestoreToSolution implements Problem.
func (p *BPProblem) RestoreToSolution(sol *Solution) {
	p.activeLayouts = nil
	for _, ls := range sol.Layouts {
		bin := p.instance.BinByID(ls.BinID)
		if bin == nil {
			continue
		}
		layout := p.newLayout(bin)
		layout.Restore(ls)
		p.activeLayouts = append(p.activeLayouts, layout)
	}
	p.missingQty = append([]int(nil), sol.MissingQty...)
	p.binStock = cloneIntMap(sol.RemainingBinStock)
}

func cloneIntMap(m map[int]int) map[int]int {
	out := make(map[int]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
