package entities

import "time"

// Solution is an immutable snapshot of a problem's placement state.
type Solution struct {
	ID                uint64
	Layouts           []LayoutSnapshot
	TargetQty         []int
	MissingQty        []int
	RemainingBinStock map[int]int // nil for strip packing
	Usage             float64
	Timestamp         time.Time
}

// IsComplete reports whether every item's demand has been fully placed.
func (s *Solution) IsComplete() bool {
	for _, m := range s.MissingQty {
		if m > 0 {
			return false
		}
	}
	return true
}

// Completeness returns the fraction of total demand satisfied, in [0,1].
func (s *Solution) Completeness() float64 {
	var target, missing int
	for i, t := range s.TargetQty {
		target += t
		missing += s.MissingQty[i]
	}
	if target == 0 {
		return 1
	}
	return float64(target-missing) / float64(target)
}

// IsBestPossible reports whether no further placement could possibly
// improve the solution: either it is already complete, or every bin
// template's stock is exhausted (bin packing) so no further layout could be
// materialized to receive a missing item. Strip packing can always grow
// further, so a non-complete strip solution is never considered best
// possible — this is a conservative approximation, not a proof of
// optimality.
func (s *Solution) IsBestPossible() bool {
	if s.IsComplete() {
		return true
	}
	if s.RemainingBinStock == nil {
		return false // strip packing: growing the strip is always an option
	}
	for _, remaining := range s.RemainingBinStock {
		if remaining != 0 {
			return false
		}
	}
	return true
}

func buildSolution(core *problemCore, previous *Solution, binStock map[int]int) *Solution {
	layouts := make([]LayoutSnapshot, len(core.activeLayouts))
	var placedArea, binArea float64
	for i, l := range core.activeLayouts {
		layouts[i] = l.Snapshot()
		for _, pi := range l.PlacedItems() {
			placedArea += pi.TransformedShape.Area()
		}
		binArea += l.Bin.Shape.Area()
	}
	usage := 0.0
	if binArea > 0 {
		usage = placedArea / binArea
	}

	id := core.solutionCounter
	core.solutionCounter++
	if previous != nil && previous.ID >= id {
		id = previous.ID + 1
		core.solutionCounter = id + 1
	}

	return &Solution{
		ID:                id,
		Layouts:           layouts,
		TargetQty:         append([]int(nil), core.instance.TargetQty...),
		MissingQty:        append([]int(nil), core.missingQty...),
		RemainingBinStock: binStock,
		Usage:             usage,
		Timestamp:         core.clock(),
	}
}
