package entities

import (
	"time"

	"github.com/jagua-go/packing/pkg/cde"
	"github.com/jagua-go/packing/pkg/observability"
)

// Problem is the common operation set shared by bin-packing and
// strip-packing problems: place, remove, snapshot, restore. Implemented by
// *BPProblem and *SPProblem; switch once at the boundary and stay
// monomorphic inside each branch rather than paying for dynamic dispatch in
// the placement hot path.
type Problem interface {
	PlaceItem(option PlacingOption) (PlacedItemUID, int, error)
	RemoveItem(layoutIndex int, uid PlacedItemUID) error
	Layouts() []*Layout
	MissingQty() []int
	IncludedItemQtys() []int
	UsedBinValue() float64
	CreateSolution(previous *Solution) *Solution
	RestoreToSolution(sol *Solution)
	FlushChanges()
}

// problemCore is the state shared by both problem variants.
type problemCore struct {
	instance        *Instance
	missingQty      []int
	activeLayouts   []*Layout
	engineCfg       cde.EngineConfig
	solutionCounter uint64
	clock           func() time.Time

	placementLogger *observability.PlacementLogger
}

func newProblemCore(instance *Instance, cfg cde.EngineConfig, clock func() time.Time) problemCore {
	missing := append([]int(nil), instance.TargetQty...)
	if clock == nil {
		clock = time.Now
	}
	return problemCore{instance: instance, missingQty: missing, engineCfg: cfg, clock: clock}
}

// newLayout builds a layout over bin, wiring in the core's placement
// logger (if any) so every Place call on it is observable the same way
// regardless of which code path created the layout.
func (c *problemCore) newLayout(bin *Bin) *Layout {
	return NewLayout(bin, c.engineCfg).WithPlacementLogger(c.placementLogger)
}

// WithPlacementLogger attaches a placement logger every layout this problem
// creates (now or later, including ones opened on demand as stock is used)
// records its Place outcomes against. Optional; nil disables logging.
func (c *problemCore) WithPlacementLogger(pl *observability.PlacementLogger) {
	c.placementLogger = pl
	for _, l := range c.activeLayouts {
		l.WithPlacementLogger(pl)
	}
}

func (c *problemCore) Layouts() []*Layout { return c.activeLayouts }

func (c *problemCore) MissingQty() []int { return c.missingQty }

// IncludedItemQtys returns, per item (in instance.Items order), how many
// have actually been placed so far: target minus missing.
func (c *problemCore) IncludedItemQtys() []int {
	included := make([]int, len(c.missingQty))
	for i, missing := range c.missingQty {
		included[i] = c.instance.TargetQty[i] - missing
	}
	return included
}

func (c *problemCore) decrementMissing(itemID int) error {
	idx := c.instance.ItemIndex(itemID)
	if idx < 0 {
		return itemNotFoundErr(itemID)
	}
	if c.missingQty[idx] <= 0 {
		return quantityExhaustedErr(itemID)
	}
	c.missingQty[idx]--
	return nil
}

func (c *problemCore) incrementMissing(itemID int) {
	idx := c.instance.ItemIndex(itemID)
	if idx < 0 {
		return
	}
	c.missingQty[idx]++
}

func (c *problemCore) FlushChanges() {
	for _, l := range c.activeLayouts {
		l.engine.FlushChanges()
	}
}
