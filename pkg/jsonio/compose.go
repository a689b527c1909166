package jsonio

import (
	"time"

	"github.com/jagua-go/packing/pkg/cde"
	"github.com/jagua-go/packing/pkg/entities"
	"github.com/jagua-go/packing/pkg/geo"
	"github.com/jagua-go/packing/pkg/packerr"
)

// internalToAbsolute implements T_abs = item.pretransform . T_int . bin.pretransform^-1.
func internalToAbsolute(internal, itemPretransform, binPretransform geo.Transformation) geo.Transformation {
	return itemPretransform.Then(internal).Then(binPretransform.Inverse())
}

// absoluteToInternal implements T_int = item.pretransform^-1 . T_abs . bin.pretransform.
func absoluteToInternal(abs, itemPretransform, binPretransform geo.Transformation) geo.Transformation {
	return itemPretransform.Inverse().Then(abs).Then(binPretransform)
}

// ComposeSolution converts a solved Solution into the wire JsonSolution,
// applying the exact transformation-boundary math at every placed item.
func ComposeSolution(sol *entities.Solution, instance *entities.Instance, epoch time.Time) JsonSolution {
	layouts := make([]JsonLayout, len(sol.Layouts))
	for i, snap := range sol.Layouts {
		layouts[i] = composeLayout(snap, instance)
	}
	return JsonSolution{
		Usage:      sol.Usage,
		RunTimeSec: sol.Timestamp.Sub(epoch).Seconds(),
		Layouts:    layouts,
	}
}

func composeLayout(snap entities.LayoutSnapshot, instance *entities.Instance) JsonLayout {
	bin := instance.BinByID(snap.BinID)

	var container JsonContainer
	var usage float64
	if instance.Kind == entities.SPInstanceKind {
		container = JsonContainer{Kind: ContainerStrip, Width: bin.Shape.Bbox().Width(), Height: instance.StripHeight}
	} else {
		container = JsonContainer{Kind: ContainerBin, Index: bin.ID}
	}

	var placedArea float64
	placedItems := make([]JsonPlacedItem, len(snap.PlacedItems))
	for i, pi := range snap.PlacedItems {
		item := instance.ItemByID(pi.ItemID)
		abs := internalToAbsolute(pi.Transformation, item.Pretransform, bin.Pretransform).Decompose()
		placedItems[i] = JsonPlacedItem{
			Index: pi.ItemID,
			Transformation: JsonTransformation{
				Rotation:    abs.Rotation,
				Translation: [2]float64{abs.Translation.X, abs.Translation.Y},
			},
		}
		placedArea += pi.TransformedShape.Area()
	}
	if bin.Shape.Area() > 0 {
		usage = placedArea / bin.Shape.Area()
	}

	return JsonLayout{
		Container:   container,
		PlacedItems: placedItems,
		Statistics:  JsonLayoutStats{Usage: usage},
	}
}

// BuildSolutionFromJSON re-derives a Solution by replaying each json layout's
// placements against a freshly built Problem. Replayed placements are
// expected to be collision-free (they came from a previously valid
// solution); any collision surfaces as an error rather than being silently
// dropped, since it indicates the JSON solution does not match instance.
func BuildSolutionFromJSON(instance *entities.Instance, layouts []JsonLayout, cfg cde.EngineConfig, clock func() time.Time) (entities.Problem, *entities.Solution, error) {
	switch instance.Kind {
	case entities.BPInstanceKind:
		problem := entities.NewBPProblem(instance, cfg, clock)
		for _, jl := range layouts {
			if jl.Container.Kind != ContainerBin {
				return nil, nil, packerr.New(packerr.InvalidInput, "bin packing solution layout must reference a bin")
			}
			bin := instance.BinByID(jl.Container.Index)
			if bin == nil {
				return nil, nil, packerr.Newf(packerr.InvalidInput, "unknown bin index %d", jl.Container.Index)
			}
			if err := replayLayout(problem, entities.NewLayoutIndex, bin.ID, jl, instance, bin.Pretransform); err != nil {
				return nil, nil, err
			}
		}
		return problem, problem.CreateSolution(nil), nil

	case entities.SPInstanceKind:
		if len(layouts) != 1 {
			return nil, nil, packerr.Newf(packerr.InvalidInput, "strip packing solution must have exactly one layout, got %d", len(layouts))
		}
		jl := layouts[0]
		if jl.Container.Kind != ContainerStrip {
			return nil, nil, packerr.New(packerr.InvalidInput, "strip packing solution layout must reference a strip")
		}
		problem, err := entities.NewSPProblem(instance, cfg, clock)
		if err != nil {
			return nil, nil, err
		}
		if err := problem.GrowStrip(jl.Container.Width); err != nil {
			return nil, nil, err
		}
		if err := replayLayout(problem, 0, 0, jl, instance, geo.Identity()); err != nil {
			return nil, nil, err
		}
		return problem, problem.CreateSolution(nil), nil

	default:
		return nil, nil, packerr.Newf(packerr.Internal, "unknown instance kind %d", instance.Kind)
	}
}

func replayLayout(problem entities.Problem, layoutIndex, binID int, jl JsonLayout, instance *entities.Instance, binPretransform geo.Transformation) error {
	idx := layoutIndex
	for i, jpi := range jl.PlacedItems {
		item := instance.ItemByID(jpi.Index)
		if item == nil {
			return packerr.Newf(packerr.InvalidInput, "unknown item index %d", jpi.Index)
		}
		abs := geo.FromRotateTranslate(jpi.Transformation.Rotation, geo.Point{
			X: jpi.Transformation.Translation[0],
			Y: jpi.Transformation.Translation[1],
		})
		internal := absoluteToInternal(abs, item.Pretransform, binPretransform)

		option := entities.PlacingOption{
			ItemID:         item.ID,
			LayoutIndex:    idx,
			BinID:          binID,
			Transformation: internal,
		}
		_, placedLayoutIndex, err := problem.PlaceItem(option)
		if err != nil {
			return packerr.Wrap(packerr.Internal, "replaying placed item from solution", err)
		}
		if i == 0 {
			idx = placedLayoutIndex
		}
	}
	problem.FlushChanges()
	return nil
}
