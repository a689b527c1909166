// Command packer is a CLI wrapper around the JSON I/O and placement
// packages: read an instance, run a first-fit placement driver, and emit a
// solution.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/jagua-go/packing/pkg/cde"
	"github.com/jagua-go/packing/pkg/config"
	"github.com/jagua-go/packing/pkg/entities"
	"github.com/jagua-go/packing/pkg/geo"
	"github.com/jagua-go/packing/pkg/jsonio"
	"github.com/jagua-go/packing/pkg/observability"
	"github.com/jagua-go/packing/pkg/packerr"
)

const version = "0.1.0"

// newLogger builds a stderr logger at the level named by PACKER_LOG_LEVEL
// (default INFO), matching the rest of the config surface's PACKER_* knobs.
func newLogger() *observability.Logger {
	level := observability.INFO
	if v := os.Getenv("PACKER_LOG_LEVEL"); v != "" {
		level = observability.ParseLogLevel(v)
	}
	return observability.NewLogger(level, os.Stderr)
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "pack":
		handlePack(os.Args[2:])
	case "inspect":
		handleInspect(os.Args[2:])
	case "version":
		fmt.Printf("packer version %s\n", version)
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		showUsage()
		os.Exit(1)
	}
}

func handlePack(args []string) {
	fs := flag.NewFlagSet("pack", flag.ExitOnError)
	var (
		inPath  = fs.String("in", "", "input JSON instance file (default: stdin)")
		outPath = fs.String("out", "", "output JSON solution file (default: stdout)")
	)
	fs.Parse(args)

	logger := newLogger()
	metrics := observability.NewMetrics()

	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ji, err := readInstance(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading instance: %v\n", err)
		os.Exit(1)
	}

	parser := jsonio.NewParser(cfg).WithObservability(logger, metrics)
	instance, err := parser.Parse(ji)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parsing instance: %v\n", err)
		os.Exit(1)
	}

	placementLogger := observability.NewPlacementLogger(logger)

	epoch := time.Now()
	sol, err := runFirstFit(instance, cfg, func() time.Time { return epoch }, metrics, placementLogger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "packing: %v\n", err)
		os.Exit(1)
	}
	metrics.RecordSolution(sol.Usage)
	metrics.UpdateLayoutsActive(len(sol.Layouts))

	out := jsonio.ComposeSolution(sol, instance, epoch)
	if err := writeSolution(*outPath, out); err != nil {
		fmt.Fprintf(os.Stderr, "writing solution: %v\n", err)
		os.Exit(1)
	}

	logger.Info("pack complete", map[string]interface{}{
		"completeness": sol.Completeness(),
		"usage":        sol.Usage,
		"layouts":      len(sol.Layouts),
	})
	fmt.Fprintf(os.Stderr, "placed %.1f%% of demand, usage %.1f%%\n", sol.Completeness()*100, sol.Usage*100)
}

func handleInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	inPath := fs.String("in", "", "input JSON instance file (default: stdin)")
	fs.Parse(args)

	cfg := config.Defaults()
	ji, err := readInstance(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading instance: %v\n", err)
		os.Exit(1)
	}
	parser := jsonio.NewParser(cfg)
	instance, err := parser.Parse(ji)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parsing instance: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("name:          %s\n", ji.Name)
	fmt.Printf("items:         %d (total demand %d)\n", len(instance.Items), instance.TotalDemand())
	switch instance.Kind {
	case entities.BPInstanceKind:
		fmt.Printf("mode:          bin packing\n")
		fmt.Printf("bin templates: %d\n", len(instance.Bins))
		for _, b := range instance.Bins {
			fmt.Printf("  bin %d: area=%.2f holes=%d zones=%d stock=%d\n", b.ID, b.Shape.Area(), len(b.Holes), len(b.Zones), b.Stock)
		}
	case entities.SPInstanceKind:
		fmt.Printf("mode:          strip packing\n")
		fmt.Printf("strip height:  %.2f\n", instance.StripHeight)
		fmt.Printf("initial width: %.2f\n", instance.StripInitialWidth)
	}
}

func readInstance(path string) (*jsonio.JsonInstance, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var ji jsonio.JsonInstance
	if err := json.NewDecoder(r).Decode(&ji); err != nil {
		return nil, packerr.Wrap(packerr.InvalidInput, "decoding instance JSON", err)
	}
	return &ji, nil
}

func writeSolution(path string, sol jsonio.JsonSolution) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sol)
}

// runFirstFit expands each item's demand into individual placement jobs,
// sorted largest-area first, and greedily places each into the first
// container position a coarse grid scan finds collision-free. It is a
// deliberately simple driver: no backtracking, no rotation search beyond
// the item's allowed angles, and no guarantee of completeness — it exists
// to exercise the Problem/Layout/CDE pipeline end to end, not to compete
// with a real packing optimizer.
func runFirstFit(instance *entities.Instance, cfg config.Config, clock func() time.Time, metrics *observability.Metrics, placementLogger *observability.PlacementLogger) (*entities.Solution, error) {
	engineCfg := deriveEngineConfig(cfg, instance)

	switch instance.Kind {
	case entities.BPInstanceKind:
		return packBins(instance, engineCfg, clock, metrics, placementLogger)
	case entities.SPInstanceKind:
		return packStrip(instance, engineCfg, clock, metrics, placementLogger)
	default:
		return nil, packerr.Newf(packerr.Internal, "unknown instance kind %d", instance.Kind)
	}
}

func deriveEngineConfig(cfg config.Config, instance *entities.Instance) cde.EngineConfig {
	var area float64
	switch instance.Kind {
	case entities.BPInstanceKind:
		for _, b := range instance.Bins {
			area += b.Shape.Area()
		}
		if len(instance.Bins) > 0 {
			area /= float64(len(instance.Bins))
		}
	case entities.SPInstanceKind:
		for i, it := range instance.Items {
			area += it.Shape.Area() * float64(instance.TargetQty[i])
		}
		area *= 1.5 // generous slack over raw item area for the strip's expected footprint
	}
	if area <= 0 {
		area = 1
	}
	res := cfg.CDE.ToEngineConfig(area)
	return cde.EngineConfig{QuadtreeMaxDepth: res.QuadtreeMaxDepth, HPGCellSize: res.HPGCellSize}
}

func demandJobs(instance *entities.Instance) []*entities.Item {
	var jobs []*entities.Item
	for i, it := range instance.Items {
		for q := 0; q < instance.TargetQty[i]; q++ {
			jobs = append(jobs, it)
		}
	}
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].Shape.Area() > jobs[j].Shape.Area()
	})
	return jobs
}

func rotationAngles(rot geo.AllowedRotation) []float64 {
	switch rot.Kind {
	case geo.RotationNone:
		return []float64{0}
	case geo.RotationDiscrete:
		if len(rot.Angles) == 0 {
			return []float64{0}
		}
		return rot.Angles
	default: // RotationContinuous: a first-fit driver only tries the identity angle
		return []float64{0}
	}
}

func placementStep(item *entities.Item) float64 {
	bbox := item.Shape.Bbox()
	step := bbox.Width()
	if bbox.Height() < step {
		step = bbox.Height()
	}
	step /= 2
	if step < 0.25 {
		step = 0.25
	}
	return step
}

// firstFitTransform places item's shape so its rotated bounding box's
// lower-left corner sits at (x, y).
func firstFitTransform(item *entities.Item, angle, x, y float64) geo.Transformation {
	rotate := geo.FromRotateTranslate(angle, geo.Point{})
	atOrigin := item.Shape.TransformClone(rotate)
	bbox := atOrigin.Bbox()
	translate := geo.FromRotateTranslate(0, geo.Point{X: x - bbox.XMin, Y: y - bbox.YMin})
	return rotate.Then(translate)
}

const boundsEpsilon = 1e-6

func tryPlaceInContainer(problem entities.Problem, layoutIndex, binID int, item *entities.Item, containerW, containerH float64, metrics *observability.Metrics) (bool, error) {
	step := placementStep(item)
	angles := rotationAngles(item.AllowedRotation)

	for y := 0.0; y <= containerH+boundsEpsilon; y += step {
		for x := 0.0; x <= containerW+boundsEpsilon; x += step {
			for _, angle := range angles {
				t := firstFitTransform(item, angle, x, y)
				shape := item.Shape.TransformClone(t)
				bbox := shape.Bbox()
				if bbox.XMin < -boundsEpsilon || bbox.YMin < -boundsEpsilon ||
					bbox.XMax > containerW+boundsEpsilon || bbox.YMax > containerH+boundsEpsilon {
					continue
				}
				attemptStart := time.Now()
				_, _, err := problem.PlaceItem(entities.PlacingOption{
					ItemID:         item.ID,
					LayoutIndex:    layoutIndex,
					BinID:          binID,
					Transformation: t,
				})
				if metrics != nil {
					if err == nil {
						metrics.RecordPlacement("accepted", time.Since(attemptStart))
					} else {
						metrics.RecordPlacement("rejected", time.Since(attemptStart))
					}
				}
				if err == nil {
					return true, nil
				}
				if kind, ok := packerr.KindOf(err); !ok || kind != packerr.Collision {
					return false, err
				}
				if metrics != nil {
					metrics.RecordRejection("exact_check")
				}
			}
		}
	}
	return false, nil
}

func packBins(instance *entities.Instance, engineCfg cde.EngineConfig, clock func() time.Time, metrics *observability.Metrics, placementLogger *observability.PlacementLogger) (*entities.Solution, error) {
	problem := entities.NewBPProblem(instance, engineCfg, clock)
	problem.WithPlacementLogger(placementLogger)

	for _, item := range demandJobs(instance) {
		placed := false
		for layoutIdx, layout := range problem.Layouts() {
			w, h := layout.Bin.Shape.Bbox().Width(), layout.Bin.Shape.Bbox().Height()
			ok, err := tryPlaceInContainer(problem, layoutIdx, layout.Bin.ID, item, w, h, metrics)
			if err != nil {
				return nil, err
			}
			if ok {
				placed = true
				break
			}
		}
		if placed {
			continue
		}
		for _, bin := range instance.Bins {
			remaining := problem.RemainingStock(bin.ID)
			if bin.Stock != entities.UnboundedStock && remaining <= 0 {
				continue
			}
			w, h := bin.Shape.Bbox().Width(), bin.Shape.Bbox().Height()
			ok, err := tryPlaceInContainer(problem, entities.NewLayoutIndex, bin.ID, item, w, h, metrics)
			if err != nil {
				return nil, err
			}
			if ok {
				break
			}
		}
	}
	if metrics != nil {
		metrics.UpdateLayoutsActive(len(problem.Layouts()))
	}
	return problem.CreateSolution(nil), nil
}

// stripGrowthFactor is how much the strip widens, relative to its current
// width, once an item fails to fit anywhere in it.
const stripGrowthFactor = 1.5

func packStrip(instance *entities.Instance, engineCfg cde.EngineConfig, clock func() time.Time, metrics *observability.Metrics, placementLogger *observability.PlacementLogger) (*entities.Solution, error) {
	problem, err := entities.NewSPProblem(instance, engineCfg, clock)
	if err != nil {
		return nil, err
	}
	problem.WithPlacementLogger(placementLogger)

	for _, item := range demandJobs(instance) {
		placed := false
		for attempt := 0; attempt < 8 && !placed; attempt++ {
			w, h := problem.Width(), instance.StripHeight
			ok, err := tryPlaceInContainer(problem, 0, 0, item, w, h, metrics)
			if err != nil {
				return nil, err
			}
			if ok {
				placed = true
				break
			}
			grown := w*stripGrowthFactor + item.Shape.Bbox().Width()
			if err := problem.GrowStrip(grown); err != nil {
				return nil, err
			}
		}
	}
	if metrics != nil {
		metrics.UpdateLayoutsActive(len(problem.Layouts()))
	}
	return problem.CreateSolution(nil), nil
}

func showUsage() {
	fmt.Println(`packer - collision-aware 2D irregular bin/strip packing CLI

Usage:
  packer <command> [options]

Commands:
  pack       Read a JSON instance, run the first-fit placement driver, write a JSON solution
  inspect    Read a JSON instance and print a summary (items, bins/strip, zones)
  version    Show version
  help       Show this help message

Pack options:
  -in PATH   Input instance JSON file (default: stdin)
  -out PATH  Output solution JSON file (default: stdout)

Inspect options:
  -in PATH   Input instance JSON file (default: stdin)

Configuration is read from PACKER_* environment variables (see pkg/config).

Examples:

  packer pack -in instance.json -out solution.json
  packer inspect -in instance.json
  cat instance.json | packer pack > solution.json`)
}
