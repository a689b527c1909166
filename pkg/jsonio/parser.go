package jsonio

import (
	"context"
	"runtime"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jagua-go/packing/pkg/config"
	"github.com/jagua-go/packing/pkg/entities"
	"github.com/jagua-go/packing/pkg/geo"
	"github.com/jagua-go/packing/pkg/observability"
	"github.com/jagua-go/packing/pkg/packerr"
)

// Parser converts a JsonInstance into an entities.Instance, building each
// item's and bin's geometry (and surrogate) over a bounded worker pool.
type Parser struct {
	cfg            config.Config
	surrogateCfg   geo.SurrogateConfig
	surrogateLimit *rate.Limiter // nil when unlimited

	logger  *observability.Logger
	metrics *observability.Metrics
}

// WithObservability attaches a logger and metrics instance the parser
// records parse duration, per-kind errors and surrogate builds against.
// Both are optional; either may be nil.
func (p *Parser) WithObservability(logger *observability.Logger, metrics *observability.Metrics) *Parser {
	p.logger = logger
	p.metrics = metrics
	return p
}

// NewParser builds a Parser from cfg.
func NewParser(cfg config.Config) *Parser {
	p := &Parser{
		cfg: cfg,
		surrogateCfg: geo.SurrogateConfig{
			MaxPoles:       cfg.CDE.MaxPoles,
			CoverageGoal:   cfg.CDE.PoleCoverageGoal,
			NFailFastPoles: cfg.CDE.NFailFastPoles,
			NFailFastPiers: cfg.CDE.NFailFastPiers,
		},
	}
	if cfg.JSONIO.MaxSurrogateBuildRate > 0 {
		p.surrogateLimit = rate.NewLimiter(rate.Limit(cfg.JSONIO.MaxSurrogateBuildRate), 1)
	}
	return p
}

func (p *Parser) workerCount() int {
	if p.cfg.JSONIO.Workers > 0 {
		return p.cfg.JSONIO.Workers
	}
	return runtime.NumCPU()
}

// Parse converts ji into an Instance. Item and bin geometry/surrogate
// construction runs concurrently across a bounded worker pool, mirroring
// the one-goroutine-per-job-channel idiom used elsewhere for bulk work;
// each job writes to its own preallocated output slot so no further
// synchronization is needed to preserve input order.
func (p *Parser) Parse(ji *JsonInstance) (inst *entities.Instance, err error) {
	start := time.Now()
	defer func() {
		if p.metrics != nil {
			p.metrics.RecordParse(time.Since(start))
			if err != nil {
				if kind, ok := packerr.KindOf(err); ok {
					p.metrics.RecordParseError(kind.String())
				} else {
					p.metrics.RecordParseError("internal")
				}
			}
		}
		if p.logger != nil {
			if err != nil {
				p.logger.Warn("parse failed", map[string]interface{}{"name": ji.Name, "error": err.Error()})
			} else {
				p.logger.Info("parsed instance", map[string]interface{}{"name": ji.Name, "items": len(inst.Items)})
			}
		}
	}()

	if (ji.Bins == nil) == (ji.Strip == nil) {
		return nil, packerr.New(packerr.InvalidInput, "exactly one of bins or strip must be present")
	}

	items := make([]*entities.Item, len(ji.Items))
	targetQty := make([]int, len(ji.Items))
	itemErrs := make([]error, len(ji.Items))
	p.runPool(len(ji.Items), func(i int) {
		item, qty, err := p.parseItem(i, ji.Items[i])
		items[i], targetQty[i], itemErrs[i] = item, qty, err
	})
	for _, err := range itemErrs {
		if err != nil {
			return nil, err
		}
	}

	if ji.Strip != nil {
		var width float64
		if len(ji.Bins) == 0 {
			// No initial strip width hint in the schema beyond items: start
			// from the widest item's bounding box, matching the common
			// lower-bound-feasible first-fit driver.
			for _, it := range items {
				if w := it.Shape.Bbox().Width(); w > width {
					width = w
				}
			}
		}
		return entities.NewSPInstance(items, targetQty, ji.Strip.Height, width), nil
	}

	bins := make([]*entities.Bin, len(ji.Bins))
	binErrs := make([]error, len(ji.Bins))
	p.runPool(len(ji.Bins), func(i int) {
		bin, err := p.parseBin(i, ji.Bins[i])
		bins[i], binErrs[i] = bin, err
	})
	for _, err := range binErrs {
		if err != nil {
			return nil, err
		}
	}

	return entities.NewBPInstance(items, targetQty, bins), nil
}

// runPool runs fn(i) for i in [0,n) across a bounded worker pool.
func (p *Parser) runPool(n int, fn func(i int)) {
	if n == 0 {
		return
	}
	workers := p.workerCount()
	if workers > n {
		workers = n
	}
	jobs := make(chan int, n)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

func (p *Parser) parseItem(id int, ji JsonItem) (*entities.Item, int, error) {
	if ji.Shape == nil {
		return nil, 0, packerr.New(packerr.InvalidInput, "item has no shape")
	}
	shape, err := p.convertShape(ji.Shape, geo.SimplifyInflate)
	if err != nil {
		return nil, 0, err
	}

	value := 0.0
	if ji.Value != nil {
		value = *ji.Value
	}
	baseQuality := entities.NoQualityFilter
	if ji.BaseQuality != nil {
		baseQuality = *ji.BaseQuality
	}
	rotation := allowedRotationOf(ji.AllowedOrientations)

	item := entities.NewItem(id, shape, rotation, baseQuality, value, p.cfg.JSONIO.CenterPolygons)
	if err := p.buildSurrogate(item.Shape); err != nil {
		return nil, 0, err
	}
	return item, ji.Demand, nil
}

func (p *Parser) parseBin(id int, jb JsonBin) (*entities.Bin, error) {
	if jb.Shape == nil {
		return nil, packerr.New(packerr.InvalidInput, "bin has no shape")
	}
	outer, err := p.convertShape(jb.Shape, geo.SimplifyDeflate)
	if err != nil {
		return nil, err
	}

	var holes []entities.Hole
	if jb.Shape.Kind == ShapePolygon {
		for i, innerRing := range jb.Shape.PolyInner {
			holeShape := JsonShape{Kind: ShapeSimplePolygon, Outer: innerRing}
			hole, err := p.convertShape(&holeShape, geo.SimplifyInflate)
			if err != nil {
				return nil, err
			}
			holes = append(holes, entities.Hole{ID: i, Shape: hole})
		}
	}

	var zones []entities.Zone
	for i, jz := range jb.Zones {
		if jz.Quality < 0 {
			return nil, packerr.Newf(packerr.InvalidInput, "zone quality %d must be >= 0", jz.Quality)
		}
		zoneShape, err := p.convertShape(&jz.Shape, geo.SimplifyInflate)
		if err != nil {
			return nil, err
		}
		zones = append(zones, entities.Zone{ID: i, Quality: jz.Quality, Shape: zoneShape})
	}

	stock := entities.UnboundedStock
	if jb.Stock != nil {
		stock = *jb.Stock
	}
	value := outer.Area()
	for _, h := range holes {
		value -= h.Shape.Area()
	}

	return entities.NewBin(id, outer, holes, zones, stock, value, p.cfg.JSONIO.CenterPolygons), nil
}

// convertShape builds a *geo.SimplePolygon from a JsonShape, applying the
// optional simplification pre-pass in the given direction. Rectangle and
// MultiPolygon never pass through simplification: a rectangle is already a
// minimal-vertex shape, and MultiPolygon is rejected outright.
func (p *Parser) convertShape(js *JsonShape, mode geo.SimplifyMode) (*geo.SimplePolygon, error) {
	switch js.Kind {
	case ShapeRectangle:
		return geo.NewRectanglePolygon(js.Width, js.Height)
	case ShapeSimplePolygon:
		points := stripClosingVertex(js.Outer)
		shape, err := geo.NewSimplePolygon(points)
		if err != nil {
			return nil, err
		}
		return p.maybeSimplify(shape, mode)
	case ShapePolygon:
		points := stripClosingVertex(js.PolyOuter)
		shape, err := geo.NewSimplePolygon(points)
		if err != nil {
			return nil, err
		}
		return p.maybeSimplify(shape, mode)
	case ShapeMultiPolygon:
		return nil, packerr.New(packerr.InvalidInput, "MultiPolygon shapes are not supported")
	default:
		return nil, packerr.Newf(packerr.InvalidInput, "unknown shape kind %d", js.Kind)
	}
}

func (p *Parser) maybeSimplify(shape *geo.SimplePolygon, mode geo.SimplifyMode) (*geo.SimplePolygon, error) {
	if p.cfg.PolySimpl.Mode == config.SimplificationDisabled {
		return shape, nil
	}
	wantMode := geo.SimplifyInflate
	if p.cfg.PolySimpl.Mode == config.SimplificationDeflate {
		wantMode = geo.SimplifyDeflate
	}
	if wantMode != mode {
		return shape, nil
	}
	return geo.Simplify(shape, mode, p.cfg.PolySimpl.Tolerance)
}

func (p *Parser) buildSurrogate(shape *geo.SimplePolygon) error {
	if p.surrogateLimit != nil {
		if err := p.surrogateLimit.Wait(context.Background()); err != nil {
			return packerr.Wrap(packerr.Internal, "surrogate build rate limiter", err)
		}
	}
	if err := shape.GenerateSurrogate(p.surrogateCfg); err != nil {
		return err
	}
	if p.metrics != nil {
		p.metrics.RecordSurrogateBuild(len(shape.Surrogate().Poles))
	}
	return nil
}

func stripClosingVertex(points [][2]float64) []geo.Point {
	n := len(points)
	if n > 1 && points[0] == points[n-1] {
		n--
	}
	out := make([]geo.Point, n)
	for i := 0; i < n; i++ {
		out[i] = geo.Point{X: points[i][0], Y: points[i][1]}
	}
	return out
}

func allowedRotationOf(degrees []float64) geo.AllowedRotation {
	if degrees == nil {
		return geo.ContinuousRotation()
	}
	if len(degrees) == 0 || (len(degrees) == 1 && degrees[0] == 0) {
		return geo.NoRotation()
	}
	radians := make([]float64, len(degrees))
	for i, d := range degrees {
		radians[i] = d * (3.141592653589793 / 180)
	}
	return geo.DiscreteRotation(radians)
}
