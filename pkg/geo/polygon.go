package geo

import (
	"math"

	"github.com/jagua-go/packing/pkg/packerr"
)

// SimplePolygon is an ordered cycle of >= 3 points with no self-intersection
// and no duplicate consecutive points. Once constructed its geometry is
// immutable; bbox, area, centroid and PoI are cached at construction time,
// and the fail-fast Surrogate (additional poles) is rebuilt and replaced by
// each GenerateSurrogate call.
type SimplePolygon struct {
	points    []Point
	bbox      AARectangle
	area      float64
	centroid  Point
	poi       Circle
	surrogate Surrogate
}

// NewSimplePolygon validates and constructs a polygon, computing its PoI
// eagerly (a zero-pole surrogate, i.e. just the PoI, is set immediately;
// call GenerateSurrogate to add the fail-fast poles).
func NewSimplePolygon(points []Point) (*SimplePolygon, error) {
	if len(points) < 3 {
		return nil, packerr.Newf(packerr.InvalidInput, "polygon needs at least 3 points, got %d", len(points))
	}
	for i := range points {
		j := (i + 1) % len(points)
		if points[i] == points[j] {
			return nil, packerr.New(packerr.InvalidInput, "polygon has duplicate consecutive vertices")
		}
	}
	if points[0] == points[len(points)-1] {
		return nil, packerr.New(packerr.InvalidInput, "polygon's last vertex equals its first vertex")
	}
	if selfIntersects(points) {
		return nil, packerr.New(packerr.InvalidInput, "polygon self-intersects")
	}

	p := &SimplePolygon{points: append([]Point(nil), points...)}
	p.bbox = bboxOf(p.points)
	signedArea, centroid := signedAreaAndCentroid(p.points)
	p.area = math.Abs(signedArea)
	p.centroid = centroid

	poi, err := GenerateNextPole(p, nil)
	if err != nil {
		return nil, err
	}
	p.poi = poi
	p.surrogate = Surrogate{PoI: poi, Poles: []Circle{poi}, BoundingCircle: poi}
	return p, nil
}

// NewRectanglePolygon builds the simple polygon for an axis-aligned rectangle.
func NewRectanglePolygon(width, height float64) (*SimplePolygon, error) {
	return NewSimplePolygon([]Point{
		{0, 0}, {width, 0}, {width, height}, {0, height},
	})
}

func bboxOf(points []Point) AARectangle {
	r := AARectangle{XMin: math.MaxFloat64, YMin: math.MaxFloat64, XMax: -math.MaxFloat64, YMax: -math.MaxFloat64}
	for _, p := range points {
		r.XMin = math.Min(r.XMin, p.X)
		r.YMin = math.Min(r.YMin, p.Y)
		r.XMax = math.Max(r.XMax, p.X)
		r.YMax = math.Max(r.YMax, p.Y)
	}
	return r
}

// signedAreaAndCentroid computes the shoelace signed area and the polygon
// centroid (area-weighted, not vertex-average).
func signedAreaAndCentroid(points []Point) (float64, Point) {
	n := len(points)
	var area, cx, cy float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := points[i].X*points[j].Y - points[j].X*points[i].Y
		area += cross
		cx += (points[i].X + points[j].X) * cross
		cy += (points[i].Y + points[j].Y) * cross
	}
	area /= 2
	if area == 0 {
		// degenerate (zero-area) polygon: fall back to vertex average
		var sx, sy float64
		for _, p := range points {
			sx += p.X
			sy += p.Y
		}
		return 0, Point{sx / float64(n), sy / float64(n)}
	}
	cx /= 6 * area
	cy /= 6 * area
	return area, Point{cx, cy}
}

func selfIntersects(points []Point) bool {
	n := len(points)
	edges := make([]Edge, n)
	for i := 0; i < n; i++ {
		edges[i] = Edge{Start: points[i], End: points[(i+1)%n]}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if i == j || j == (i+1)%n || i == (j+1)%n {
				continue // adjacent edges legitimately share a vertex
			}
			if edges[i].Intersects(edges[j]) {
				return true
			}
		}
	}
	return false
}

// Points returns the polygon's vertices in order. Callers must not mutate
// the returned slice.
func (p *SimplePolygon) Points() []Point { return p.points }

func (p *SimplePolygon) Bbox() AARectangle { return p.bbox }
func (p *SimplePolygon) Centroid() Point   { return p.centroid }
func (p *SimplePolygon) Area() float64     { return p.area }
func (p *SimplePolygon) PoI() Circle       { return p.poi }
func (p *SimplePolygon) Surrogate() Surrogate {
	return p.surrogate
}

// Edges returns the polygon's edges in order, wrapping from the last vertex
// back to the first.
func (p *SimplePolygon) Edges() []Edge {
	n := len(p.points)
	edges := make([]Edge, n)
	for i := 0; i < n; i++ {
		edges[i] = Edge{Start: p.points[i], End: p.points[(i+1)%n]}
	}
	return edges
}

// CollidesWithPoint reports point-in-polygon using the standard even-odd
// ray casting rule.
func (p *SimplePolygon) CollidesWithPoint(point Point) bool {
	inside := false
	n := len(p.points)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := p.points[i], p.points[j]
		if (pi.Y > point.Y) != (pj.Y > point.Y) &&
			point.X < (pj.X-pi.X)*(point.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
	}
	return inside
}

// DistanceFromBorder returns whether point is inside the polygon, and the
// unsigned distance from point to the nearest edge.
func (p *SimplePolygon) DistanceFromBorder(point Point) (GeoPosition, float64) {
	min := math.MaxFloat64
	for _, e := range p.Edges() {
		if d := e.Distance(point); d < min {
			min = d
		}
	}
	if p.CollidesWithPoint(point) {
		return Interior, min
	}
	return Exterior, min
}

// TransformClone applies t to every vertex and to the cached PoI/surrogate
// poles (valid because rotation+translation preserves distances), returning
// a new, independent polygon. The source polygon is left untouched.
func (p *SimplePolygon) TransformClone(t Transformation) *SimplePolygon {
	newPoints := make([]Point, len(p.points))
	for i, pt := range p.points {
		newPoints[i] = t.Apply(pt)
	}
	newPoi := Circle{Center: t.Apply(p.poi.Center), Radius: p.poi.Radius}
	newPoles := make([]Circle, len(p.surrogate.Poles))
	for i, c := range p.surrogate.Poles {
		newPoles[i] = Circle{Center: t.Apply(c.Center), Radius: c.Radius}
	}
	newBounding := Circle{Center: t.Apply(p.surrogate.BoundingCircle.Center), Radius: p.surrogate.BoundingCircle.Radius}

	return &SimplePolygon{
		points:   newPoints,
		bbox:     bboxOf(newPoints),
		area:     p.area,
		centroid: t.Apply(p.centroid),
		poi:      newPoi,
		surrogate: Surrogate{
			PoI:            newPoi,
			Poles:          newPoles,
			BoundingCircle: newBounding,
		},
	}
}

// CenterAroundCentroid returns a copy of the polygon translated so its
// centroid sits at the origin, plus the transformation that recovers the
// original placement (the polygon's "pretransform").
func (p *SimplePolygon) CenterAroundCentroid() (*SimplePolygon, Transformation) {
	pretransform := FromRotateTranslate(0, p.centroid)
	centered := p.TransformClone(FromRotateTranslate(0, Point{-p.centroid.X, -p.centroid.Y}))
	return centered, pretransform
}

// GenerateSurrogate computes the additional fail-fast poles (beyond the PoI)
// and their bounding circle, per cfg, and caches the result on the polygon.
func (p *SimplePolygon) GenerateSurrogate(cfg SurrogateConfig) error {
	additional, err := GenerateAdditionalSurrogatePoles(p, cfg.MaxPoles, cfg.CoverageGoal)
	if err != nil {
		return err
	}
	poles := make([]Circle, 0, len(additional)+1)
	poles = append(poles, p.poi)
	poles = append(poles, additional...)
	p.surrogate = Surrogate{
		PoI:            p.poi,
		Poles:          poles,
		BoundingCircle: boundingCircle(poles),
	}
	return nil
}
