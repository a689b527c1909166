package geo

import "math"

// AARectangle is an axis-aligned rectangle, invariant XMin<=XMax, YMin<=YMax.
type AARectangle struct {
	XMin, YMin, XMax, YMax float64
}

// NewAARectangle builds a rectangle, normalizing min/max order.
func NewAARectangle(xMin, yMin, xMax, yMax float64) AARectangle {
	if xMin > xMax {
		xMin, xMax = xMax, xMin
	}
	if yMin > yMax {
		yMin, yMax = yMax, yMin
	}
	return AARectangle{xMin, yMin, xMax, yMax}
}

func (r AARectangle) Width() float64  { return r.XMax - r.XMin }
func (r AARectangle) Height() float64 { return r.YMax - r.YMin }

func (r AARectangle) Bbox() AARectangle { return r }

func (r AARectangle) Centroid() Point {
	return Point{(r.XMin + r.XMax) / 2, (r.YMin + r.YMax) / 2}
}

func (r AARectangle) Area() float64 {
	return r.Width() * r.Height()
}

// Diameter returns the length of the rectangle's diagonal.
func (r AARectangle) Diameter() float64 {
	return math.Hypot(r.Width(), r.Height())
}

func (r AARectangle) CollidesWithPoint(p Point) bool {
	return p.X >= r.XMin && p.X <= r.XMax && p.Y >= r.YMin && p.Y <= r.YMax
}

// Overlaps reports whether two rectangles share any area or border.
func (r AARectangle) Overlaps(o AARectangle) bool {
	return r.XMin <= o.XMax && r.XMax >= o.XMin && r.YMin <= o.YMax && r.YMax >= o.YMin
}

// DistanceFromBorder returns whether p is inside the rectangle and the
// unsigned distance from p to the nearest edge of the rectangle.
func (r AARectangle) DistanceFromBorder(p Point) (GeoPosition, float64) {
	if r.CollidesWithPoint(p) {
		d := math.Min(math.Min(p.X-r.XMin, r.XMax-p.X), math.Min(p.Y-r.YMin, r.YMax-p.Y))
		return Interior, d
	}
	dx := math.Max(math.Max(r.XMin-p.X, p.X-r.XMax), 0)
	dy := math.Max(math.Max(r.YMin-p.Y, p.Y-r.YMax), 0)
	return Exterior, math.Hypot(dx, dy)
}

// InflateToSquare grows the rectangle to a square sharing the same centroid,
// with side equal to the larger of width/height.
func (r AARectangle) InflateToSquare() AARectangle {
	side := math.Max(r.Width(), r.Height())
	c := r.Centroid()
	half := side / 2
	return AARectangle{c.X - half, c.Y - half, c.X + half, c.Y + half}
}

// Quadrants splits the rectangle into four equal quadrants: SW, SE, NW, NE.
func (r AARectangle) Quadrants() [4]AARectangle {
	c := r.Centroid()
	return [4]AARectangle{
		{r.XMin, r.YMin, c.X, c.Y}, // SW
		{c.X, r.YMin, r.XMax, c.Y}, // SE
		{r.XMin, c.Y, c.X, r.YMax}, // NW
		{c.X, c.Y, r.XMax, r.YMax}, // NE
	}
}

// Inflate grows the rectangle by margin on every side.
func (r AARectangle) Inflate(margin float64) AARectangle {
	return AARectangle{r.XMin - margin, r.YMin - margin, r.XMax + margin, r.YMax + margin}
}

// Union returns the smallest rectangle containing both r and o.
func (r AARectangle) Union(o AARectangle) AARectangle {
	return AARectangle{
		XMin: math.Min(r.XMin, o.XMin),
		YMin: math.Min(r.YMin, o.YMin),
		XMax: math.Max(r.XMax, o.XMax),
		YMax: math.Max(r.YMax, o.YMax),
	}
}
