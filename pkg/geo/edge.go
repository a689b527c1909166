package geo

import "math"

// Edge is an ordered pair of points: a line segment from Start to End.
type Edge struct {
	Start, End Point
}

// Vector returns End-Start.
func (e Edge) Vector() Point {
	return e.End.Sub(e.Start)
}

// Length returns the Euclidean length of the edge.
func (e Edge) Length() float64 {
	return Dist(e.Start, e.End)
}

// Distance returns the shortest distance from p to the segment (not the
// infinite line through it).
func (e Edge) Distance(p Point) float64 {
	v := e.Vector()
	lenSq := v.X*v.X + v.Y*v.Y
	if lenSq == 0 {
		return Dist(e.Start, p)
	}
	t := ((p.X-e.Start.X)*v.X + (p.Y-e.Start.Y)*v.Y) / lenSq
	t = math.Max(0, math.Min(1, t))
	proj := Point{e.Start.X + t*v.X, e.Start.Y + t*v.Y}
	return Dist(proj, p)
}

// cross computes the 2D cross product of (b-a) and (c-a).
func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// Intersects reports whether two segments intersect (sharing an endpoint
// counts as intersecting), using the standard orientation test.
func (e Edge) Intersects(o Edge) bool {
	d1 := cross(o.Start, o.End, e.Start)
	d2 := cross(o.Start, o.End, e.End)
	d3 := cross(e.Start, e.End, o.Start)
	d4 := cross(e.Start, e.End, o.End)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	if d1 == 0 && onSegment(o.Start, o.End, e.Start) {
		return true
	}
	if d2 == 0 && onSegment(o.Start, o.End, e.End) {
		return true
	}
	if d3 == 0 && onSegment(e.Start, e.End, o.Start) {
		return true
	}
	if d4 == 0 && onSegment(e.Start, e.End, o.End) {
		return true
	}
	return false
}

func onSegment(a, b, p Point) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}

// BBox returns the axis-aligned bounding box of the edge.
func (e Edge) BBox() AARectangle {
	return AARectangle{
		XMin: math.Min(e.Start.X, e.End.X),
		YMin: math.Min(e.Start.Y, e.End.Y),
		XMax: math.Max(e.Start.X, e.End.X),
		YMax: math.Max(e.Start.Y, e.End.Y),
	}
}

// Transform applies t to both endpoints and returns the resulting edge.
func (e Edge) Transform(t Transformation) Edge {
	return Edge{t.Apply(e.Start), t.Apply(e.End)}
}
