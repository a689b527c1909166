package geo

import "math"

// Circle is a center point and a non-negative radius.
type Circle struct {
	Center Point
	Radius float64
}

func NewCircle(center Point, radius float64) Circle {
	return Circle{Center: center, Radius: radius}
}

func (c Circle) Bbox() AARectangle {
	return AARectangle{
		XMin: c.Center.X - c.Radius,
		YMin: c.Center.Y - c.Radius,
		XMax: c.Center.X + c.Radius,
		YMax: c.Center.Y + c.Radius,
	}
}

func (c Circle) Centroid() Point { return c.Center }

func (c Circle) Area() float64 { return math.Pi * c.Radius * c.Radius }

func (c Circle) CollidesWithPoint(p Point) bool {
	return Dist(c.Center, p) <= c.Radius
}

// CollidesWithCircle reports whether the two disks overlap (interiors intersect).
func (c Circle) CollidesWithCircle(o Circle) bool {
	return Dist(c.Center, o.Center) < c.Radius+o.Radius
}

func (c Circle) DistanceFromBorder(p Point) (GeoPosition, float64) {
	d := Dist(c.Center, p)
	if d <= c.Radius {
		return Interior, c.Radius - d
	}
	return Exterior, d - c.Radius
}

// boundingCircle computes a conservative enclosing circle for a set of
// circles using Ritter's incremental algorithm: not minimal, but cheap and
// always valid, which is all the HPG bulk-register lower bound needs.
func boundingCircle(circles []Circle) Circle {
	if len(circles) == 0 {
		return Circle{}
	}
	best := circles[0]
	for _, c := range circles[1:] {
		d := Dist(best.Center, c.Center)
		if d+c.Radius <= best.Radius {
			continue // c already inside best
		}
		if d+best.Radius <= c.Radius {
			best = c
			continue
		}
		newRadius := (best.Radius + d + c.Radius) / 2
		t := (newRadius - best.Radius) / d
		newCenter := Point{
			X: best.Center.X + (c.Center.X-best.Center.X)*t,
			Y: best.Center.Y + (c.Center.Y-best.Center.Y)*t,
		}
		best = Circle{Center: newCenter, Radius: newRadius}
	}
	return best
}
