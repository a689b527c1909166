package geo

// SimplifyMode selects which direction a simplification pass is allowed to
// err: Inflate only ever adds area (safe for items and other forbidden
// regions), Deflate only ever removes area (safe for bins/holes and other
// allowed regions).
type SimplifyMode int

const (
	SimplifyInflate SimplifyMode = iota
	SimplifyDeflate
)

// Simplify reduces a polygon's vertex count by repeatedly dropping the
// vertex whose removal changes the enclosed area least, stopping once the
// next removal would exceed tolerance (in area units) or fewer than 3
// vertices remain. It is a Visvalingam-Whyatt reduction biased by mode: the
// vertex is only dropped if doing so changes the area in the direction mode
// permits.
func Simplify(p *SimplePolygon, mode SimplifyMode, tolerance float64) (*SimplePolygon, error) {
	if tolerance <= 0 {
		return p, nil
	}
	points := append([]Point(nil), p.points...)

	for len(points) > 3 {
		minIdx := -1
		minCost := tolerance
		var minSigned float64
		for i := range points {
			prev := points[(i-1+len(points))%len(points)]
			cur := points[i]
			next := points[(i+1)%len(points)]
			signed := triangleSignedArea(prev, cur, next)
			cost := signed
			if cost < 0 {
				cost = -cost
			}
			if !simplifyDirectionOK(mode, signed) {
				continue
			}
			if minIdx == -1 || cost < minCost {
				minIdx, minCost, minSigned = i, cost, signed
			}
		}
		if minIdx == -1 || minCost >= tolerance {
			break
		}
		_ = minSigned
		points = append(points[:minIdx], points[minIdx+1:]...)
	}

	if len(points) == len(p.points) {
		return p, nil
	}
	return NewSimplePolygon(points)
}

// simplifyDirectionOK reports whether dropping a vertex whose removal
// triangle has the given signed area is consistent with mode: Inflate may
// only grow the polygon (the dropped triangle was previously excluded, i.e.
// a concave notch being filled in), Deflate may only shrink it (the dropped
// triangle was previously included, a convex spike being shaved off).
func simplifyDirectionOK(mode SimplifyMode, signedTriangleArea float64) bool {
	switch mode {
	case SimplifyInflate:
		return signedTriangleArea <= 0
	case SimplifyDeflate:
		return signedTriangleArea >= 0
	default:
		return false
	}
}

// triangleSignedArea returns the signed area of triangle (a,b,c);
// positive when b is a convex turn relative to a->c in a CCW polygon.
func triangleSignedArea(a, b, c Point) float64 {
	return ((b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)) / 2
}
