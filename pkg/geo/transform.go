package geo

import "math"

// Transformation is an affine 3x3 matrix restricted to rotation + translation
// (no scale or shear). The bottom row is always [0,0,1].
type Transformation struct {
	m [3][3]float64
}

// Identity returns the transformation that leaves every point unchanged.
func Identity() Transformation {
	return Transformation{m: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// Empty is an alias for Identity, matching the source's Transformation::empty().
func Empty() Transformation { return Identity() }

// FromRotateTranslate builds a transformation that rotates by angle radians
// around the origin, then translates by translation.
func FromRotateTranslate(angle float64, translation Point) Transformation {
	c, s := math.Cos(angle), math.Sin(angle)
	return Transformation{m: [3][3]float64{
		{c, -s, translation.X},
		{s, c, translation.Y},
		{0, 0, 1},
	}}
}

// FromDecomposed rebuilds a Transformation from its decomposed form.
func FromDecomposed(d DTransformation) Transformation {
	return FromRotateTranslate(d.Rotation, d.Translation)
}

// Apply transforms a point.
func (t Transformation) Apply(p Point) Point {
	return Point{
		X: t.m[0][0]*p.X + t.m[0][1]*p.Y + t.m[0][2],
		Y: t.m[1][0]*p.X + t.m[1][1]*p.Y + t.m[1][2],
	}
}

func mul(a, b [3][3]float64) [3][3]float64 {
	var r [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sum := 0.0
			for k := 0; k < 3; k++ {
				sum += a[i][k] * b[k][j]
			}
			r[i][j] = sum
		}
	}
	return r
}

// Then composes two transformations: the result applies t first, then o.
// (result.Apply(p) == o.Apply(t.Apply(p)))
func (t Transformation) Then(o Transformation) Transformation {
	return Transformation{m: mul(o.m, t.m)}
}

// Inverse returns the inverse transformation, defined for pure rotate+translate.
func (t Transformation) Inverse() Transformation {
	d := t.Decompose()
	c, s := math.Cos(d.Rotation), math.Sin(d.Rotation)
	tx, ty := d.Translation.X, d.Translation.Y
	invTx := -(c*tx + s*ty)
	invTy := -(-s*tx + c*ty)
	return Transformation{m: [3][3]float64{
		{c, s, invTx},
		{-s, c, invTy},
		{0, 0, 1},
	}}
}

// Decompose extracts the rotation angle and translation vector.
func (t Transformation) Decompose() DTransformation {
	angle := math.Atan2(t.m[1][0], t.m[0][0])
	return DTransformation{Rotation: angle, Translation: Point{t.m[0][2], t.m[1][2]}}
}

// DTransformation is a decomposed rotation angle (radians) + translation vector.
type DTransformation struct {
	Rotation    float64
	Translation Point
}

func NewDTransformation(rotation float64, translation Point) DTransformation {
	return DTransformation{Rotation: rotation, Translation: translation}
}

// Compose rebuilds the full affine Transformation from its decomposed form.
func (d DTransformation) Compose() Transformation {
	return FromDecomposed(d)
}

// AllowedRotationKind distinguishes the three allowed-rotation variants.
type AllowedRotationKind int

const (
	RotationNone AllowedRotationKind = iota
	RotationContinuous
	RotationDiscrete
)

// AllowedRotation is None, Continuous, or Discrete(angles in radians).
type AllowedRotation struct {
	Kind   AllowedRotationKind
	Angles []float64 // only meaningful when Kind == RotationDiscrete
}

func NoRotation() AllowedRotation         { return AllowedRotation{Kind: RotationNone} }
func ContinuousRotation() AllowedRotation { return AllowedRotation{Kind: RotationContinuous} }
func DiscreteRotation(angles []float64) AllowedRotation {
	return AllowedRotation{Kind: RotationDiscrete, Angles: angles}
}
