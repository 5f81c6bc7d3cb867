// Package fleximg is an embeddable 2D image compositing engine. Nodes are
// wired into a DAG and pulled scanline-by-scanline from a RendererNode, so
// peak memory stays proportional to frame width rather than frame area.
package fleximg

import "math"

// FixedShift is the number of fractional bits in a Fixed value (16.16).
const FixedShift = 16

const fixedOne = 1 << FixedShift

// Fixed is a 16.16 signed fixed-point scalar used throughout the pipeline
// for deterministic DDA stepping across desktop and microcontroller builds.
type Fixed int32

// ToFixed converts an integer to Fixed.
func ToFixed(i int) Fixed { return Fixed(i) << FixedShift }

// FloatToFixed converts a float64 to Fixed, rounding to nearest and
// saturating at the int32 range instead of overflowing.
func FloatToFixed(f float64) Fixed {
	scaled := f * float64(fixedOne)
	if scaled >= math.MaxInt32 {
		return math.MaxInt32
	}
	if scaled <= math.MinInt32 {
		return math.MinInt32
	}
	if scaled >= 0 {
		return Fixed(scaled + 0.5)
	}
	return Fixed(scaled - 0.5)
}

// FixedToFloat converts a Fixed back to float64.
func FixedToFloat(f Fixed) float64 { return float64(f) / float64(fixedOne) }

// Floor returns the integer part, rounding toward negative infinity.
func (f Fixed) Floor() int { return int(f >> FixedShift) }

// Frac returns the fractional part as a Fixed in [0, 1).
func (f Fixed) Frac() Fixed { return f & (fixedOne - 1) }

// Round returns the nearest integer.
func (f Fixed) Round() int { return int((f + fixedOne/2) >> FixedShift) }

func addSatFixed(a, b Fixed) Fixed {
	sum := int64(a) + int64(b)
	return clampFixed(sum)
}

func mulFixed(a, b Fixed) Fixed {
	product := int64(a) * int64(b)
	return clampFixed(product >> FixedShift)
}

func clampFixed(v int64) Fixed {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return Fixed(v)
}

// Point is a 2D coordinate in fixed-point, used for origins and offsets.
type Point struct {
	X, Y Fixed
}

// PointF builds a Point from floating-point coordinates.
func PointF(x, y float64) Point {
	return Point{X: FloatToFixed(x), Y: FloatToFixed(y)}
}

// Add returns p+o.
func (p Point) Add(o Point) Point {
	return Point{X: addSatFixed(p.X, o.X), Y: addSatFixed(p.Y, o.Y)}
}

// Matrix is a 2x3 affine transform: [a b tx; c d ty]. Identity has
// a=d=1, b=c=tx=ty=0.
type Matrix struct {
	A, B, C, D, Tx, Ty Fixed
}

// Identity returns the identity affine transform.
func Identity() Matrix {
	return Matrix{A: fixedOne, D: fixedOne}
}

// Apply maps a point through the matrix: (a*x + b*y + tx, c*x + d*y + ty).
func (m Matrix) Apply(p Point) Point {
	x := addSatFixed(addSatFixed(mulFixed(m.A, p.X), mulFixed(m.B, p.Y)), m.Tx)
	y := addSatFixed(addSatFixed(mulFixed(m.C, p.X), mulFixed(m.D, p.Y)), m.Ty)
	return Point{X: x, Y: y}
}

// Mul composes m then o: applying the result to a point is equivalent to
// applying m first, then o (o.Mul operates in the "o after m" sense used by
// AffineNode when composing a pushed-down parent transform with its own).
func (m Matrix) Mul(o Matrix) Matrix {
	return Matrix{
		A:  addSatFixed(mulFixed(o.A, m.A), mulFixed(o.B, m.C)),
		B:  addSatFixed(mulFixed(o.A, m.B), mulFixed(o.B, m.D)),
		C:  addSatFixed(mulFixed(o.C, m.A), mulFixed(o.D, m.C)),
		D:  addSatFixed(mulFixed(o.C, m.B), mulFixed(o.D, m.D)),
		Tx: addSatFixed(addSatFixed(mulFixed(o.A, m.Tx), mulFixed(o.B, m.Ty)), o.Tx),
		Ty: addSatFixed(addSatFixed(mulFixed(o.C, m.Tx), mulFixed(o.D, m.Ty)), o.Ty),
	}
}

// Invert returns the inverse matrix. ok is false when the determinant is
// zero (degenerate/singular transform) — callers must treat this as
// GeometryDegenerate and substitute an empty strip, not a fatal error.
func (m Matrix) Invert() (inv Matrix, ok bool) {
	det := int64(m.A)*int64(m.D) - int64(m.B)*int64(m.C)
	if det == 0 {
		return Matrix{}, false
	}
	// Work in float64 for the division step; fixed-point division by a
	// potentially tiny determinant would lose too much precision, and
	// inversion happens once per matrix change, not per pixel.
	a, b, c, d := FixedToFloat(m.A), FixedToFloat(m.B), FixedToFloat(m.C), FixedToFloat(m.D)
	tx, ty := FixedToFloat(m.Tx), FixedToFloat(m.Ty)
	detF := a*d - b*c
	if detF == 0 {
		return Matrix{}, false
	}
	invDet := 1.0 / detF
	ia := d * invDet
	ib := -b * invDet
	ic := -c * invDet
	id := a * invDet
	itx := -(ia*tx + ib*ty)
	ity := -(ic*tx + id*ty)
	return Matrix{
		A: FloatToFixed(ia), B: FloatToFixed(ib),
		C: FloatToFixed(ic), D: FloatToFixed(id),
		Tx: FloatToFixed(itx), Ty: FloatToFixed(ity),
	}, true
}

// Translation returns a pure-translation matrix.
func Translation(x, y Fixed) Matrix {
	return Matrix{A: fixedOne, D: fixedOne, Tx: x, Ty: y}
}

// RotationScale builds the matrix the spec's AffineNode.setRotationScale
// helper produces: [cosθ*sx -sinθ*sy 0; sinθ*sx cosθ*sy 0].
func RotationScale(theta, sx, sy float64) Matrix {
	cs, sn := math.Cos(theta), math.Sin(theta)
	return Matrix{
		A: FloatToFixed(cs * sx), B: FloatToFixed(-sn * sy),
		C: FloatToFixed(sn * sx), D: FloatToFixed(cs * sy),
	}
}
