// Package geometry provides 2D affine transforms for aligning drawing images.
//
// An [Affine] maps a point (x, y) to (A·x + B·y + TX, C·x + D·y + TY), the
// same convention as CSS and SVG matrix(a, c, b, d, tx, ty). Composition and
// inversion go through gonum's dense 3x3 matrices.
package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Point is a 2D point in pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Affine is a 2x3 affine transformation matrix.
//
//	[A B TX]
//	[C D TY]
type Affine struct {
	A, B, TX float64
	C, D, TY float64
}

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{A: 1, D: 1}
}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Affine {
	return Affine{A: 1, D: 1, TX: tx, TY: ty}
}

// Rotate returns a rotation by radians around the origin. With the y axis
// pointing down, positive angles turn clockwise on screen, as in CSS.
func Rotate(radians float64) Affine {
	cos, sin := math.Cos(radians), math.Sin(radians)
	return Affine{A: cos, B: -sin, C: sin, D: cos}
}

// Scale returns a uniform scale around the origin.
func Scale(s float64) Affine {
	return Affine{A: s, D: s}
}

// Around conjugates t so that it pivots around p instead of the origin.
func Around(p Point, t Affine) Affine {
	return Compose(Translate(p.X, p.Y), t, Translate(-p.X, -p.Y))
}

// Apply maps p through t.
func (t Affine) Apply(p Point) Point {
	return Point{
		X: t.A*p.X + t.B*p.Y + t.TX,
		Y: t.C*p.X + t.D*p.Y + t.TY,
	}
}

// Then returns the transform that applies t first and u second.
func (t Affine) Then(u Affine) Affine {
	return Compose(u, t)
}

// Compose multiplies the transforms left to right, the way a CSS transform
// list reads: the rightmost transform is applied to a point first.
// Compose() is the identity.
func Compose(ts ...Affine) Affine {
	acc := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	for _, t := range ts {
		var next mat.Dense
		next.Mul(acc, t.dense())
		acc = &next
	}
	return fromDense(acc)
}

// Invert returns the inverse transform. It fails when t is singular, for
// example after a zero scale.
func (t Affine) Invert() (Affine, error) {
	var inv mat.Dense
	if err := inv.Inverse(t.dense()); err != nil {
		return Affine{}, fmt.Errorf("invert affine: %w", err)
	}
	return fromDense(&inv), nil
}

// ScaleFactor returns the uniform scale of a similarity transform.
func (t Affine) ScaleFactor() float64 {
	return math.Hypot(t.A, t.C)
}

// Rotation returns the rotation angle in radians of a similarity transform.
func (t Affine) Rotation() float64 {
	return math.Atan2(t.C, t.A)
}

// ApproxEqual reports whether all coefficients of t and u differ by at most tol.
func (t Affine) ApproxEqual(u Affine, tol float64) bool {
	a, b := t.coeffs(), u.coeffs()
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

// SVGMatrix formats t as an SVG/CSS matrix() function.
func (t Affine) SVGMatrix() string {
	return fmt.Sprintf("matrix(%s, %s, %s, %s, %s, %s)",
		FormatNumber(t.A), FormatNumber(t.C), FormatNumber(t.B),
		FormatNumber(t.D), FormatNumber(t.TX), FormatNumber(t.TY))
}

func (t Affine) coeffs() [6]float64 {
	return [6]float64{t.A, t.B, t.TX, t.C, t.D, t.TY}
}

func (t Affine) dense() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		t.A, t.B, t.TX,
		t.C, t.D, t.TY,
		0, 0, 1,
	})
}

func fromDense(m mat.Matrix) Affine {
	return Affine{
		A: m.At(0, 0), B: m.At(0, 1), TX: m.At(0, 2),
		C: m.At(1, 0), D: m.At(1, 1), TY: m.At(1, 2),
	}
}
