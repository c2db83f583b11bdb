package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// FitSimilarity computes the similarity transform (uniform scale, rotation,
// translation) that best maps src onto dst in the least-squares sense.
//
// The transform has the form
//
//	[a -b tx]
//	[b  a ty]
//
// and needs at least two distinct point pairs.
func FitSimilarity(src, dst []Point) (Affine, error) {
	if len(src) != len(dst) {
		return Affine{}, fmt.Errorf("point count mismatch: %d vs %d", len(src), len(dst))
	}
	n := len(src)
	if n < 2 {
		return Affine{}, fmt.Errorf("need at least 2 point pairs, got %d", n)
	}
	if degenerate(src) || degenerate(dst) {
		return Affine{}, fmt.Errorf("point pairs are degenerate (all points coincide)")
	}

	// Unknowns: a, b, tx, ty
	// x' = a*x - b*y + tx
	// y' = b*x + a*y + ty
	A := mat.NewDense(n*2, 4, nil)
	B := mat.NewVecDense(n*2, nil)
	for i := 0; i < n; i++ {
		x, y := src[i].X, src[i].Y

		A.Set(i*2, 0, x)
		A.Set(i*2, 1, -y)
		A.Set(i*2, 2, 1)
		B.SetVec(i*2, dst[i].X)

		A.Set(i*2+1, 0, y)
		A.Set(i*2+1, 1, x)
		A.Set(i*2+1, 3, 1)
		B.SetVec(i*2+1, dst[i].Y)
	}

	var qr mat.QR
	qr.Factorize(A)

	var params mat.VecDense
	if err := qr.SolveVecTo(&params, false, B); err != nil {
		return Affine{}, fmt.Errorf("solve similarity: %w", err)
	}

	a, b := params.AtVec(0), params.AtVec(1)
	return Affine{
		A: a, B: -b, TX: params.AtVec(2),
		C: b, D: a, TY: params.AtVec(3),
	}, nil
}

// Residual returns the root-mean-square distance between t(src[i]) and dst[i].
func Residual(t Affine, src, dst []Point) float64 {
	if len(src) == 0 || len(src) != len(dst) {
		return 0
	}
	var sum float64
	for i := range src {
		d := t.Apply(src[i]).Distance(dst[i])
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(src)))
}

func degenerate(pts []Point) bool {
	for _, p := range pts[1:] {
		if p.Distance(pts[0]) > 1e-9 {
			return false
		}
	}
	return true
}
