package overlay

import (
	apperrors "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/geometry"
	"github.com/matzehuels/blueprint/pkg/metadata"
)

// PointPair is one control point: the same feature located on the overlay
// image and on the base image, both in their own pixel space.
type PointPair struct {
	Overlay geometry.Point `json:"overlay"`
	Base    geometry.Point `json:"base"`
}

// Solution is a fitted calibration and its root-mean-square error in base
// image pixels.
type Solution struct {
	Calibration Calibration `json:"calibration"`
	Residual    float64     `json:"residual"`
}

// SolveCalibration fits the manual calibration that, composed after the
// automatic transform t, maps every overlay point of pairs onto its base
// point as closely as possible. It needs at least two distinct pairs and a
// transform that applies to base.
func SolveCalibration(t *metadata.ImageTransform, base string, anchor Anchor, pairs []PointPair) (Solution, error) {
	if !t.Applies(base) {
		return Solution{}, apperrors.New(apperrors.ErrCodeInvalidCalibration,
			"overlay is not aligned to %q; calibration has no effect", base)
	}

	src := make([]geometry.Point, len(pairs))
	dst := make([]geometry.Point, len(pairs))
	for i, p := range pairs {
		src[i], dst[i] = p.Overlay, p.Base
	}
	fit, err := geometry.FitSimilarity(src, dst)
	if err != nil {
		return Solution{}, apperrors.Wrap(apperrors.ErrCodeInvalidCalibration, err, "fit control points")
	}

	// fit = T(o) · auto · manual · T(-o), so manual = auto⁻¹ · T(-o) · fit · T(o).
	origin := geometry.Point{X: t.X, Y: t.Y}
	auto := segmentMatrix(t.X-anchor.X, t.Y-anchor.Y, t.Rotation, t.Scale)
	autoInv, err := auto.Invert()
	if err != nil {
		return Solution{}, apperrors.Wrap(apperrors.ErrCodeInvalidCalibration, err, "automatic transform")
	}
	manual := geometry.Compose(autoInv, geometry.Translate(-origin.X, -origin.Y), fit, geometry.Translate(origin.X, origin.Y))

	cal := Calibration{
		DX:          manual.TX,
		DY:          manual.TY,
		RotationDeg: geometry.RadiansToDegrees(manual.Rotation()),
		Scale:       manual.ScaleFactor(),
	}
	if err := cal.Validate(); err != nil {
		return Solution{}, err
	}

	composed := ComputeOverlayStyle(t, base, 100, cal, anchor).Matrix
	return Solution{Calibration: cal, Residual: geometry.Residual(*composed, src, dst)}, nil
}
