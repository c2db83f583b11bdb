package overlay

import (
	"fmt"
	"strings"

	"github.com/matzehuels/blueprint/pkg/geometry"
	"github.com/matzehuels/blueprint/pkg/metadata"
)

// Style is the CSS presentation of an overlay image.
//
// TransformOrigin and Transform are empty when the overlay is not spatially
// related to the base image. Matrix is the same transform as a matrix mapping
// overlay pixels to base pixels, nil in that case.
type Style struct {
	Opacity         float64          `json:"opacity"`
	TransformOrigin string           `json:"transformOrigin,omitempty"`
	Transform       string           `json:"transform,omitempty"`
	ClipPath        string           `json:"clipPath,omitempty"`
	Matrix          *geometry.Affine `json:"matrix,omitempty"`
}

// Aligned reports whether the style carries a spatial transform.
func (s Style) Aligned() bool {
	return s.Transform != ""
}

// CSS renders s as a CSS declaration block.
func (s Style) CSS() string {
	var b strings.Builder
	fmt.Fprintf(&b, "opacity: %s;", geometry.FormatNumber(s.Opacity))
	if s.TransformOrigin != "" {
		fmt.Fprintf(&b, " transform-origin: %s;", s.TransformOrigin)
	}
	if s.Transform != "" {
		fmt.Fprintf(&b, " transform: %s;", s.Transform)
	}
	if s.ClipPath != "" {
		fmt.Fprintf(&b, " clip-path: %s;", s.ClipPath)
	}
	return b.String()
}

// ComputeOverlayStyle derives the overlay style for an overlay carrying
// transform t, laid over the image named base, at opacityPct percent.
//
// The opacity is always opacityPct/100. When t is nil, base is empty, or t is
// relative to another image, nothing else is set. Otherwise the transform is
// the automatic segment
//
//	translate(dxpx, dypx) rotate(θrad) scale(s)
//
// with dx = t.X - anchor.X and dy = t.Y - anchor.Y, followed by the manual
// segment of cal in the same form, pivoting on (t.X, t.Y).
func ComputeOverlayStyle(t *metadata.ImageTransform, base string, opacityPct float64, cal Calibration, anchor Anchor) Style {
	style := Style{Opacity: opacityPct / 100}
	if !t.Applies(base) {
		return style
	}

	dx, dy := t.X-anchor.X, t.Y-anchor.Y
	manualRad := geometry.DegreesToRadians(cal.RotationDeg)
	manualScale := cal.EffectiveScale()

	style.TransformOrigin = fmt.Sprintf("%spx %spx", geometry.FormatNumber(t.X), geometry.FormatNumber(t.Y))
	style.Transform = segment(dx, dy, t.Rotation, t.Scale) + " " + segment(cal.DX, cal.DY, manualRad, manualScale)

	m := geometry.Around(geometry.Point{X: t.X, Y: t.Y}, geometry.Compose(
		segmentMatrix(dx, dy, t.Rotation, t.Scale),
		segmentMatrix(cal.DX, cal.DY, manualRad, manualScale),
	))
	style.Matrix = &m
	return style
}

// SplitClipPath returns the clip-path that reveals the overlay to the right
// of position percent, for before/after comparison.
func SplitClipPath(position float64) string {
	return fmt.Sprintf("inset(0 0 0 %s%%)", geometry.FormatNumber(position))
}

func segment(dx, dy, rad, scale float64) string {
	return fmt.Sprintf("translate(%spx, %spx) rotate(%srad) scale(%s)",
		geometry.FormatNumber(dx), geometry.FormatNumber(dy),
		geometry.FormatNumber(rad), geometry.FormatNumber(scale))
}

// segmentMatrix is the matrix of one segment, in the order CSS applies it.
func segmentMatrix(dx, dy, rad, scale float64) geometry.Affine {
	return geometry.Compose(geometry.Translate(dx, dy), geometry.Rotate(rad), geometry.Scale(scale))
}
