package overlay

import (
	"math"
	"strings"
	"testing"

	apperrors "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/geometry"
	"github.com/matzehuels/blueprint/pkg/metadata"
)

func identityTransform(relativeTo string) *metadata.ImageTransform {
	return &metadata.ImageTransform{RelativeTo: relativeTo, X: 2481, Y: 1754, Scale: 1, Rotation: 0}
}

func TestComputeOverlayStyleIdentity(t *testing.T) {
	style := ComputeOverlayStyle(identityTransform("floor1.png"), "floor1.png", 55, DefaultCalibration(), DefaultAnchor)

	if style.Opacity != 0.55 {
		t.Errorf("Opacity = %v, want 0.55", style.Opacity)
	}
	if style.TransformOrigin != "2481px 1754px" {
		t.Errorf("TransformOrigin = %q, want %q", style.TransformOrigin, "2481px 1754px")
	}
	if !strings.Contains(style.Transform, "translate(0px, 0px) rotate(0rad) scale(1)") {
		t.Errorf("Transform = %q, want identity automatic segment", style.Transform)
	}
	if style.Matrix == nil || !style.Matrix.ApproxEqual(geometry.Identity(), 1e-12) {
		t.Errorf("Matrix = %v, want identity", style.Matrix)
	}
	if !style.Aligned() {
		t.Error("Aligned() = false, want true")
	}
}

func TestComputeOverlayStyleFallback(t *testing.T) {
	tests := []struct {
		name string
		tf   *metadata.ImageTransform
		base string
	}{
		{"mismatched reference", identityTransform("floor2.png"), "floor1.png"},
		{"no transform", nil, "floor1.png"},
		{"no base image", identityTransform("floor1.png"), ""},
		{"no reference", identityTransform(""), "floor1.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeOverlayStyle(tt.tf, tt.base, 55, Calibration{DX: 10, Scale: 2}, DefaultAnchor)
			if got != (Style{Opacity: 0.55}) {
				t.Errorf("ComputeOverlayStyle() = %+v, want opacity only", got)
			}
			if got.Aligned() {
				t.Error("Aligned() = true, want false")
			}
		})
	}
}

func TestComputeOverlayStyleManualSegmentOrder(t *testing.T) {
	cal := Calibration{DX: 10, DY: -5, Scale: 1.1, RotationDeg: 5}
	style := ComputeOverlayStyle(identityTransform("floor1.png"), "floor1.png", 55, cal, DefaultAnchor)

	auto := "translate(0px, 0px) rotate(0rad) scale(1)"
	manual := "translate(10px, -5px) rotate(0.08726646259971647rad) scale(1.1)"
	if want := auto + " " + manual; style.Transform != want {
		t.Errorf("Transform = %q, want %q", style.Transform, want)
	}
}

func TestComputeOverlayStyleAnchorOffset(t *testing.T) {
	tf := &metadata.ImageTransform{RelativeTo: "b.png", X: 2491, Y: 1749, Scale: 1.02, Rotation: 0.01}
	style := ComputeOverlayStyle(tf, "b.png", 100, DefaultCalibration(), DefaultAnchor)

	if style.Opacity != 1 {
		t.Errorf("Opacity = %v, want 1", style.Opacity)
	}
	if style.TransformOrigin != "2491px 1749px" {
		t.Errorf("TransformOrigin = %q", style.TransformOrigin)
	}
	if !strings.HasPrefix(style.Transform, "translate(10px, -5px) rotate(0.01rad) scale(1.02)") {
		t.Errorf("Transform = %q", style.Transform)
	}

	// The anchor itself moves by exactly (dx, dy).
	got := style.Matrix.Apply(geometry.Point{X: 2491, Y: 1749})
	want := geometry.Point{X: 2501, Y: 1744}
	if got.Distance(want) > 1e-9 {
		t.Errorf("Matrix.Apply(anchor) = %v, want %v", got, want)
	}
}

func TestComputeOverlayStyleCustomAnchor(t *testing.T) {
	style := ComputeOverlayStyle(identityTransform("x.png"), "x.png", 55, DefaultCalibration(), Anchor{X: 2481, Y: 1704})
	if !strings.HasPrefix(style.Transform, "translate(0px, 50px)") {
		t.Errorf("Transform = %q, want dy=50", style.Transform)
	}
}

func TestZeroCalibrationIsIdentity(t *testing.T) {
	var zero Calibration
	if !zero.IsIdentity() {
		t.Error("zero Calibration should be the identity")
	}
	if zero.EffectiveScale() != 1 {
		t.Errorf("EffectiveScale() = %v, want 1", zero.EffectiveScale())
	}
	a := ComputeOverlayStyle(identityTransform("x.png"), "x.png", 55, zero, DefaultAnchor)
	b := ComputeOverlayStyle(identityTransform("x.png"), "x.png", 55, DefaultCalibration(), DefaultAnchor)
	if a.Transform != b.Transform {
		t.Errorf("zero calibration %q != default %q", a.Transform, b.Transform)
	}
	if (Calibration{DX: 1}).IsIdentity() {
		t.Error("DX=1 should not be the identity")
	}
}

func TestCalibrationValidate(t *testing.T) {
	tests := []struct {
		name    string
		cal     Calibration
		wantErr bool
	}{
		{"default", DefaultCalibration(), false},
		{"zero", Calibration{}, false},
		{"negative scale", Calibration{Scale: -1}, true},
		{"nan offset", Calibration{DX: math.NaN()}, true},
		{"infinite rotation", Calibration{RotationDeg: math.Inf(1)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cal.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !apperrors.Is(err, apperrors.ErrCodeInvalidCalibration) {
				t.Errorf("Validate() code = %v, want INVALID_CALIBRATION", apperrors.GetCode(err))
			}
		})
	}
}

func TestStyleCSS(t *testing.T) {
	if got := (Style{Opacity: 0.55}).CSS(); got != "opacity: 0.55;" {
		t.Errorf("CSS() = %q", got)
	}

	style := ComputeOverlayStyle(identityTransform("x.png"), "x.png", 55, DefaultCalibration(), DefaultAnchor)
	style.ClipPath = SplitClipPath(40)
	want := "opacity: 0.55; transform-origin: 2481px 1754px; " +
		"transform: translate(0px, 0px) rotate(0rad) scale(1) translate(0px, 0px) rotate(0rad) scale(1); " +
		"clip-path: inset(0 0 0 40%);"
	if got := style.CSS(); got != want {
		t.Errorf("CSS() =\n%q\nwant\n%q", got, want)
	}
}

func TestSplitClipPath(t *testing.T) {
	tests := map[float64]string{
		0:    "inset(0 0 0 0%)",
		50:   "inset(0 0 0 50%)",
		12.5: "inset(0 0 0 12.5%)",
	}
	for pos, want := range tests {
		if got := SplitClipPath(pos); got != want {
			t.Errorf("SplitClipPath(%v) = %q, want %q", pos, got, want)
		}
	}
}

func TestSolveCalibrationRecoversManual(t *testing.T) {
	tf := &metadata.ImageTransform{RelativeTo: "b.png", X: 2491, Y: 1749, Scale: 1.02, Rotation: 0.01}
	want := Calibration{DX: 12, DY: -7, RotationDeg: 1.5, Scale: 0.97}

	m := ComputeOverlayStyle(tf, "b.png", 100, want, DefaultAnchor).Matrix
	var pairs []PointPair
	for _, p := range []geometry.Point{{X: 100, Y: 200}, {X: 4000, Y: 300}, {X: 2500, Y: 3000}, {X: 800, Y: 2900}} {
		pairs = append(pairs, PointPair{Overlay: p, Base: m.Apply(p)})
	}

	sol, err := SolveCalibration(tf, "b.png", DefaultAnchor, pairs)
	if err != nil {
		t.Fatalf("SolveCalibration() error: %v", err)
	}
	got := sol.Calibration
	if math.Abs(got.DX-want.DX) > 1e-6 || math.Abs(got.DY-want.DY) > 1e-6 {
		t.Errorf("offset = (%v, %v), want (%v, %v)", got.DX, got.DY, want.DX, want.DY)
	}
	if math.Abs(got.RotationDeg-want.RotationDeg) > 1e-6 {
		t.Errorf("RotationDeg = %v, want %v", got.RotationDeg, want.RotationDeg)
	}
	if math.Abs(got.Scale-want.Scale) > 1e-9 {
		t.Errorf("Scale = %v, want %v", got.Scale, want.Scale)
	}
	if sol.Residual > 1e-6 {
		t.Errorf("Residual = %v, want ~0", sol.Residual)
	}
}

func TestSolveCalibrationErrors(t *testing.T) {
	tf := identityTransform("b.png")
	pairs := []PointPair{
		{Overlay: geometry.Point{X: 0, Y: 0}, Base: geometry.Point{X: 1, Y: 1}},
		{Overlay: geometry.Point{X: 10, Y: 0}, Base: geometry.Point{X: 11, Y: 1}},
	}

	tests := []struct {
		name  string
		tf    *metadata.ImageTransform
		base  string
		pairs []PointPair
	}{
		{"unaligned overlay", tf, "other.png", pairs},
		{"nil transform", nil, "b.png", pairs},
		{"single pair", tf, "b.png", pairs[:1]},
		{"coincident points", tf, "b.png", []PointPair{pairs[0], pairs[0]}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SolveCalibration(tt.tf, tt.base, DefaultAnchor, tt.pairs)
			if !apperrors.Is(err, apperrors.ErrCodeInvalidCalibration) {
				t.Errorf("SolveCalibration() error = %v, want INVALID_CALIBRATION", err)
			}
		})
	}
}
