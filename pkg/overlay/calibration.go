package overlay

import (
	apperrors "github.com/matzehuels/blueprint/pkg/errors"
)

// Anchor is the reference point of the dataset in base image pixels. Overlay
// offsets are measured from it.
type Anchor struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// DefaultAnchor is the common reference point of the bundled drawing set.
var DefaultAnchor = Anchor{X: 2481, Y: 1754}

// Calibration is a user-controlled correction applied after the automatic
// alignment. Offsets are in pixels, rotation in degrees. A zero Scale is
// treated as 1 so that the zero Calibration is the identity.
type Calibration struct {
	DX          float64 `json:"dx"`
	DY          float64 `json:"dy"`
	RotationDeg float64 `json:"rotationDeg"`
	Scale       float64 `json:"scale"`
}

// DefaultCalibration returns the identity calibration.
func DefaultCalibration() Calibration {
	return Calibration{Scale: 1}
}

// EffectiveScale returns c.Scale, or 1 when it is unset.
func (c Calibration) EffectiveScale() float64 {
	if c.Scale == 0 {
		return 1
	}
	return c.Scale
}

// IsIdentity reports whether c leaves the overlay untouched.
func (c Calibration) IsIdentity() bool {
	return c.DX == 0 && c.DY == 0 && c.RotationDeg == 0 && c.EffectiveScale() == 1
}

// Validate checks that every component is finite and the scale is positive.
func (c Calibration) Validate() error {
	if err := apperrors.ValidateFinite("dx", c.DX); err != nil {
		return err
	}
	if err := apperrors.ValidateFinite("dy", c.DY); err != nil {
		return err
	}
	if err := apperrors.ValidateFinite("rotationDeg", c.RotationDeg); err != nil {
		return err
	}
	return apperrors.ValidateScale(c.EffectiveScale())
}
