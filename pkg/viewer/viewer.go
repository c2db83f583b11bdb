package viewer

import (
	"github.com/matzehuels/blueprint/pkg/geometry"
	"github.com/matzehuels/blueprint/pkg/metadata"
	"github.com/matzehuels/blueprint/pkg/overlay"
	"github.com/matzehuels/blueprint/pkg/resolve"
)

const (
	DefaultOpacity = 55
	MinOpacity     = 10
	MaxOpacity     = 100
	DefaultSplit   = 50

	DefaultAssetPrefix = "/data/drawings/"
)

// Sizer reports the natural size of an image if it is known.
type Sizer interface {
	Size(name string) (geometry.Size, bool)
}

// Options configures a Viewer.
type Options struct {
	// Anchor is the dataset reference point used by the overlay compositor.
	Anchor overlay.Anchor
	// AssetPrefix is prepended to escaped image names to build asset URLs.
	AssetPrefix string
	// Sizes provides natural image sizes for the polygon layer. Optional.
	Sizes Sizer
}

// State is the complete, serializable state of a Viewer.
type State struct {
	resolve.Selection
	Compare            bool                `json:"compare"`
	BeforeAfter        bool                `json:"beforeAfter"`
	ShowComparePolygon bool                `json:"showComparePolygon"`
	Opacity            float64             `json:"opacity"`
	Split              float64             `json:"split"`
	Calibration        overlay.Calibration `json:"calibration"`
}

// DefaultState returns the state of a fresh viewer before repair.
func DefaultState() State {
	return State{
		Opacity:     DefaultOpacity,
		Split:       DefaultSplit,
		Calibration: overlay.DefaultCalibration(),
	}
}

// Viewer is the rendering context of one user.
type Viewer struct {
	meta  *metadata.Metadata
	opts  Options
	state State
}

// New returns a viewer on m with the default state, repaired to the first
// drawing, discipline and latest revision.
func New(m *metadata.Metadata, opts Options) *Viewer {
	if opts.AssetPrefix == "" {
		opts.AssetPrefix = DefaultAssetPrefix
	}
	if opts.Anchor == (overlay.Anchor{}) {
		opts.Anchor = overlay.DefaultAnchor
	}
	v := &Viewer{meta: m, opts: opts, state: DefaultState()}
	v.repair()
	return v
}

// Metadata returns the document the viewer browses.
func (v *Viewer) Metadata() *metadata.Metadata { return v.meta }

// State returns a copy of the current state.
func (v *Viewer) State() State { return v.state }

// Restore replaces the state with s, then clamps and repairs it.
func (v *Viewer) Restore(s State) error {
	if err := s.Calibration.Validate(); err != nil {
		return err
	}
	v.state = s
	v.state.Opacity = clamp(s.Opacity, MinOpacity, MaxOpacity)
	v.state.Split = clamp(s.Split, 0, 100)
	v.repair()
	return nil
}

func (v *Viewer) SelectDrawing(id string) {
	v.state.Drawing = id
	v.repair()
}

func (v *Viewer) SelectDiscipline(name string) {
	v.state.Discipline = name
	v.repair()
}

func (v *Viewer) SelectRegion(name string) {
	v.state.Region = name
	v.repair()
}

func (v *Viewer) SelectRevision(version string) {
	v.state.Revision = version
	v.repair()
}

func (v *Viewer) SetCompare(on bool) {
	v.state.Compare = on
}

func (v *Viewer) SelectSecondaryDiscipline(name string) {
	v.state.SecondaryDiscipline = name
	v.repair()
}

func (v *Viewer) SelectSecondaryRevision(version string) {
	v.state.SecondaryRevision = version
	v.repair()
}

// SetOpacity sets the overlay opacity in percent, clamped to
// [MinOpacity, MaxOpacity].
func (v *Viewer) SetOpacity(pct float64) {
	v.state.Opacity = clamp(pct, MinOpacity, MaxOpacity)
}

// SetBeforeAfter switches the comparison between opacity blending and a
// before/after split.
func (v *Viewer) SetBeforeAfter(on bool) {
	v.state.BeforeAfter = on
}

// SetSplit sets the split position in percent of the image width, clamped to
// [0, 100].
func (v *Viewer) SetSplit(pct float64) {
	v.state.Split = clamp(pct, 0, 100)
}

func (v *Viewer) SetShowComparePolygon(on bool) {
	v.state.ShowComparePolygon = on
}

// SetCalibration replaces the manual calibration. Invalid values leave the
// current calibration in place.
func (v *Viewer) SetCalibration(c overlay.Calibration) error {
	if err := c.Validate(); err != nil {
		return err
	}
	v.state.Calibration = c
	return nil
}

// ResetCalibration restores the identity calibration.
func (v *Viewer) ResetCalibration() {
	v.state.Calibration = overlay.DefaultCalibration()
}

// Resolved returns the effective values of the current selection.
func (v *Viewer) Resolved() resolve.Resolved {
	return resolve.Resolve(v.meta, v.state.Selection)
}

func (v *Viewer) repair() {
	v.state.Selection = v.state.Selection.Normalize(v.meta)
}

func clamp(x, lo, hi float64) float64 {
	return min(max(x, lo), hi)
}
