package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/blueprint/pkg/overlay"
	"github.com/matzehuels/blueprint/pkg/viewer"
)

// selectionFlags are the viewer state flags shared by resolve, calibrate and
// browse. Only flags set on the command line become part of the update.
type selectionFlags struct {
	drawing             string
	discipline          string
	region              string
	revision            string
	secondaryDiscipline string
	secondaryRevision   string
	compare             bool
	beforeAfter         bool
	showComparePolygon  bool
	opacity             float64
	split               float64
	dx, dy              float64
	rotation            float64
	scale               float64
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.drawing, "drawing", "d", "", "drawing id")
	fs.StringVar(&f.discipline, "discipline", "", "discipline name")
	fs.StringVar(&f.region, "region", "", "region name")
	fs.StringVarP(&f.revision, "revision", "r", "", "revision version (default latest)")
	fs.BoolVar(&f.compare, "compare", false, "overlay a second discipline")
	fs.StringVar(&f.secondaryDiscipline, "with", "", "discipline to compare with")
	fs.StringVar(&f.secondaryRevision, "with-revision", "", "revision of the compared discipline")
	fs.Float64Var(&f.opacity, "opacity", viewer.DefaultOpacity, "overlay opacity in percent (10-100)")
	fs.BoolVar(&f.beforeAfter, "split", false, "before/after split instead of opacity blend")
	fs.Float64Var(&f.split, "split-at", viewer.DefaultSplit, "split position in percent")
	fs.BoolVar(&f.showComparePolygon, "compare-polygon", false, "show the compared discipline's polygon")
	fs.Float64Var(&f.dx, "dx", 0, "manual calibration x offset in pixels")
	fs.Float64Var(&f.dy, "dy", 0, "manual calibration y offset in pixels")
	fs.Float64Var(&f.rotation, "rotate", 0, "manual calibration rotation in degrees")
	fs.Float64Var(&f.scale, "scale", 1, "manual calibration scale")
}

// update returns the viewer update for the flags the user set.
func (f *selectionFlags) update(cmd *cobra.Command) viewer.Update {
	changed := cmd.Flags().Changed
	var u viewer.Update

	str := func(name string, v *string) *string {
		if changed(name) {
			return v
		}
		return nil
	}
	flag := func(name string, v *bool) *bool {
		if changed(name) {
			return v
		}
		return nil
	}
	num := func(name string, v *float64) *float64 {
		if changed(name) {
			return v
		}
		return nil
	}

	u.Drawing = str("drawing", &f.drawing)
	u.Discipline = str("discipline", &f.discipline)
	u.Region = str("region", &f.region)
	u.Revision = str("revision", &f.revision)
	u.Compare = flag("compare", &f.compare)
	u.SecondaryDiscipline = str("with", &f.secondaryDiscipline)
	u.SecondaryRevision = str("with-revision", &f.secondaryRevision)
	u.Opacity = num("opacity", &f.opacity)
	u.BeforeAfter = flag("split", &f.beforeAfter)
	u.Split = num("split-at", &f.split)
	u.ShowComparePolygon = flag("compare-polygon", &f.showComparePolygon)

	// Choosing what to compare with implies comparing.
	if u.Compare == nil && (u.SecondaryDiscipline != nil || u.SecondaryRevision != nil) {
		on := true
		u.Compare = &on
	}

	if changed("dx") || changed("dy") || changed("rotate") || changed("scale") {
		u.Calibration = &overlay.Calibration{DX: f.dx, DY: f.dy, RotationDeg: f.rotation, Scale: f.scale}
	}
	return u
}
