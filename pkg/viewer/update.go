package viewer

import (
	"github.com/matzehuels/blueprint/pkg/overlay"
)

// Update is a partial state change. Nil fields are left alone. Fields are
// applied from the top of the hierarchy down, so an update that changes the
// drawing and picks a discipline of the new drawing works in one step.
type Update struct {
	Drawing             *string              `json:"drawing,omitempty"`
	Discipline          *string              `json:"discipline,omitempty"`
	Region              *string              `json:"region,omitempty"`
	Revision            *string              `json:"revision,omitempty"`
	Compare             *bool                `json:"compare,omitempty"`
	SecondaryDiscipline *string              `json:"secondaryDiscipline,omitempty"`
	SecondaryRevision   *string              `json:"secondaryRevision,omitempty"`
	Opacity             *float64             `json:"opacity,omitempty"`
	BeforeAfter         *bool                `json:"beforeAfter,omitempty"`
	Split               *float64             `json:"split,omitempty"`
	ShowComparePolygon  *bool                `json:"showComparePolygon,omitempty"`
	Calibration         *overlay.Calibration `json:"calibration,omitempty"`
	ResetCalibration    bool                 `json:"resetCalibration,omitempty"`
}

// IsEmpty reports whether u changes nothing.
func (u Update) IsEmpty() bool {
	return u == Update{}
}

// Apply applies u. The calibration is validated before anything changes, so
// an invalid update leaves the viewer untouched.
func (v *Viewer) Apply(u Update) error {
	if u.Calibration != nil {
		if err := u.Calibration.Validate(); err != nil {
			return err
		}
	}

	if u.Drawing != nil {
		v.SelectDrawing(*u.Drawing)
	}
	if u.Discipline != nil {
		v.SelectDiscipline(*u.Discipline)
	}
	if u.Region != nil {
		v.SelectRegion(*u.Region)
	}
	if u.Revision != nil {
		v.SelectRevision(*u.Revision)
	}
	if u.Compare != nil {
		v.SetCompare(*u.Compare)
	}
	if u.SecondaryDiscipline != nil {
		v.SelectSecondaryDiscipline(*u.SecondaryDiscipline)
	}
	if u.SecondaryRevision != nil {
		v.SelectSecondaryRevision(*u.SecondaryRevision)
	}
	if u.Opacity != nil {
		v.SetOpacity(*u.Opacity)
	}
	if u.BeforeAfter != nil {
		v.SetBeforeAfter(*u.BeforeAfter)
	}
	if u.Split != nil {
		v.SetSplit(*u.Split)
	}
	if u.ShowComparePolygon != nil {
		v.SetShowComparePolygon(*u.ShowComparePolygon)
	}
	if u.ResetCalibration {
		v.ResetCalibration()
	}
	if u.Calibration != nil {
		v.state.Calibration = *u.Calibration
	}
	return nil
}
