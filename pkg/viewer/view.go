package viewer

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/matzehuels/blueprint/pkg/geometry"
	"github.com/matzehuels/blueprint/pkg/metadata"
	"github.com/matzehuels/blueprint/pkg/overlay"
	"github.com/matzehuels/blueprint/pkg/polygon"
	"github.com/matzehuels/blueprint/pkg/resolve"
)

const (
	MessageNoImage = "no drawing image matches the current selection"
	InitialDesign  = "initial design"
)

// Mode is the comparison display mode.
type Mode string

const (
	ModeOpacity Mode = "opacity"
	ModeSplit   Mode = "split"
)

// View is everything a client needs to draw the viewer.
type View struct {
	Project     string       `json:"project"`
	State       State        `json:"state"`
	Breadcrumb  []string     `json:"breadcrumb"`
	Drawings    []Choice     `json:"drawings"`
	Disciplines []string     `json:"disciplines"`
	Regions     []string     `json:"regions"`
	Revisions   []Choice     `json:"revisions"`
	Details     *Details     `json:"details,omitempty"`
	Image       *Image       `json:"image,omitempty"`
	Polygon     *PolygonView `json:"polygon,omitempty"`
	Compare     *CompareView `json:"compare,omitempty"`
	Message     string       `json:"message,omitempty"`
}

// Choice is one entry of a selection list.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Details describes the selected revision.
type Details struct {
	Version     string   `json:"version"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Changes     []string `json:"changes"`
	Summary     string   `json:"summary"`
}

// Image is a drawing image and where to fetch it.
type Image struct {
	Name string        `json:"name"`
	URL  string        `json:"url"`
	Size geometry.Size `json:"size"`
	// Known is false while Size is the placeholder.
	Known bool `json:"known"`
}

// PolygonView holds the SVG attributes of the polygon layer.
type PolygonView struct {
	Points    string `json:"points"`
	Transform string `json:"transform,omitempty"`
	ViewBox   string `json:"viewBox"`
}

// CompareView is the secondary drawing laid over the base image.
type CompareView struct {
	Mode      Mode          `json:"mode"`
	Revisions []Choice      `json:"revisions"`
	Image     *Image        `json:"image,omitempty"`
	Style     overlay.Style `json:"style"`
	CSS       string        `json:"css"`
	Polygon   *PolygonView  `json:"polygon,omitempty"`
}

// View derives the current view.
func (v *Viewer) View() View {
	s := v.state
	r := v.Resolved()

	view := View{
		State:       s,
		Breadcrumb:  v.breadcrumb(r),
		Drawings:    drawingChoices(v.meta.Sheets()),
		Disciplines: r.Drawing.DisciplineNames(),
		Regions:     r.Discipline.RegionNames(),
		Revisions:   revisionChoices(r.Revisions),
		Details:     details(r.Revision),
	}
	if v.meta != nil {
		view.Project = v.meta.Project.Name
	}

	if r.Image == "" {
		view.Message = MessageNoImage
		return view
	}
	view.Image = v.image(r.Image)
	view.Polygon = polygonView(r.Polygon, view.Image.Size)

	if s.Compare && r.OverlayImage != "" {
		view.Compare = v.compare(r, view.Image.Size)
	}
	return view
}

func (v *Viewer) compare(r resolve.Resolved, size geometry.Size) *CompareView {
	s := v.state
	c := &CompareView{
		Mode:      ModeOpacity,
		Revisions: revisionChoices(r.SecondaryRevisions),
		Image:     v.image(r.OverlayImage),
	}

	opacity := s.Opacity
	if s.BeforeAfter {
		c.Mode = ModeSplit
		opacity = 100
	}
	c.Style = overlay.ComputeOverlayStyle(r.OverlayTransform, r.Image, opacity, s.Calibration, v.opts.Anchor)
	if s.BeforeAfter {
		c.Style.ClipPath = overlay.SplitClipPath(s.Split)
	}
	c.CSS = c.Style.CSS()

	if s.ShowComparePolygon {
		c.Polygon = polygonView(r.ComparePolygon, size)
	}
	return c
}

func (v *Viewer) image(name string) *Image {
	img := &Image{
		Name: name,
		URL:  AssetURL(v.opts.AssetPrefix, name),
		Size: polygon.PlaceholderSize,
	}
	if v.opts.Sizes != nil {
		if size, ok := v.opts.Sizes.Size(name); ok && !size.IsZero() {
			img.Size, img.Known = size, true
		}
	}
	return img
}

func (v *Viewer) breadcrumb(r resolve.Resolved) []string {
	if r.Drawing == nil {
		return nil
	}
	var crumbs []string
	for _, a := range v.meta.Ancestors(r.Drawing.ID) {
		crumbs = append(crumbs, a.Name)
	}
	crumbs = append(crumbs, r.Drawing.Name)
	for _, key := range []string{v.state.Discipline, v.state.Region, v.state.Revision} {
		if key != "" {
			crumbs = append(crumbs, key)
		}
	}
	return crumbs
}

// AssetURL joins prefix and the percent-encoded image name.
func AssetURL(prefix, name string) string {
	return prefix + url.PathEscape(name)
}

func polygonView(p *metadata.Polygon, size geometry.Size) *PolygonView {
	points := polygon.Points(p)
	if points == "" {
		return nil
	}
	return &PolygonView{
		Points:    points,
		Transform: polygon.Transform(p),
		ViewBox:   size.ViewBox(),
	}
}

func details(rev *metadata.Revision) *Details {
	if rev == nil {
		return nil
	}
	d := &Details{
		Version:     rev.Version,
		Date:        rev.Date,
		Description: rev.Description,
		Changes:     rev.Changes,
		Summary:     InitialDesign,
	}
	if len(rev.Changes) > 0 {
		d.Summary = strings.Join(rev.Changes, ", ")
	}
	return d
}

func drawingChoices(ds []*metadata.Drawing) []Choice {
	out := make([]Choice, 0, len(ds))
	for _, d := range ds {
		out = append(out, Choice{Value: d.ID, Label: d.Name})
	}
	return out
}

func revisionChoices(revs []metadata.Revision) []Choice {
	out := make([]Choice, 0, len(revs))
	for _, r := range revs {
		out = append(out, Choice{Value: r.Version, Label: fmt.Sprintf("%s (%s)", r.Version, r.Date)})
	}
	return out
}
