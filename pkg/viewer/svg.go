package viewer

import "github.com/matzehuels/blueprint/pkg/polygon"

// PolygonSVG renders the polygon layer of the current view as a standalone
// SVG sized like the base image. The compare polygon is drawn as a second
// layer when the view shows it. Without a base image the layer is empty.
func (v *Viewer) PolygonSVG(opts ...polygon.SVGOption) []byte {
	r := v.Resolved()
	if r.Image == "" {
		return polygon.RenderSVG(nil, opts...)
	}

	all := []polygon.SVGOption{polygon.WithSize(v.image(r.Image).Size)}
	s := v.state
	if s.Compare && s.ShowComparePolygon && r.OverlayImage != "" {
		all = append(all, polygon.WithLayer(polygon.Layer{Polygon: r.ComparePolygon, Class: "compare"}))
	}
	return polygon.RenderSVG(r.Polygon, append(all, opts...)...)
}
