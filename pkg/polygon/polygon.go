// Package polygon renders polygon overlays as SVG attribute values.
//
// Vertices are in base image pixel space. The polygon layer shares the
// image's coordinate system through its viewBox, so no scaling is applied
// here; a browser stretches the layer together with the image.
package polygon

import (
	"fmt"
	"strings"

	"github.com/matzehuels/blueprint/pkg/geometry"
	"github.com/matzehuels/blueprint/pkg/metadata"
)

// PlaceholderSize is the coordinate space used until the natural size of the
// base image is known.
var PlaceholderSize = geometry.Size{Width: 1000, Height: 700}

// Points formats the vertices of p as an SVG points list, "x1,y1 x2,y2 ...".
// A nil polygon or one without vertices yields "".
func Points(p *metadata.Polygon) string {
	if p == nil {
		return ""
	}
	parts := make([]string, len(p.Vertices))
	for i, v := range p.Vertices {
		parts[i] = geometry.FormatNumber(v[0]) + "," + geometry.FormatNumber(v[1])
	}
	return strings.Join(parts, " ")
}

// Transform formats the polygon's own transform as an SVG transform
// attribute that rotates and scales around its anchor:
//
//	translate(x y) rotate(deg) scale(s) translate(-x -y)
//
// Rotation is converted from radians to degrees. Without a polygonTransform
// the result is "".
func Transform(p *metadata.Polygon) string {
	if p == nil || p.PolygonTransform == nil {
		return ""
	}
	t := p.PolygonTransform
	return fmt.Sprintf("translate(%s %s) rotate(%s) scale(%s) translate(%s %s)",
		geometry.FormatNumber(t.X), geometry.FormatNumber(t.Y),
		geometry.FormatNumber(geometry.RadiansToDegrees(t.Rotation)),
		geometry.FormatNumber(t.Scale),
		geometry.FormatNumber(-t.X), geometry.FormatNumber(-t.Y))
}

// Matrix returns the polygon transform as an affine matrix, the identity when
// p has none.
func Matrix(p *metadata.Polygon) geometry.Affine {
	if p == nil || p.PolygonTransform == nil {
		return geometry.Identity()
	}
	t := p.PolygonTransform
	return geometry.Around(geometry.Point{X: t.X, Y: t.Y},
		geometry.Compose(geometry.Rotate(t.Rotation), geometry.Scale(t.Scale)))
}

// Vertices returns the vertices of p after its polygon transform, in image
// pixels.
func Vertices(p *metadata.Polygon) []geometry.Point {
	if p == nil {
		return nil
	}
	m := Matrix(p)
	out := make([]geometry.Point, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = m.Apply(geometry.Point{X: v[0], Y: v[1]})
	}
	return out
}

// Bounds returns the bounding box of the transformed polygon as min and max
// corners. ok is false when p has no vertices.
func Bounds(p *metadata.Polygon) (minPt, maxPt geometry.Point, ok bool) {
	pts := Vertices(p)
	if len(pts) == 0 {
		return geometry.Point{}, geometry.Point{}, false
	}
	minPt, maxPt = pts[0], pts[0]
	for _, q := range pts[1:] {
		minPt.X, minPt.Y = min(minPt.X, q.X), min(minPt.Y, q.Y)
		maxPt.X, maxPt.Y = max(maxPt.X, q.X), max(maxPt.Y, q.Y)
	}
	return minPt, maxPt, true
}
