package polygon

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/blueprint/pkg/geometry"
	"github.com/matzehuels/blueprint/pkg/metadata"
)

// Layer is one polygon of an SVG overlay layer.
type Layer struct {
	Polygon *metadata.Polygon
	Class   string
}

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	size   geometry.Size
	stroke string
	fill   string
	width  float64
	layers []Layer
}

// WithSize sets the natural image size used as viewBox.
func WithSize(s geometry.Size) SVGOption { return func(r *svgRenderer) { r.size = s } }

// WithStroke sets the stroke color and width.
func WithStroke(color string, width float64) SVGOption {
	return func(r *svgRenderer) { r.stroke, r.width = color, width }
}

// WithFill sets the fill color.
func WithFill(color string) SVGOption { return func(r *svgRenderer) { r.fill = color } }

// WithLayer adds another polygon, drawn after the primary one.
func WithLayer(l Layer) SVGOption { return func(r *svgRenderer) { r.layers = append(r.layers, l) } }

// RenderSVG renders p as a standalone SVG layer that can be stacked over the
// base image. Polygons without vertices are skipped; the layer itself is
// always emitted so that it can be swapped in place.
func RenderSVG(p *metadata.Polygon, opts ...SVGOption) []byte {
	r := svgRenderer{
		size:   PlaceholderSize,
		stroke: "#e4572e",
		fill:   "rgba(228, 87, 46, 0.15)",
		width:  4,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.size.IsZero() {
		r.size = PlaceholderSize
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" class="polygon-layer" viewBox="%s" preserveAspectRatio="xMidYMid meet">`+"\n",
		r.size.ViewBox())
	fmt.Fprintf(&buf, "  <style>polygon { stroke: %s; stroke-width: %s; fill: %s; }</style>\n",
		r.stroke, geometry.FormatNumber(r.width), r.fill)

	renderPolygon(&buf, Layer{Polygon: p, Class: "primary"})
	for _, l := range r.layers {
		renderPolygon(&buf, l)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderPolygon(buf *bytes.Buffer, l Layer) {
	points := Points(l.Polygon)
	if points == "" {
		return
	}
	fmt.Fprintf(buf, `  <polygon class="%s" points="%s"`, html.EscapeString(l.Class), points)
	if tf := Transform(l.Polygon); tf != "" {
		fmt.Fprintf(buf, ` transform="%s"`, tf)
	}
	buf.WriteString("/>\n")
}
