package hierarchy

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/blueprint/pkg/metadata"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds a node per discipline.
	Detailed bool
}

// ToDOT converts the drawing tree of m to Graphviz DOT. Drawings whose parent
// is missing from the document are drawn as roots.
func ToDOT(m *metadata.Metadata, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Drawings {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	if m == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	drawings := m.Drawings.Values()
	for _, d := range drawings {
		if d == nil {
			continue
		}
		fmt.Fprintf(&buf, "  %q [label=%q];\n", nodeID(d), drawingLabel(d))
		if !opts.Detailed {
			continue
		}
		for _, name := range d.DisciplineNames() {
			id := nodeID(d) + "/" + name
			fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse, fillcolor=\"#eef3f8\"];\n", id, disciplineLabel(name, d.Discipline(name)))
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, arrowhead=none];\n", nodeID(d), id)
		}
	}

	buf.WriteString("\n")
	for _, d := range drawings {
		if d == nil || d.Parent == nil || m.Drawing(*d.Parent) == nil {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", *d.Parent, nodeID(d))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(d *metadata.Drawing) string { return d.ID }

func drawingLabel(d *metadata.Drawing) string {
	label := d.ID + " " + d.Name
	if d.Image != "" {
		label += "\n" + d.Image
	}
	return label
}

func disciplineLabel(name string, disc *metadata.DisciplineData) string {
	parts := []string{name}
	if disc == nil {
		return name
	}
	if regions := disc.RegionNames(); len(regions) > 0 {
		parts = append(parts, "regions: "+strings.Join(regions, ", "))
	}
	revisions := len(disc.Revisions)
	for _, r := range disc.Regions.Values() {
		if r != nil {
			revisions += len(r.Revisions)
		}
	}
	parts = append(parts, fmt.Sprintf("%d revisions", revisions))
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element so the diagram scales
// from the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
