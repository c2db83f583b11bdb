// Package hierarchy renders the drawing tree of a metadata document as a
// node-link diagram.
//
// # Usage
//
// Convert the document to DOT, then render to SVG:
//
//	dot := hierarchy.ToDOT(m, hierarchy.Options{Detailed: true})
//	svg, err := hierarchy.RenderSVG(dot)
//
// Drawings are boxes connected parent to child. With Detailed set, every
// discipline hangs below its drawing as an ellipse labeled with its regions
// and revision count, which makes gaps in a dataset easy to spot.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package hierarchy
