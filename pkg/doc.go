// Package pkg provides the core libraries of the blueprint drawing viewer.
//
// # Overview
//
// Blueprint browses hierarchical construction drawings: a site contains
// buildings, each building has disciplines (architecture, structure, ...),
// disciplines may be split into regions, and every level carries dated
// revisions. A second drawing can be laid over the first for comparison,
// aligned by a transform from the metadata and a manual calibration.
//
// The pkg directory is organized into three areas:
//
//  1. Domain - [metadata], [resolve], [overlay], [polygon], [geometry], [viewer]
//  2. Infrastructure - [source], [cache], [httputil], [imageinfo], [session], [config]
//  3. Support - [errors], [observability], [buildinfo], [hierarchy]
//
// # Architecture
//
// The data flow of one view:
//
//	metadata document (file, HTTP, MongoDB)
//	         ↓
//	    [source] package (load, cache)
//	         ↓
//	    [metadata] package (ordered drawing tree)
//	         ↓
//	    [resolve] package (repair selection, fallback chains)
//	         ↓
//	    [overlay] + [polygon] packages (CSS transform, SVG attributes)
//	         ↓
//	    [viewer] package (View returned to the browser or CLI)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/blueprint/pkg/metadata"
//	    "github.com/matzehuels/blueprint/pkg/viewer"
//	)
//
//	m, _ := metadata.ReadFile("data/metadata.json")
//	v := viewer.New(m, viewer.Options{})
//	v.SelectDiscipline("structure")
//	v.SetCompare(true)
//	view := v.View()
//	fmt.Println(view.Image.URL, view.Compare.CSS)
//
// # Package Guide
//
// [resolve] - The selection resolver. Every selected key is repaired against
// its candidate list (first drawing, discipline and region, latest
// revision), and the image, polygon and overlay transform are taken from the
// first level of a fallback chain that has a value.
//
// [overlay] - The transform compositor. Combines the automatic alignment of
// the compared drawing with the manual calibration into one CSS transform,
// and fits a calibration from control points.
//
// [polygon] - SVG point lists and pivoted transforms for region outlines.
//
// [geometry] - Affine matrices on gonum, used to check and fit transforms.
//
// [source] - Metadata loading from a file, a cached HTTP URL, or a MongoDB
// collection. A failed load is reported, never repeated.
//
// [imageinfo] - Natural pixel sizes of drawing images, probed concurrently
// and cached.
//
// [metadata]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/metadata
// [resolve]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/resolve
// [overlay]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/overlay
// [polygon]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/polygon
// [geometry]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/geometry
// [viewer]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/viewer
// [source]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/source
// [cache]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/httputil
// [imageinfo]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/imageinfo
// [session]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/session
// [config]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/buildinfo
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/blueprint/pkg/hierarchy
package pkg
