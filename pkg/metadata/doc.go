// Package metadata defines the drawing metadata tree and its JSON encoding.
//
// # Overview
//
// A metadata document describes a project as a tree of drawings. Each
// drawing names a default image and a set of disciplines (architecture,
// structure, ...). A discipline carries optional defaults (image, overlay
// transform, polygon), an optional flat revision list and optional named
// regions, each with its own revision list:
//
//	Metadata
//	└── Drawing (id, name, image, parent)
//	    └── DisciplineData (image?, imageTransform?, polygon?, revisions?)
//	        └── Region (polygon?, revisions)
//	            └── Revision (version, image, date, description, changes,
//	                          imageTransform?, polygon?)
//
// # Ordering
//
// Mapping order is significant: the first discipline and first region in the
// document are the defaults a viewer falls back to. [Ordered] keeps JSON
// object keys in document order, so Keys always reflects the file.
//
// # Optional fields
//
// The document is not validated. A missing field is "no value": nil
// pointers, empty strings and empty slices. [Check] reports structural
// problems for tooling without rejecting the document.
//
// # Usage
//
//	m, err := metadata.ReadFile("data/metadata.json")
//	if err != nil {
//	    return err
//	}
//	for _, d := range m.Sheets() {
//	    fmt.Println(d.ID, d.Name, d.Disciplines.Keys())
//	}
package metadata
