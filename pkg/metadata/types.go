package metadata

import "encoding/json"

// Metadata is the root of a metadata document.
type Metadata struct {
	Project  Project           `json:"project"`
	Drawings Ordered[*Drawing] `json:"drawings"`
}

// Project carries document-level information.
type Project struct {
	Name string `json:"name"`
}

// Drawing is a node of the drawing tree: the site plan at the root, buildings
// below it. Parent is nil for a root drawing.
type Drawing struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Image       string                   `json:"image"`
	Parent      *string                  `json:"parent"`
	Disciplines Ordered[*DisciplineData] `json:"disciplines"`
}

// DisciplineData holds the drawings of one discipline of a building.
// Revisions is the flat list used when no region is selected; Regions holds
// per-region revision lists.
type DisciplineData struct {
	Image          string           `json:"image,omitempty"`
	ImageTransform *ImageTransform  `json:"imageTransform,omitempty"`
	Polygon        *Polygon         `json:"polygon,omitempty"`
	Revisions      []Revision       `json:"revisions,omitempty"`
	Regions        Ordered[*Region] `json:"regions"`
}

// Region is a named sub-area of a discipline with its own revision history,
// ordered oldest to newest.
type Region struct {
	Polygon   *Polygon   `json:"polygon,omitempty"`
	Revisions []Revision `json:"revisions"`
}

// Revision is one issued version of a drawing.
type Revision struct {
	Version        string          `json:"version"`
	Image          string          `json:"image"`
	Date           string          `json:"date"`
	Description    string          `json:"description"`
	Changes        []string        `json:"changes"`
	ImageTransform *ImageTransform `json:"imageTransform,omitempty"`
	Polygon        *Polygon        `json:"polygon,omitempty"`
}

// ImageTransform places an image over the image named by RelativeTo.
// X and Y are the anchor in source pixel space, Rotation is in radians.
// A transform with an empty RelativeTo is inapplicable.
type ImageTransform struct {
	RelativeTo string  `json:"relativeTo,omitempty"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Scale      float64 `json:"scale"`
	Rotation   float64 `json:"rotation"`
}

// UnmarshalJSON decodes an ImageTransform. A missing scale means 1.
func (t *ImageTransform) UnmarshalJSON(data []byte) error {
	type plain ImageTransform
	v := plain{Scale: 1}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = ImageTransform(v)
	return nil
}

// Applies reports whether t can align an overlay onto the image named base.
func (t *ImageTransform) Applies(base string) bool {
	return t != nil && base != "" && t.RelativeTo != "" && t.RelativeTo == base
}

// Polygon outlines an area in base image pixel space.
type Polygon struct {
	Vertices         [][2]float64      `json:"vertices"`
	PolygonTransform *PolygonTransform `json:"polygonTransform,omitempty"`
}

// PolygonTransform rotates and scales a polygon around its own anchor (X, Y).
// Rotation is in radians.
type PolygonTransform struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"`
}

// UnmarshalJSON decodes a PolygonTransform. A missing scale means 1.
func (t *PolygonTransform) UnmarshalJSON(data []byte) error {
	type plain PolygonTransform
	v := plain{Scale: 1}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = PolygonTransform(v)
	return nil
}
