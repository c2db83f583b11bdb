package resolve

import "github.com/matzehuels/blueprint/pkg/metadata"

// RevisionList returns the revisions to choose from: the named region's list
// when the region exists on the discipline and has revisions, otherwise the
// discipline's flat list. A nil discipline, or one with neither, yields nil.
//
// The returned slice aliases the metadata; callers must not modify it.
func RevisionList(d *metadata.DisciplineData, regionName string) []metadata.Revision {
	if d == nil {
		return nil
	}
	if r := d.Region(regionName); r != nil && len(r.Revisions) > 0 {
		return r.Revisions
	}
	return d.Revisions
}

// Image returns the effective image name: the revision's image, then the
// discipline's default image, then the owning drawing's image.
func Image(d *metadata.Drawing, disc *metadata.DisciplineData, rev *metadata.Revision) string {
	var revImage, discImage, drawingImage string
	if rev != nil {
		revImage = rev.Image
	}
	if disc != nil {
		discImage = disc.Image
	}
	if d != nil {
		drawingImage = d.Image
	}
	return First(revImage, discImage, drawingImage)
}

// Polygon returns the effective polygon: the selected region's polygon, then
// the revision's polygon, then the discipline's default polygon.
func Polygon(disc *metadata.DisciplineData, regionName string, rev *metadata.Revision) *metadata.Polygon {
	var regionPoly, revPoly, discPoly *metadata.Polygon
	if r := disc.Region(regionName); r != nil {
		regionPoly = r.Polygon
	}
	if rev != nil {
		revPoly = rev.Polygon
	}
	if disc != nil {
		discPoly = disc.Polygon
	}
	return First(regionPoly, revPoly, discPoly)
}

// Transform returns the overlay transform of the secondary selection: the
// revision's transform, then the discipline's default transform. Whether the
// transform applies to the base image is decided by the compositor.
func Transform(disc *metadata.DisciplineData, rev *metadata.Revision) *metadata.ImageTransform {
	var revTf, discTf *metadata.ImageTransform
	if rev != nil {
		revTf = rev.ImageTransform
	}
	if disc != nil {
		discTf = disc.ImageTransform
	}
	return First(revTf, discTf)
}
