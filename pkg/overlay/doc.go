// Package overlay composes the rendering transform of a comparison overlay.
//
// A secondary drawing is laid over the base image when its [metadata.ImageTransform]
// names the base image in RelativeTo. The automatic part of the transform is
// anchor-relative: the overlay is shifted by the distance between the
// transform's anchor and the dataset reference point, then rotated and scaled
// around the anchor. A manual [Calibration] is appended after the automatic
// part, so manual corrections act in the already aligned frame.
//
// The result is a [Style] that a browser applies directly as CSS:
//
//	style := overlay.ComputeOverlayStyle(tf, "a-arch-C.png", 55, overlay.DefaultCalibration(), overlay.DefaultAnchor)
//	fmt.Println(style.CSS())
//
// Unrelated images, where the transform is missing or names another base,
// only get an opacity.
//
// [SolveCalibration] runs the other way: given control points picked on both
// images it fits the manual calibration that best aligns them.
package overlay
