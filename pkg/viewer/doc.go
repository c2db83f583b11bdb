// Package viewer holds the state of one drawing viewer and derives everything
// it displays.
//
// A [Viewer] owns the selection (drawing, discipline, region, revision and
// the secondary comparison selection) plus the display settings: compare
// mode, opacity, before/after split and manual calibration. Every update
// repairs the selection against the metadata, so the state is always
// consistent; [Viewer.View] then resolves images, polygons and the overlay
// style as pure functions of that state.
//
// A Viewer is not safe for concurrent use. Callers that share one guard it
// with their own lock.
package viewer
