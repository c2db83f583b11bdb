// Package resolve turns a selection (drawing, discipline, region, revision)
// into the effective image, polygon and overlay transform to display.
//
// # Fallback chains
//
// Each effective value is the first non-empty candidate of an ordered list:
//
//	image:     revision image → discipline image → drawing image
//	polygon:   region polygon → revision polygon → discipline polygon
//	transform: secondary revision transform → secondary discipline transform
//
// [First] evaluates such a list. The chains are plain functions of their
// inputs and never allocate new metadata, so resolving the same selection
// twice returns the same values.
//
// # Auto-repair
//
// When the candidate list for a level changes (another drawing, discipline
// or region was picked) and the selected key is no longer a member,
// [Selection.Normalize] picks a default: the first entry for drawings,
// disciplines and regions, the last (newest) entry for revisions. The
// secondary discipline prefers one that differs from the primary.
package resolve
