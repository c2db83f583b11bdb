package resolve

import (
	"slices"

	"github.com/matzehuels/blueprint/pkg/metadata"
)

// RepairFirst keeps current when it is one of candidates, otherwise returns
// the first candidate. An empty candidate list yields "".
func RepairFirst(current string, candidates []string) string {
	if slices.Contains(candidates, current) {
		return current
	}
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

// RepairRevision keeps current when a revision with that version exists,
// otherwise returns the latest (last) version. An empty list yields "".
func RepairRevision(current string, revs []metadata.Revision) string {
	if metadata.FindRevision(revs, current) != nil {
		return current
	}
	if latest := metadata.Latest(revs); latest != nil {
		return latest.Version
	}
	return ""
}

// RepairSecondary keeps current when it is one of candidates, otherwise
// returns the first candidate different from primary, falling back to the
// first candidate.
func RepairSecondary(current string, candidates []string, primary string) string {
	if slices.Contains(candidates, current) {
		return current
	}
	for _, c := range candidates {
		if c != primary {
			return c
		}
	}
	return RepairFirst(current, candidates)
}

// Versions returns the version labels of revs in order.
func Versions(revs []metadata.Revision) []string {
	out := make([]string, len(revs))
	for i, r := range revs {
		out[i] = r.Version
	}
	return out
}

// DrawingIDs returns the ids of ds in order.
func DrawingIDs(ds []*metadata.Drawing) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.ID)
	}
	return out
}
