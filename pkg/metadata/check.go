package metadata

import "fmt"

// Issue is a structural problem found by [Check].
type Issue struct {
	Path    string // location in the document, e.g. "drawings.01.disciplines.건축"
	Message string
}

// String formats the issue as "path: message".
func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// Check reports structural problems in m: dangling parents, drawings
// without a root, empty region revision lists, duplicate revision versions
// and transforms without a reference image. Check never modifies m and the
// problems it reports do not prevent the document from being viewed.
func Check(m *Metadata) []Issue {
	if m == nil {
		return []Issue{{Path: "", Message: "document is empty"}}
	}

	var issues []Issue
	report := func(path, format string, args ...any) {
		issues = append(issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if len(m.Roots()) == 0 && m.Drawings.Len() > 0 {
		report("drawings", "no root drawing (every drawing has a parent)")
	}

	for _, id := range m.Drawings.Keys() {
		d, _ := m.Drawings.Get(id)
		path := "drawings." + id
		if d == nil {
			report(path, "drawing is null")
			continue
		}
		if d.ID != id {
			report(path, "id %q does not match key", d.ID)
		}
		if d.Parent != nil && *d.Parent != "" && !m.Drawings.Has(*d.Parent) {
			report(path, "parent %q does not exist", *d.Parent)
		}

		for _, name := range d.Disciplines.Keys() {
			disc, _ := d.Disciplines.Get(name)
			dpath := path + ".disciplines." + name
			if disc == nil {
				report(dpath, "discipline is null")
				continue
			}
			checkTransform(report, dpath+".imageTransform", disc.ImageTransform)
			checkRevisions(report, dpath+".revisions", disc.Revisions)

			for _, rname := range disc.Regions.Keys() {
				r, _ := disc.Regions.Get(rname)
				rpath := dpath + ".regions." + rname
				if r == nil || len(r.Revisions) == 0 {
					report(rpath, "region has no revisions")
					continue
				}
				checkRevisions(report, rpath+".revisions", r.Revisions)
			}
		}
	}
	return issues
}

func checkRevisions(report func(string, string, ...any), path string, revs []Revision) {
	seen := make(map[string]bool, len(revs))
	for i, r := range revs {
		rpath := fmt.Sprintf("%s[%d]", path, i)
		if r.Version == "" {
			report(rpath, "revision has no version")
		} else if seen[r.Version] {
			report(rpath, "duplicate version %q", r.Version)
		}
		seen[r.Version] = true
		checkTransform(report, rpath+".imageTransform", r.ImageTransform)
	}
}

func checkTransform(report func(string, string, ...any), path string, t *ImageTransform) {
	if t == nil {
		return
	}
	if t.RelativeTo == "" {
		report(path, "transform has no relativeTo and will be ignored")
	}
	if t.Scale <= 0 {
		report(path, "scale %g is not positive", t.Scale)
	}
}
