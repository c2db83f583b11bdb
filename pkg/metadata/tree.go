package metadata

// Drawing returns the drawing with the given id, or nil.
func (m *Metadata) Drawing(id string) *Drawing {
	if m == nil {
		return nil
	}
	d, _ := m.Drawings.Get(id)
	return d
}

// Roots returns the drawings without a parent, in document order.
func (m *Metadata) Roots() []*Drawing {
	if m == nil {
		return nil
	}
	var out []*Drawing
	for _, d := range m.Drawings.Values() {
		if d != nil && (d.Parent == nil || *d.Parent == "") {
			out = append(out, d)
		}
	}
	return out
}

// Children returns the drawings whose parent is parentID, in document order.
func (m *Metadata) Children(parentID string) []*Drawing {
	if m == nil {
		return nil
	}
	var out []*Drawing
	for _, d := range m.Drawings.Values() {
		if d != nil && d.Parent != nil && *d.Parent == parentID {
			out = append(out, d)
		}
	}
	return out
}

// Sheets returns the selectable drawings: the children of the first root
// drawing (the site plan). A document without a root yields nil.
func (m *Metadata) Sheets() []*Drawing {
	roots := m.Roots()
	if len(roots) == 0 {
		return nil
	}
	return m.Children(roots[0].ID)
}

// Ancestors returns the chain of drawings from the root down to, but not
// including, the drawing with the given id. Cycles stop the walk.
func (m *Metadata) Ancestors(id string) []*Drawing {
	d := m.Drawing(id)
	if d == nil {
		return nil
	}
	seen := map[string]bool{d.ID: true}
	var chain []*Drawing
	for d.Parent != nil && *d.Parent != "" {
		p := m.Drawing(*d.Parent)
		if p == nil || seen[p.ID] {
			break
		}
		seen[p.ID] = true
		chain = append(chain, p)
		d = p
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Images returns every image name referenced by the document, each once,
// in document order.
func (m *Metadata) Images() []string {
	if m == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	addRevisions := func(revs []Revision) {
		for _, r := range revs {
			add(r.Image)
		}
	}
	for _, d := range m.Drawings.Values() {
		if d == nil {
			continue
		}
		add(d.Image)
		for _, disc := range d.Disciplines.Values() {
			if disc == nil {
				continue
			}
			add(disc.Image)
			addRevisions(disc.Revisions)
			for _, r := range disc.Regions.Values() {
				if r != nil {
					addRevisions(r.Revisions)
				}
			}
		}
	}
	return out
}

// Discipline returns the named discipline, or nil.
func (d *Drawing) Discipline(name string) *DisciplineData {
	if d == nil {
		return nil
	}
	disc, _ := d.Disciplines.Get(name)
	return disc
}

// DisciplineNames returns the discipline names in document order.
func (d *Drawing) DisciplineNames() []string {
	if d == nil {
		return nil
	}
	return d.Disciplines.Keys()
}

// Region returns the named region, or nil.
func (d *DisciplineData) Region(name string) *Region {
	if d == nil || name == "" {
		return nil
	}
	r, _ := d.Regions.Get(name)
	return r
}

// RegionNames returns the region names in document order.
func (d *DisciplineData) RegionNames() []string {
	if d == nil {
		return nil
	}
	return d.Regions.Keys()
}

// FindRevision returns the revision with the given version, or nil.
func FindRevision(revs []Revision, version string) *Revision {
	if version == "" {
		return nil
	}
	for i := range revs {
		if revs[i].Version == version {
			return &revs[i]
		}
	}
	return nil
}

// Latest returns the newest revision of an oldest-to-newest list, or nil.
func Latest(revs []Revision) *Revision {
	if len(revs) == 0 {
		return nil
	}
	return &revs[len(revs)-1]
}
