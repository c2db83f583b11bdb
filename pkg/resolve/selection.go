package resolve

import "github.com/matzehuels/blueprint/pkg/metadata"

// Selection holds the selected keys of the primary and secondary (compare)
// drawing. The secondary selection shares the primary drawing and region.
type Selection struct {
	Drawing             string `json:"drawing"`
	Discipline          string `json:"discipline"`
	Region              string `json:"region"`
	Revision            string `json:"revision"`
	SecondaryDiscipline string `json:"secondaryDiscipline"`
	SecondaryRevision   string `json:"secondaryRevision"`
}

// Normalize returns s with every key repaired against m. Levels are repaired
// top-down so that each candidate list reflects the repaired level above:
// drawing, discipline, secondary discipline, region, revision, secondary
// revision. Normalize is idempotent.
func (s Selection) Normalize(m *metadata.Metadata) Selection {
	s.Drawing = RepairFirst(s.Drawing, DrawingIDs(m.Sheets()))
	d := m.Drawing(s.Drawing)

	names := d.DisciplineNames()
	s.Discipline = RepairFirst(s.Discipline, names)
	s.SecondaryDiscipline = RepairSecondary(s.SecondaryDiscipline, names, s.Discipline)

	disc := d.Discipline(s.Discipline)
	s.Region = RepairFirst(s.Region, disc.RegionNames())

	s.Revision = RepairRevision(s.Revision, RevisionList(disc, s.Region))
	s.SecondaryRevision = RepairRevision(s.SecondaryRevision,
		RevisionList(d.Discipline(s.SecondaryDiscipline), s.Region))

	return s
}

// Resolved is everything derived from a selection.
type Resolved struct {
	Drawing    *metadata.Drawing
	Discipline *metadata.DisciplineData
	Region     *metadata.Region
	Revisions  []metadata.Revision
	Revision   *metadata.Revision
	Image      string
	Polygon    *metadata.Polygon

	SecondaryDiscipline *metadata.DisciplineData
	SecondaryRevisions  []metadata.Revision
	SecondaryRevision   *metadata.Revision
	OverlayImage        string
	OverlayTransform    *metadata.ImageTransform
	ComparePolygon      *metadata.Polygon
}

// Resolve looks up every effective value for s. It does not repair s; call
// Normalize first when s may be stale.
func Resolve(m *metadata.Metadata, s Selection) Resolved {
	d := m.Drawing(s.Drawing)
	disc := d.Discipline(s.Discipline)
	revs := RevisionList(disc, s.Region)
	rev := metadata.FindRevision(revs, s.Revision)

	secDisc := d.Discipline(s.SecondaryDiscipline)
	secRevs := RevisionList(secDisc, s.Region)
	secRev := metadata.FindRevision(secRevs, s.SecondaryRevision)

	return Resolved{
		Drawing:    d,
		Discipline: disc,
		Region:     disc.Region(s.Region),
		Revisions:  revs,
		Revision:   rev,
		Image:      Image(d, disc, rev),
		Polygon:    Polygon(disc, s.Region, rev),

		SecondaryDiscipline: secDisc,
		SecondaryRevisions:  secRevs,
		SecondaryRevision:   secRev,
		OverlayImage:        Image(d, secDisc, secRev),
		OverlayTransform:    Transform(secDisc, secRev),
		ComparePolygon:      Polygon(secDisc, s.Region, secRev),
	}
}
