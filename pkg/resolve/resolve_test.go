package resolve

import (
	"slices"
	"testing"

	"github.com/matzehuels/blueprint/pkg/metadata"
)

func loadFixture(t *testing.T) *metadata.Metadata {
	t.Helper()
	m, err := metadata.ReadFile("../metadata/testdata/metadata.json")
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	return m
}

func TestFirst(t *testing.T) {
	if got := First("", "b", "c"); got != "b" {
		t.Errorf("First() = %q, want b", got)
	}
	if got := First("", ""); got != "" {
		t.Errorf("First() = %q, want empty", got)
	}
	if got := First[string](); got != "" {
		t.Errorf("First() = %q, want empty", got)
	}
	p := &metadata.Polygon{}
	if got := First[*metadata.Polygon](nil, p); got != p {
		t.Errorf("First(nil, p) = %v, want p", got)
	}
}

func TestRevisionList(t *testing.T) {
	m := loadFixture(t)
	a := m.Drawing("01")
	arch := a.Discipline("architecture")
	str := a.Discipline("structure")

	tests := []struct {
		name     string
		disc     *metadata.DisciplineData
		region   string
		want     []string
		wantSame []metadata.Revision
	}{
		{"nil discipline", nil, "north", nil, nil},
		{"flat list", arch, "", []string{"A", "B", "C"}, arch.Revisions},
		{"unknown region falls back to flat", arch, "north", []string{"A", "B", "C"}, arch.Revisions},
		{"region list", str, "north", []string{"S1", "S2"}, str.Region("north").Revisions},
		{"other region", str, "east", []string{"E1"}, str.Region("east").Revisions},
		{"no region selected, no flat list", str, "", []string{}, nil},
		{"empty discipline", a.Discipline("mep"), "", []string{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RevisionList(tt.disc, tt.region)
			if v := Versions(got); !slices.Equal(v, tt.want) && !(len(v) == 0 && len(tt.want) == 0) {
				t.Errorf("RevisionList() versions = %v, want %v", v, tt.want)
			}
			if len(tt.wantSame) > 0 && &got[0] != &tt.wantSame[0] {
				t.Error("RevisionList() should return the metadata slice itself")
			}
		})
	}
}

func TestRevisionListIdempotent(t *testing.T) {
	str := loadFixture(t).Drawing("01").Discipline("structure")
	first := RevisionList(str, "north")
	second := RevisionList(str, "north")
	if len(first) == 0 || &first[0] != &second[0] || len(first) != len(second) {
		t.Error("RevisionList() should be referentially stable for identical inputs")
	}
}

func TestRevisionListRegionWithoutRevisions(t *testing.T) {
	m, err := metadata.Parse([]byte(`{
		"drawings": {
			"01": {
				"id": "01",
				"image": "plan.png",
				"disciplines": {
					"arch": {
						"revisions": [
							{"version": "A", "image": "arch-A.png"},
							{"version": "B", "image": "arch-B.png"}
						],
						"regions": {
							"north": {"revisions": []},
							"south": {}
						}
					}
				}
			}
		}
	}`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	arch := m.Drawing("01").Discipline("arch")

	for _, region := range []string{"north", "south"} {
		t.Run(region, func(t *testing.T) {
			if got := Versions(RevisionList(arch, region)); !slices.Equal(got, []string{"A", "B"}) {
				t.Errorf("RevisionList(%q) versions = %v, want [A B]", region, got)
			}

			s := Selection{Drawing: "01", Discipline: "arch", Region: region}.Normalize(m)
			if s.Region != region {
				t.Errorf("Region = %q, want %q", s.Region, region)
			}
			if s.Revision != "B" {
				t.Errorf("Revision = %q, want B (latest of the flat list)", s.Revision)
			}
			if r := Resolve(m, s); r.Image != "arch-B.png" {
				t.Errorf("Image = %q, want arch-B.png", r.Image)
			}
		})
	}
}

func TestImagePrecedence(t *testing.T) {
	d := &metadata.Drawing{Image: "drawing.png"}
	disc := &metadata.DisciplineData{Image: "disc.png"}
	rev := &metadata.Revision{Image: "rev.png"}

	tests := []struct {
		name string
		d    *metadata.Drawing
		disc *metadata.DisciplineData
		rev  *metadata.Revision
		want string
	}{
		{"revision wins", d, disc, rev, "rev.png"},
		{"empty revision image", d, disc, &metadata.Revision{}, "disc.png"},
		{"discipline default", d, disc, nil, "disc.png"},
		{"drawing default", d, &metadata.DisciplineData{}, nil, "drawing.png"},
		{"no discipline", d, nil, nil, "drawing.png"},
		{"nothing", nil, nil, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Image(tt.d, tt.disc, tt.rev); got != tt.want {
				t.Errorf("Image() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPolygonPrecedence(t *testing.T) {
	m := loadFixture(t)
	a := m.Drawing("01")
	arch := a.Discipline("architecture")
	str := a.Discipline("structure")

	revB := metadata.FindRevision(arch.Revisions, "B")
	revC := metadata.FindRevision(arch.Revisions, "C")

	if got := Polygon(arch, "", revB); got != revB.Polygon {
		t.Error("revision polygon should win over discipline polygon")
	}
	if got := Polygon(arch, "", revC); got != arch.Polygon {
		t.Error("discipline polygon should be used when revision has none")
	}
	north := str.Region("north")
	s2 := metadata.FindRevision(north.Revisions, "S2")
	if got := Polygon(str, "north", s2); got != north.Polygon {
		t.Error("region polygon should win")
	}
	if got := Polygon(str, "east", nil); got != nil {
		t.Errorf("Polygon() = %v, want nil", got)
	}
	if got := Polygon(nil, "", nil); got != nil {
		t.Errorf("Polygon(nil) = %v, want nil", got)
	}
}

func TestTransformPrecedence(t *testing.T) {
	str := loadFixture(t).Drawing("01").Discipline("structure")
	north := str.Region("north")
	s1 := metadata.FindRevision(north.Revisions, "S1")
	s2 := metadata.FindRevision(north.Revisions, "S2")

	if got := Transform(str, s2); got != s2.ImageTransform {
		t.Error("revision transform should win")
	}
	if got := Transform(str, s1); got != str.ImageTransform {
		t.Error("discipline transform should be the fallback")
	}
	if got := Transform(nil, nil); got != nil {
		t.Errorf("Transform(nil, nil) = %v, want nil", got)
	}
}

func TestRepair(t *testing.T) {
	names := []string{"architecture", "structure", "mep"}

	if got := RepairFirst("structure", names); got != "structure" {
		t.Errorf("RepairFirst(member) = %q", got)
	}
	if got := RepairFirst("gone", names); got != "architecture" {
		t.Errorf("RepairFirst(stale) = %q, want first", got)
	}
	if got := RepairFirst("gone", nil); got != "" {
		t.Errorf("RepairFirst(empty list) = %q, want empty", got)
	}

	if got := RepairSecondary("", names, "architecture"); got != "structure" {
		t.Errorf("RepairSecondary() = %q, want structure", got)
	}
	if got := RepairSecondary("architecture", names, "architecture"); got != "architecture" {
		t.Errorf("RepairSecondary(member) = %q, want kept", got)
	}
	if got := RepairSecondary("", []string{"architecture"}, "architecture"); got != "architecture" {
		t.Errorf("RepairSecondary(single) = %q, want architecture", got)
	}
	if got := RepairSecondary("x", nil, "architecture"); got != "" {
		t.Errorf("RepairSecondary(empty) = %q, want empty", got)
	}
}

func TestRepairRevisionPicksLatest(t *testing.T) {
	revs := []metadata.Revision{{Version: "A"}, {Version: "B"}, {Version: "C"}}

	if got := RepairRevision("", revs); got != "C" {
		t.Errorf("RepairRevision(no selection) = %q, want C", got)
	}
	if got := RepairRevision("A", revs); got != "A" {
		t.Errorf("RepairRevision(A) = %q, want A", got)
	}
	if got := RepairRevision("Z", revs); got != "C" {
		t.Errorf("RepairRevision(stale) = %q, want C", got)
	}
	if got := RepairRevision("A", nil); got != "" {
		t.Errorf("RepairRevision(empty) = %q, want empty", got)
	}
}

func TestNormalize(t *testing.T) {
	m := loadFixture(t)

	got := Selection{}.Normalize(m)
	want := Selection{
		Drawing:             "01",
		Discipline:          "architecture",
		Region:              "",
		Revision:            "C",
		SecondaryDiscipline: "structure",
		SecondaryRevision:   "",
	}
	if got != want {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}

	if again := got.Normalize(m); again != got {
		t.Errorf("Normalize() not idempotent: %+v vs %+v", again, got)
	}
}

func TestNormalizeRegion(t *testing.T) {
	m := loadFixture(t)

	got := Selection{Drawing: "01", Discipline: "structure", Revision: "C"}.Normalize(m)
	if got.Region != "north" {
		t.Errorf("Region = %q, want north", got.Region)
	}
	if got.Revision != "S2" {
		t.Errorf("Revision = %q, want S2 (latest of north)", got.Revision)
	}
	if got.SecondaryDiscipline != "architecture" {
		t.Errorf("SecondaryDiscipline = %q, want architecture", got.SecondaryDiscipline)
	}
	// architecture has no "north" region: the flat list applies.
	if got.SecondaryRevision != "C" {
		t.Errorf("SecondaryRevision = %q, want C", got.SecondaryRevision)
	}
}

func TestNormalizeDrawingWithoutDisciplines(t *testing.T) {
	m := loadFixture(t)

	got := Selection{Drawing: "02", Discipline: "architecture", Revision: "C"}.Normalize(m)
	want := Selection{Drawing: "02"}
	if got != want {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}

	r := Resolve(m, got)
	if r.Image != "b.png" {
		t.Errorf("Image = %q, want drawing image b.png", r.Image)
	}
}

func TestResolve(t *testing.T) {
	m := loadFixture(t)
	s := Selection{
		Drawing:             "01",
		Discipline:          "architecture",
		Revision:            "B",
		SecondaryDiscipline: "structure",
	}.Normalize(m)

	r := Resolve(m, s)
	if r.Image != "a-arch-B.png" {
		t.Errorf("Image = %q", r.Image)
	}
	if r.Polygon == nil || r.Polygon.PolygonTransform == nil {
		t.Error("Polygon should be revision B's polygon")
	}
	if r.Revision == nil || r.Revision.Version != "B" {
		t.Errorf("Revision = %v", r.Revision)
	}
	// structure has no flat revisions and no region is selected.
	if r.SecondaryRevision != nil {
		t.Errorf("SecondaryRevision = %v, want nil", r.SecondaryRevision)
	}
	if r.OverlayImage != "a.png" {
		t.Errorf("OverlayImage = %q, want drawing image fallback", r.OverlayImage)
	}
	if r.OverlayTransform == nil || r.OverlayTransform.RelativeTo != "a-arch-C.png" {
		t.Errorf("OverlayTransform = %v, want structure default", r.OverlayTransform)
	}
}
