package metadata

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	apperrors "github.com/matzehuels/blueprint/pkg/errors"
)

func loadFixture(t *testing.T) *Metadata {
	t.Helper()
	m, err := ReadFile("testdata/metadata.json")
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	return m
}

func TestParseKeepsDocumentOrder(t *testing.T) {
	m := loadFixture(t)

	if got, want := m.Drawings.Keys(), []string{"00", "01", "02"}; !slices.Equal(got, want) {
		t.Errorf("drawing keys = %v, want %v", got, want)
	}

	a := m.Drawing("01")
	if got, want := a.DisciplineNames(), []string{"architecture", "structure", "mep"}; !slices.Equal(got, want) {
		t.Errorf("discipline names = %v, want %v", got, want)
	}

	if got, want := a.Discipline("structure").RegionNames(), []string{"north", "east"}; !slices.Equal(got, want) {
		t.Errorf("region names = %v, want %v", got, want)
	}
}

func TestParseOptionalFields(t *testing.T) {
	m := loadFixture(t)
	a := m.Drawing("01")

	mep := a.Discipline("mep")
	if mep == nil {
		t.Fatal("mep discipline should be present")
	}
	if mep.Image != "" || mep.Polygon != nil || mep.ImageTransform != nil || len(mep.Revisions) != 0 || mep.Regions.Len() != 0 {
		t.Errorf("empty discipline should have no values, got %+v", mep)
	}

	if m.Drawing("02").Discipline("architecture") != nil {
		t.Error("drawing without disciplines should return nil discipline")
	}
	if m.Drawing("missing") != nil {
		t.Error("unknown drawing should be nil")
	}
}

func TestParseTransformDefaults(t *testing.T) {
	m, err := Parse([]byte(`{"drawings":{"x":{"name":"X","disciplines":{"d":{
		"imageTransform":{"relativeTo":"x.png","x":1,"y":2,"rotation":0.5},
		"polygon":{"vertices":[[0,0]],"polygonTransform":{"x":3,"y":4}}}}}}}`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	d := m.Drawing("x")
	if d.ID != "x" {
		t.Errorf("ID = %q, want key %q", d.ID, "x")
	}
	disc := d.Discipline("d")
	if disc.ImageTransform.Scale != 1 {
		t.Errorf("missing image scale = %v, want 1", disc.ImageTransform.Scale)
	}
	if disc.Polygon.PolygonTransform.Scale != 1 {
		t.Errorf("missing polygon scale = %v, want 1", disc.Polygon.PolygonTransform.Scale)
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte(`{"drawings": [1, 2]}`))
	if err == nil {
		t.Fatal("Parse() should fail on malformed drawings")
	}
	if !apperrors.Is(err, apperrors.ErrCodeInvalidMetadata) {
		t.Errorf("error code = %v, want %v", apperrors.GetCode(err), apperrors.ErrCodeInvalidMetadata)
	}
}

func TestOrderedDuplicateKey(t *testing.T) {
	var m Ordered[int]
	if err := m.UnmarshalJSON([]byte(`{"b": 1, "a": 2, "b": 3}`)); err != nil {
		t.Fatalf("UnmarshalJSON() error: %v", err)
	}
	if got := m.Keys(); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("Keys() = %v, want [b a]", got)
	}
	if v, _ := m.Get("b"); v != 3 {
		t.Errorf("Get(b) = %d, want 3", v)
	}
}

func TestOrderedNull(t *testing.T) {
	var m Ordered[int]
	m.Set("a", 1)
	if err := m.UnmarshalJSON([]byte(`null`)); err != nil {
		t.Fatalf("UnmarshalJSON(null) error: %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestWriteRoundTripKeepsOrder(t *testing.T) {
	m := loadFixture(t)

	var buf bytes.Buffer
	if err := m.Write(&buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	out := buf.String()
	if strings.Index(out, `"structure"`) > strings.Index(out, `"mep"`) {
		t.Error("Write() should keep discipline order")
	}

	again, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if got := again.Drawing("01").DisciplineNames(); !slices.Equal(got, []string{"architecture", "structure", "mep"}) {
		t.Errorf("discipline names after round trip = %v", got)
	}
}

func TestTree(t *testing.T) {
	m := loadFixture(t)

	roots := m.Roots()
	if len(roots) != 1 || roots[0].ID != "00" {
		t.Fatalf("Roots() = %v, want [00]", ids(roots))
	}

	if got := ids(m.Sheets()); !slices.Equal(got, []string{"01", "02"}) {
		t.Errorf("Sheets() = %v, want [01 02]", got)
	}

	if got := ids(m.Ancestors("01")); !slices.Equal(got, []string{"00"}) {
		t.Errorf("Ancestors(01) = %v, want [00]", got)
	}
	if got := m.Ancestors("00"); len(got) != 0 {
		t.Errorf("Ancestors(00) = %v, want none", ids(got))
	}
}

func TestAncestorsCycle(t *testing.T) {
	m, err := Parse([]byte(`{"drawings":{"a":{"parent":"b"},"b":{"parent":"a"}}}`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := ids(m.Ancestors("a")); !slices.Equal(got, []string{"b"}) {
		t.Errorf("Ancestors(a) = %v, want [b]", got)
	}
}

func TestImages(t *testing.T) {
	m := loadFixture(t)
	want := []string{
		"site.png", "a.png", "a-arch.png", "a-arch-A.png", "a-arch-B.png", "a-arch-C.png",
		"a-str-n-1.png", "a-str-n-2.png", "a-str-e-1.png", "b.png",
	}
	if got := m.Images(); !slices.Equal(got, want) {
		t.Errorf("Images() = %v, want %v", got, want)
	}
}

func TestFindRevisionAndLatest(t *testing.T) {
	revs := loadFixture(t).Drawing("01").Discipline("architecture").Revisions

	if r := FindRevision(revs, "B"); r == nil || r.Image != "a-arch-B.png" {
		t.Errorf("FindRevision(B) = %v", r)
	}
	if r := FindRevision(revs, "Z"); r != nil {
		t.Errorf("FindRevision(Z) = %v, want nil", r)
	}
	if r := FindRevision(revs, ""); r != nil {
		t.Errorf("FindRevision(\"\") = %v, want nil", r)
	}
	if r := Latest(revs); r == nil || r.Version != "C" {
		t.Errorf("Latest() = %v, want C", r)
	}
	if Latest(nil) != nil {
		t.Error("Latest(nil) should be nil")
	}
}

func TestImageTransformApplies(t *testing.T) {
	tests := []struct {
		name string
		tf   *ImageTransform
		base string
		want bool
	}{
		{"nil transform", nil, "a.png", false},
		{"empty base", &ImageTransform{RelativeTo: "a.png"}, "", false},
		{"no reference", &ImageTransform{}, "a.png", false},
		{"mismatch", &ImageTransform{RelativeTo: "b.png"}, "a.png", false},
		{"match", &ImageTransform{RelativeTo: "a.png"}, "a.png", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tf.Applies(tt.base); got != tt.want {
				t.Errorf("Applies() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	if issues := Check(loadFixture(t)); len(issues) != 0 {
		t.Errorf("Check(fixture) = %v, want no issues", issues)
	}

	m, err := Parse([]byte(`{"drawings":{
		"00":{"parent":null},
		"01":{"parent":"99","disciplines":{"d":{
			"imageTransform":{"x":1,"y":1},
			"revisions":[{"version":"A"},{"version":"A"}],
			"regions":{"r":{"revisions":[]}}}}}}}`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	var msgs []string
	for _, is := range Check(m) {
		msgs = append(msgs, is.String())
	}
	joined := strings.Join(msgs, "\n")
	for _, want := range []string{
		`drawings.01: parent "99" does not exist`,
		"drawings.01.disciplines.d.imageTransform: transform has no relativeTo",
		`drawings.01.disciplines.d.revisions[1]: duplicate version "A"`,
		"drawings.01.disciplines.d.regions.r: region has no revisions",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("Check() missing %q in:\n%s", want, joined)
		}
	}
}

func ids(ds []*Drawing) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.ID
	}
	return out
}
