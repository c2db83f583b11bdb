package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/blueprint/pkg/viewer"
)

// writeConfig writes a config file that points at the metadata fixture and
// an empty asset directory, with caching disabled.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	fixture, err := filepath.Abs(filepath.Join("..", "..", "pkg", "metadata", "testdata", "metadata.json"))
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	body := fmt.Sprintf(`[metadata]
location = %q

[assets]
dir = %q

[cache]
disabled = true
%s`, fixture, t.TempDir(), extra)

	path := filepath.Join(dir, "blueprint.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the root command with args and returns what it wrote to its
// output stream.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"serve", "resolve", "browse", "tree", "calibrate", "check", "config", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"config", "metadata", "no-cache"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := run(t, "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Error("--version printed nothing")
	}
}

func TestResolveJSON(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := run(t, "resolve", "--config", cfg, "--json")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	var v viewer.View
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decode view: %v\n%s", err, out)
	}
	if v.Project != "Riverside Campus" {
		t.Errorf("Project = %q", v.Project)
	}
	if v.State.Drawing != "01" || v.State.Discipline != "architecture" || v.State.Revision != "C" {
		t.Errorf("State = %+v, want 01/architecture/C", v.State.Selection)
	}
	if v.Image == nil || v.Image.Name != "a-arch-C.png" {
		t.Fatalf("Image = %+v, want a-arch-C.png", v.Image)
	}
	if v.Image.URL != "/data/drawings/a-arch-C.png" {
		t.Errorf("Image.URL = %q", v.Image.URL)
	}
	if v.Image.Known {
		t.Error("image is not on disk, size should be the placeholder")
	}
	if v.Polygon == nil || v.Polygon.Points != "10,10 90,10 90,60" {
		t.Errorf("Polygon = %+v", v.Polygon)
	}
	if v.Compare != nil {
		t.Error("compare should be off by default")
	}
}

func TestResolveSelectionFlags(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := run(t, "resolve", "--config", cfg, "--json",
		"-d", "01", "--discipline", "architecture", "-r", "A", "--with", "structure", "--split")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	var v viewer.View
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if v.State.Revision != "A" {
		t.Errorf("Revision = %q, want A", v.State.Revision)
	}
	if v.Compare == nil {
		t.Fatal("--with should turn compare on")
	}
	if v.Compare.Mode != viewer.ModeSplit {
		t.Errorf("Mode = %q, want split", v.Compare.Mode)
	}
	if v.State.SecondaryDiscipline != "structure" {
		t.Errorf("SecondaryDiscipline = %q", v.State.SecondaryDiscipline)
	}
}

func TestResolveWritesSVG(t *testing.T) {
	cfg := writeConfig(t, "")
	path := filepath.Join(t.TempDir(), "polygon.svg")

	if _, err := run(t, "resolve", "--config", cfg, "--json", "--svg", path); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `points="10,10 90,10 90,60"`) {
		t.Errorf("svg missing polygon:\n%s", data)
	}
}

func TestResolveInvalidCalibration(t *testing.T) {
	cfg := writeConfig(t, "")
	if _, err := run(t, "resolve", "--config", cfg, "--scale=-1"); err == nil {
		t.Error("a negative scale should be rejected")
	}
}

func TestMetadataFlagOverridesConfig(t *testing.T) {
	cfg := writeConfig(t, "")
	if _, err := run(t, "resolve", "--config", cfg, "--metadata", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("a missing metadata file should fail")
	}
}

func TestCalibrateJSON(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := run(t, "calibrate", "--config", cfg, "--json", "-d", "01",
		"--pair", "0,0:5,-3", "--pair", "1000,0:1005,-3", "--pair", "0,800:5,797")
	if err != nil {
		t.Fatalf("calibrate: %v", err)
	}

	var res calibrateResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode result: %v\n%s", err, out)
	}
	cal := res.Solution.Calibration
	if math.Abs(cal.DX-5) > 1e-6 || math.Abs(cal.DY+3) > 1e-6 || math.Abs(cal.RotationDeg) > 1e-6 || math.Abs(cal.Scale-1) > 1e-6 {
		t.Errorf("calibration = %+v, want dx=5 dy=-3", cal)
	}
	if !strings.Contains(res.CSS, "transform:") {
		t.Errorf("CSS = %q, want a transform declaration", res.CSS)
	}
}

func TestCalibrateNeedsPairs(t *testing.T) {
	cfg := writeConfig(t, "")
	if _, err := run(t, "calibrate", "--config", cfg, "--pair", "1,2"); err == nil {
		t.Error("a malformed pair should fail")
	}
	if _, err := run(t, "calibrate", "--config", cfg); err == nil {
		t.Error("calibrate without pairs should fail")
	}
}

func TestCheck(t *testing.T) {
	cfg := writeConfig(t, "")
	if _, err := run(t, "check", "--config", cfg); err != nil {
		t.Errorf("check: %v", err)
	}
	if _, err := run(t, "check", "--config", cfg, "--images"); err == nil {
		t.Error("check --images should report the missing image files")
	}
}

func TestTreeDOT(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := run(t, "tree", "--config", cfg, "--dot")
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	for _, want := range []string{"digraph", `"00" -> "01"`, `"00" -> "02"`, "Building A"} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigShow(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := run(t, "config", "show", "--config", cfg, "--no-cache")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"[server]", "[metadata]", "metadata.json", "disabled = true"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blueprint.toml")

	if _, err := run(t, "config", "init", path); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if _, err := run(t, "config", "init", path); err == nil {
		t.Error("config init should refuse to overwrite")
	}
	if _, err := run(t, "config", "init", path, "--force"); err != nil {
		t.Errorf("config init --force: %v", err)
	}
	if _, err := run(t, "config", "show", "--config", path); err != nil {
		t.Errorf("generated config does not load: %v", err)
	}
}

func TestInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blueprint.toml")
	if err := os.WriteFile(path, []byte("[server]\nport = 80\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "config", "show", "--config", path); err == nil {
		t.Error("unknown keys should be rejected")
	}
}

func TestCompletion(t *testing.T) {
	out, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "blueprint") {
		t.Error("bash completion should mention the command name")
	}
}
