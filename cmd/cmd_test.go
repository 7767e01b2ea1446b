package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/fwielstra/vizplugins/config"
	"github.com/fwielstra/vizplugins/plugins"
	"github.com/fwielstra/vizplugins/sqlite"
)

const salesCSV = "region,sales\nA,10\nB,20\n"

type env struct {
	dir string
	cfg config.Config
	csv string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()

	csv := filepath.Join(dir, "sales.csv")
	if err := os.WriteFile(csv, []byte(salesCSV), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.DatabasePath = filepath.Join(dir, "viz.db")
	cfg.Workers = 2

	return &env{dir: dir, cfg: cfg, csv: csv}
}

// run executes the command line against a fresh command tree and returns
// what it wrote to stdout.
func (e *env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	db, err := sqlite.OpenDatabase(e.cfg.DatabasePath)
	if err != nil {
		t.Fatalf("OpenDatabase() error: %v", err)
	}
	defer db.Close()
	if err := sqlite.MigrateTables(db); err != nil {
		t.Fatalf("MigrateTables() error: %v", err)
	}

	var stdout, stderr bytes.Buffer
	root := NewRootCmd(db, e.cfg)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err = root.Execute()
	return stdout.String(), err
}

func TestRenderJSON(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "render", "bar", e.csv, "-o", "cols=region", "-o", "showLabels=true")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}

	var spec struct {
		Series []struct {
			Name string `json:"name"`
		} `json:"series"`
	}
	if err := json.Unmarshal([]byte(out), &spec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(spec.Series) != 1 || spec.Series[0].Name != "sales" {
		t.Errorf("series = %+v", spec.Series)
	}
}

func TestRenderHTML(t *testing.T) {
	e := newEnv(t)
	target := filepath.Join(e.dir, "pie.html")

	out, err := e.run(t, "render", "pie", e.csv, "-o", "cols=region", "--format", "html", "--out", target, "--width", "640")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if out != "" {
		t.Errorf("expected nothing on stdout, got %q", out)
	}

	page, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(page), "width:640px") {
		t.Error("rendered page does not carry the requested width")
	}
}

func TestRenderErrors(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown plugin", []string{"render", "sankey", e.csv}, plugins.ErrUnknownPlugin},
		{"missing file", []string{"render", "pie", filepath.Join(e.dir, "nope.csv")}, os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.run(t, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := e.run(t, "render", "pie", e.csv, "--format", "svg"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestRenderSave(t *testing.T) {
	e := newEnv(t)

	if _, err := e.run(t, "render", "pie", e.csv, "--save", "regions"); err != nil {
		t.Fatalf("render error: %v", err)
	}

	out, err := e.run(t, "history", "regions")
	if err != nil {
		t.Fatalf("history error: %v", err)
	}
	if !strings.Contains(out, "regions") || !strings.Contains(out, "pie") {
		t.Errorf("history does not list the saved snapshot:\n%s", out)
	}
}

func TestHistoryByName(t *testing.T) {
	e := newEnv(t)

	for _, name := range []string{"all", "regions"} {
		if _, err := e.run(t, "render", "pie", e.csv, "--save", name); err != nil {
			t.Fatalf("render error: %v", err)
		}
	}

	out, err := e.run(t, "history", "all")
	if err != nil {
		t.Fatalf("history error: %v", err)
	}
	if strings.Contains(out, "regions") {
		t.Errorf("history all should only list the snapshot named all:\n%s", out)
	}

	out, err = e.run(t, "history")
	if err != nil {
		t.Fatalf("history error: %v", err)
	}
	if !strings.Contains(out, "regions") {
		t.Errorf("history without a name should list every snapshot:\n%s", out)
	}
}

func TestControlsCmd(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "controls", "pie", "-o", "donut=true")
	if err != nil {
		t.Fatalf("controls error: %v", err)
	}
	for _, want := range []string{"innerRadius", "outerRadius", "10..100"} {
		if !strings.Contains(out, want) {
			t.Errorf("controls output does not contain %q:\n%s", want, out)
		}
	}
}

func TestBatch(t *testing.T) {
	e := newEnv(t)

	jobs := []chartJob{
		{Name: "sales-bar", Plugin: "bar", Source: e.csv, Options: map[string]any{"cols": "region"}, Out: filepath.Join(e.dir, "bar.json")},
		{Name: "sales-pie", Plugin: "pie", Source: e.csv, Format: formatHTML, Out: filepath.Join(e.dir, "pie.html")},
		{Name: "broken", Plugin: "sankey", Source: e.csv},
	}
	data, err := json.Marshal(manifest{Jobs: jobs})
	if err != nil {
		t.Fatal(err)
	}
	manifestFile := filepath.Join(e.dir, "charts.json")
	if err := os.WriteFile(manifestFile, data, 0644); err != nil {
		t.Fatal(err)
	}

	out, err := e.run(t, "batch", manifestFile)
	if !errors.Is(err, plugins.ErrUnknownPlugin) {
		t.Errorf("batch error = %v, want the failed job's error", err)
	}
	if !strings.Contains(out, "sales-bar") || !strings.Contains(out, "broken") {
		t.Errorf("batch table does not list every job:\n%s", out)
	}

	for _, f := range []string{"bar.json", "pie.html"} {
		if _, err := os.Stat(filepath.Join(e.dir, f)); err != nil {
			t.Errorf("expected %s to be written: %v", f, err)
		}
	}

	chart := filepath.Join(e.dir, "history.html")
	out, err = e.run(t, "history", "--chart", chart)
	if err != nil {
		t.Fatalf("history error: %v", err)
	}
	if !strings.Contains(out, "sales-bar") || !strings.Contains(out, "sales-pie") || strings.Contains(out, "broken") {
		t.Errorf("history should list the two rendered charts:\n%s", out)
	}
	if _, err := os.Stat(chart); err != nil {
		t.Errorf("expected the activity chart to be written: %v", err)
	}
}

func TestLoadManifestErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte(`{"jobs": []}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadManifest(empty); err == nil {
		t.Error("expected an error for a manifest without jobs")
	}
	if _, err := loadManifest(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want ErrNotExist", err)
	}
}

func TestParseOptions(t *testing.T) {
	file := filepath.Join(t.TempDir(), "options.json")
	if err := os.WriteFile(file, []byte(`{"donut": true, "cols": "region"}`), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		file    string
		pairs   []string
		want    map[string]any
		wantErr bool
	}{
		{"empty", "", nil, map[string]any{}, false},
		{"pairs", "", []string{"cols=region", "title=a=b"}, map[string]any{"cols": "region", "title": "a=b"}, false},
		{"file", file, nil, map[string]any{"donut": true, "cols": "region"}, false},
		{"pairs override file", file, []string{"cols=city"}, map[string]any{"donut": true, "cols": "city"}, false},
		{"missing separator", "", []string{"donut"}, nil, true},
		{"empty key", "", []string{"=true"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseOptions(tt.file, tt.pairs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseOptions() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseOptions() = %v, want %v", got, tt.want)
			}
		})
	}
}
