package assets

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/vango-dev/vroute/internal/errors"
)

func TestManifest_Resolve(t *testing.T) {
	m := NewManifest()
	m.Set("app.js", "app.abc12345.js")
	m.Set("styles.css", "styles.def45678.css")

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"found", "app.js", "app.abc12345.js"},
		{"found css", "styles.css", "styles.def45678.css"},
		{"missing returns source", "unknown.js", "unknown.js"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Resolve(tt.source); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.source, got, tt.want)
			}
		})
	}

	if !m.Has("app.js") || m.Has("unknown.js") {
		t.Error("Has() disagrees with Resolve()")
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}

	all := m.All()
	all["c.js"] = "c.789.js"
	if m.Has("c.js") {
		t.Error("All() should return a copy")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(file, []byte(`{"app.js": "app.abc12345.js"}`), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(file)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := m.Resolve("app.js"); got != "app.abc12345.js" {
		t.Errorf("Resolve(app.js) = %q", got)
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.HasCode(err, "R020") {
		t.Errorf("missing file error = %v, want R020", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.HasCode(err, "R020") {
		t.Errorf("invalid JSON error = %v, want R020", err)
	}

	empty := filepath.Join(dir, "null.json")
	if err := os.WriteFile(empty, []byte("null"), 0644); err != nil {
		t.Fatal(err)
	}
	m, err = Load(empty)
	if err != nil {
		t.Fatalf("Load(null) error = %v", err)
	}
	m.Set("a.js", "a.12345678.js")
}

func TestScan(t *testing.T) {
	fsys := fstest.MapFS{
		"app.a1b2c3d4.js":        {Data: []byte("js")},
		"css/site.0123abcd.css":  {Data: []byte("css")},
		"favicon.ico":            {Data: []byte("ico")},
		"images/logo.v2.png":     {Data: []byte("png")},
		"vendor/lib.deadbeef.js": {Data: []byte("lib")},
	}

	m, err := Scan(fsys)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	want := map[string]string{
		"app.js":        "app.a1b2c3d4.js",
		"css/site.css":  "css/site.0123abcd.css",
		"vendor/lib.js": "vendor/lib.deadbeef.js",
	}
	got := m.All()
	if len(got) != len(want) {
		t.Fatalf("All() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("entry %q = %q, want %q", k, got[k], v)
		}
	}
}

func TestIsFingerprinted(t *testing.T) {
	tests := map[string]bool{
		"app.a1b2c3d4.css":      true,
		"js/vendor.DEADBEEF.js": true,
		"app.css":               false,
		"app.abc.css":           false,
		"app.nothexxx.css":      false,
	}
	for name, want := range tests {
		if got := IsFingerprinted(name); got != want {
			t.Errorf("IsFingerprinted(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestSourceName(t *testing.T) {
	tests := map[string]string{
		"app.a1b2c3d4.css":         "app.css",
		"css/app.min.a1b2c3d4.css": "css/app.min.css",
		"images/logo.png":          "images/logo.png",
	}
	for name, want := range tests {
		if got := SourceName(name); got != want {
			t.Errorf("SourceName(%q) = %q, want %q", name, got, want)
		}
	}
}
