package dev

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/vroute/internal/config"
	"github.com/vango-dev/vroute/internal/site"
	"github.com/vango-dev/vroute/pkg/render"
	"github.com/vango-dev/vroute/pkg/router"
	"github.com/vango-dev/vroute/pkg/server"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSameOriginCheck(t *testing.T) {
	tests := []struct {
		name   string
		host   string
		origin string
		want   bool
	}{
		{name: "no origin header", host: "localhost:3000", want: true},
		{name: "same origin", host: "localhost:3000", origin: "http://localhost:3000", want: true},
		{name: "case insensitive host", host: "LOCALHOST:3000", origin: "http://localhost:3000", want: true},
		{name: "different port", host: "localhost:3000", origin: "http://localhost:4000", want: false},
		{name: "different host", host: "localhost:3000", origin: "http://evil.example", want: false},
		{name: "malformed origin", host: "localhost:3000", origin: "http://[::1", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := SameOriginCheck(r); got != tt.want {
				t.Errorf("SameOriginCheck() = %v, want %v", got, tt.want)
			}
		})
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestReloadServer_Broadcast(t *testing.T) {
	hub := NewReloadServer()
	ts := httptest.NewServer(hub)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	waitFor(t, "client registration", func() bool { return hub.ClientCount() == 1 })

	hub.NotifyReload("vroute.yaml")
	hub.NotifyError("R020: Invalid configuration")

	want := []ReloadMessage{
		{Type: ReloadTypeFull, File: "vroute.yaml"},
		{Type: ReloadTypeError, Error: "R020: Invalid configuration"},
	}
	for _, w := range want {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage() error = %v", err)
		}
		var got ReloadMessage
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatal(err)
		}
		if got != w {
			t.Errorf("message = %+v, want %+v", got, w)
		}
	}

	hub.Close()
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() after Close = %d", hub.ClientCount())
	}
}

func TestReloadServer_RejectsCrossOrigin(t *testing.T) {
	hub := NewReloadServer()
	ts := httptest.NewServer(hub)
	defer ts.Close()

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), header)
	if err == nil {
		t.Fatal("Dial() should fail for a cross-origin request")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, want 403", resp)
	}
}

func TestScriptTag(t *testing.T) {
	tag := ScriptTag()
	if !strings.Contains(tag.Inline, "'"+server.ReloadPath+"'") {
		t.Errorf("script does not connect to %s", server.ReloadPath)
	}
	if strings.Contains(tag.Inline, "{{path}}") {
		t.Error("placeholder left in script")
	}
}

func TestShouldIgnore(t *testing.T) {
	w := NewWatcher(WatcherConfig{Ignore: append(DefaultIgnore, "content/drafts")}, discardLogger())
	w.roots = []string{"/tmp/site"}

	tests := []struct {
		path string
		want bool
	}{
		{"/tmp/site/vroute.yaml", false},
		{"/tmp/site/content/page.html", false},
		{"/tmp/site/.git/HEAD", true},
		{"/tmp/site/node_modules/x/index.js", true},
		{"/tmp/site/dist/index.html", true},
		{"/tmp/site/page.html.swp", true},
		{"/tmp/site/notes~", true},
		{"/tmp/site/content/drafts/a.html", true},
		{"/tmp/site/content/.export-123", true},
	}
	for _, tt := range tests {
		if got := w.shouldIgnore(tt.path); got != tt.want {
			t.Errorf("shouldIgnore(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestClassifyChange(t *testing.T) {
	tests := []struct {
		path string
		want ChangeType
	}{
		{"site/vroute.yaml", ChangeConfig},
		{"site/vroute.json", ChangeConfig},
		{"site/layout.html", ChangeTemplate},
		{"site/page.TMPL", ChangeTemplate},
		{"site/logo.png", ChangeAsset},
	}
	for _, tt := range tests {
		if got := classifyChange(tt.path); got != tt.want {
			t.Errorf("classifyChange(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func startWatcher(t *testing.T, paths ...string) <-chan []Change {
	t.Helper()
	w := NewWatcher(WatcherConfig{Paths: paths, Debounce: 50 * time.Millisecond}, discardLogger())
	changes := make(chan []Change, 10)
	w.OnChange(func(c []Change) { changes <- c })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Start(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	waitFor(t, "watcher start", w.IsRunning)
	time.Sleep(100 * time.Millisecond)
	return changes
}

func nextBatch(t *testing.T, changes <-chan []Change) []Change {
	t.Helper()
	select {
	case batch := <-changes:
		return batch
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for changes")
		return nil
	}
}

func TestWatcher_DebouncedBatch(t *testing.T) {
	dir := t.TempDir()
	changes := startWatcher(t, dir)

	for _, name := range []string{"b.html", "a.html", "b.html"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0644); err != nil {
			t.Fatal(err)
		}
	}

	batch := nextBatch(t, changes)
	if len(batch) != 2 {
		t.Fatalf("batch = %+v, want 2 changes", batch)
	}
	if batch[0].Path != filepath.Join(dir, "a.html") || batch[1].Path != filepath.Join(dir, "b.html") {
		t.Errorf("batch = %+v, want sorted a.html, b.html", batch)
	}
	if batch[0].Type != ChangeTemplate {
		t.Errorf("Type = %v, want template", batch[0].Type)
	}
}

func TestWatcher_NewDirectory(t *testing.T) {
	dir := t.TempDir()
	changes := startWatcher(t, dir)

	sub := filepath.Join(dir, "content")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(sub, "page.html"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	batch := nextBatch(t, changes)
	found := false
	for _, c := range batch {
		if c.Path == filepath.Join(sub, "page.html") {
			found = true
		}
	}
	if !found {
		t.Errorf("batch = %+v, want a change for content/page.html", batch)
	}
}

func TestWatcher_SingleFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "vroute.yaml")
	if err := os.WriteFile(cfgPath, []byte("name: a\n"), 0644); err != nil {
		t.Fatal(err)
	}
	changes := startWatcher(t, cfgPath)

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfgPath, []byte("name: b\n"), 0644); err != nil {
		t.Fatal(err)
	}

	batch := nextBatch(t, changes)
	if len(batch) != 1 || batch[0].Path != cfgPath || batch[0].Type != ChangeConfig {
		t.Errorf("batch = %+v, want only the config file", batch)
	}
}

func TestWatchPaths(t *testing.T) {
	dir := t.TempDir()
	cfg := config.New()
	cfg.Dev.Watch = []string{".", "content", "./content", "/abs/assets"}
	if err := cfg.SaveTo(filepath.Join(dir, "vroute.yaml")); err != nil {
		t.Fatal(err)
	}

	got := WatchPaths(cfg)
	want := []string{filepath.Join(dir, "vroute.yaml"), dir, filepath.Join(dir, "content"), "/abs/assets"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("WatchPaths() = %v, want %v", got, want)
	}

	patterns := IgnorePatterns(cfg)
	if patterns[len(patterns)-1] != "dist" {
		t.Errorf("IgnorePatterns() = %v, want the export dir last", patterns)
	}
}

const siteV1 = `
site:
  routes:
    - path: /
      exact: true
      body: <h1>v1</h1>
`

const siteV2 = `
site:
  routes:
    - path: /
      exact: true
      body: <h1>v2</h1>
`

func buildSite(cfg *config.Config) (router.Element, error) {
	return site.App(cfg.Site)
}

func renderHome(t *testing.T, srv *server.Server) string {
	t.Helper()
	page, err := srv.Resolve(context.Background(), http.MethodGet, "/")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := render.NewRenderer(render.RendererConfig{}).RenderToWriter(&buf, page.Body); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestSession_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vroute.yaml")
	if err := os.WriteFile(path, []byte(siteV1), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	session, err := NewSession(cfg, buildSite, discardLogger())
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	var reloads atomic.Int32
	session.OnReload(func(*config.Config) { reloads.Add(1) })

	srv := server.New(session, &server.Config{}, server.WithLogger(discardLogger()))
	if got := renderHome(t, srv); got != "<h1>v1</h1>" {
		t.Fatalf("before reload = %q", got)
	}

	if err := os.WriteFile(path, []byte(siteV2), 0644); err != nil {
		t.Fatal(err)
	}
	session.HandleChanges([]Change{{Path: path, Type: ChangeConfig}})
	if got := renderHome(t, srv); got != "<h1>v2</h1>" {
		t.Errorf("after reload = %q", got)
	}
	if reloads.Load() != 1 {
		t.Errorf("reload callbacks = %d, want 1", reloads.Load())
	}

	if err := os.WriteFile(path, []byte("site:\n  routes:\n    - path: /\n      body: \"{{.Params\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if session.Reload() {
		t.Error("Reload() should fail for a body that does not parse")
	}
	if got := renderHome(t, srv); got != "<h1>v2</h1>" {
		t.Errorf("after failed reload = %q, want the previous tree", got)
	}
	if reloads.Load() != 1 {
		t.Errorf("reload callbacks = %d, want 1", reloads.Load())
	}
}
