package vtest

import (
	"context"
	"log/slog"
	"maps"
	"strings"
	"sync"
	"testing"

	"github.com/vango-dev/vroute/pkg/history"
	"github.com/vango-dev/vroute/pkg/pathmatch"
	"github.com/vango-dev/vroute/pkg/render"
	"github.com/vango-dev/vroute/pkg/router"
	"github.com/vango-dev/vroute/pkg/vdom"
)

// CtxBuilder allows fluent construction of routing contexts for tests.
type CtxBuilder struct {
	location string
	basename string
	entries  []string
	static   *router.StaticContext
	match    *pathmatch.Match
	params   map[string]string
	opts     []router.Option
}

// NewCtx creates a new context builder for testing. Without further setup it
// builds the Context of a StaticRouter at "/".
//
// Example:
//
//	rc := vtest.NewCtx().
//	    At("/users/42").
//	    WithParam("id", "42").
//	    Build()
func NewCtx() *CtxBuilder {
	return &CtxBuilder{
		location: "/",
		static:   &router.StaticContext{},
		params:   make(map[string]string),
	}
}

// At sets the current location.
func (b *CtxBuilder) At(location string) *CtxBuilder {
	b.location = location
	return b
}

// WithBasename sets the basename of the static history.
func (b *CtxBuilder) WithBasename(basename string) *CtxBuilder {
	b.basename = basename
	return b
}

// WithMemoryHistory builds the Context over an in-memory history holding
// entries, positioned on the last one, instead of a static history.
func (b *CtxBuilder) WithMemoryHistory(entries ...string) *CtxBuilder {
	b.entries = entries
	return b
}

// WithStaticContext sets the static context that records redirects.
func (b *CtxBuilder) WithStaticContext(sc *router.StaticContext) *CtxBuilder {
	b.static = sc
	return b
}

// WithMatch sets the match published to descendants, as if an enclosing
// Route had matched.
func (b *CtxBuilder) WithMatch(m *pathmatch.Match) *CtxBuilder {
	b.match = m
	return b
}

// WithParam sets a route parameter on the published match.
//
// Example:
//
//	rc := vtest.NewCtx().WithParam("id", "123").Build()
func (b *CtxBuilder) WithParam(key, value string) *CtxBuilder {
	b.params[key] = value
	return b
}

// WithOptions adds router options such as router.WithObserver.
func (b *CtxBuilder) WithOptions(opts ...router.Option) *CtxBuilder {
	b.opts = append(b.opts, opts...)
	return b
}

// WithLogger sends developer warnings to l.
func (b *CtxBuilder) WithLogger(l *slog.Logger) *CtxBuilder {
	return b.WithOptions(router.WithLogger(l))
}

// Build returns the final context for use in tests.
func (b *CtxBuilder) Build() *router.Context {
	var rc *router.Context
	if len(b.entries) > 0 {
		h := history.NewMemory(b.entries, len(b.entries)-1)
		rc = router.NewContext(h, nil, b.opts...)
	} else {
		rc = router.NewStaticRouter(b.location, b.basename, b.static, nil, b.opts...).Context()
	}

	if b.match == nil && len(b.params) == 0 {
		return rc
	}

	m := b.match
	if m == nil {
		m = pathmatch.RootMatch(rc.Route.Location.Pathname)
	} else {
		copied := *m
		m = &copied
	}
	params := make(map[string]string, len(m.Params)+len(b.params))
	maps.Copy(params, m.Params)
	maps.Copy(params, b.params)
	m.Params = params

	return rc.WithRoute(rc.Route.Location, m)
}

// Render renders el under a StaticRouter at location.
//
// Example:
//
//	html := vtest.Render(t, app, "/users/42")
func Render(t testing.TB, el router.Element, location string) string {
	t.Helper()
	node, err := router.NewStaticRouter(location, "", nil, el).Render()
	if err != nil {
		t.Fatalf("render at %s: %v", location, err)
	}
	return RenderToString(node)
}

// RenderElement renders el with rc and fails the test on error.
func RenderElement(t testing.TB, rc *router.Context, el router.Element) *vdom.VNode {
	t.Helper()
	node, err := rc.Render(el)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return node
}

// RenderToString renders a VNode and returns the HTML string.
// This is useful for asserting on rendered output.
//
// Example:
//
//	html := vtest.RenderToString(node)
//	if !strings.Contains(html, "expected text") {
//	    t.Error("missing expected text")
//	}
func RenderToString(node *vdom.VNode) string {
	r := render.NewRenderer(render.RendererConfig{})
	html, err := r.RenderToString(node)
	if err != nil {
		return ""
	}
	return html
}

// ExpectContains asserts that rendered output contains expected substring.
//
// Example:
//
//	vtest.ExpectContains(t, node, "Welcome Admin")
func ExpectContains(t testing.TB, node *vdom.VNode, expected string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(t testing.TB, node *vdom.VNode, unexpected string) {
	t.Helper()
	html := RenderToString(node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectEmpty asserts that nothing was rendered.
func ExpectEmpty(t testing.TB, node *vdom.VNode) {
	t.Helper()
	if html := RenderToString(node); html != "" {
		t.Errorf("expected empty render, got:\n%s", truncate(html, 500))
	}
}

// ExpectElement asserts that rendered output contains a specific tag.
//
// Example:
//
//	vtest.ExpectElement(t, node, "a")
func ExpectElement(t testing.TB, node *vdom.VNode, tag string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, "<"+tag) {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(html, 500))
	}
}

// ExpectAttribute asserts that rendered output contains an attribute value.
//
// Example:
//
//	vtest.ExpectAttribute(t, node, "href", "/users/2")
func ExpectAttribute(t testing.TB, node *vdom.VNode, attr, value string) {
	t.Helper()
	html := RenderToString(node)
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// Recorder is a router.Observer that remembers every event.
type Recorder struct {
	mu       sync.Mutex
	matches  []MatchEvent
	warnings []string
}

// MatchEvent is one ObserveMatch call.
type MatchEvent struct {
	Path    string
	Matched bool
}

// ObserveMatch implements router.Observer.
func (r *Recorder) ObserveMatch(_ context.Context, path string, matched bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches = append(r.matches, MatchEvent{Path: path, Matched: matched})
}

// ObserveWarning implements router.Observer.
func (r *Recorder) ObserveWarning(_ context.Context, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, code)
}

// Matches returns the recorded matches.
func (r *Recorder) Matches() []MatchEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]MatchEvent(nil), r.matches...)
}

// Warnings returns the recorded warning codes.
func (r *Recorder) Warnings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.warnings...)
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
