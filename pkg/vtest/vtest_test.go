package vtest_test

import (
	"testing"

	"github.com/vango-dev/vroute/pkg/pathmatch"
	"github.com/vango-dev/vroute/pkg/router"
	"github.com/vango-dev/vroute/pkg/vdom"
	"github.com/vango-dev/vroute/pkg/vtest"
)

func TestNewCtx(t *testing.T) {
	rc := vtest.NewCtx().Build()

	if rc == nil {
		t.Fatal("expected non-nil context")
	}
	if rc.Route.Location.Pathname != "/" {
		t.Errorf("expected location /, got %s", rc.Route.Location.Pathname)
	}
	if rc.StaticContext == nil {
		t.Error("expected a static context")
	}
}

func TestNewCtx_AtWithBasename(t *testing.T) {
	rc := vtest.NewCtx().At("/app/users/1").WithBasename("/app").Build()
	if rc.Route.Location.Pathname != "/users/1" {
		t.Errorf("expected /users/1, got %s", rc.Route.Location.Pathname)
	}
}

func TestNewCtx_WithParam(t *testing.T) {
	rc := vtest.NewCtx().At("/users/5").WithParam("id", "5").Build()
	if rc.Route.Match.Param("id") != "5" {
		t.Errorf("expected param id=5, got %v", rc.Route.Match.Params)
	}
}

func TestNewCtx_WithMatchIsCopied(t *testing.T) {
	m := &pathmatch.Match{Path: "/t/:a", URL: "/t/1", Params: map[string]string{"a": "1"}}
	rc := vtest.NewCtx().WithMatch(m).WithParam("b", "2").Build()

	if rc.Route.Match.Param("a") != "1" || rc.Route.Match.Param("b") != "2" {
		t.Errorf("unexpected params %v", rc.Route.Match.Params)
	}
	if _, ok := m.Params["b"]; ok {
		t.Error("the given match should not be modified")
	}
}

func TestNewCtx_WithMemoryHistory(t *testing.T) {
	rc := vtest.NewCtx().WithMemoryHistory("/a", "/b").Build()
	if rc.Route.Location.Pathname != "/b" {
		t.Errorf("expected /b, got %s", rc.Route.Location.Pathname)
	}
	if rc.History.Length() != 2 {
		t.Errorf("expected 2 entries, got %d", rc.History.Length())
	}
}

func TestRender(t *testing.T) {
	app := router.NewRoute(router.Props{
		Path: "/hello/:name",
		Strategy: router.RouteFuncStrategy(func(rc *router.Context, p router.RouteProps) (*vdom.VNode, error) {
			return vdom.H1("Hello ", p.Match.Param("name")), nil
		}),
	})

	if got := vtest.Render(t, app, "/hello/ada"); got != "<h1>Hello ada</h1>" {
		t.Errorf("unexpected render %q", got)
	}
	if got := vtest.Render(t, app, "/bye"); got != "" {
		t.Errorf("expected empty render, got %q", got)
	}
}

func TestRecorder(t *testing.T) {
	rec := &vtest.Recorder{}
	rc := vtest.NewCtx().At("/x").WithOptions(router.WithObserver(rec), router.WithDevWarnings(true)).Build()

	route := router.NewRoute(router.Props{
		Path: "/x",
		Candidates: &router.Candidates{
			Render:    func(*router.Context, router.RouteProps) (*vdom.VNode, error) { return vdom.Text("x"), nil },
			ChildFunc: func(*router.Context, router.RouteProps) (*vdom.VNode, error) { return nil, nil },
		},
	})
	node := vtest.RenderElement(t, rc, route)
	vtest.ExpectContains(t, node, "x")

	matches := rec.Matches()
	if len(matches) != 1 || matches[0] != (vtest.MatchEvent{Path: "/x", Matched: true}) {
		t.Errorf("unexpected matches %v", matches)
	}
	if w := rec.Warnings(); len(w) != 1 || w[0] != "W003" {
		t.Errorf("unexpected warnings %v", w)
	}
}

func TestExpectHelpers(t *testing.T) {
	node := vdom.Div(vdom.Class("card"), vdom.A(vdom.Href("/users/2"), "User"))

	vtest.ExpectContains(t, node, "User")
	vtest.ExpectNotContains(t, node, "Admin")
	vtest.ExpectElement(t, node, "a")
	vtest.ExpectAttribute(t, node, "class", "card")
	vtest.ExpectAttribute(t, node, "href", "/users/2")
	vtest.ExpectEmpty(t, nil)
}

func TestRenderToString(t *testing.T) {
	if got := vtest.RenderToString(vdom.P("hi")); got != "<p>hi</p>" {
		t.Errorf("expected <p>hi</p>, got %q", got)
	}
}
