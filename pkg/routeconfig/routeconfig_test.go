package routeconfig

import (
	"testing"

	"github.com/vango-dev/vroute/pkg/router"
	"github.com/vango-dev/vroute/pkg/vdom"
	"github.com/vango-dev/vroute/pkg/vtest"
)

func layout(name string) *router.ComponentType {
	return &router.ComponentType{
		Name: name,
		Render: func(rc *router.Context, props vdom.Props) (*vdom.VNode, error) {
			inner, err := rc.Render(RenderRoutes(RouteFrom(props).Routes, vdom.Props{"depth": 1}))
			if err != nil {
				return nil, err
			}
			return vdom.Div(vdom.Class(name), inner), nil
		},
	}
}

func page(name string) *router.ComponentType {
	return &router.ComponentType{
		Name: name,
		Render: func(rc *router.Context, props vdom.Props) (*vdom.VNode, error) {
			m := router.MatchFrom(props)
			return vdom.P(name, " ", m.Param("id"), " ", RouteFrom(props).Key), nil
		},
	}
}

func table() []RouteConfig {
	return []RouteConfig{
		{
			Component: layout("root"),
			Routes: []RouteConfig{
				{Key: "home", Path: "/", Exact: true, Component: page("home")},
				{Key: "user", Path: "/users/:id", Component: page("user")},
				{Key: "old", Path: "/legacy/:id", Redirect: "/users/:id"},
				{Key: "missing", Component: page("missing")},
			},
		},
	}
}

func TestMatchRoutes(t *testing.T) {
	tests := []struct {
		pathname string
		keys     []string
		url      string
	}{
		{"/", []string{"", "home"}, "/"},
		{"/users/4", []string{"", "user"}, "/users/4"},
		{"/legacy/4", []string{"", "old"}, "/legacy/4"},
		{"/nope", []string{"", "missing"}, "/"},
	}

	for _, tt := range tests {
		t.Run(tt.pathname, func(t *testing.T) {
			branch, err := MatchRoutes(table(), tt.pathname)
			if err != nil {
				t.Fatal(err)
			}
			if len(branch) != len(tt.keys) {
				t.Fatalf("len(branch) = %d, want %d", len(branch), len(tt.keys))
			}
			for i, b := range branch {
				if b.Route.Key != tt.keys[i] {
					t.Errorf("branch[%d].Key = %q, want %q", i, b.Route.Key, tt.keys[i])
				}
			}
			if last := branch[len(branch)-1].Match; last.URL != tt.url {
				t.Errorf("last match URL = %q, want %q", last.URL, tt.url)
			}
		})
	}
}

func TestMatchRoutes_NoMatch(t *testing.T) {
	branch, err := MatchRoutes([]RouteConfig{{Path: "/a"}}, "/b")
	if err != nil || len(branch) != 0 {
		t.Errorf("MatchRoutes() = %v, %v, want empty", branch, err)
	}
}

func TestMatchRoutes_InvalidPattern(t *testing.T) {
	if _, err := MatchRoutes([]RouteConfig{{Path: "/:id([)"}}, "/1"); err == nil {
		t.Error("expected an error for an invalid pattern")
	}
}

func TestRenderRoutes(t *testing.T) {
	el := RenderRoutes(table(), nil)

	tests := []struct {
		location string
		want     string
	}{
		{"/", `<div class="root"><p>home  home</p></div>`},
		{"/users/9", `<div class="root"><p>user 9 user</p></div>`},
		{"/nope", `<div class="root"><p>missing  missing</p></div>`},
	}
	for _, tt := range tests {
		if got := vtest.Render(t, el, tt.location); got != tt.want {
			t.Errorf("render %s = %s, want %s", tt.location, got, tt.want)
		}
	}
}

func TestRenderRoutes_Redirect(t *testing.T) {
	sc := &router.StaticContext{}
	if _, err := router.NewStaticRouter("/legacy/3", "", sc, RenderRoutes(table(), nil)).Render(); err != nil {
		t.Fatal(err)
	}
	if sc.URL != "/users/3" {
		t.Errorf("redirect URL = %q, want /users/3", sc.URL)
	}
}

func TestRenderRoutes_Props(t *testing.T) {
	var got vdom.Props
	routes := []RouteConfig{{
		Path: "/x",
		Render: func(rc *router.Context, props vdom.Props) (*vdom.VNode, error) {
			got = props
			return nil, nil
		},
	}}

	extra := vdom.Props{"theme": "dark", router.PropLocation: "extra wins"}
	if _, err := router.NewStaticRouter("/x", "", nil, RenderRoutes(routes, extra)).Render(); err != nil {
		t.Fatal(err)
	}

	if got["theme"] != "dark" || got[router.PropLocation] != "extra wins" {
		t.Errorf("props = %v", got)
	}
	if RouteFrom(got) != &routes[0] {
		t.Error("route prop should point at the config")
	}
	if router.MatchFrom(got) == nil {
		t.Error("match prop missing")
	}
}

func TestRenderRoutes_Empty(t *testing.T) {
	if RenderRoutes(nil, nil) != nil {
		t.Error("RenderRoutes(nil) should be nil")
	}
}
