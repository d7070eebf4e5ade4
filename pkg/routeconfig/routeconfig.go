// Package routeconfig renders and matches routes described as data.
//
// A route table is a tree of RouteConfig values:
//
//	routes := []routeconfig.RouteConfig{
//	    {Component: Root, Routes: []routeconfig.RouteConfig{
//	        {Path: "/", Exact: true, Component: Home},
//	        {Path: "/users/:id", Component: User},
//	        {Path: "/old", Redirect: "/"},
//	    }},
//	}
//
// RenderRoutes turns one level of the table into a Switch. Components render
// the next level with RenderRoutes(RouteFrom(props).Routes, nil).
// MatchRoutes walks the whole table without rendering, which lets a server
// load data for every matched route before rendering.
package routeconfig

import (
	"maps"

	"github.com/vango-dev/vroute/pkg/pathmatch"
	"github.com/vango-dev/vroute/pkg/router"
	"github.com/vango-dev/vroute/pkg/vdom"
)

// PropRoute is the prop under which a component receives its RouteConfig.
const PropRoute = "route"

// RouteConfig describes a route and its nested routes.
type RouteConfig struct {
	// Key identifies the route, e.g. for data loaders.
	Key string `json:"key,omitempty" yaml:"key,omitempty"`

	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	Exact     bool   `json:"exact,omitempty" yaml:"exact,omitempty"`
	Strict    bool   `json:"strict,omitempty" yaml:"strict,omitempty"`
	Sensitive bool   `json:"sensitive,omitempty" yaml:"sensitive,omitempty"`

	// Component is rendered when the route matches.
	Component *router.ComponentType `json:"-" yaml:"-"`

	// Render is called instead of Component when set.
	Render router.ComponentFunc `json:"-" yaml:"-"`

	// Redirect makes the route a Redirect from Path to this target.
	Redirect string `json:"redirect,omitempty" yaml:"redirect,omitempty"`

	// Push makes the redirect push instead of replace.
	Push bool `json:"push,omitempty" yaml:"push,omitempty"`

	Routes []RouteConfig `json:"routes,omitempty" yaml:"routes,omitempty"`
}

// Options returns the matching options.
func (rc *RouteConfig) Options() pathmatch.Options {
	return pathmatch.Options{
		Path:      rc.Path,
		Exact:     rc.Exact,
		Strict:    rc.Strict,
		Sensitive: rc.Sensitive,
	}
}

// Branch is a matched route.
type Branch struct {
	Route *RouteConfig
	Match *pathmatch.Match
}

// MatchRoutes returns the branch of routes matching pathname, outermost
// first. At each level only the first matching route is taken, as a Switch
// would. A route without a path matches with its parent's match, or the root
// match at the top level.
func MatchRoutes(routes []RouteConfig, pathname string) ([]Branch, error) {
	return MatchRoutesWith(pathmatch.Default(), routes, pathname)
}

// MatchRoutesWith is MatchRoutes with a specific matcher.
func MatchRoutesWith(m *pathmatch.Matcher, routes []RouteConfig, pathname string) ([]Branch, error) {
	return matchRoutes(m, routes, pathname, nil)
}

func matchRoutes(m *pathmatch.Matcher, routes []RouteConfig, pathname string, branch []Branch) ([]Branch, error) {
	for i := range routes {
		route := &routes[i]

		var match *pathmatch.Match
		switch {
		case route.Path != "":
			var err error
			match, err = m.Match(pathname, route.Options(), nil)
			if err != nil {
				return nil, err
			}
		case len(branch) > 0:
			match = branch[len(branch)-1].Match
		default:
			match = pathmatch.RootMatch(pathname)
		}

		if match == nil {
			continue
		}

		branch = append(branch, Branch{Route: route, Match: match})
		if len(route.Routes) > 0 {
			return matchRoutes(m, route.Routes, pathname, branch)
		}
		return branch, nil
	}
	return branch, nil
}

// RenderRoutes returns a Switch over routes, or nil when routes is empty.
//
// A matched component receives the routing props, then extraProps, then its
// RouteConfig under PropRoute; later entries win.
func RenderRoutes(routes []RouteConfig, extraProps vdom.Props) router.Element {
	if len(routes) == 0 {
		return nil
	}

	cases := make([]router.SwitchCase, 0, len(routes))
	for i := range routes {
		route := &routes[i]

		if route.Redirect != "" {
			cases = append(cases, &router.Redirect{
				From:      route.Path,
				To:        route.Redirect,
				Push:      route.Push,
				Exact:     route.Exact,
				Strict:    route.Strict,
				Sensitive: route.Sensitive,
			})
			continue
		}

		cases = append(cases, router.NewRoute(router.Props{
			Path:      route.Path,
			Exact:     route.Exact,
			Strict:    route.Strict,
			Sensitive: route.Sensitive,
			Strategy: router.RenderStrategy{Func: func(rc *router.Context, rp router.RouteProps) (*vdom.VNode, error) {
				props := rp.Props()
				maps.Copy(props, extraProps)
				props[PropRoute] = route
				if route.Render != nil {
					return route.Render(rc, props)
				}
				return router.Create(route.Component, props).Render(rc)
			}},
		}))
	}
	return router.NewSwitch(cases...)
}

// RouteFrom returns the RouteConfig a component was rendered for, nil when
// absent.
func RouteFrom(props vdom.Props) *RouteConfig {
	r, _ := props[PropRoute].(*RouteConfig)
	return r
}
