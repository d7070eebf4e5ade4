// Package site serves the route table of a config file.
//
// Each site route renders its body, an html/template executed with the
// route's match, followed by its matched nested route. A route with a
// redirect becomes a Redirect; a route with a status sets the response
// status.
//
//	site:
//	  routes:
//	    - path: /guides/:slug
//	      title: Guide
//	      body: <h1>{{.Params.slug}}</h1>
//
// Bodies can link static files with the asset function, which resolves
// fingerprinted names when a manifest is configured:
//
//	<link rel="stylesheet" href="{{asset "site.css"}}">
package site

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/vango-dev/vroute/internal/config"
	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/assets"
	"github.com/vango-dev/vroute/pkg/history"
	"github.com/vango-dev/vroute/pkg/routeconfig"
	"github.com/vango-dev/vroute/pkg/router"
	"github.com/vango-dev/vroute/pkg/server"
	"github.com/vango-dev/vroute/pkg/vdom"
)

// PageData is what a body template is executed with.
type PageData struct {
	Params   map[string]string
	Path     string
	URL      string
	Location history.Location
}

// Option configures how a site is built.
type Option func(*builder)

// WithAssets resolves the asset template function through r. Without it
// asset names resolve to "/" + name.
func WithAssets(r assets.Resolver) Option {
	return func(b *builder) {
		b.assets = r
	}
}

type builder struct {
	assets assets.Resolver
}

func (b *builder) funcs() template.FuncMap {
	return template.FuncMap{
		"asset": b.assets.Asset,
	}
}

// Build converts site routes to route configs. Bodies are parsed once; a
// body that does not parse is an R022 error.
func Build(routes []config.SiteRoute, opts ...Option) ([]routeconfig.RouteConfig, error) {
	b := &builder{assets: assets.NewPassthroughResolver("/")}
	for _, opt := range opts {
		opt(b)
	}
	return b.build(routes)
}

func (b *builder) build(routes []config.SiteRoute) ([]routeconfig.RouteConfig, error) {
	out := make([]routeconfig.RouteConfig, 0, len(routes))
	for _, sr := range routes {
		rc := routeconfig.RouteConfig{
			Key:       sr.Path,
			Path:      sr.Path,
			Exact:     sr.Exact,
			Strict:    sr.Strict,
			Sensitive: sr.Sensitive,
			Redirect:  sr.Redirect,
			Push:      sr.Push,
		}
		if sr.Redirect == "" {
			page, err := b.newPage(sr)
			if err != nil {
				return nil, err
			}
			rc.Component = page
		}

		children, err := b.build(sr.Routes)
		if err != nil {
			return nil, err
		}
		rc.Routes = children
		out = append(out, rc)
	}
	return out, nil
}

// App returns the element serving the site.
func App(cfg config.SiteConfig, opts ...Option) (router.Element, error) {
	routes, err := Build(cfg.Routes, opts...)
	if err != nil {
		return nil, err
	}
	return routeconfig.RenderRoutes(routes, nil), nil
}

func (b *builder) newPage(sr config.SiteRoute) (*router.ComponentType, error) {
	tmpl, err := template.New(sr.Path).Funcs(b.funcs()).Parse(sr.Body)
	if err != nil {
		return nil, errors.New("R022").WithRoute(sr.Path).Wrap(err)
	}

	name := "SitePage"
	if sr.Path != "" {
		name += "(" + sr.Path + ")"
	}

	return &router.ComponentType{
		Name: name,
		Render: func(rc *router.Context, props vdom.Props) (*vdom.VNode, error) {
			if sc := rc.StaticContext; sc != nil {
				if sr.Status != 0 {
					sc.StatusCode = sr.Status
				}
				if sr.Title != "" {
					if sc.Data == nil {
						sc.Data = map[string]any{}
					}
					sc.Data[server.DataTitle] = sr.Title
				}
			}

			rp := router.RoutePropsFrom(props)
			data := PageData{Location: rp.Location}
			if rp.Match != nil {
				data.Params = rp.Match.Params
				data.Path = rp.Match.Path
				data.URL = rp.Match.URL
			}

			var buf bytes.Buffer
			if err := tmpl.Execute(&buf, data); err != nil {
				return nil, errors.New("R030").WithRoute(sr.Path).Wrap(err)
			}

			var nested *vdom.VNode
			if route := routeconfig.RouteFrom(props); route != nil {
				var err error
				nested, err = rc.Render(routeconfig.RenderRoutes(route.Routes, nil))
				if err != nil {
					return nil, err
				}
			}

			return vdom.Fragment(vdom.Raw(buf.String()), nested), nil
		},
	}, nil
}

// StaticPaths returns the paths of routes that render a page and have no
// parameters, in table order. These are the pages a static export can
// enumerate.
func StaticPaths(routes []config.SiteRoute) []string {
	var out []string
	for _, sr := range routes {
		if sr.Redirect == "" && sr.Path != "" && !strings.ContainsAny(sr.Path, ":*(") {
			out = append(out, sr.Path)
		}
		out = append(out, StaticPaths(sr.Routes)...)
	}
	return out
}
