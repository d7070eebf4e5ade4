package router

import (
	"github.com/vango-dev/vroute/pkg/history"
	"github.com/vango-dev/vroute/pkg/pathmatch"
	"github.com/vango-dev/vroute/pkg/vdom"
)

// Router publishes the root Context of an element tree.
type Router struct {
	history  history.History
	static   *StaticContext
	children Element
	env      *env
}

// NewRouter creates a Router over h.
func NewRouter(h history.History, children Element, opts ...Option) *Router {
	return &Router{
		history:  h,
		children: children,
		env:      newEnv(opts),
	}
}

// NewStaticRouter creates a Router for a single server render at location.
// Navigation performed while rendering is recorded into sc instead of moving
// the history. A nil sc is replaced by a fresh StaticContext.
func NewStaticRouter(location, basename string, sc *StaticContext, children Element, opts ...Option) *Router {
	if sc == nil {
		sc = &StaticContext{}
	}
	h := history.NewStatic(location, basename, recordInto(sc))
	r := NewRouter(h, children, opts...)
	r.static = sc
	return r
}

// NewStaticRouterLocation is NewStaticRouter for a parsed location.
func NewStaticRouterLocation(loc history.Location, basename string, sc *StaticContext, children Element, opts ...Option) *Router {
	if sc == nil {
		sc = &StaticContext{}
	}
	h := history.NewStaticLocation(loc, basename, recordInto(sc))
	r := NewRouter(h, children, opts...)
	r.static = sc
	return r
}

func recordInto(sc *StaticContext) func(history.Action, history.Location, string) {
	return func(action history.Action, loc history.Location, url string) {
		sc.Action = action
		sc.Location = loc
		sc.URL = url
	}
}

// NewMemoryRouter creates a Router over an in-memory history.
func NewMemoryRouter(initialEntries []string, initialIndex int, children Element, opts ...Option) *Router {
	return NewRouter(history.NewMemory(initialEntries, initialIndex), children, opts...)
}

// History returns the Router's history.
func (r *Router) History() history.History {
	return r.history
}

// StaticContext returns the static context, nil unless the Router is static.
func (r *Router) StaticContext() *StaticContext {
	return r.static
}

// Context returns the root Context for the current location. The root match
// is the match of "/".
func (r *Router) Context() *Context {
	loc := r.history.Location()
	return &Context{
		History:       r.history,
		Route:         RouteState{Location: loc, Match: pathmatch.RootMatch(loc.Pathname)},
		StaticContext: r.static,
		env:           r.env,
	}
}

// Render renders the children for the current location.
func (r *Router) Render() (*vdom.VNode, error) {
	return r.Context().Render(r.children)
}

// Subscribe calls fn after every history change. Call the returned function
// to stop.
func (r *Router) Subscribe(fn func(loc history.Location, action history.Action)) func() {
	return r.history.Listen(fn)
}
