package router

import (
	"context"
	"log/slog"

	"github.com/vango-dev/vroute/pkg/history"
	"github.com/vango-dev/vroute/pkg/pathmatch"
	"github.com/vango-dev/vroute/pkg/vdom"
)

// RouteState is the part of the Context a Route replaces for its descendants.
type RouteState struct {
	Location history.Location
	Match    *pathmatch.Match
}

// StaticContext collects the outcome of a server render. A Redirect rendered
// under a StaticRouter records its action, location and URL here. Components
// may set StatusCode and Data.
type StaticContext struct {
	Action     history.Action   `json:"action,omitempty"`
	Location   history.Location `json:"location"`
	URL        string           `json:"url,omitempty"`
	StatusCode int              `json:"statusCode,omitempty"`
	Data       map[string]any   `json:"data,omitempty"`
}

// Redirected reports whether a navigation was recorded.
func (s *StaticContext) Redirected() bool {
	return s != nil && s.URL != ""
}

// Context is the routing state handed to every element. It is an immutable
// snapshot: derivations return copies.
type Context struct {
	History       history.History
	Route         RouteState
	StaticContext *StaticContext

	env *env
}

// env carries the Router's dependencies down the tree.
type env struct {
	logger      *slog.Logger
	observer    Observer
	matcher     *pathmatch.Matcher
	std         context.Context
	devWarnings bool
}

var defaultEnv = &env{
	observer:    nopObserver{},
	matcher:     pathmatch.Default(),
	std:         context.Background(),
	devWarnings: true,
}

func (rc *Context) environment() *env {
	if rc == nil || rc.env == nil {
		return defaultEnv
	}
	return rc.env
}

// Logger returns the Router's logger, or slog.Default.
func (rc *Context) Logger() *slog.Logger {
	if l := rc.environment().logger; l != nil {
		return l
	}
	return slog.Default()
}

// Matcher returns the pattern matcher routes use.
func (rc *Context) Matcher() *pathmatch.Matcher {
	return rc.environment().matcher
}

// Std returns the standard context of the render, e.g. the HTTP request's.
func (rc *Context) Std() context.Context {
	return rc.environment().std
}

func (rc *Context) observer() Observer {
	return rc.environment().observer
}

// WithRoute returns a copy of rc with its route state replaced.
func (rc *Context) WithRoute(loc history.Location, match *pathmatch.Match) *Context {
	next := *rc
	next.Route = RouteState{Location: loc, Match: match}
	return &next
}

// WithStd returns a copy of rc carrying ctx as its standard context.
func (rc *Context) WithStd(ctx context.Context) *Context {
	next := *rc
	e := *rc.environment()
	e.std = ctx
	next.env = &e
	return &next
}

// Render renders el with rc. A nil element renders nothing.
func (rc *Context) Render(el Element) (*vdom.VNode, error) {
	if el == nil {
		return nil, nil
	}
	return el.Render(rc)
}

// NewContext builds a root Context for h, matching "/" the way a Router does.
func NewContext(h history.History, staticContext *StaticContext, opts ...Option) *Context {
	e := newEnv(opts)
	loc := h.Location()
	return &Context{
		History:       h,
		Route:         RouteState{Location: loc, Match: pathmatch.RootMatch(loc.Pathname)},
		StaticContext: staticContext,
		env:           e,
	}
}

// Option configures a Router.
type Option func(*env)

// WithLogger sets the logger for developer warnings.
func WithLogger(l *slog.Logger) Option {
	return func(e *env) {
		e.logger = l
	}
}

// WithObserver reports matches and warnings to o.
func WithObserver(o Observer) Option {
	return func(e *env) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithMatcher sets the pattern matcher.
func WithMatcher(m *pathmatch.Matcher) Option {
	return func(e *env) {
		if m != nil {
			e.matcher = m
		}
	}
}

// WithStdContext sets the standard context passed to components.
func WithStdContext(ctx context.Context) Option {
	return func(e *env) {
		if ctx != nil {
			e.std = ctx
		}
	}
}

// WithDevWarnings enables or disables developer warnings. They are on by
// default.
func WithDevWarnings(enabled bool) Option {
	return func(e *env) {
		e.devWarnings = enabled
	}
}

func newEnv(opts []Option) *env {
	e := *defaultEnv
	for _, opt := range opts {
		opt(&e)
	}
	return &e
}
