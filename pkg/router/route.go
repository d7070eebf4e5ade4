package router

import (
	"sync"

	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/history"
	"github.com/vango-dev/vroute/pkg/pathmatch"
	"github.com/vango-dev/vroute/pkg/vdom"
)

// Props configures a Route.
type Props struct {
	// Path is the pattern to match. An empty Path always matches and
	// inherits the parent match.
	Path string

	// Exact, Strict and Sensitive control matching, see pathmatch.Options.
	Exact     bool
	Strict    bool
	Sensitive bool

	// Location overrides the location read from the Context. A Route with a
	// Location is controlled.
	Location *history.Location

	// ComputedMatch is a match resolved by an ancestor, typically a Switch.
	// When set, the path is not matched again.
	ComputedMatch *pathmatch.Match

	// Strategy is how the Route renders.
	Strategy Strategy

	// Candidates is resolved into Strategy by NewRoute when Strategy is nil.
	// Conflicts found are reported as warnings when the Route mounts.
	Candidates *Candidates
}

// Options returns the matching options.
func (p Props) Options() pathmatch.Options {
	return pathmatch.Options{
		Path:      p.Path,
		Exact:     p.Exact,
		Strict:    p.Strict,
		Sensitive: p.Sensitive,
	}
}

// Route renders its strategy depending on whether its path matches the
// current location.
//
// A Route keeps the match it computed last. Render recomputes it before
// rendering, so the output always reflects the Context it was given. A Route
// may be rendered concurrently.
type Route struct {
	mu      sync.Mutex
	props   Props
	match   *pathmatch.Match
	ambient *Context
	mounted bool
	pending []Warning
}

// NewRoute creates a Route.
func NewRoute(p Props) *Route {
	r := &Route{}
	r.props, r.pending = resolveProps(p)
	return r
}

func resolveProps(p Props) (Props, []Warning) {
	if p.Candidates == nil || p.Strategy != nil {
		return p, nil
	}
	res := Resolve(*p.Candidates)
	p.Strategy = res.Strategy
	return p, res.Warnings
}

// ComputeMatch matches p against rc. A ComputedMatch is returned unchanged
// without consulting rc; otherwise a nil rc is an R001 error.
func ComputeMatch(p Props, rc *Context) (*pathmatch.Match, error) {
	if p.ComputedMatch != nil {
		return p.ComputedMatch, nil
	}
	if rc == nil {
		return nil, errors.New("R001").WithRoute(p.Path)
	}

	pathname := rc.Route.Location.Pathname
	if p.Location != nil {
		pathname = p.Location.Pathname
	}

	m, err := rc.Matcher().Match(pathname, p.Options(), rc.Route.Match)
	if err != nil {
		return nil, err
	}
	if p.Path != "" {
		rc.observer().ObserveMatch(rc.Std(), p.Path, m != nil)
	}
	return m, nil
}

// Mount computes the initial match and reports construction warnings.
func (r *Route) Mount(rc *Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mount(rc)
}

func (r *Route) mount(rc *Context) error {
	m, err := ComputeMatch(r.props, rc)
	if err != nil {
		return err
	}
	for _, w := range r.pending {
		rc.warn(w, r.props.Path)
	}
	r.pending = nil
	r.match = m
	r.ambient = rc
	r.mounted = true
	return nil
}

// Update replaces the props and recomputes the match. Switching between a
// controlled and an uncontrolled location is reported as a warning.
func (r *Route) Update(next Props, rc *Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.update(next, rc)
}

func (r *Route) update(next Props, rc *Context) error {
	if !r.mounted {
		r.props, r.pending = resolveProps(next)
		return r.mount(rc)
	}

	next, _ = resolveProps(next)
	switch {
	case next.Location != nil && r.props.Location == nil:
		rc.warn(WarnUncontrolledToControlled, next.Path)
	case next.Location == nil && r.props.Location != nil:
		rc.warn(WarnControlledToUncontrolled, next.Path)
	}

	m, err := ComputeMatch(next, rc)
	if err != nil {
		return err
	}
	r.props = next
	r.match = m
	r.ambient = rc
	return nil
}

// Match returns the match computed last, nil before mounting or when the
// path did not match.
func (r *Route) Match() *pathmatch.Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.match
}

// Props returns the current props.
func (r *Route) Props() Props {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.props
}

// ChildContext returns the Context the Route publishes to its descendants:
// the ambient Context with the effective location and the Route's match.
// It is nil before the Route mounts.
func (r *Route) ChildContext() *Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.childContext()
}

func (r *Route) childContext() *Context {
	if r.ambient == nil {
		return nil
	}
	loc := r.ambient.Route.Location
	if r.props.Location != nil {
		loc = *r.props.Location
	}
	return r.ambient.WithRoute(loc, r.match)
}

// Render mounts the Route on first use and updates it afterwards, then
// renders its strategy.
func (r *Route) Render(rc *Context) (*vdom.VNode, error) {
	r.mu.Lock()
	var err error
	if !r.mounted {
		err = r.mount(rc)
	} else {
		err = r.update(r.props, rc)
	}
	if err == nil && rc == nil {
		err = errors.New("R001").WithRoute(r.props.Path)
	}
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	strategy, match, child, path := r.props.Strategy, r.match, r.childContext(), r.props.Path
	r.mu.Unlock()

	return renderStrategy(strategy, match, child, path)
}

// renderStrategy applies the render decision for a computed match.
func renderStrategy(s Strategy, match *pathmatch.Match, rc *Context, path string) (*vdom.VNode, error) {
	rp := RouteProps{
		Match:         match,
		Location:      rc.Route.Location,
		History:       rc.History,
		StaticContext: rc.StaticContext,
	}

	switch s := deref(s).(type) {
	case nil:
		return nil, nil

	case ComponentStrategy:
		if match == nil {
			return nil, nil
		}
		if s.Component == nil {
			return nil, errors.New("R003").WithRoute(path).WithDetail("ComponentStrategy has no component type.")
		}
		return s.Component.render(rc, rp.Props())

	case RenderStrategy:
		if match == nil {
			return nil, nil
		}
		if s.Func == nil {
			return nil, errors.New("R003").WithRoute(path).WithDetail("RenderStrategy has no render function.")
		}
		return s.Func(rc, rp)

	case ChildFuncStrategy:
		if s.Func == nil {
			return nil, errors.New("R003").WithRoute(path).WithDetail("ChildFuncStrategy has no function.")
		}
		return s.Func(rc, rp)

	case ChildrenStrategy:
		children := s.nonEmpty()
		switch len(children) {
		case 0:
			return nil, nil
		case 1:
			return children[0].Render(rc)
		default:
			return nil, errors.New("R002").WithRoute(path)
		}

	default:
		return nil, errors.New("R003").WithRoute(path)
	}
}

// deref accepts strategies passed by pointer.
func deref(s Strategy) Strategy {
	switch p := s.(type) {
	case *ComponentStrategy:
		if p != nil {
			return *p
		}
	case *RenderStrategy:
		if p != nil {
			return *p
		}
	case *ChildFuncStrategy:
		if p != nil {
			return *p
		}
	case *ChildrenStrategy:
		if p != nil {
			return *p
		}
	default:
		return s
	}
	return nil
}
