package router

import (
	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/history"
	"github.com/vango-dev/vroute/pkg/pathmatch"
	"github.com/vango-dev/vroute/pkg/vdom"
)

// SwitchCase is an element a Switch can choose: a *Route or a *Redirect.
type SwitchCase interface {
	Element
	switchOptions() pathmatch.Options
	withMatch(m *pathmatch.Match, loc history.Location) Element
}

// Switch renders the first case whose path matches. A case without a path
// matches whenever its parent does.
type Switch struct {
	// Location overrides the location read from the Context.
	Location *history.Location

	Cases []SwitchCase
}

// NewSwitch creates a Switch over cases.
func NewSwitch(cases ...SwitchCase) *Switch {
	return &Switch{Cases: cases}
}

// Render implements Element.
func (s *Switch) Render(rc *Context) (*vdom.VNode, error) {
	if rc == nil {
		return nil, errors.New("R001").WithDetail("You should not use Switch outside a Router.")
	}

	loc := rc.Route.Location
	if s.Location != nil {
		loc = *s.Location
	}

	for _, c := range s.Cases {
		if c == nil {
			continue
		}
		opts := c.switchOptions()
		m, err := rc.Matcher().Match(loc.Pathname, opts, rc.Route.Match)
		if err != nil {
			return nil, err
		}
		if opts.Path != "" {
			rc.observer().ObserveMatch(rc.Std(), opts.Path, m != nil)
		}
		if m != nil {
			return c.withMatch(m, loc).Render(rc)
		}
	}
	return nil, nil
}

func (r *Route) switchOptions() pathmatch.Options {
	return r.Props().Options()
}

// withMatch returns a Route rendering with m and loc. Warnings pending on r
// move to the returned Route.
func (r *Route) withMatch(m *pathmatch.Match, loc history.Location) Element {
	r.mu.Lock()
	p, pending := r.props, r.pending
	r.pending = nil
	r.mu.Unlock()

	p.ComputedMatch = m
	p.Location = &loc
	return &Route{props: p, pending: pending}
}
