package router

import (
	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/history"
	"github.com/vango-dev/vroute/pkg/pathmatch"
	"github.com/vango-dev/vroute/pkg/vdom"
)

// Redirect navigates to To when rendered and renders nothing. It replaces the
// current entry unless Push is set.
//
// Inside a Switch, From is matched like a Route path and the params of the
// match are substituted into To.
type Redirect struct {
	To    string
	From  string
	Push  bool
	State any

	Exact     bool
	Strict    bool
	Sensitive bool

	// ComputedMatch supplies the params substituted into To.
	ComputedMatch *pathmatch.Match
}

// Target returns the location Redirect navigates to.
func (rd *Redirect) Target(rc *Context) (string, error) {
	if rd.ComputedMatch == nil {
		return rd.To, nil
	}
	loc := history.ParsePath(rd.To)
	pathname, err := rc.Matcher().Generate(loc.Pathname, rd.ComputedMatch.Params)
	if err != nil {
		return "", err
	}
	loc.Pathname = pathname
	return history.CreatePath(loc), nil
}

// Render implements Element.
func (rd *Redirect) Render(rc *Context) (*vdom.VNode, error) {
	if rc == nil {
		return nil, errors.New("R001").WithDetail("You should not use Redirect outside a Router.")
	}

	to, err := rd.Target(rc)
	if err != nil {
		return nil, err
	}

	if rd.Push {
		err = rc.History.Push(to, rd.State)
	} else {
		err = rc.History.Replace(to, rd.State)
	}
	return nil, err
}

func (rd *Redirect) switchOptions() pathmatch.Options {
	return pathmatch.Options{
		Path:      rd.From,
		Exact:     rd.Exact,
		Strict:    rd.Strict,
		Sensitive: rd.Sensitive,
	}
}

func (rd *Redirect) withMatch(m *pathmatch.Match, _ history.Location) Element {
	next := *rd
	next.ComputedMatch = m
	return &next
}
