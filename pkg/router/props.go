package router

import (
	"github.com/vango-dev/vroute/pkg/history"
	"github.com/vango-dev/vroute/pkg/pathmatch"
	"github.com/vango-dev/vroute/pkg/vdom"
)

// Prop keys under which routing props are passed to components.
const (
	PropMatch               = "match"
	PropLocation            = "location"
	PropHistory             = "history"
	PropStaticContext       = "staticContext"
	PropWrappedComponentRef = "wrappedComponentRef"
)

// RouteProps are the routing props a Route hands to whatever it renders.
// Match is nil when the route did not match.
type RouteProps struct {
	Match         *pathmatch.Match
	Location      history.Location
	History       history.History
	StaticContext *StaticContext
}

// Apply writes the routing props into p, overwriting keys already present,
// and returns p.
func (rp RouteProps) Apply(p vdom.Props) vdom.Props {
	p[PropMatch] = rp.Match
	p[PropLocation] = rp.Location
	p[PropHistory] = rp.History
	p[PropStaticContext] = rp.StaticContext
	return p
}

// Props returns the routing props as a fresh property bag.
func (rp RouteProps) Props() vdom.Props {
	return rp.Apply(make(vdom.Props, 4))
}

// RoutePropsFrom reads routing props back out of a property bag.
func RoutePropsFrom(p vdom.Props) RouteProps {
	var rp RouteProps
	rp.Match, _ = p[PropMatch].(*pathmatch.Match)
	rp.Location, _ = p[PropLocation].(history.Location)
	rp.History, _ = p[PropHistory].(history.History)
	rp.StaticContext, _ = p[PropStaticContext].(*StaticContext)
	return rp
}

// MatchFrom returns the match prop, nil when absent.
func MatchFrom(p vdom.Props) *pathmatch.Match {
	m, _ := p[PropMatch].(*pathmatch.Match)
	return m
}
