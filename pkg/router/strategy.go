package router

import "github.com/vango-dev/vroute/pkg/vdom"

// RouteFunc renders from routing props. rc is the Context the Route publishes
// to its descendants.
type RouteFunc func(rc *Context, p RouteProps) (*vdom.VNode, error)

// Strategy is how a Route renders. Exactly one of ComponentStrategy,
// RenderStrategy, ChildFuncStrategy and ChildrenStrategy.
type Strategy interface {
	strategy()
}

// ComponentStrategy renders Component with the routing props when the route
// matches, and nothing otherwise.
type ComponentStrategy struct {
	Component *ComponentType
}

// RenderStrategy calls Func when the route matches, and renders nothing
// otherwise.
type RenderStrategy struct {
	Func RouteFunc
}

// ChildFuncStrategy calls Func on every render. Match is nil when the route
// did not match.
type ChildFuncStrategy struct {
	Func RouteFunc
}

// ChildrenStrategy renders its child regardless of the match. At most one
// child is allowed.
type ChildrenStrategy struct {
	Children []Element
}

func (ComponentStrategy) strategy() {}
func (RenderStrategy) strategy()    {}
func (ChildFuncStrategy) strategy() {}
func (ChildrenStrategy) strategy()  {}

// RouteFuncStrategy is shorthand for RenderStrategy{Func: fn}.
func RouteFuncStrategy(fn RouteFunc) Strategy {
	return RenderStrategy{Func: fn}
}

// Children is shorthand for ChildrenStrategy{Children: children}.
func Children(children ...Element) Strategy {
	return ChildrenStrategy{Children: children}
}

// nonEmpty returns the non-nil children.
func (s ChildrenStrategy) nonEmpty() []Element {
	out := make([]Element, 0, len(s.Children))
	for _, c := range s.Children {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Candidates holds every rendering option a caller supplied, for callers
// that cannot pick one themselves, such as config loaders.
type Candidates struct {
	Component *ComponentType
	Render    RouteFunc
	ChildFunc RouteFunc
	Children  []Element
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	// Strategy is nil when no candidate was supplied.
	Strategy Strategy

	// Warnings lists every conflicting combination found.
	Warnings []Warning
}

// Resolve picks a strategy by precedence: component, render, children
// function, child elements. Each conflicting combination yields a warning.
func Resolve(c Candidates) Resolution {
	var res Resolution

	hasChildren := len(ChildrenStrategy{Children: c.Children}.nonEmpty()) > 0
	hasAnyChildren := hasChildren || c.ChildFunc != nil

	if c.Component != nil && c.Render != nil {
		res.Warnings = append(res.Warnings, WarnComponentAndRender)
	}
	if c.Component != nil && hasAnyChildren {
		res.Warnings = append(res.Warnings, WarnComponentAndChildren)
	}
	if c.Render != nil && hasAnyChildren {
		res.Warnings = append(res.Warnings, WarnRenderAndChildren)
	}
	if c.ChildFunc != nil && hasChildren {
		res.Warnings = append(res.Warnings, WarnChildFuncAndChildren)
	}

	switch {
	case c.Component != nil:
		res.Strategy = ComponentStrategy{Component: c.Component}
	case c.Render != nil:
		res.Strategy = RenderStrategy{Func: c.Render}
	case c.ChildFunc != nil:
		res.Strategy = ChildFuncStrategy{Func: c.ChildFunc}
	case hasChildren:
		res.Strategy = ChildrenStrategy{Children: c.Children}
	}

	return res
}
