package router

import (
	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/vdom"
)

// Element is a node of a routing tree. It renders to a VNode given the
// Context published by its nearest ancestor.
type Element interface {
	Render(rc *Context) (*vdom.VNode, error)
}

// ElementFunc adapts a function to Element.
type ElementFunc func(rc *Context) (*vdom.VNode, error)

// Render implements Element.
func (f ElementFunc) Render(rc *Context) (*vdom.VNode, error) {
	return f(rc)
}

// Node wraps a static VNode as an Element.
func Node(n *vdom.VNode) Element {
	return nodeElement{n}
}

type nodeElement struct {
	node *vdom.VNode
}

func (e nodeElement) Render(*Context) (*vdom.VNode, error) {
	return e.node, nil
}

// Group renders several elements into a fragment, in order. Nil elements are
// skipped.
func Group(children ...Element) Element {
	return group(children)
}

type group []Element

func (g group) Render(rc *Context) (*vdom.VNode, error) {
	nodes := make([]*vdom.VNode, 0, len(g))
	for _, el := range g {
		if el == nil {
			continue
		}
		n, err := el.Render(rc)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return vdom.Fragment(nodes), nil
}

// ComponentFunc renders a component from its props.
type ComponentFunc func(rc *Context, props vdom.Props) (*vdom.VNode, error)

// ComponentType describes a renderable component: its render function plus
// the metadata that travels with it.
type ComponentType struct {
	// Name is the display name used in warnings and debugging output.
	Name string

	// Render renders the component.
	Render ComponentFunc

	// Statics holds arbitrary metadata attached to the type.
	Statics map[string]any

	// Wrapped is the component a wrapper was built from, nil otherwise.
	Wrapped *ComponentType
}

// DisplayName returns Name, or "Component" when unnamed.
func (c *ComponentType) DisplayName() string {
	if c == nil || c.Name == "" {
		return "Component"
	}
	return c.Name
}

// Static returns a static value.
func (c *ComponentType) Static(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.Statics[key]
	return v, ok
}

// render invokes the render function. A missing function is an R004 error.
func (c *ComponentType) render(rc *Context, props vdom.Props) (*vdom.VNode, error) {
	if c == nil || c.Render == nil {
		return nil, errors.New("R004").WithDetail("Component " + c.DisplayName() + " has no render function.")
	}
	return c.Render(rc, props)
}

// Instance is a rendered component as seen through an InstanceRef.
type Instance struct {
	Type  *ComponentType
	Props vdom.Props
}

// InstanceRef receives the wrapped component instance after a WithRouter
// wrapper renders it.
type InstanceRef func(*Instance)

// Create returns an Element rendering c with props.
func Create(c *ComponentType, props vdom.Props) Element {
	return componentElement{typ: c, props: props}
}

type componentElement struct {
	typ   *ComponentType
	props vdom.Props
}

func (e componentElement) Render(rc *Context) (*vdom.VNode, error) {
	return e.typ.render(rc, e.props.Clone())
}
