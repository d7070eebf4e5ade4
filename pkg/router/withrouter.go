package router

import (
	"slices"

	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/vdom"
)

// reservedStatics are the statics that describe a component type itself and
// are never copied onto a wrapper.
var reservedStatics = []string{
	"displayName",
	"propTypes",
	"defaultProps",
	"contextTypes",
	"childContextTypes",
	"wrappedComponent",
	"name",
}

// IsReservedStatic reports whether key is excluded from ForwardStatics.
func IsReservedStatic(key string) bool {
	return slices.Contains(reservedStatics, key)
}

// ForwardStatics returns a copy of the statics of c without the reserved
// keys. It returns nil when nothing is forwarded.
func ForwardStatics(c *ComponentType) map[string]any {
	if c == nil {
		return nil
	}
	var out map[string]any
	for k, v := range c.Statics {
		if IsReservedStatic(k) {
			continue
		}
		if out == nil {
			out = make(map[string]any, len(c.Statics))
		}
		out[k] = v
	}
	return out
}

// WithRouter wraps c so that it renders with the routing props of the
// nearest Route: match, location, history and staticContext. Routing props
// take precedence over passed props of the same name.
//
// A wrappedComponentRef prop holding an InstanceRef is not passed to c. It is
// called with the wrapped instance after c renders successfully.
//
// The wrapper exposes c as Wrapped and carries c's non-reserved statics.
func WithRouter(c *ComponentType) *ComponentType {
	name := "withRouter(" + c.DisplayName() + ")"

	w := &ComponentType{
		Name:    name,
		Wrapped: c,
		Statics: ForwardStatics(c),
	}
	w.Render = func(rc *Context, props vdom.Props) (*vdom.VNode, error) {
		if rc == nil {
			return nil, errors.New("R001").WithDetail("You should not use " + name + " outside a Router.")
		}

		ref := instanceRef(props[PropWrappedComponentRef])
		rest := props.Without(PropWrappedComponentRef)

		route := NewRoute(Props{
			Strategy: ChildFuncStrategy{Func: func(child *Context, rp RouteProps) (*vdom.VNode, error) {
				merged := rp.Apply(rest.Clone())
				node, err := c.render(child, merged)
				if err != nil {
					return nil, err
				}
				if ref != nil {
					ref(&Instance{Type: c, Props: merged})
				}
				return node, nil
			}},
		})
		return route.Render(rc)
	}
	return w
}

func instanceRef(v any) InstanceRef {
	switch ref := v.(type) {
	case InstanceRef:
		return ref
	case func(*Instance):
		return ref
	default:
		return nil
	}
}
