package router

import (
	"strings"

	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/history"
	"github.com/vango-dev/vroute/pkg/pathmatch"
	"github.com/vango-dev/vroute/pkg/vdom"
)

// Link renders an anchor to To, resolved against the current location.
// The data-link attribute tells a client script to navigate with push or
// replace instead of loading the page.
type Link struct {
	To      string
	Replace bool
	State   any

	// Attrs are extra attributes for the anchor.
	Attrs []vdom.Attr

	Children []Element
}

// Location returns the location Link points to.
func (l *Link) Location(rc *Context) history.Location {
	current := rc.Route.Location
	return history.CreateLocation(l.To, l.State, "", &current)
}

// Render implements Element.
func (l *Link) Render(rc *Context) (*vdom.VNode, error) {
	if rc == nil {
		return nil, errors.New("R001").WithDetail("You should not use Link outside a Router.")
	}
	return l.anchor(rc, l.Attrs)
}

func (l *Link) anchor(rc *Context, attrs []vdom.Attr) (*vdom.VNode, error) {
	mode := "push"
	if l.Replace {
		mode = "replace"
	}

	children := make([]*vdom.VNode, 0, len(l.Children))
	for _, c := range l.Children {
		n, err := rc.Render(c)
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}

	return vdom.A(
		vdom.Href(rc.History.CreateHref(l.Location(rc))),
		vdom.Data("link", mode),
		attrs,
		children,
	), nil
}

// NavLink is a Link that marks itself active when its target matches the
// current location. An active NavLink gets ActiveClass added to its class
// and aria-current="page".
type NavLink struct {
	Link

	// ActiveClass defaults to "active".
	ActiveClass string

	Exact     bool
	Strict    bool
	Sensitive bool
}

// Active reports whether the target matches the current location.
func (n *NavLink) Active(rc *Context) (bool, error) {
	target := n.Location(rc)
	m, err := rc.Matcher().Match(rc.Route.Location.Pathname, pathmatch.Options{
		Path:      escapePattern(target.Pathname),
		Exact:     n.Exact,
		Strict:    n.Strict,
		Sensitive: n.Sensitive,
	}, nil)
	return m != nil, err
}

// Render implements Element.
func (n *NavLink) Render(rc *Context) (*vdom.VNode, error) {
	if rc == nil {
		return nil, errors.New("R001").WithDetail("You should not use NavLink outside a Router.")
	}
	active, err := n.Active(rc)
	if err != nil {
		return nil, err
	}
	if !active {
		return n.anchor(rc, n.Attrs)
	}

	activeClass := n.ActiveClass
	if activeClass == "" {
		activeClass = "active"
	}

	attrs := make([]vdom.Attr, 0, len(n.Attrs)+2)
	classes := []string{activeClass}
	for _, a := range n.Attrs {
		if a.Key == "class" {
			if s, ok := a.Value.(string); ok && s != "" {
				classes = append([]string{s}, classes...)
			}
			continue
		}
		attrs = append(attrs, a)
	}
	attrs = append(attrs, vdom.Class(classes...), vdom.AriaCurrent("page"))
	return n.anchor(rc, attrs)
}

// escapePattern escapes the characters a path pattern treats specially.
func escapePattern(p string) string {
	var b strings.Builder
	for _, r := range p {
		if strings.ContainsRune(`.+*?=^!:${}()[]|\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
