package router

import (
	"fmt"
	"maps"
	"net/url"
	"slices"

	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/history"
)

// NavigateOptions configures Navigate.
type NavigateOptions struct {
	// Replace replaces the current history entry instead of pushing.
	Replace bool

	// Params are query parameters to add to the URL.
	Params map[string]any

	// State is attached to the new entry.
	State any
}

// NavigateOption is a functional option for Navigate.
type NavigateOption func(*NavigateOptions)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

// WithParams adds query parameters to the navigation URL.
func WithParams(params map[string]any) NavigateOption {
	return func(o *NavigateOptions) {
		o.Params = params
	}
}

// WithState attaches state to the new history entry.
func WithState(state any) NavigateOption {
	return func(o *NavigateOptions) {
		o.State = state
	}
}

// Navigate moves the history of rc to path, resolved against the current
// location.
func Navigate(rc *Context, path string, opts ...NavigateOption) error {
	if rc == nil || rc.History == nil {
		return errors.New("R001").WithDetail("You should not navigate outside a Router.")
	}

	var options NavigateOptions
	for _, opt := range opts {
		opt(&options)
	}

	target, err := BuildURL(path, options.Params)
	if err != nil {
		return err
	}

	current := rc.Route.Location
	loc := history.CreateLocation(target, options.State, "", &current)
	if options.Replace {
		return rc.History.Replace(history.CreatePath(loc), options.State)
	}
	return rc.History.Push(history.CreatePath(loc), options.State)
}

// Back navigates one entry back.
func Back(rc *Context) error {
	if rc == nil || rc.History == nil {
		return errors.New("R001").WithDetail("You should not navigate outside a Router.")
	}
	return rc.History.GoBack()
}

// Forward navigates one entry forward.
func Forward(rc *Context) error {
	if rc == nil || rc.History == nil {
		return errors.New("R001").WithDetail("You should not navigate outside a Router.")
	}
	return rc.History.GoForward()
}

// BuildURL adds params to the query of path. Keys are written in sorted
// order.
func BuildURL(path string, params map[string]any) (string, error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", errors.New("R006").WithRoute(path).Wrap(err)
	}
	if len(params) == 0 {
		return u.String(), nil
	}

	q := u.Query()
	for _, k := range slices.Sorted(maps.Keys(params)) {
		q.Set(k, fmt.Sprintf("%v", params[k]))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
