package middleware

import (
	"context"
)

// Request describes one server render. The handler fills Route and Status.
type Request struct {
	// ID identifies the request in logs, "" when unknown.
	ID string

	// Method is the HTTP method, "GET" for exports.
	Method string

	// Path is the requested pathname.
	Path string

	// Route is the pattern of the deepest matched route, "" when none.
	Route string

	// Status is the response status decided by the render.
	Status int
}

// Handler renders a request.
type Handler func(ctx context.Context, req *Request) error

// Middleware wraps a render.
type Middleware interface {
	Handle(ctx context.Context, req *Request, next Handler) error
}

// MiddlewareFunc adapts a function to Middleware.
type MiddlewareFunc func(ctx context.Context, req *Request, next Handler) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(ctx context.Context, req *Request, next Handler) error {
	return f(ctx, req, next)
}

// Chain wraps h with mws. The first middleware is the outermost.
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		mw, next := mws[i], h
		if mw == nil {
			continue
		}
		h = func(ctx context.Context, req *Request) error {
			return mw.Handle(ctx, req, next)
		}
	}
	return h
}

// routeLabel keeps metric and span labels bounded: unmatched requests share
// one label instead of their raw path.
func routeLabel(req *Request) string {
	if req.Route == "" {
		return "unmatched"
	}
	return req.Route
}
