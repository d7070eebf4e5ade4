// Package router decides what to render for the current location.
//
// A Router publishes a Context at the top of an element tree. Every element
// receives the Context explicitly through Render:
//
//	app := router.NewStaticRouter("/users/42", "", nil,
//	    router.Group(
//	        router.NewRoute(router.Props{
//	            Path:     "/users/:id",
//	            Strategy: router.ComponentStrategy{Component: UserPage},
//	        }),
//	        router.NewRoute(router.Props{
//	            Path:     "/about",
//	            Strategy: router.RouteFuncStrategy(renderAbout),
//	        }),
//	    ),
//	)
//	node, err := app.Render()
//
// # Route
//
// A Route matches its path against the location and renders through exactly
// one Strategy:
//
//   - ComponentStrategy renders a ComponentType when the path matches.
//   - RenderStrategy calls a RouteFunc when the path matches.
//   - ChildFuncStrategy calls a RouteFunc on every render, matched or not.
//   - ChildrenStrategy renders its single child regardless of the match.
//
// Descendants of a Route see a Context whose Route state carries the Route's
// location and match, so nested routes match relative to their parent.
//
// # WithRouter
//
// WithRouter wraps a ComponentType so that it is rendered with the match,
// location, history and staticContext props. Routing props override passed
// props of the same name.
//
// # Switch, Redirect and Link
//
// Switch renders the first child whose path matches. Redirect navigates
// when rendered; under a StaticRouter the target is recorded in the
// StaticContext so a server can answer with a redirect. Link renders an
// anchor whose href is built by the history.
package router
