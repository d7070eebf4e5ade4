// Package vtest provides testing helpers for routed element trees.
//
// The vtest package reduces boilerplate when testing routes by providing a
// fluent routing context builder and render assertions.
//
// # Quick Start
//
//	func TestUserPage(t *testing.T) {
//	    html := vtest.Render(t, app, "/users/42")
//	    if !strings.Contains(html, "User 42") {
//	        t.Errorf("got %s", html)
//	    }
//	}
//
// # Fluent Context Builder
//
// The context builder allows chaining multiple setup operations:
//
//	rc := vtest.NewCtx().
//	    At("/app/users/42").
//	    WithBasename("/app").
//	    WithParam("id", "42").
//	    WithOptions(router.WithObserver(rec)).
//	    Build()
//
// # Render Assertions
//
// Assert on rendered HTML output:
//
//	node := vtest.RenderElement(t, rc, el)
//	vtest.ExpectContains(t, node, "Welcome")
//	vtest.ExpectAttribute(t, node, "href", "/users/2")
//
// # Observing Routes
//
// A Recorder collects the matches and developer warnings a render produced:
//
//	rec := &vtest.Recorder{}
//	rc := vtest.NewCtx().WithOptions(router.WithObserver(rec)).Build()
package vtest
