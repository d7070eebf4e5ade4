// Package errors provides structured, actionable error messages for vroute.
//
// Every error carries a registered code that maps to:
//   - A short message describing the error
//   - A detailed explanation
//   - A documentation URL
//
// An error can also name the route it concerns (the pattern being compiled or
// the pathname being rendered), a fix suggestion and a short example.
//
// # Error Categories
//
//   - routing: misconfigured route trees (no router, too many children)
//   - pattern: path patterns that cannot be compiled or generated
//   - history: navigation attempted on a history that cannot navigate
//   - config: configuration files that are missing or invalid
//   - cli: command line failures (render, export)
//
// # Usage
//
//	err := errors.New("R001").
//	    WithRoute("/users/:id").
//	    WithSuggestion("Render the tree through router.NewRouter or router.NewStaticRouter")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR R001: Route rendered outside a router
//	//
//	//   route /users/:id
//	//
//	//   You should not use Route or WithRouter outside a Router.
//	//
//	//   Hint: Render the tree through router.NewRouter or router.NewStaticRouter
//	//
//	//   Learn more: https://vango.dev/docs/vroute/errors/R001
package errors
