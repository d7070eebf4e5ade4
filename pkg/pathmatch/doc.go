// Package pathmatch matches URL pathnames against route patterns.
//
// Patterns use the path-to-regexp 1.x language:
//
//	/users             static text
//	/users/:id         named parameter, one segment
//	/users/:id(\d+)    named parameter with a custom pattern
//	/files/:path*      zero or more segments
//	/files/:path+      one or more segments
//	/users/:id?        optional parameter
//	/icons/:name.:ext  parameters delimited by "."
//	/(\d+)             unnamed parameter, named "0", "1", ...
//	/assets/*          asterisk, matches anything
//
// Matching is controlled by Options:
//
//	m, err := pathmatch.MatchPath("/users/42", pathmatch.Options{Path: "/users/:id"}, nil)
//	// m.URL == "/users/42", m.IsExact == true, m.Params["id"] == "42"
//
// Exact requires the whole pathname to be consumed, Strict makes a trailing
// slash significant, and Sensitive makes matching case-sensitive. Without
// Exact a pattern matches any pathname it is a segment prefix of.
//
// Compiled patterns are cached by a Matcher. The package-level functions use
// a shared default Matcher.
package pathmatch
