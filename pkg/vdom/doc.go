// Package vdom is the virtual DOM routes render into.
//
// VNode is the building block: elements, text, fragments, embedded
// components and raw HTML. Props holds element attributes and, for route
// components, the property bag a component is rendered with.
//
// Elements are built with variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    P(Text("Content")),
//	)
//
// Trees are turned into HTML by package render.
package vdom
