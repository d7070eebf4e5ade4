// Package render turns vdom trees into HTML.
//
// Renderer writes a VNode tree as an HTML fragment:
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// RenderPage wraps a body in a complete document with DOCTYPE, head metadata
// and scripts. StreamingRenderer does the same against an http.ResponseWriter,
// flushing after the head and after the body.
//
// Text and attribute values are escaped. Props whose key starts with "_" and
// the "key" prop are never rendered.
package render
