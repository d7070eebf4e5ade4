package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vango-dev/vroute/pkg/vdom"
)

func TestRenderToString(t *testing.T) {
	tests := []struct {
		name string
		node *vdom.VNode
		want string
	}{
		{
			name: "text",
			node: vdom.Text("Hello, World!"),
			want: "Hello, World!",
		},
		{
			name: "text escaping",
			node: vdom.Text("<script>alert('xss')</script>"),
			want: "&lt;script&gt;alert(&#39;xss&#39;)&lt;/script&gt;",
		},
		{
			name: "element with children",
			node: vdom.Div(vdom.Class("container"), vdom.H1("Title"), vdom.P("Content")),
			want: `<div class="container"><h1>Title</h1><p>Content</p></div>`,
		},
		{
			name: "void element",
			node: vdom.Meta(vdom.Charset("utf-8")),
			want: `<meta charset="utf-8">`,
		},
		{
			name: "boolean attributes",
			node: vdom.Div(vdom.Hidden(), vdom.Attr{Key: "disabled", Value: false}),
			want: `<div hidden></div>`,
		},
		{
			name: "fragment",
			node: vdom.Fragment(vdom.Span("a"), vdom.Span("b")),
			want: `<span>a</span><span>b</span>`,
		},
		{
			name: "nested fragments",
			node: vdom.Div(vdom.Fragment(vdom.Fragment("x"), "y")),
			want: `<div>xy</div>`,
		},
		{
			name: "raw",
			node: vdom.Raw("<b>bold</b>"),
			want: "<b>bold</b>",
		},
		{
			name: "nil",
			node: nil,
			want: "",
		},
		{
			name: "component",
			node: vdom.Fragment(vdom.Func(func() *vdom.VNode { return vdom.Em("c") })),
			want: "<em>c</em>",
		},
		{
			name: "attribute escaping",
			node: vdom.A(vdom.Href(`/q?a="1"&b=<2>`)),
			want: `<a href="/q?a=&quot;1&quot;&amp;b=&lt;2&gt;"></a>`,
		},
		{
			name: "sorted attributes, key and internal props skipped",
			node: vdom.A(vdom.Key("k"), vdom.Href("/x"), vdom.Data("link", "push"), vdom.Attr{Key: "_route", Value: "/x"}),
			want: `<a data-link="push" href="/x"></a>`,
		},
		{
			name: "numeric attribute",
			node: vdom.Div(vdom.Attr{Key: "data-count", Value: 3}, vdom.Attr{Key: "data-ratio", Value: 0.5}),
			want: `<div data-count="3" data-ratio="0.5"></div>`,
		},
	}

	renderer := NewRenderer(RendererConfig{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := renderer.RenderToString(tt.node)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderUnknownKind(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})
	_, err := renderer.RenderToString(&vdom.VNode{Kind: vdom.VKind(99)})
	if err == nil {
		t.Error("expected error for unknown node kind")
	}
}

func TestRenderPretty(t *testing.T) {
	renderer := NewRenderer(RendererConfig{Pretty: true})

	got, err := renderer.RenderToString(vdom.Div(vdom.P("a"), vdom.P("b")))
	if err != nil {
		t.Fatal(err)
	}
	want := "<div>\n  <p>a</p>\n  <p>b</p>\n</div>\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderToWriter(t *testing.T) {
	var buf bytes.Buffer
	renderer := NewRenderer(RendererConfig{})
	if err := renderer.RenderToWriter(&buf, vdom.Span("w")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<span>w</span>") {
		t.Errorf("got %q", buf.String())
	}
}
