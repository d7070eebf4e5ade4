package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vango-dev/vroute/pkg/vdom"
)

func TestRenderPage(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	var buf bytes.Buffer
	err := renderer.RenderPage(&buf, PageData{
		Body:  vdom.Main(vdom.H1("Users")),
		Title: "Users & Teams",
		Meta:  []MetaTag{{Name: "description", Content: "All users"}},
		Links: []LinkTag{{Rel: "stylesheet", Href: "/app.css"}},
		Scripts: []ScriptTag{
			{Src: "/head.js", Defer: true},
			{Inline: "console.log(1)"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		`<meta charset="utf-8">`,
		"<title>Users &amp; Teams</title>",
		`<meta name="description" content="All users">`,
		`<link rel="stylesheet" href="/app.css">`,
		`<script src="/head.js" defer></script>`,
		"<main><h1>Users</h1></main>",
		"<script>console.log(1)</script>",
		"</body>\n</html>\n",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page should contain %q, got:\n%s", want, html)
		}
	}

	head := html[:strings.Index(html, "</head>")]
	if strings.Contains(head, "console.log") {
		t.Error("inline body script should not be in head")
	}
	if !strings.Contains(head, "/head.js") {
		t.Error("deferred script should be in head")
	}
}

func TestRenderPageLang(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	var buf bytes.Buffer
	if err := renderer.RenderPage(&buf, PageData{Lang: "de"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `<html lang="de">`) {
		t.Errorf("got %q", buf.String())
	}
}
