package render

import (
	"fmt"
	"html"
	"io"

	"github.com/vango-dev/vroute/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root VNode for the page content.
	Body *vdom.VNode

	// Title is the page title.
	Title string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string

	// Meta contains meta tags for the page.
	Meta []MetaTag

	// Links contains link tags (stylesheets, favicon, etc.).
	Links []LinkTag

	// Scripts are written at the end of the body, or in the head when
	// deferred or async.
	Scripts []ScriptTag
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name      string // name attribute
	Content   string // content attribute
	Property  string // property attribute (for OpenGraph)
	HTTPEquiv string // http-equiv attribute
}

// LinkTag represents a link element in the document head.
type LinkTag struct {
	Rel  string // rel attribute
	Href string // href attribute
	Type string // type attribute
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string // src attribute
	Type   string // type attribute
	Defer  bool   // defer attribute
	Async  bool   // async attribute
	Inline string // inline script content
}

func (s ScriptTag) inHead() bool {
	return s.Defer || s.Async
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	if err := r.renderPageStart(w, page); err != nil {
		return err
	}
	if err := r.RenderToWriter(w, page.Body); err != nil {
		return err
	}
	return r.renderPageEnd(w, page)
}

// renderPageStart writes everything up to and including the opening body tag.
func (r *Renderer) renderPageStart(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n", attrEscaper.Replace(lang)); err != nil {
		return err
	}
	if err := r.renderHead(w, page); err != nil {
		return err
	}
	_, err := io.WriteString(w, "<body>\n")
	return err
}

// renderPageEnd writes body scripts and closes the document.
func (r *Renderer) renderPageEnd(w io.Writer, page PageData) error {
	for _, script := range page.Scripts {
		if script.inHead() {
			continue
		}
		if err := renderScriptTag(w, script); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}

// renderHead renders the document head section.
func (r *Renderer) renderHead(w io.Writer, page PageData) error {
	if _, err := io.WriteString(w, "<head>\n"+
		`  <meta charset="utf-8">`+"\n"+
		`  <meta name="viewport" content="width=device-width, initial-scale=1">`+"\n"); err != nil {
		return err
	}

	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", html.EscapeString(page.Title)); err != nil {
			return err
		}
	}

	for _, meta := range page.Meta {
		if err := writeTag(w, "meta", [][2]string{
			{"name", meta.Name},
			{"property", meta.Property},
			{"http-equiv", meta.HTTPEquiv},
			{"content", meta.Content},
		}); err != nil {
			return err
		}
	}

	for _, link := range page.Links {
		if err := writeTag(w, "link", [][2]string{
			{"rel", link.Rel},
			{"href", link.Href},
			{"type", link.Type},
		}); err != nil {
			return err
		}
	}

	for _, script := range page.Scripts {
		if !script.inHead() {
			continue
		}
		if err := renderScriptTag(w, script); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</head>\n")
	return err
}

// writeTag writes a void head element with its non-empty attributes.
func writeTag(w io.Writer, tag string, attrs [][2]string) error {
	if _, err := io.WriteString(w, "  <"+tag); err != nil {
		return err
	}
	for _, a := range attrs {
		if a[1] == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a[0], attrEscaper.Replace(a[1])); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, ">\n")
	return err
}

// renderScriptTag renders a script element.
func renderScriptTag(w io.Writer, script ScriptTag) error {
	if _, err := io.WriteString(w, "  <script"); err != nil {
		return err
	}
	if script.Src != "" {
		if _, err := fmt.Fprintf(w, ` src="%s"`, attrEscaper.Replace(script.Src)); err != nil {
			return err
		}
	}
	if script.Type != "" {
		if _, err := fmt.Fprintf(w, ` type="%s"`, attrEscaper.Replace(script.Type)); err != nil {
			return err
		}
	}
	if script.Defer {
		if _, err := io.WriteString(w, " defer"); err != nil {
			return err
		}
	}
	if script.Async {
		if _, err := io.WriteString(w, " async"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, ">"+script.Inline+"</script>\n")
	return err
}
