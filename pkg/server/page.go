package server

import (
	"context"
	"io"
	"net/http"
	"sync"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/history"
	"github.com/vango-dev/vroute/pkg/middleware"
	"github.com/vango-dev/vroute/pkg/render"
	"github.com/vango-dev/vroute/pkg/routepath"
	"github.com/vango-dev/vroute/pkg/router"
	"github.com/vango-dev/vroute/pkg/vdom"
)

// DataTitle is the StaticContext.Data key a component sets to title the page.
const DataTitle = "title"

// Page is the outcome of rendering one location.
type Page struct {
	// Target is the rendered path with its query string.
	Target string

	// Status is the HTTP status decided by the render.
	Status int

	// Redirect is the URL a Redirect navigated to, "" when none.
	Redirect string

	// Route is the pattern of the last route that matched.
	Route string

	// Title is the page title.
	Title string

	// Body is the rendered tree. It is nil for redirects.
	Body *vdom.VNode
}

// Redirected reports whether the render navigated away.
func (p *Page) Redirected() bool {
	return p.Redirect != ""
}

// Resolve renders target under a static router. target is a path relative
// to the server root, including Config.Basename.
func (s *Server) Resolve(ctx context.Context, method, target string) (*Page, error) {
	loc := history.ParsePath(target)
	req := &middleware.Request{
		ID:     chimw.GetReqID(ctx),
		Method: method,
		Path:   loc.Pathname,
	}

	var page *Page
	h := middleware.Chain(func(ctx context.Context, req *middleware.Request) error {
		p, err := s.render(ctx, req, loc)
		page = p
		return err
	}, s.mws...)

	if err := h(ctx, req); err != nil {
		return nil, err
	}
	page.Target = target
	return page, nil
}

func (s *Server) render(ctx context.Context, req *middleware.Request, loc history.Location) (*Page, error) {
	sc := &router.StaticContext{Data: map[string]any{}}
	rec := &lastMatch{}

	observers := router.Observers{rec}
	if s.metrics != nil {
		observers = append(observers, s.metrics)
	}
	if s.tracing != nil {
		observers = append(observers, s.tracing)
	}

	opts := []router.Option{
		router.WithLogger(s.logger),
		router.WithMatcher(s.matcher),
		router.WithObserver(observers),
	}
	opts = append(opts, s.routerOpts...)
	opts = append(opts, router.WithStdContext(ctx))

	body, err := router.NewStaticRouterLocation(loc, s.config.Basename, sc, s.app, opts...).Render()
	req.Route = rec.get()
	if err != nil {
		req.Status = http.StatusInternalServerError
		return nil, err
	}

	page := &Page{
		Status: sc.StatusCode,
		Route:  req.Route,
		Title:  s.config.Title,
	}
	if title, ok := sc.Data[DataTitle].(string); ok && title != "" {
		page.Title = title
	}

	if sc.Redirected() {
		page.Redirect = sc.URL
		if !isRedirectStatus(page.Status) {
			page.Status = http.StatusFound
		}
	} else {
		page.Body = body
		if page.Status == 0 {
			page.Status = http.StatusOK
		}
	}
	req.Status = page.Status
	return page, nil
}

func isRedirectStatus(code int) bool {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// WritePage writes p as a complete HTML document, flushing as it goes when w
// is an http.Flusher.
func (s *Server) WritePage(w io.Writer, p *Page) error {
	sr := render.NewStreamingRenderer(w, render.RendererConfig{})
	err := sr.RenderPage(render.PageData{
		Body:    p.Body,
		Title:   p.Title,
		Lang:    s.config.Lang,
		Scripts: s.config.Scripts,
	})
	if err != nil {
		return errors.New("R030").WithRoute(p.Target).Wrap(err)
	}
	return nil
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	if s.static != nil && s.static.serve(w, r) {
		return
	}

	input := r.URL.EscapedPath()
	if r.URL.RawQuery != "" {
		input += "?" + r.URL.RawQuery
	}

	cleaned, err := routepath.Clean(input)
	if err != nil {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}
	if cleaned.Changed {
		// 308 keeps the method.
		http.Redirect(w, r, cleaned.String(), http.StatusPermanentRedirect)
		return
	}

	page, err := s.Resolve(r.Context(), r.Method, cleaned.String())
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if page.Redirected() {
		http.Redirect(w, r, page.Redirect, page.Status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(page.Status)
	if r.Method == http.MethodHead {
		return
	}

	if err := s.WritePage(w, page); err != nil {
		s.logger.Error("write page", "path", page.Target, "error", err)
	}
}

// lastMatch remembers the last pattern that matched during one render.
type lastMatch struct {
	mu    sync.Mutex
	route string
}

func (l *lastMatch) ObserveMatch(_ context.Context, path string, matched bool) {
	if !matched {
		return
	}
	l.mu.Lock()
	l.route = path
	l.mu.Unlock()
}

func (l *lastMatch) ObserveWarning(context.Context, string) {}

func (l *lastMatch) get() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.route
}
