package export

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/routepath"
	"github.com/vango-dev/vroute/pkg/server"
)

const contentTypeHTML = "text/html; charset=utf-8"

// Result describes one exported path.
type Result struct {
	Path     string `json:"path"`
	Key      string `json:"key"`
	Status   int    `json:"status"`
	Redirect string `json:"redirect,omitempty"`
	Size     int    `json:"size"`
}

// Exporter renders paths and stores the documents.
type Exporter struct {
	server      *server.Server
	store       Store
	logger      *slog.Logger
	concurrency int
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger. Defaults to the server's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithConcurrency sets how many paths render at once. Defaults to 4.
func WithConcurrency(n int) Option {
	return func(e *Exporter) {
		e.concurrency = max(1, n)
	}
}

// New creates an Exporter.
func New(s *server.Server, store Store, opts ...Option) *Exporter {
	e := &Exporter{
		server:      s,
		store:       store,
		logger:      s.Logger(),
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export renders every path and stores the result. Paths are relative to
// the server's basename. Duplicate paths are exported once. The first
// failure cancels the rest and is returned as an R031 error; results are in
// input order.
func (e *Exporter) Export(ctx context.Context, paths []string) ([]Result, error) {
	targets := make([]string, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		target, err := routepath.LocalTarget(p)
		if err != nil {
			return nil, errors.New("R031").WithRoute(p).Wrap(err)
		}
		if !seen[target] {
			seen[target] = true
			targets = append(targets, target)
		}
	}

	results := make([]Result, len(targets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	var mu sync.Mutex
	for i, target := range targets {
		g.Go(func() error {
			res, err := e.exportOne(ctx, target)
			if err != nil {
				return errors.New("R031").WithRoute(target).Wrap(err)
			}
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Exporter) exportOne(ctx context.Context, target string) (Result, error) {
	page, err := e.server.Resolve(ctx, http.MethodGet, e.server.Config().Basename+target)
	if err != nil {
		return Result{}, err
	}

	var buf bytes.Buffer
	if page.Redirected() {
		writeRedirect(&buf, page.Redirect)
	} else if err := e.server.WritePage(&buf, page); err != nil {
		return Result{}, err
	}

	res := Result{
		Path:     target,
		Key:      Key(target),
		Status:   page.Status,
		Redirect: page.Redirect,
		Size:     buf.Len(),
	}
	if err := e.store.Put(ctx, res.Key, contentTypeHTML, buf.Bytes()); err != nil {
		return Result{}, err
	}

	if res.Status >= 400 {
		e.logger.Warn("exported error page", "path", target, "status", res.Status)
	} else {
		e.logger.Debug("exported", "path", target, "key", res.Key, "status", res.Status)
	}
	return res, nil
}

// Key returns the store key for a path. The query string is ignored.
func Key(target string) string {
	if i := strings.IndexByte(target, '?'); i >= 0 {
		target = target[:i]
	}
	target = strings.Trim(target, "/")
	if target == "" {
		return "index.html"
	}
	return target + "/index.html"
}

func writeRedirect(buf *bytes.Buffer, to string) {
	u := html.EscapeString(to)
	fmt.Fprintf(buf, `<!DOCTYPE html><html><head><meta charset="utf-8"><meta http-equiv="refresh" content="0; url=%s"><link rel="canonical" href="%s"></head><body><a href="%s">%s</a></body></html>`, u, u, u, u)
}
