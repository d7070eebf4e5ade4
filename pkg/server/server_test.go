package server

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/vango-dev/vroute/pkg/middleware"
	"github.com/vango-dev/vroute/pkg/router"
	"github.com/vango-dev/vroute/pkg/vdom"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func titled(title, text string) router.Strategy {
	return router.RouteFuncStrategy(func(rc *router.Context, p router.RouteProps) (*vdom.VNode, error) {
		if p.StaticContext != nil {
			p.StaticContext.Data[DataTitle] = title
		}
		return vdom.H1(text), nil
	})
}

func testApp() router.Element {
	return router.NewSwitch(
		router.NewRoute(router.Props{Path: "/", Exact: true, Strategy: titled("Home", "home")}),
		router.NewRoute(router.Props{
			Path: "/users/:id",
			Strategy: router.RouteFuncStrategy(func(rc *router.Context, p router.RouteProps) (*vdom.VNode, error) {
				return vdom.H1("user " + p.Match.Param("id")), nil
			}),
		}),
		&router.Redirect{From: "/old/:id", To: "/users/:id"},
		router.NewRoute(router.Props{
			Path: "/boom",
			Strategy: router.RouteFuncStrategy(func(*router.Context, router.RouteProps) (*vdom.VNode, error) {
				panic("boom")
			}),
		}),
		router.NewRoute(router.Props{
			Strategy: router.RouteFuncStrategy(func(rc *router.Context, p router.RouteProps) (*vdom.VNode, error) {
				p.StaticContext.StatusCode = http.StatusNotFound
				return vdom.H1("not found"), nil
			}),
		}),
	)
}

func newTestServer(config *Config, opts ...Option) *Server {
	return New(testApp(), config, append([]Option{WithLogger(discardLogger())}, opts...)...)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServer_Pages(t *testing.T) {
	s := newTestServer(&Config{Title: "Site"})

	tests := []struct {
		name     string
		target   string
		status   int
		contains []string
		location string
	}{
		{name: "home", target: "/", status: 200, contains: []string{"<h1>home</h1>", "<title>Home</title>", "<!DOCTYPE html>"}},
		{name: "param", target: "/users/42", status: 200, contains: []string{"<h1>user 42</h1>", "<title>Site</title>"}},
		{name: "not found", target: "/nope", status: 404, contains: []string{"<h1>not found</h1>"}},
		{name: "redirect", target: "/old/7", status: http.StatusFound, location: "/users/7"},
		{name: "non canonical", target: "/users//42", status: http.StatusPermanentRedirect, location: "/users/42"},
		{name: "escapes root", target: "/../secret", status: http.StatusBadRequest},
		{name: "panic", target: "/boom", status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, tt.target)
			if rec.Code != tt.status {
				t.Fatalf("GET %s status = %d, want %d", tt.target, rec.Code, tt.status)
			}
			body := rec.Body.String()
			for _, want := range tt.contains {
				if !strings.Contains(body, want) {
					t.Errorf("body missing %q:\n%s", want, body)
				}
			}
			if tt.location != "" {
				if got := rec.Header().Get("Location"); got != tt.location {
					t.Errorf("Location = %q, want %q", got, tt.location)
				}
			}
		})
	}
}

func TestServer_Head(t *testing.T) {
	s := newTestServer(nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/users/1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("HEAD status = %d, want 200", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("HEAD body = %q, want empty", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestServer_Basename(t *testing.T) {
	s := newTestServer(&Config{Basename: "/app"})

	rec := get(t, s, "/app/users/5")
	if rec.Code != 200 || !strings.Contains(rec.Body.String(), "<h1>user 5</h1>") {
		t.Fatalf("GET /app/users/5 = %d %q", rec.Code, rec.Body.String())
	}

	rec = get(t, s, "/app/old/5")
	if got := rec.Header().Get("Location"); got != "/app/users/5" {
		t.Errorf("Location = %q, want /app/users/5", got)
	}
}

func TestServer_Resolve(t *testing.T) {
	s := newTestServer(nil)

	page, err := s.Resolve(context.Background(), http.MethodGet, "/users/9?tab=posts")
	if err != nil {
		t.Fatal(err)
	}
	if page.Route != "/users/:id" {
		t.Errorf("Route = %q, want /users/:id", page.Route)
	}
	if page.Status != 200 || page.Redirected() || page.Body == nil {
		t.Errorf("page = %+v", page)
	}
	if page.Target != "/users/9?tab=posts" {
		t.Errorf("Target = %q", page.Target)
	}

	page, err = s.Resolve(context.Background(), http.MethodGet, "/old/1")
	if err != nil {
		t.Fatal(err)
	}
	if !page.Redirected() || page.Redirect != "/users/1" || page.Body != nil {
		t.Errorf("redirect page = %+v", page)
	}
}

func TestServer_Healthz(t *testing.T) {
	rec := get(t, newTestServer(nil), "/healthz")
	if rec.Code != 200 || rec.Body.String() != "ok\n" {
		t.Errorf("GET /healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestServer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := middleware.NewMetrics(middleware.WithRegistry(reg))
	s := newTestServer(&Config{MetricsPath: "/metrics"}, WithMetrics(m, reg))

	get(t, s, "/users/1")
	rec := get(t, s, "/metrics")
	if rec.Code != 200 {
		t.Fatalf("GET /metrics status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`vroute_renders_total{route="/users/:id",status="200"} 1`,
		`vroute_route_matches_total{matched="true",path="/users/:id"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestServer_MetricsDisabled(t *testing.T) {
	rec := get(t, newTestServer(nil), "/metrics")
	if strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("metrics should not be served without MetricsPath")
	}
}

func TestServer_Tracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	s := newTestServer(nil, WithTracing(middleware.OpenTelemetry(middleware.WithTracerProvider(tp))))

	get(t, s, "/users/3")

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	if spans[0].Name() != "GET /users/3" {
		t.Errorf("span name = %q", spans[0].Name())
	}
	if len(spans[0].Events()) == 0 {
		t.Error("expected route match events on the span")
	}
}

func TestServer_ReloadHandler(t *testing.T) {
	s := newTestServer(nil, WithReloadHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))
	if rec := get(t, s, ReloadPath); rec.Code != http.StatusNoContent {
		t.Errorf("GET %s status = %d, want 204", ReloadPath, rec.Code)
	}
}

func TestServer_RateLimit(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := middleware.NewMetrics(middleware.WithRegistry(reg))
	s := newTestServer(&Config{RateLimit: RateLimitConfig{RequestsPerSecond: 1, Burst: 1}}, WithMetrics(m, reg))

	if rec := get(t, s, "/"); rec.Code != 200 {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}
	rec := get(t, s, "/")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "1" {
		t.Errorf("Retry-After = %q, want 1", rec.Header().Get("Retry-After"))
	}
	if rec := get(t, s, "/healthz"); rec.Code != 200 {
		t.Errorf("healthz should bypass the limiter, status = %d", rec.Code)
	}
}

func TestServer_ServeShutsDownOnCancel(t *testing.T) {
	s := newTestServer(&Config{ShutdownTimeout: time.Second})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	var resp *http.Response
	for range 50 {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestConfig_Defaults(t *testing.T) {
	c := (&Config{RateLimit: RateLimitConfig{RequestsPerSecond: 5}}).withDefaults()
	if c.Address != ":8080" || c.Lang != "en" || c.ShutdownTimeout != 30*time.Second {
		t.Errorf("defaults = %+v", c)
	}
	if c.RateLimit.Burst != 5 {
		t.Errorf("Burst = %d, want 5", c.RateLimit.Burst)
	}
	var nilConfig *Config
	if nilConfig.withDefaults().Address != ":8080" {
		t.Error("nil config should use defaults")
	}
}

func TestServer_HTTPMiddleware(t *testing.T) {
	tag := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Served-By", "vroute")
			next.ServeHTTP(w, r)
		})
	}
	s := newTestServer(nil, WithHTTPMiddleware(tag))

	for _, target := range []string{"/", "/healthz"} {
		rec := get(t, s.Handler(), target)
		if got := rec.Header().Get("X-Served-By"); got != "vroute" {
			t.Errorf("%s: X-Served-By = %q, want vroute", target, got)
		}
	}
}
