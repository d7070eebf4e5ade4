package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/middleware"
	"github.com/vango-dev/vroute/pkg/pathmatch"
	"github.com/vango-dev/vroute/pkg/router"
)

// ReloadPath is where the dev reload websocket is mounted.
const ReloadPath = "/_vroute/reload"

// Server renders a route tree for HTTP requests.
type Server struct {
	app    router.Element
	config *Config
	logger *slog.Logger

	matcher    *pathmatch.Matcher
	metrics    *middleware.Metrics
	gatherer   prometheus.Gatherer
	tracing    *middleware.Tracing
	reload     http.Handler
	extra      []middleware.Middleware
	httpMws    []func(http.Handler) http.Handler
	routerOpts []router.Option

	trusted *proxyMatcher
	limiter *limiter
	static  *staticFiles

	mws         []middleware.Middleware
	handlerOnce sync.Once
	handler     http.Handler

	mu         sync.Mutex
	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMatcher sets the path matcher shared by all renders.
func WithMatcher(m *pathmatch.Matcher) Option {
	return func(s *Server) {
		if m != nil {
			s.matcher = m
		}
	}
}

// WithMetrics records renders, route matches and warnings into m. When
// Config.MetricsPath is set, g is served there; nil means the default
// Prometheus gatherer.
func WithMetrics(m *middleware.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithTracing traces every render.
func WithTracing(t *middleware.Tracing) Option {
	return func(s *Server) {
		s.tracing = t
	}
}

// WithReloadHandler mounts h at ReloadPath.
func WithReloadHandler(h http.Handler) Option {
	return func(s *Server) {
		s.reload = h
	}
}

// WithRenderMiddleware adds middleware around every render, inside the
// built-in ones.
func WithRenderMiddleware(mws ...middleware.Middleware) Option {
	return func(s *Server) {
		s.extra = append(s.extra, mws...)
	}
}

// WithHTTPMiddleware adds net/http middleware in front of every route,
// after request IDs are assigned.
func WithHTTPMiddleware(mws ...func(http.Handler) http.Handler) Option {
	return func(s *Server) {
		s.httpMws = append(s.httpMws, mws...)
	}
}

// WithRouterOptions passes options to every router the server creates.
func WithRouterOptions(opts ...router.Option) Option {
	return func(s *Server) {
		s.routerOpts = append(s.routerOpts, opts...)
	}
}

// New creates a Server for app. A nil config uses DefaultConfig.
func New(app router.Element, config *Config, opts ...Option) *Server {
	s := &Server{
		app:     app,
		config:  config.withDefaults(),
		logger:  slog.Default().With("component", "server"),
		matcher: pathmatch.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}

	s.static = newStaticFiles(s.config.Static)
	s.trusted = newProxyMatcher(s.config.TrustedProxies, s.logger)
	if s.config.RateLimit.RequestsPerSecond > 0 {
		var onReject func()
		if s.metrics != nil {
			onReject = s.metrics.ObserveRateLimited
		}
		s.limiter = newLimiter(s.config.RateLimit, s.trusted, s.logger, onReject)
	}

	mws := []middleware.Middleware{
		middleware.Logging(s.logger),
		middleware.Recovery(s.logger),
	}
	if s.tracing != nil {
		mws = append([]middleware.Middleware{s.tracing}, mws...)
	}
	if s.metrics != nil {
		mws = append(mws, s.metrics)
	}
	s.mws = append(mws, s.extra...)

	return s
}

// Config returns the effective configuration.
func (s *Server) Config() *Config {
	return s.config
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// Handler returns the HTTP handler. It can be mounted in another router:
//
//	r := chi.NewRouter()
//	r.Mount("/", srv.Handler())
func (s *Server) Handler() http.Handler {
	s.handlerOnce.Do(func() {
		s.handler = s.routes()
	})
	return s.handler
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Handler().ServeHTTP(w, r)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(s.httpMws...)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	if s.config.MetricsPath != "" {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	if s.reload != nil {
		r.Handle(ReloadPath, s.reload)
	}

	r.Group(func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.middleware)
		}
		r.Get("/*", s.servePage)
		r.Head("/*", s.servePage)
	})
	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return errors.New("R032").WithDetail("listen " + s.config.Address).Wrap(err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	if s.limiter != nil {
		s.limiter.start()
		defer s.limiter.stop()
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return errors.New("R032").Wrap(err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.WithoutCancel(ctx))
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
