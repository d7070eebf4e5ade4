package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vango-dev/vroute/internal/config"
	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/internal/site"
	"github.com/vango-dev/vroute/internal/telemetry"
	"github.com/vango-dev/vroute/pkg/assets"
	"github.com/vango-dev/vroute/pkg/middleware"
	"github.com/vango-dev/vroute/pkg/pathmatch"
	"github.com/vango-dev/vroute/pkg/router"
	"github.com/vango-dev/vroute/pkg/server"
)

// loadConfig loads the file named by --config, a directory holding one, or
// the nearest config above the working directory, and validates it.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case flags.config == "":
		cfg, err = config.LoadFromWorkingDir()
	default:
		info, statErr := os.Stat(flags.config)
		if statErr == nil && info.IsDir() {
			cfg, err = config.Load(flags.config)
		} else {
			cfg, err = config.LoadFile(flags.config)
		}
	}
	if err != nil {
		return nil, err
	}

	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger from the log section.
func newLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, errors.New("R020").WithDetail("log.level must be debug, info, warn or error").Wrap(err)
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, errors.New("R020").WithDetail("log.format must be text or json, got " + cfg.Format)
	}
	return slog.New(handler).With("service", "vroute"), nil
}

// serverConfig maps the file configuration onto the server's.
func serverConfig(cfg *config.Config) *server.Config {
	sc := &server.Config{
		Address:         cfg.Server.Addr,
		Basename:        cfg.Server.Basename,
		ReadTimeout:     cfg.Server.ReadTimeout.Std(),
		WriteTimeout:    cfg.Server.WriteTimeout.Std(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout.Std(),
		Title:           cfg.Site.Title,
		Lang:            cfg.Site.Lang,
		RateLimit: server.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		},
		TrustedProxies: cfg.Server.TrustedProxies,
	}
	if cfg.Metrics.Enabled {
		sc.MetricsPath = cfg.Metrics.Path
	}
	if cfg.Static.Dir != "" {
		sc.Static = server.StaticConfig{
			Dir:     cfg.Resolve(cfg.Static.Dir),
			Prefix:  cfg.Static.Prefix,
			Headers: cfg.Static.Headers,
		}
		switch cfg.Static.Cache {
		case "no-store":
			sc.Static.CacheControl = server.CacheControlNoStore
		case "production":
			sc.Static.CacheControl = server.CacheControlProduction
		}
	}
	return sc
}

func buildSite(cfg *config.Config) (router.Element, error) {
	resolver, err := assetResolver(cfg)
	if err != nil {
		return nil, err
	}
	return site.App(cfg.Site, site.WithAssets(resolver))
}

// assetResolver resolves asset names under the static prefix, through the
// configured manifest or one scanned from the static directory.
func assetResolver(cfg *config.Config) (assets.Resolver, error) {
	prefix := cfg.Static.Prefix
	if prefix == "" {
		prefix = "/"
	}
	switch {
	case cfg.Static.Manifest != "":
		m, err := assets.Load(cfg.Resolve(cfg.Static.Manifest))
		if err != nil {
			return nil, err
		}
		return assets.NewResolver(m, prefix), nil
	case cfg.Static.Dir != "":
		m, err := assets.Scan(os.DirFS(cfg.Resolve(cfg.Static.Dir)))
		if err != nil {
			return nil, err
		}
		return assets.NewResolver(m, prefix), nil
	default:
		return assets.NewPassthroughResolver(prefix), nil
	}
}

// stack is a server with the observability it was wired with.
type stack struct {
	server   *server.Server
	registry *prometheus.Registry
	shutdown func(context.Context) error
}

// newStack wires metrics, tracing and the matcher cache into a server for
// app.
func newStack(ctx context.Context, cfg *config.Config, app router.Element, logger *slog.Logger, sc *server.Config, extra ...server.Option) (*stack, error) {
	st := &stack{shutdown: func(context.Context) error { return nil }}

	opts := []server.Option{server.WithLogger(logger)}
	matcherOpts := []pathmatch.MatcherOption{pathmatch.WithCacheLimit(cfg.Matcher.CacheLimit)}

	if cfg.Metrics.Enabled {
		st.registry = prometheus.NewRegistry()
		st.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics := middleware.NewMetrics(
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithRegistry(st.registry),
		)
		matcherOpts = append(matcherOpts, pathmatch.WithCacheObserver(metrics))
		opts = append(opts, server.WithMetrics(metrics, st.registry))
	}

	tp, err := telemetry.Setup(ctx, cfg.Tracing, version, func(err error) {
		logger.Error("tracing error", "error", err)
	})
	if err != nil {
		return nil, errors.New("R020").WithDetail("tracing setup failed").Wrap(err)
	}
	if tp != nil {
		st.shutdown = tp.Shutdown
		opts = append(opts,
			server.WithTracing(middleware.OpenTelemetry(middleware.WithTracerProvider(tp))),
			server.WithHTTPMiddleware(telemetry.HTTPMiddleware("vroute")),
		)
	}

	opts = append(opts, server.WithMatcher(pathmatch.NewMatcher(matcherOpts...)))
	opts = append(opts, extra...)
	st.server = server.New(app, sc, opts...)
	return st, nil
}
