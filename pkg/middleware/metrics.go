package middleware

import (
	"context"
	stderrors "errors"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/vroute/internal/errors"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vroute").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vroute",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics collects Prometheus metrics for renders, route matches, developer
// warnings and the pattern cache. It is a Middleware, a router.Observer and
// a pathmatch.CacheObserver.
type Metrics struct {
	rendersTotal    *prometheus.CounterVec
	renderDuration  *prometheus.HistogramVec
	renderErrors    *prometheus.CounterVec
	matchesTotal    *prometheus.CounterVec
	warningsTotal   *prometheus.CounterVec
	patternCompiles *prometheus.CounterVec
	rateLimited     prometheus.Counter
}

// NewMetrics registers the metrics with the configured registry.
//
// Metrics collected:
//   - vroute_renders_total: Counter of renders by route and status
//   - vroute_render_duration_seconds: Histogram of render duration by route
//   - vroute_render_errors_total: Counter of failed renders by route and error code
//   - vroute_route_matches_total: Counter of route matches by pattern and outcome
//   - vroute_warnings_total: Counter of developer warnings by code
//   - vroute_rate_limited_total: Counter of requests rejected by the rate limiter
//   - vroute_pattern_compiles_total: Counter of pattern compilations by cache outcome
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of server renders",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Server render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		renderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_errors_total",
			Help:        "Total number of failed renders",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "code"}),

		matchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "route_matches_total",
			Help:        "Total number of route matches by pattern and outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"path", "matched"}),

		warningsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "warnings_total",
			Help:        "Total number of developer warnings by code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		patternCompiles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pattern_compiles_total",
			Help:        "Total number of pattern compilations by cache outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"cached"}),

		rateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "rate_limited_total",
			Help:        "Total number of requests rejected by the rate limiter",
			ConstLabels: config.ConstLabels,
		}),
	}
}

var (
	globalMetrics   *Metrics
	globalMetricsMu sync.Mutex
)

// Prometheus returns the process-wide Metrics, creating them on first use
// with opts. Later options are ignored, as collectors can be registered only
// once per registry.
//
// Example:
//
//	m := middleware.Prometheus(middleware.WithNamespace("site"))
//	r := router.NewStaticRouter(loc, "", nil, app, router.WithObserver(m))
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) *Metrics {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if globalMetrics == nil {
		globalMetrics = NewMetrics(opts...)
	}
	return globalMetrics
}

// Handle implements Middleware.
func (m *Metrics) Handle(ctx context.Context, req *Request, next Handler) error {
	start := time.Now()
	err := next(ctx, req)
	route := routeLabel(req)

	m.renderDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())

	status := strconv.Itoa(req.Status)
	if err != nil {
		status = "error"
		m.renderErrors.WithLabelValues(route, errorCode(err)).Inc()
	}
	m.rendersTotal.WithLabelValues(route, status).Inc()

	return err
}

// ObserveMatch implements router.Observer.
func (m *Metrics) ObserveMatch(_ context.Context, path string, matched bool) {
	m.matchesTotal.WithLabelValues(path, strconv.FormatBool(matched)).Inc()
}

// ObserveWarning implements router.Observer.
func (m *Metrics) ObserveWarning(_ context.Context, code string) {
	m.warningsTotal.WithLabelValues(code).Inc()
}

// ObservePatternCompile implements pathmatch.CacheObserver.
func (m *Metrics) ObservePatternCompile(_ string, cached bool) {
	m.patternCompiles.WithLabelValues(strconv.FormatBool(cached)).Inc()
}

// ObserveRateLimited counts a request rejected by the rate limiter.
func (m *Metrics) ObserveRateLimited() {
	m.rateLimited.Inc()
}

// errorCode returns the code of a coded error. Other errors share one label
// to keep cardinality low.
func errorCode(err error) string {
	var re *errors.RouteError
	if stderrors.As(err, &re) && re.Code != "" {
		return re.Code
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if stderrors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "internal"
}
