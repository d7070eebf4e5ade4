package middleware

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for vroute renders.
const defaultTracerName = "vroute"

// OTelConfig configures the OpenTelemetry tracing.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "vroute").
	TracerName string

	// TracerProvider provides the tracer. Default: the global provider.
	TracerProvider trace.TracerProvider

	// IncludeRoute includes the matched route pattern in spans.
	// Enabled by default.
	IncludeRoute bool

	// Filter determines which renders to trace.
	// Return true to trace the render, false to skip.
	// If nil, all renders are traced.
	Filter func(req *Request) bool

	// AttributeExtractor extracts custom attributes from the request.
	// Called for each traced render.
	AttributeExtractor func(req *Request) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry tracing.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithIncludeRoute enables/disables including the route in spans.
func WithIncludeRoute(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeRoute = include
	}
}

// WithRequestFilter sets a filter function for renders.
func WithRequestFilter(filter func(req *Request) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(req *Request) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName:   defaultTracerName,
		IncludeRoute: true,
	}
}

// Tracing traces renders with OpenTelemetry. As a Middleware it starts a
// span around each render; as a router.Observer it records route matches and
// developer warnings as events on the span found in the render's context.
type Tracing struct {
	config OTelConfig
	tracer trace.Tracer
}

// OpenTelemetry creates the tracing middleware.
//
// The middleware:
//   - Creates a span for each render named after the method and path
//   - Passes the span's context to the render, so router.Context.Std carries it
//   - Records errors and sets span status
//   - Records the response status and matched route as span attributes
//
// Example:
//
//	tracing := middleware.OpenTelemetry(middleware.WithTracerName("site"))
//	render := middleware.Chain(renderPage, tracing)
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracerProvider is given. Configure it in main() before serving.
func OpenTelemetry(opts ...OTelOption) *Tracing {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &Tracing{
		config: config,
		tracer: tp.Tracer(config.TracerName),
	}
}

// Handle implements Middleware.
func (t *Tracing) Handle(ctx context.Context, req *Request, next Handler) error {
	if t.config.Filter != nil && !t.config.Filter(req) {
		return next(ctx, req)
	}

	attrs := []attribute.KeyValue{
		attribute.String("http.request.method", req.Method),
		attribute.String("url.path", req.Path),
	}
	if t.config.AttributeExtractor != nil {
		attrs = append(attrs, t.config.AttributeExtractor(req)...)
	}

	spanCtx, span := t.tracer.Start(ctx, formatSpanName(req),
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	err := next(spanCtx, req)

	if t.config.IncludeRoute {
		span.SetAttributes(attribute.String("vroute.route", routeLabel(req)))
	}
	span.SetAttributes(attribute.Int("http.response.status_code", req.Status))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return err
}

// ObserveMatch implements router.Observer.
func (t *Tracing) ObserveMatch(ctx context.Context, path string, matched bool) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent("vroute.match", trace.WithAttributes(
		attribute.String("vroute.pattern", path),
		attribute.Bool("vroute.matched", matched),
	))
}

// ObserveWarning implements router.Observer.
func (t *Tracing) ObserveWarning(ctx context.Context, code string) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent("vroute.warning", trace.WithAttributes(attribute.String("vroute.warning.code", code)))
}

// SpanFromContext retrieves the current trace span from the context.
// Returns nil if no span is recording.
//
// Example:
//
//	func render(rc *router.Context, p router.RouteProps) (*vdom.VNode, error) {
//	    if span := middleware.SpanFromContext(rc.Std()); span != nil {
//	        span.SetAttributes(attribute.String("user.id", p.Match.Param("id")))
//	    }
//	    ...
//	}
func SpanFromContext(ctx context.Context) trace.Span {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return nil
	}
	return span
}

// formatSpanName creates a span name from the request.
func formatSpanName(req *Request) string {
	path := req.Path
	if path == "" {
		path = "/"
	}
	method := req.Method
	if method == "" {
		method = "GET"
	}
	return fmt.Sprintf("%s %s", method, path)
}
