// Package middleware provides observability for server renders.
//
// This package includes:
//   - OpenTelemetry tracing of renders, route matches and warnings
//   - Prometheus metrics for renders, route matches, warnings and the
//     pattern cache
//   - Recovery and logging middleware
//
// A render is a Handler. Middleware wrap it with Chain:
//
//	render := middleware.Chain(renderPage,
//	    middleware.OpenTelemetry(),
//	    middleware.Logging(logger),
//	    middleware.Recovery(logger),
//	    metrics,
//	)
//
// # Observers
//
// Metrics and Tracing also implement router.Observer, so the routing layer
// reports into them directly:
//
//	metrics := middleware.NewMetrics(middleware.WithRegistry(reg))
//	tracing := middleware.OpenTelemetry()
//	matcher := pathmatch.NewMatcher(pathmatch.WithCacheObserver(metrics))
//	r := router.NewStaticRouter(loc, "", nil, app,
//	    router.WithMatcher(matcher),
//	    router.WithObserver(router.Observers{metrics, tracing}),
//	)
//
// Tracing attaches events to the span found in router.Context.Std, so pass
// the render's context with router.WithStdContext.
//
// # Prometheus Metrics
//
//   - vroute_renders_total: Total renders by route and status
//   - vroute_render_duration_seconds: Render duration histogram
//   - vroute_route_matches_total: Route matches by pattern and outcome
//   - vroute_warnings_total: Developer warnings by code
//   - vroute_pattern_compiles_total: Pattern compilations by cache outcome
//
// Expose them with promhttp:
//
//	http.Handle("/metrics", promhttp.Handler())
package middleware
