// Package server renders a route tree over HTTP.
//
// Every GET or HEAD request is rendered under a static router at the request
// path. The render decides the response:
//
//   - A Redirect recorded in the StaticContext answers 302 (or the status a
//     component set, when it is a redirect status) with its URL
//   - Otherwise the StaticContext status code, 200 by default, with the page
//
// Non-canonical paths ("/a//b", "/a/./b") are redirected with 308 before
// rendering. Paths escaping the root are rejected with 400.
//
// # Endpoints
//
//   - GET /healthz: liveness
//   - GET Config.MetricsPath: Prometheus metrics, when set
//   - GET /_vroute/reload: dev reload websocket, when WithReloadHandler is given
//
// # Usage
//
//	srv := server.New(app, &server.Config{Address: ":3000", Title: "Docs"},
//	    server.WithLogger(logger),
//	    server.WithMetrics(metrics, prometheus.DefaultGatherer),
//	)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Components title the page by setting StaticContext.Data[server.DataTitle].
package server
