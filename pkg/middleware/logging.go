package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/vango-dev/vroute/internal/errors"
	"go.opentelemetry.io/otel/trace"
)

// Logging logs every render at Info level, or Error when it fails. The trace
// ID is included when the context carries a span.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return MiddlewareFunc(func(ctx context.Context, req *Request, next Handler) error {
		start := time.Now()
		err := next(ctx, req)

		attrs := []slog.Attr{
			slog.String("method", req.Method),
			slog.String("path", req.Path),
			slog.String("route", routeLabel(req)),
			slog.Int("status", req.Status),
			slog.Duration("duration", time.Since(start)),
		}
		if req.ID != "" {
			attrs = append(attrs, slog.String("request_id", req.ID))
		}
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			attrs = append(attrs, slog.String("trace_id", sc.TraceID().String()))
		}

		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
			logger.LogAttrs(ctx, slog.LevelError, "render failed", attrs...)
			return err
		}
		logger.LogAttrs(ctx, slog.LevelInfo, "render", attrs...)
		return nil
	})
}

// Recovery turns a panic during a render into an R030 error and logs the
// stack.
func Recovery(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return MiddlewareFunc(func(ctx context.Context, req *Request, next Handler) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("render panic",
					"panic", r,
					"path", req.Path,
					"stack", string(debug.Stack()))
				err = errors.New("R030").
					WithRoute(req.Path).
					Wrap(fmt.Errorf("panic: %v", r))
			}
		}()
		return next(ctx, req)
	})
}
