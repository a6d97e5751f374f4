// Package slogx carries a request-scoped *slog.Logger through context, so
// handlers deep in the call chain (IssueURLHandler, the rate limiter, the
// focus-secret middleware) can log with the same req_id/method/path fields
// HTTPMiddleware attached, without threading a logger through every
// function signature.
package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// WithContext attaches logger to ctx.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger attached by WithContext, or slog.Default
// if none was attached (e.g. a call site outside the HTTP middleware chain).
func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}
