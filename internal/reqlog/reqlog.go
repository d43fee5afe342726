// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reqlog carries a request-scoped *slog.Logger through a context so
// that log lines emitted deep in the resolvers name the aggregation request
// that triggered them.
package reqlog

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// With returns a copy of ctx carrying l.
func With(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// From returns the logger stored in ctx, or slog.Default() if none is set.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}
