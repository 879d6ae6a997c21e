package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// Into attaches l to ctx for the handlers and repositories downstream.
func Into(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger attached by Into, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}

// With scopes the context logger with extra fields such as region or bucket.
func With(ctx context.Context, fields ...zap.Field) context.Context {
	if len(fields) == 0 {
		return ctx
	}
	return Into(ctx, FromContext(ctx).With(fields...))
}
