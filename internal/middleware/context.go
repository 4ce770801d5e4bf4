package middleware

import (
	"context"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	htmxKey
	sessionKey
	fallbackLangKey
)

func withValue[T any](ctx context.Context, key ctxKey, v T) context.Context {
	return context.WithValue(ctx, key, v)
}

func valueOf[T any](ctx context.Context, key ctxKey) (T, bool) {
	v, ok := ctx.Value(key).(T)
	return v, ok
}

// WithRequestID stores the chi request id so error bodies can echo it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withValue(ctx, requestIDKey, id)
}

// RequestID returns the request id stored by the Logger middleware.
func RequestID(ctx context.Context) (string, bool) {
	return valueOf[string](ctx, requestIDKey)
}

func WithHTMX(ctx context.Context, is bool) context.Context {
	return withValue(ctx, htmxKey, is)
}

// IsHTMX reports whether the request came from htmx.
func IsHTMX(ctx context.Context) bool {
	v, _ := valueOf[bool](ctx, htmxKey)
	return v
}
