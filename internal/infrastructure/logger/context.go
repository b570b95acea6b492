package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	tenantIDKey  contextKey = "tenant_id"
	userIDKey    contextKey = "user_id"
)

// WithContext attaches a logger to ctx
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored in ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// WithRequestID stores the request id in ctx
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithTenant stores the tenant id and the acting user id in ctx
func WithTenant(ctx context.Context, tenantID, userID string) context.Context {
	ctx = context.WithValue(ctx, tenantIDKey, tenantID)
	return context.WithValue(ctx, userIDKey, userID)
}

// RequestID returns the request id stored in ctx
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// TenantID returns the tenant id stored in ctx
func TenantID(ctx context.Context) string {
	v, _ := ctx.Value(tenantIDKey).(string)
	return v
}

// UserID returns the user id stored in ctx
func UserID(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

// L returns the context logger enriched with the trace, request, tenant and
// user identifiers found in ctx.
//
//	logger.L(ctx).Info("invoice created", zap.String("number", n))
func L(ctx context.Context) *zap.Logger {
	l := FromContext(ctx)

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		l = l.With(
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}

	fields := make([]zap.Field, 0, 3)
	if v := RequestID(ctx); v != "" {
		fields = append(fields, zap.String("request_id", v))
	}
	if v := TenantID(ctx); v != "" {
		fields = append(fields, zap.String("tenant_id", v))
	}
	if v := UserID(ctx); v != "" {
		fields = append(fields, zap.String("user_id", v))
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
