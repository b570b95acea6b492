package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracing wraps otelgin. Spans are named after the route pattern.
func Tracing(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// TracingAttributes tags the current span with the request, tenant and user
// ids. It must run after the JWT and tenant middleware.
func TracingAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			attrs := make([]attribute.KeyValue, 0, 3)
			if v := c.GetString(RequestIDKey); v != "" {
				attrs = append(attrs, attribute.String("request_id", v))
			}
			if v := c.GetString(TenantIDKey); v != "" {
				attrs = append(attrs, attribute.String("tenant_id", v))
			}
			if v := GetJWTUserID(c); v != "" {
				attrs = append(attrs, attribute.String("user_id", v))
			}
			span.SetAttributes(attrs...)
		}
		c.Next()
	}
}
