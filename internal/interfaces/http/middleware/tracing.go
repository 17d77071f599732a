package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength caps caller-supplied request IDs
const MaxRequestIDLength = 128

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing returns the otelgin middleware, or a pass-through when disabled.
// Span names follow "METHOD route" (e.g. "GET /api/v1/stores/:slug/products").
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// TracingAttributes enriches the current span with storefront identifiers and marks
// error responses. It must run after the session, JWT and tenant middleware.
func TracingAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}
		enrichSpan(c, span)

		c.Next()

		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			span.SetAttributes(attribute.Int("http.status_code", status))
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}
		}
	}
}

func enrichSpan(c *gin.Context, span trace.Span) {
	if id := GetRequestID(c); id != "" {
		span.SetAttributes(attribute.String("request_id", id))
	}
	if id := GetSessionID(c); id != "" {
		span.SetAttributes(attribute.String("session_id", id))
	}
	if slug := c.GetString(TenantSlugKey); slug != "" {
		span.SetAttributes(attribute.String("tenant.slug", slug))
	}
	if ref := GetTenantRef(c); ref != nil {
		span.SetAttributes(
			attribute.String("tenant.id", ref.TenantID()),
			attribute.String("tenant.source", string(ref.Source)),
		)
	}
	if id := GetViewerID(c); id != "" {
		span.SetAttributes(attribute.String("user_id", id))
	}
}
