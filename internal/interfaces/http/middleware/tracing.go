package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopmgmt/backend/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// TracingConfigFromTelemetry derives the middleware settings from telemetry config
func TracingConfigFromTelemetry(cfg config.TelemetryConfig) TracingConfig {
	name := cfg.ServiceName
	if name == "" {
		name = "shop-backend"
	}
	return TracingConfig{ServiceName: name, Enabled: cfg.Enabled}
}

// TracingWithConfig starts a server span per request via otelgin.
// Span names follow "METHOD /route/:pattern".
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// TracingAttributeInjector tags the current span with request, shop and user
// ids. It must run after RequestID and the JWT middleware.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			var attrs []attribute.KeyValue
			if id := c.GetString(RequestIDKey); id != "" {
				attrs = append(attrs, attribute.String("request_id", id))
			}
			if id := c.GetString(JWTTenantIDKey); id != "" {
				attrs = append(attrs, attribute.String("tenant_id", id))
			}
			if id := c.GetString(JWTUserIDKey); id != "" {
				attrs = append(attrs, attribute.String("user_id", id))
			}
			span.SetAttributes(attrs...)
		}
		c.Next()
	}
}

// SpanErrorMarker sets the span status from the response code: 5xx is an
// error, 4xx is recorded as an attribute only. Place it after TracingWithConfig.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		status := c.Writer.Status()
		switch {
		case status >= http.StatusInternalServerError:
			span.SetStatus(codes.Error, http.StatusText(status))
		case status >= http.StatusBadRequest:
			span.SetAttributes(attribute.Bool("http.client_error", true))
		}
	}
}
