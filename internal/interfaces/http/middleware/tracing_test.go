package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopmgmt/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
		otel.SetTracerProvider(prev)
	})
	return sr
}

func serverSpan(t *testing.T, sr *tracetest.SpanRecorder) sdktrace.ReadOnlySpan {
	t.Helper()
	for _, span := range sr.Ended() {
		if span.SpanKind() == trace.SpanKindServer {
			return span
		}
	}
	require.FailNow(t, "server span not found")
	return nil
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func newTracedRouter(handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(TracingWithConfig(TracingConfig{ServiceName: "shop-test", Enabled: true}))
	router.Use(SpanErrorMarker())
	router.Use(func(c *gin.Context) {
		c.Set(JWTTenantIDKey, "0b6f1c2e-5d1a-4c55-9d0e-3a7b2f1e9c44")
		c.Set(JWTUserIDKey, "0b6f1c2e-5d1a-4c55-9d0e-3a7b2f1e9c44")
		c.Next()
	})
	router.Use(TracingAttributeInjector())
	router.GET("/api/v1/sales/:id", handler)
	return router
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: false}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_EnrichesSpan(t *testing.T) {
	sr := setupTestTracer(t)
	router := newTracedRouter(func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sales/42", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	span := serverSpan(t, sr)
	assert.Contains(t, span.Name(), "/api/v1/sales/:id")

	v, ok := spanAttr(span, "request_id")
	require.True(t, ok)
	assert.Equal(t, "req-123", v.AsString())
	v, ok = spanAttr(span, "tenant_id")
	require.True(t, ok)
	assert.Equal(t, "0b6f1c2e-5d1a-4c55-9d0e-3a7b2f1e9c44", v.AsString())
	assert.NotEqual(t, codes.Error, span.Status().Code)
}

func TestSpanErrorMarker(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		sr := setupTestTracer(t)
		router := newTracedRouter(func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/sales/1", nil))

		span := serverSpan(t, sr)
		assert.Equal(t, codes.Error, span.Status().Code)
	})

	t.Run("client error", func(t *testing.T) {
		sr := setupTestTracer(t)
		router := newTracedRouter(func(c *gin.Context) { c.Status(http.StatusNotFound) })

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/sales/1", nil))

		span := serverSpan(t, sr)
		v, ok := spanAttr(span, "http.client_error")
		require.True(t, ok)
		assert.True(t, v.AsBool())
	})
}

func TestTracingConfigFromTelemetry(t *testing.T) {
	cfg := TracingConfigFromTelemetry(config.TelemetryConfig{Enabled: true})
	assert.Equal(t, "shop-backend", cfg.ServiceName)
	assert.True(t, cfg.Enabled)

	cfg = TracingConfigFromTelemetry(config.TelemetryConfig{ServiceName: "till"})
	assert.Equal(t, "till", cfg.ServiceName)
	assert.False(t, cfg.Enabled)
}
