package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestHTTPMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	engine := gin.New()
	engine.Use(HTTPMetrics(provider.Meter("test")))
	engine.GET("/stores/:slug", func(c *gin.Context) {
		c.Set(TenantSlugKey, c.Param("slug"))
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/stores/acme", nil))
	}
	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	metrics := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			metrics[m.Name] = m
		}
	}

	total, ok := metrics["http_server_request_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	want := attribute.NewSet(
		AttrHTTPMethod.String(http.MethodGet),
		AttrHTTPRoute.String("/stores/:slug"),
		AttrHTTPStatusCode.Int(http.StatusOK),
		telemetry.AttrTenant.String("acme"),
	)
	var acme, unknown int64
	for _, dp := range total.DataPoints {
		if dp.Attributes.Equals(&want) {
			acme = dp.Value
		}
		if route, _ := dp.Attributes.Value(AttrHTTPRoute); route.AsString() == "unknown" {
			unknown = dp.Value
		}
	}
	assert.Equal(t, int64(2), acme)
	assert.Equal(t, int64(1), unknown)

	duration, ok := metrics["http_server_request_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.NotEmpty(t, duration.DataPoints)
}

func TestHTTPMetrics_NilMeter(t *testing.T) {
	engine := gin.New()
	engine.Use(HTTPMetrics(nil))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
