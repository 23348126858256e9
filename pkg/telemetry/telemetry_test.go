package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Disabled(t *testing.T) {
	tel, err := Init(context.Background(), &Config{Enabled: false, ServiceName: "nightpass-test"})
	require.NoError(t, err)
	assert.NotNil(t, tel.Tracer())
	assert.NoError(t, Shutdown(context.Background()))

	tel, err = Init(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, tel.Tracer())
}

func TestStartSpan_WithoutProviderIsSafe(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "confirm")
	defer span.End()
	assert.NotNil(t, ctx)
	assert.Equal(t, "", GetTraceID(context.Background()))
}

func TestMetrics_NoopProvider(t *testing.T) {
	counter, err := NewCounter(MetricOpts{Name: "test_total", Description: "test", Unit: "1"})
	require.NoError(t, err)
	counter.Inc(context.Background())

	hist, err := NewHistogramWithBuckets(MetricOpts{Name: "test_seconds", Unit: "s"}, []float64{0.1, 1})
	require.NoError(t, err)
	hist.Record(context.Background(), 0.5)
}

func TestTracingMiddleware_SkipsProbes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TracingMiddleware("nightpass-test", "/health"))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/events", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/health", "/events"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
