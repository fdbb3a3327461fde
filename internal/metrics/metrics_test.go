package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestClientMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewClientMetrics(reg)

	m.Observe("fetch_projects", "ok", 20*time.Millisecond)
	m.Observe("fetch_projects", "ok", 10*time.Millisecond)
	m.Observe("fetch_projects", "transport", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("fetch_projects", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("fetch_projects", "transport")))
}

func TestClientMetricsNilReceiver(t *testing.T) {
	var m *ClientMetrics
	assert.NotPanics(t, func() { m.Observe("login", "ok", time.Second) })
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	e := echo.New()
	e.Use(m.Middleware())
	e.POST("/api/task/create-task", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	})
	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/task/create-task", nil))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodPost, "/api/task/create-task", "201")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestsTotal), "health checks are not recorded")
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlightGauge))
}
