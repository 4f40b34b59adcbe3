package metricsvc

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Middleware(t *testing.T) {
	m := New()
	app := echo.New()
	app.Use(m.Middleware())
	app.GET("/v1/catalog/:category", func(ctx echo.Context) error {
		if ctx.Param("category") == "missing" {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return ctx.NoContent(http.StatusOK)
	})

	for _, path := range []string{"/v1/catalog/design", "/v1/catalog/marketing", "/v1/catalog/missing"} {
		app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	ok := m.httpRequests.WithLabelValues(http.MethodGet, "/v1/catalog/:category", "200")
	notFound := m.httpRequests.WithLabelValues(http.MethodGet, "/v1/catalog/:category", "404")
	assert.Equal(t, float64(2), testutil.ToFloat64(ok))
	assert.Equal(t, float64(1), testutil.ToFloat64(notFound))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.httpInFlight))
}

func TestMetrics_domainCounters(t *testing.T) {
	m := New()
	m.ObserveEnrollment(OutcomeEnrolled)
	m.ObserveEnrollment(OutcomeInvalid)
	m.ObserveEnrollment(OutcomeInvalid)
	m.ObserveDispatch("navigate")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.enrollments.WithLabelValues(OutcomeEnrolled)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.enrollments.WithLabelValues(OutcomeInvalid)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.dispatches.WithLabelValues("navigate")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `institute_enrollments_total{outcome="invalid"} 2`)
	assert.Contains(t, rec.Body.String(), `institute_menu_dispatch_total{kind="navigate"} 1`)
}
