package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsByRoutePattern(t *testing.T) {
	m := New(nil)
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/patients/:id", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusConflict, "taken")
	})

	for _, path := range []string{"/patients/1", "/patients/2", "/boom"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/patients/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/boom", "409")))
}

func TestDomainCounters(t *testing.T) {
	m := New(nil)
	m.RecordDecision("admitted")
	m.RecordDecision("rejected")
	m.RecordDecision("rejected")
	m.InvoiceIssued("cash")
	m.AuditWriteFailed()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.decisions.WithLabelValues("admitted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.decisions.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invoices.WithLabelValues("cash")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.auditFailures))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := New(nil)
	m.RecordDecision("admitted")

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/metrics", nil), rec)
	require.NoError(t, m.Handler()(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `clinic_appointment_decisions_total{outcome="admitted"} 1`))
}
