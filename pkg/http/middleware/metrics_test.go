package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func invoke(t *testing.T, path string, handler echo.HandlerFunc) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	defer func() { recover() }()
	_ = Metrics()(handler)(c)
}

func TestMetricsReleasesInFlightOnSuccess(t *testing.T) {
	invoke(t, "/ok", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if got := testutil.ToFloat64(httpInFlight.WithLabelValues("/ok", http.MethodGet)); got != 0 {
		t.Fatalf("in-flight gauge = %v after completed request, want 0", got)
	}
}

func TestMetricsReleasesInFlightOnPanic(t *testing.T) {
	invoke(t, "/boom", func(c echo.Context) error {
		panic("handler exploded")
	})

	if got := testutil.ToFloat64(httpInFlight.WithLabelValues("/boom", http.MethodGet)); got != 0 {
		t.Fatalf("in-flight gauge = %v after panicking handler, want 0", got)
	}
}
