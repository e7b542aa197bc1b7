package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	applogger "CoinGate/pkg/logger"

	"github.com/labstack/echo/v4"
)

func newEcho(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.Use(mw...)
	e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/panic", func(c echo.Context) error { panic("boom") })
	e.GET("/fail", func(c echo.Context) error { return errors.New("nope") })
	return e
}

func TestRecoverReturns500(t *testing.T) {
	e := newEcho(Recover(applogger.Nop()))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestRequestLoggingSetsRequestID(t *testing.T) {
	e := newEcho(RequestLogging(applogger.Nop()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Fatalf("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(echo.HeaderXRequestID, "abc")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get(echo.HeaderXRequestID); got != "abc" {
		t.Fatalf("expected propagated request id, got %q", got)
	}
}

func TestMetricsPassesErrorsThrough(t *testing.T) {
	e := newEcho(Metrics(applogger.Nop(), time.Second))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	e := newEcho(CORS(CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet},
		MaxAge:       60,
	}))
	req := httptest.NewRequest(http.MethodOptions, "/ok", nil)
	req.Header.Set(echo.HeaderOrigin, "https://app.example")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "https://app.example" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlMaxAge); got != "60" {
		t.Fatalf("unexpected max-age %q", got)
	}
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	e := newEcho(CORS(CORSConfig{AllowOrigins: []string{"https://a.example"}}))
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(echo.HeaderOrigin, "https://b.example")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Header().Get(echo.HeaderAccessControlAllowOrigin) != "" {
		t.Fatalf("unexpected CORS header for disallowed origin")
	}
}
