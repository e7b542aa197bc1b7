package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CoinGate/internal/domain/models"
	"CoinGate/internal/service/limiter"
	xhttp "CoinGate/pkg/http"
	applogger "CoinGate/pkg/logger"
	"CoinGate/pkg/metrics"
)

func newClient(baseURL string, lim *limiter.Limiter) *Client {
	return NewClient(baseURL, xhttp.NewClient(), lim, metrics.Nop{}, applogger.Nop())
}

func TestFetchBuildsURLAndHeaders(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"symbol":"BTC"}`)
	}))
	defer srv.Close()

	c := newClient(srv.URL+"/", nil)
	body, err := c.Fetch(context.Background(), models.ProxyRequestSpec{
		Endpoint: "coin-info",
		Path:     "/v1/coin/BTC",
		Query:    map[string]string{"timeframe": "1h", "empty": ""},
	}, models.Credentials{Headers: map[string]string{"Authorization": "Bearer t"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != `{"symbol":"BTC"}` {
		t.Fatalf("unexpected body %s", body)
	}
	if gotPath != "/v1/coin/BTC" || gotQuery != "timeframe=1h" {
		t.Fatalf("unexpected target %s?%s", gotPath, gotQuery)
	}
	if gotAuth != "Bearer t" {
		t.Fatalf("unexpected auth %q", gotAuth)
	}
}

func TestFetchMapsStatusToUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"invalid token"}`)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL, nil).Fetch(context.Background(), models.ProxyRequestSpec{Endpoint: "top-coins", Path: "/v1/top"}, models.Credentials{})

	var ue *models.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.Status != http.StatusUnauthorized || ue.Body != `{"message":"invalid token"}` {
		t.Fatalf("unexpected error %+v", ue)
	}
}

func TestFetchTransportErrorIsNotUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newClient(url, nil).Fetch(context.Background(), models.ProxyRequestSpec{Endpoint: "top-coins", Path: "/v1/top"}, models.Credentials{})
	if err == nil {
		t.Fatalf("expected error")
	}
	var ue *models.UpstreamError
	if errors.As(err, &ue) {
		t.Fatalf("transport failure must not be an UpstreamError")
	}
}

func TestFetchBusyWhenLimiterSaturated(t *testing.T) {
	lim := limiter.New("upstream", 1, 10*time.Millisecond, nil)
	release, _ := lim.Acquire(context.Background())
	defer release()

	_, err := newClient("http://127.0.0.1:1", lim).Fetch(context.Background(), models.ProxyRequestSpec{Path: "/v1/top"}, models.Credentials{})
	if !errors.Is(err, limiter.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestEncodeQueryDropsEmpty(t *testing.T) {
	q := EncodeQuery(map[string]string{"a": "1", "b": ""})
	if len(q) != 1 || q["a"][0] != "1" {
		t.Fatalf("unexpected query %v", q)
	}
}
