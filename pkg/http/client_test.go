package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

type countingTransport struct {
	calls int32
	next  http.RoundTripper
}

func (t *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	atomic.AddInt32(&t.calls, 1)
	return t.next.RoundTrip(r)
}

func TestGetJSONRawJSON(t *testing.T) {
	var gotQuery, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	rt := &countingTransport{next: http.DefaultTransport}
	c := NewClient(WithTimeout(0), WithTransport(rt))

	raw, err := c.GetJSON(context.Background(), &RequestOptions{
		URL:         srv.URL + "/v1/coin/BTC",
		Headers:     map[string]string{"Authorization": "Bearer k"},
		QueryParams: map[string][]string{"timeframe": {"1 m"}, "a": {"x&y"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"ok":true}` {
		t.Fatalf("unexpected body %s", raw)
	}
	if gotQuery != "a=x%26y&timeframe=1+m" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if gotAuth != "Bearer k" {
		t.Fatalf("unexpected auth %q", gotAuth)
	}
	if atomic.LoadInt32(&rt.calls) != 1 {
		t.Fatalf("expected exactly one round trip, got %d", rt.calls)
	}
}

func TestGetJSONStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "not found")
	}))
	defer srv.Close()

	_, err := NewClient().GetJSON(context.Background(), &RequestOptions{URL: srv.URL})

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Status != http.StatusNotFound || string(se.Body) != "not found" {
		t.Fatalf("unexpected status error %+v", se)
	}
}

func TestGetJSONInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>")
	}))
	defer srv.Close()

	_, err := NewClient().GetJSON(context.Background(), &RequestOptions{URL: srv.URL})
	if err == nil {
		t.Fatalf("expected decode error")
	}
	var se *StatusError
	if errors.As(err, &se) {
		t.Fatalf("decode failure must not look like a status error")
	}
}
