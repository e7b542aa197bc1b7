package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegisterer(reg)

	r.RecordUpstream("coin-info", 200, 0.1)
	r.RecordUpstream("coin-info", 200, 0.2)
	r.RecordUpstream("coin-info", 404, 0.1)
	r.RecordRender("ok", 1.5)
	r.RecordError("upstream_transport")
	r.SetInFlight("render", 3)

	if got := testutil.ToFloat64(r.upstreamTotal.WithLabelValues("coin-info", "200")); got != 2 {
		t.Fatalf("expected 2 ok upstream calls, got %v", got)
	}
	if got := testutil.ToFloat64(r.upstreamTotal.WithLabelValues("coin-info", "404")); got != 1 {
		t.Fatalf("expected 1 not-found call, got %v", got)
	}
	if got := testutil.ToFloat64(r.renderTotal.WithLabelValues("ok")); got != 1 {
		t.Fatalf("expected 1 render, got %v", got)
	}
	if got := testutil.ToFloat64(r.inFlight.WithLabelValues("render")); got != 3 {
		t.Fatalf("expected gauge 3, got %v", got)
	}
}
