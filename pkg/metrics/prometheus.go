package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	upstreamTotal   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	renderTotal     *prometheus.CounterVec
	renderLatency   *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec
	inFlight        *prometheus.GaugeVec
}

// New registers the gateway metrics on the default registerer.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers on reg; tests pass a fresh registry.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		upstreamTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coingate_upstream_requests_total",
				Help: "Upstream API calls by endpoint and HTTP status (0 = transport error)",
			},
			[]string{"endpoint", "status"},
		),
		upstreamLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coingate_upstream_request_seconds",
				Help:    "Upstream API call latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		renderTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coingate_render_jobs_total",
				Help: "Render subprocess runs by outcome",
			},
			[]string{"outcome"},
		),
		renderLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coingate_render_job_seconds",
				Help:    "Render subprocess wall time",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"outcome"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coingate_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		inFlight: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coingate_limiter_in_flight",
				Help: "Slots held per concurrency pool",
			},
			[]string{"pool"},
		),
	}
}

func (r *Recorder) RecordUpstream(endpoint string, status int, seconds float64) {
	r.upstreamTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	r.upstreamLatency.WithLabelValues(endpoint).Observe(seconds)
}

func (r *Recorder) RecordRender(outcome string, seconds float64) {
	r.renderTotal.WithLabelValues(outcome).Inc()
	r.renderLatency.WithLabelValues(outcome).Observe(seconds)
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) SetInFlight(pool string, n int) {
	r.inFlight.WithLabelValues(pool).Set(float64(n))
}

// Nop discards everything. Handy in tests and tools.
type Nop struct{}

func (Nop) RecordUpstream(string, int, float64) {}
func (Nop) RecordRender(string, float64)        {}
func (Nop) RecordError(string)                  {}
func (Nop) SetInFlight(string, int)             {}
