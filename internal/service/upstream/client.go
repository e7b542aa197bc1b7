package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"CoinGate/internal/domain/models"
	domrepo "CoinGate/internal/domain/repository"
	"CoinGate/internal/service/limiter"
	xhttp "CoinGate/pkg/http"
	applogger "CoinGate/pkg/logger"
	xutil "CoinGate/pkg/util"
)

// logBodyLimit caps how much of an upstream error body goes into a log line.
const logBodyLimit = 512

// Client calls the market-data API. One Fetch is exactly one GET: no retry,
// no caching, no deduplication of identical concurrent calls.
type Client struct {
	baseURL string
	http    *xhttp.Client
	limit   *limiter.Limiter
	metrics domrepo.Metrics
	log     *applogger.Logger
}

func NewClient(baseURL string, httpClient *xhttp.Client, limit *limiter.Limiter, metrics domrepo.Metrics, log *applogger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		limit:   limit,
		metrics: metrics,
		log:     log,
	}
}

// Fetch issues the GET described by spec and returns the JSON body.
func (c *Client) Fetch(ctx context.Context, spec models.ProxyRequestSpec, creds models.Credentials) (json.RawMessage, error) {
	url := c.baseURL + spec.Path
	query := EncodeQuery(spec.Query)

	if c.limit != nil {
		release, err := c.limit.Acquire(ctx)
		if err != nil {
			c.log.Warn("upstream call not admitted",
				applogger.String("endpoint", spec.Endpoint),
				applogger.String("url", url),
				applogger.Error(err),
			)
			return nil, err
		}
		defer release()
	}

	start := time.Now()
	body, err := c.http.GetJSON(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         url,
		Headers:     creds.Headers,
		QueryParams: query,
	})
	elapsed := time.Since(start)

	if err != nil {
		var se *xhttp.StatusError
		if errors.As(err, &se) {
			c.metrics.RecordUpstream(spec.Endpoint, se.Status, elapsed.Seconds())
			c.log.Warn("upstream returned error status",
				applogger.String("endpoint", spec.Endpoint),
				applogger.String("url", url),
				applogger.Int("status", se.Status),
				applogger.String("body", xutil.Truncate(string(se.Body), logBodyLimit)),
				applogger.Duration("latency_ms", elapsed),
			)
			return nil, &models.UpstreamError{Status: se.Status, Body: string(se.Body), URL: url}
		}

		c.metrics.RecordUpstream(spec.Endpoint, 0, elapsed.Seconds())
		c.metrics.RecordError("upstream_transport")
		c.log.Error("upstream request failed",
			applogger.String("endpoint", spec.Endpoint),
			applogger.String("url", url),
			applogger.Error(err),
			applogger.Duration("latency_ms", elapsed),
		)
		return nil, fmt.Errorf("fetch %s: %w", spec.Endpoint, err)
	}

	c.metrics.RecordUpstream(spec.Endpoint, 200, elapsed.Seconds())
	c.log.Debug("upstream ok",
		applogger.String("endpoint", spec.Endpoint),
		applogger.String("url", url),
		applogger.Int("bytes", len(body)),
		applogger.Duration("latency_ms", elapsed),
	)
	return body, nil
}

// EncodeQuery drops empty values; the rest is encoded by url.Values.
func EncodeQuery(q map[string]string) map[string][]string {
	out := make(map[string][]string, len(q))
	for k, v := range q {
		if v == "" {
			continue
		}
		out[k] = []string{v}
	}
	return out
}

var _ domrepo.Upstream = (*Client)(nil)
