package models

import "fmt"

// ProxyRequestSpec describes one upstream call. Path already carries any
// substituted identifiers; empty Query values are dropped before encoding.
type ProxyRequestSpec struct {
	Endpoint string // metric/log label, e.g. "coin-info"
	Path     string
	Query    map[string]string
}

// UpstreamError is a non-2xx answer from the upstream API.
type UpstreamError struct {
	Status int
	Body   string
	URL    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s returned %d", e.URL, e.Status)
}

// Inbound query parameters. `default` tags are applied after binding.

// AuthQuery carries the caller-supplied key used in deployed mode.
type AuthQuery struct {
	APIKey string `query:"apikey"`
}

type TopCoinsRequest struct {
	AuthQuery
}

type MarketDataRequest struct {
	AuthQuery
	Search       string `query:"search"`
	SortBy       string `query:"sortBy"`
	SortOrder    string `query:"sortOrder"`
	PriceFilter  string `query:"priceFilter"`
	ChangeFilter string `query:"changeFilter"`
	Page         string `query:"page" default:"1"`
	Limit        string `query:"limit" default:"12"`
}

type CoinInfoRequest struct {
	AuthQuery
	Symbol    string `query:"symbol"`
	Timeframe string `query:"timeframe" default:"1m"`
}

type CoinHoldersRequest struct {
	AuthQuery
	Symbol string `query:"symbol"`
	Limit  string `query:"limit" default:"50"`
}
