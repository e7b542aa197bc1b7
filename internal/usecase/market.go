package usecase

import (
	"context"
	"encoding/json"
	"net/url"

	"CoinGate/internal/domain/models"
	domrepo "CoinGate/internal/domain/repository"
)

// Upstream resource paths.
const (
	pathTopCoins = "/v1/top"
	pathMarket   = "/v1/market"
	pathCoin     = "/v1/coin/"
	pathHolders  = "/v1/holders/"
)

// MarketProxy turns inbound query parameters into upstream calls.
// Each call is independent; nothing is remembered between them.
type MarketProxy struct {
	creds    domrepo.CredentialResolver
	upstream domrepo.Upstream
}

func NewMarketProxy(creds domrepo.CredentialResolver, upstream domrepo.Upstream) *MarketProxy {
	return &MarketProxy{creds: creds, upstream: upstream}
}

func (p *MarketProxy) TopCoins(ctx context.Context, req *models.TopCoinsRequest) (json.RawMessage, error) {
	return p.fetch(ctx, req.APIKey, TopCoinsSpec())
}

func (p *MarketProxy) MarketData(ctx context.Context, req *models.MarketDataRequest) (json.RawMessage, error) {
	return p.fetch(ctx, req.APIKey, MarketDataSpec(req))
}

func (p *MarketProxy) CoinInfo(ctx context.Context, req *models.CoinInfoRequest) (json.RawMessage, error) {
	return p.fetch(ctx, req.APIKey, CoinInfoSpec(req))
}

func (p *MarketProxy) CoinHolders(ctx context.Context, req *models.CoinHoldersRequest) (json.RawMessage, error) {
	return p.fetch(ctx, req.APIKey, CoinHoldersSpec(req))
}

func (p *MarketProxy) fetch(ctx context.Context, apiKey string, spec models.ProxyRequestSpec) (json.RawMessage, error) {
	return p.upstream.Fetch(ctx, spec, p.creds.Resolve(apiKey))
}

func TopCoinsSpec() models.ProxyRequestSpec {
	return models.ProxyRequestSpec{Endpoint: "top-coins", Path: pathTopCoins}
}

func MarketDataSpec(req *models.MarketDataRequest) models.ProxyRequestSpec {
	return models.ProxyRequestSpec{
		Endpoint: "market-data",
		Path:     pathMarket,
		Query: map[string]string{
			"search":       req.Search,
			"sortBy":       req.SortBy,
			"sortOrder":    req.SortOrder,
			"priceFilter":  req.PriceFilter,
			"changeFilter": req.ChangeFilter,
			"page":         req.Page,
			"limit":        req.Limit,
		},
	}
}

// CoinInfoSpec escapes the symbol as a single path segment.
func CoinInfoSpec(req *models.CoinInfoRequest) models.ProxyRequestSpec {
	return models.ProxyRequestSpec{
		Endpoint: "coin-info",
		Path:     pathCoin + url.PathEscape(req.Symbol),
		Query:    map[string]string{"timeframe": req.Timeframe},
	}
}

func CoinHoldersSpec(req *models.CoinHoldersRequest) models.ProxyRequestSpec {
	return models.ProxyRequestSpec{
		Endpoint: "coin-holders",
		Path:     pathHolders + url.PathEscape(req.Symbol),
		Query:    map[string]string{"limit": req.Limit},
	}
}
