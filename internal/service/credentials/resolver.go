package credentials

import (
	"CoinGate/internal/domain/models"
	domrepo "CoinGate/internal/domain/repository"
	"CoinGate/pkg/config"
)

// browserHeaders make deployed-mode calls look like they come from a browser;
// the upstream filters obvious bot traffic.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "application/json, text/plain, */*",
	"Accept-Language": "en-US,en;q=0.9",
	"Accept-Encoding": "gzip, deflate, br",
	"Connection":      "keep-alive",
	"Cache-Control":   "no-cache",
}

// Resolver derives credentials from the process-wide mode and, in deployed
// mode, the caller's apikey. It holds no mutable state.
type Resolver struct {
	mode   config.DeploymentMode
	secret string
}

func NewResolver(mode config.DeploymentMode, secret string) *Resolver {
	return &Resolver{mode: mode, secret: secret}
}

// NewResolverFromConfig is the DI entry point.
func NewResolverFromConfig(cfg *config.Config) *Resolver {
	return NewResolver(cfg.Mode, cfg.Upstream.APIKey)
}

// Resolve never fails. An empty token is sent as-is and left for the
// upstream to reject.
func (r *Resolver) Resolve(callerAPIKey string) models.Credentials {
	token := r.secret
	if r.mode == config.ModeDeployed {
		token = callerAPIKey
	}

	headers := map[string]string{
		"Authorization": "Bearer " + token,
		"Content-Type":  "application/json",
	}
	if r.mode == config.ModeDeployed {
		for k, v := range browserHeaders {
			headers[k] = v
		}
	}

	return models.Credentials{Token: token, Headers: headers}
}

// Mode reports the configured deployment mode.
func (r *Resolver) Mode() config.DeploymentMode { return r.mode }

var _ domrepo.CredentialResolver = (*Resolver)(nil)
