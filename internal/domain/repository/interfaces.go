package repository

import (
	"context"
	"encoding/json"

	"CoinGate/internal/domain/models"
)

// CredentialResolver picks the token and headers for an upstream call.
type CredentialResolver interface {
	Resolve(callerAPIKey string) models.Credentials
}

// Upstream issues one call to the market-data API and returns its JSON body.
// Non-2xx answers come back as *models.UpstreamError.
type Upstream interface {
	Fetch(ctx context.Context, spec models.ProxyRequestSpec, creds models.Credentials) (json.RawMessage, error)
}

// Renderer runs one render job to completion.
type Renderer interface {
	Render(ctx context.Context, job models.RenderJob) (json.RawMessage, error)
}

type Metrics interface {
	RecordUpstream(endpoint string, status int, seconds float64)
	RecordRender(outcome string, seconds float64)
	RecordError(kind string)
	SetInFlight(pool string, n int)
}
