package usecase

import (
	"context"
	"encoding/json"

	"CoinGate/internal/domain/models"
	domrepo "CoinGate/internal/domain/repository"
)

// GraphGenerator hands chart jobs to the renderer.
type GraphGenerator struct {
	renderer domrepo.Renderer
}

func NewGraphGenerator(renderer domrepo.Renderer) *GraphGenerator {
	return &GraphGenerator{renderer: renderer}
}

// Generate turns a request body into a render job and returns the
// renderer's JSON document. A body that is not a JSON object yields
// models.ErrInvalidRenderJob.
func (g *GraphGenerator) Generate(ctx context.Context, body []byte) (json.RawMessage, error) {
	job, err := models.ParseRenderJob(body)
	if err != nil {
		return nil, err
	}
	return g.renderer.Render(ctx, job)
}
