package api

import (
	"CoinGate/pkg/config"
	xhttp "CoinGate/pkg/http"

	"github.com/labstack/echo/v4"
)

// HealthEchoHandler answers liveness checks.
type HealthEchoHandler struct {
	mode config.DeploymentMode
}

func NewHealthEchoHandler(cfg *config.Config) *HealthEchoHandler {
	return &HealthEchoHandler{mode: cfg.Mode}
}

func (h *HealthEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
}

func (h *HealthEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, xhttp.HealthResponse{Status: "ok", Mode: string(h.mode)})
}
