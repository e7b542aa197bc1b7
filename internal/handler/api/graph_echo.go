package api

import (
	"errors"
	"io"
	"net/http"

	models "CoinGate/internal/domain/models"
	"CoinGate/internal/service/limiter"
	"CoinGate/internal/service/render"
	"CoinGate/internal/usecase"
	xlogger "CoinGate/pkg/logger"

	"github.com/labstack/echo/v4"
)

const msgInvalidBody = "Invalid request body"

// GraphEchoHandler serves POST /api/graph.
type GraphEchoHandler struct {
	logger *xlogger.Logger
	graphs *usecase.GraphGenerator
}

func NewGraphEchoHandler(logger *xlogger.Logger, graphs *usecase.GraphGenerator) *GraphEchoHandler {
	return &GraphEchoHandler{logger: logger, graphs: graphs}
}

func (h *GraphEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/graph", h.Graph)
}

func (h *GraphEchoHandler) Graph(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Warn("reading graph request failed", xlogger.Error(err))
		return c.JSON(http.StatusBadRequest, models.GraphResponse{Error: msgInvalidBody})
	}

	data, err := h.graphs.Generate(c.Request().Context(), body)
	if err != nil {
		status, msg := graphFailure(err)
		if status == http.StatusBadRequest {
			h.logger.Warn("invalid graph request", xlogger.Error(err))
		}
		return c.JSON(status, models.GraphResponse{Error: msg})
	}
	return c.JSON(http.StatusOK, models.GraphResponse{Success: true, GraphData: data})
}

// graphFailure maps a render error onto the client-facing status and message.
// Render failures have already been logged by the orchestrator.
func graphFailure(err error) (int, string) {
	var ee *render.ExitError
	switch {
	case errors.Is(err, models.ErrInvalidRenderJob):
		return http.StatusBadRequest, msgInvalidBody
	case errors.As(err, &ee):
		return http.StatusInternalServerError, "Graph generation failed"
	case errors.Is(err, render.ErrMalformedOutput):
		return http.StatusInternalServerError, "Failed to parse graph data"
	case errors.Is(err, render.ErrTimeout):
		return http.StatusInternalServerError, "Graph generation timed out"
	case errors.Is(err, render.ErrOutputTooLarge):
		return http.StatusInternalServerError, "Graph output too large"
	case errors.Is(err, limiter.ErrBusy):
		return http.StatusServiceUnavailable, msgBusy
	default:
		return http.StatusInternalServerError, "Graph generation failed"
	}
}
