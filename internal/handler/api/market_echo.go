package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	models "CoinGate/internal/domain/models"
	"CoinGate/internal/service/limiter"
	"CoinGate/internal/usecase"
	xhttp "CoinGate/pkg/http"
	xlogger "CoinGate/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	msgUpstreamFailed = "Failed to fetch data from external API."
	msgBusy           = "Server busy, try again later"
)

// MarketEchoHandler exposes the read-only market-data proxy routes.
type MarketEchoHandler struct {
	logger *xlogger.Logger
	proxy  *usecase.MarketProxy
}

func NewMarketEchoHandler(logger *xlogger.Logger, proxy *usecase.MarketProxy) *MarketEchoHandler {
	return &MarketEchoHandler{logger: logger, proxy: proxy}
}

func (h *MarketEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/top-coins", h.TopCoins)
	g.GET("/market-data", h.MarketData)
	g.GET("/coin-info", h.CoinInfo)
	g.GET("/coin-holders", h.CoinHolders)
}

func (h *MarketEchoHandler) TopCoins(c echo.Context) error {
	req := &models.TopCoinsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.proxy.TopCoins(c.Request().Context(), req)
	return h.respond(c, "top-coins", res, err)
}

func (h *MarketEchoHandler) MarketData(c echo.Context) error {
	req := &models.MarketDataRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.proxy.MarketData(c.Request().Context(), req)
	return h.respond(c, "market-data", res, err)
}

func (h *MarketEchoHandler) CoinInfo(c echo.Context) error {
	req := &models.CoinInfoRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.proxy.CoinInfo(c.Request().Context(), req)
	return h.respond(c, "coin-info", res, err)
}

func (h *MarketEchoHandler) CoinHolders(c echo.Context) error {
	req := &models.CoinHoldersRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.proxy.CoinHolders(c.Request().Context(), req)
	return h.respond(c, "coin-holders", res, err)
}

func (h *MarketEchoHandler) respond(c echo.Context, endpoint string, res json.RawMessage, err error) error {
	if err == nil {
		return xhttp.RawJSONResponse(c, http.StatusOK, res)
	}

	var upErr *models.UpstreamError
	switch {
	case errors.As(err, &upErr):
		// upstream status and body are surfaced as-is
		return xhttp.UpstreamErrorResponse(c, upErr.Status, msgUpstreamFailed, upErr.Body)
	case errors.Is(err, limiter.ErrBusy):
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError(msgBusy).WithError(err))
	case errors.Is(err, context.Canceled):
		h.logger.Warn("client went away", xlogger.String("endpoint", endpoint))
		return xhttp.InternalServerErrorResponse(c)
	default:
		h.logger.Error("proxy usecase error",
			xlogger.String("endpoint", endpoint),
			xlogger.Error(err),
		)
		return xhttp.InternalServerErrorResponse(c)
	}
}
