package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// GenericErrorMessage is what clients see for failures whose details stay server-side.
const GenericErrorMessage = "Internal server error"

// RawJSONResponse writes an already-encoded JSON document verbatim.
func RawJSONResponse(c echo.Context, status int, body json.RawMessage) error {
	return c.JSONBlob(status, body)
}

// SuccessResponse writes data as a 200 JSON body.
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// ErrorResponse writes an {error, details} envelope.
func ErrorResponse(c echo.Context, status int, message, details string) error {
	return c.JSON(status, ErrorEnvelope{Error: message, Details: details})
}

// UpstreamErrorResponse mirrors an upstream failure: same status, raw body as details.
func UpstreamErrorResponse(c echo.Context, status int, message, body string) error {
	return c.JSON(status, UpstreamErrorEnvelope{Error: message, Details: body})
}

// BadRequestResponse writes a 400 with validation details.
func BadRequestResponse(c echo.Context, errs []ValidationError) error {
	return c.JSON(http.StatusBadRequest, map[string]interface{}{
		"error":   "Invalid request",
		"details": errs,
	})
}

// InternalServerErrorResponse writes the generic 500 envelope.
func InternalServerErrorResponse(c echo.Context) error {
	return ErrorResponse(c, http.StatusInternalServerError, GenericErrorMessage, "")
}

// AppErrorResponse renders *AppError with its own status; anything else is a generic 500.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return ErrorResponse(c, appErr.Status, appErr.Message, "")
	}
	return InternalServerErrorResponse(c)
}
