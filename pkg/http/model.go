package http

// ErrorEnvelope is the error body for failures whose details stay server-side.
type ErrorEnvelope struct {
	Error   string `json:"error" example:"Internal server error"`
	Details string `json:"details,omitempty"`
}

// UpstreamErrorEnvelope carries a failed upstream answer. Details is the raw
// upstream body and is present even when that body was empty.
type UpstreamErrorEnvelope struct {
	Error   string `json:"error" example:"Failed to fetch data from external API."`
	Details string `json:"details" example:"not found"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"coin"`
	Message string                 `json:"message,omitempty" example:"coin is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// HealthResponse is returned by the liveness check.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Mode   string `json:"mode" example:"local"`
}
