package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidRenderJob means the request body is not a JSON object.
var ErrInvalidRenderJob = errors.New("render job must be a JSON object")

// RenderJob is the document written to the render subprocess on stdin.
// Payload is the client's object as sent; Coin and Timeframe are read from
// it for logging only and may be empty.
type RenderJob struct {
	Coin      string
	Timeframe string
	Payload   json.RawMessage
}

// ParseRenderJob accepts any JSON object. Fields are forwarded untouched,
// except that an absent or null volumeData becomes [].
func ParseRenderJob(body []byte) (RenderJob, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return RenderJob{}, fmt.Errorf("%w: %v", ErrInvalidRenderJob, err)
	}
	if fields == nil {
		return RenderJob{}, ErrInvalidRenderJob
	}

	job := RenderJob{Payload: json.RawMessage(bytes.TrimSpace(body))}
	// non-string values are left for the renderer to judge
	_ = json.Unmarshal(fields["coin"], &job.Coin)
	_ = json.Unmarshal(fields["timeframe"], &job.Timeframe)

	if v, ok := fields["volumeData"]; !ok || string(bytes.TrimSpace(v)) == "null" {
		fields["volumeData"] = json.RawMessage("[]")
		payload, err := json.Marshal(fields)
		if err != nil {
			return RenderJob{}, fmt.Errorf("encode render job: %w", err)
		}
		job.Payload = payload
	}
	return job, nil
}

// GraphResponse is the body of POST /api/graph.
type GraphResponse struct {
	Success   bool            `json:"success"`
	GraphData json.RawMessage `json:"graphData,omitempty"`
	Error     string          `json:"error,omitempty"`
}
