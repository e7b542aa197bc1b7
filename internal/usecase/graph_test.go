package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"CoinGate/internal/domain/models"
)

type captureRenderer struct {
	job   models.RenderJob
	calls int
}

func (c *captureRenderer) Render(_ context.Context, job models.RenderJob) (json.RawMessage, error) {
	c.job = job
	c.calls++
	return json.RawMessage(`{"a":1}`), nil
}

func TestGenerateForwardsJob(t *testing.T) {
	r := &captureRenderer{}
	out, err := NewGraphGenerator(r).Generate(context.Background(),
		[]byte(`{"coin":"BTC","candlestickData":[],"volumeData":[],"theme":"dark"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != `{"a":1}` {
		t.Fatalf("unexpected output %s", out)
	}
	if string(r.job.Payload) != `{"coin":"BTC","candlestickData":[],"volumeData":[],"theme":"dark"}` {
		t.Fatalf("payload not forwarded verbatim: %s", r.job.Payload)
	}
	if r.job.Coin != "BTC" {
		t.Fatalf("unexpected coin %q", r.job.Coin)
	}
}

func TestGenerateRejectsNonObjectBeforeRendering(t *testing.T) {
	r := &captureRenderer{}
	_, err := NewGraphGenerator(r).Generate(context.Background(), []byte(`[]`))
	if !errors.Is(err, models.ErrInvalidRenderJob) {
		t.Fatalf("expected ErrInvalidRenderJob, got %v", err)
	}
	if r.calls != 0 {
		t.Fatalf("renderer should not run")
	}
}
