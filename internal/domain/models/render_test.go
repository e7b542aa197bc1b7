package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func decodeObject(t *testing.T, b []byte) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("payload is not an object: %v", err)
	}
	return m
}

func TestParseRenderJobForwardsBodyVerbatim(t *testing.T) {
	body := `{"coin":"BTC","candlestickData":[{"t":1}],"volumeData":[{"v":2}],"theme":"dark"}`
	job, err := ParseRenderJob([]byte("  " + body + "\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(job.Payload) != body {
		t.Fatalf("payload changed:\nwant %s\ngot  %s", body, job.Payload)
	}
	if job.Coin != "BTC" || job.Timeframe != "" {
		t.Fatalf("unexpected log fields %q %q", job.Coin, job.Timeframe)
	}
}

func TestParseRenderJobFillsMissingVolume(t *testing.T) {
	for _, body := range []string{
		`{"coin":"BTC","candlestickData":[],"theme":"dark"}`,
		`{"coin":"BTC","candlestickData":[],"theme":"dark","volumeData":null}`,
	} {
		job, err := ParseRenderJob([]byte(body))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := map[string]interface{}{
			"coin":            "BTC",
			"candlestickData": []interface{}{},
			"volumeData":      []interface{}{},
			"theme":           "dark",
		}
		if diff := cmp.Diff(want, decodeObject(t, job.Payload)); diff != "" {
			t.Fatalf("unexpected payload (-want +got):\n%s", diff)
		}
	}
}

func TestParseRenderJobAcceptsSparseObjects(t *testing.T) {
	job, err := ParseRenderJob([]byte(`{"coin":42,"timeframe":"4h"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Coin != "" || job.Timeframe != "4h" {
		t.Fatalf("unexpected log fields %q %q", job.Coin, job.Timeframe)
	}
	got := decodeObject(t, job.Payload)
	if got["coin"] != float64(42) {
		t.Fatalf("coin not forwarded: %v", got["coin"])
	}
}

func TestParseRenderJobRejectsNonObjects(t *testing.T) {
	for _, body := range []string{``, `{"coin":`, `null`, `[1,2]`, `"BTC"`} {
		if _, err := ParseRenderJob([]byte(body)); !errors.Is(err, ErrInvalidRenderJob) {
			t.Fatalf("body %q: expected ErrInvalidRenderJob, got %v", body, err)
		}
	}
}
