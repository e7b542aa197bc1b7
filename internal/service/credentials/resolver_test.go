package credentials

import (
	"testing"

	"CoinGate/pkg/config"

	"github.com/google/go-cmp/cmp"
)

func TestLocalModeIgnoresCallerKey(t *testing.T) {
	r := NewResolver(config.ModeLocal, "server-secret")

	for _, callerKey := range []string{"", "caller-key"} {
		creds := r.Resolve(callerKey)
		want := map[string]string{
			"Authorization": "Bearer server-secret",
			"Content-Type":  "application/json",
		}
		if diff := cmp.Diff(want, creds.Headers); diff != "" {
			t.Fatalf("caller key %q: unexpected headers (-want +got):\n%s", callerKey, diff)
		}
		if creds.Token != "server-secret" {
			t.Fatalf("unexpected token %q", creds.Token)
		}
	}
}

func TestDeployedModeUsesCallerKeyAndBrowserHeaders(t *testing.T) {
	r := NewResolver(config.ModeDeployed, "server-secret")
	creds := r.Resolve("caller-key")

	if got := creds.Headers["Authorization"]; got != "Bearer caller-key" {
		t.Fatalf("unexpected authorization %q", got)
	}
	for _, h := range []string{"User-Agent", "Accept", "Accept-Language", "Accept-Encoding", "Connection", "Cache-Control"} {
		if creds.Headers[h] == "" {
			t.Fatalf("missing browser header %s", h)
		}
	}
	if creds.Headers["Content-Type"] != "application/json" {
		t.Fatalf("missing content type")
	}
}

func TestDeployedModeMissingKeyIsNotRejected(t *testing.T) {
	creds := NewResolver(config.ModeDeployed, "").Resolve("")
	if got := creds.Headers["Authorization"]; got != "Bearer " {
		t.Fatalf("expected empty bearer, got %q", got)
	}
}

func TestResolveReturnsFreshHeaderMaps(t *testing.T) {
	r := NewResolver(config.ModeDeployed, "")
	a := r.Resolve("a")
	a.Headers["User-Agent"] = "tampered"
	if b := r.Resolve("b"); b.Headers["User-Agent"] == "tampered" {
		t.Fatalf("resolver leaked shared header state")
	}
}

func TestNewResolverFromConfig(t *testing.T) {
	cfg, _ := config.Default()
	cfg.Upstream.APIKey = "k"
	r := NewResolverFromConfig(cfg)
	if r.Mode() != config.ModeLocal || r.Resolve("").Token != "k" {
		t.Fatalf("resolver not built from config")
	}
}
