package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigCommandMasksSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "mode: local\nupstream:\n  base_url: https://api.example.com\n  api_key: topsecret\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"config", "--config", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if strings.Contains(out.String(), "topsecret") {
		t.Fatalf("secret printed:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "base_url: https://api.example.com") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestConfigCommandReportsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("mode: local\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"config", "--config", path})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected validation error")
	}
}
