package util

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("", 7); got != 7 {
		t.Fatalf("expected default, got %d", got)
	}
	if got := ParseIntDefault(" 42 ", 7); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := ParseIntDefault("abc", 7); got != 7 {
		t.Fatalf("expected default on garbage, got %d", got)
	}
}

func TestSplitNonEmpty(t *testing.T) {
	got := SplitNonEmpty(" a, ,b,, c ", ",")
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("unexpected split (-want +got):\n%s", diff)
	}
	if got := SplitNonEmpty("", ","); len(got) != 0 {
		t.Fatalf("expected empty slice, got %v", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Truncate("abcdefgh", 3); got != "abc...(truncated)" {
		t.Fatalf("unexpected %q", got)
	}
}
