package version

import (
	"strings"
	"testing"
)

func TestPrettyPlain(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	tests := []struct {
		in   string
		want string
	}{
		{"1.2.3", "1.2.3"},
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3-rc.1+build.123", "1.2.3-rc.1+build.123"},
		{"nightly", "nightly"},
		{"  ", "dev"},
	}
	for _, tt := range tests {
		Version = tt.in
		if got := Pretty(false); got != tt.want {
			t.Fatalf("Pretty(false) with %q = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrettyColored(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "1.2.3-dev"
	got := Pretty(true)
	if got == "1.2.3-dev" || !strings.Contains(got, "\x1b[") {
		t.Fatalf("Pretty(true) = %q, want colored output", got)
	}
	if !strings.HasSuffix(got, "-dev") {
		t.Fatalf("Pretty(true) = %q, want the suffix left plain", got)
	}
}
