package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	origVersion, origCommit, origBuild := Version, Commit, BuildTime
	defer func() { Version, Commit, BuildTime = origVersion, origCommit, origBuild }()

	Version = "1.2.0"
	Commit = "0123456789abcdef"
	BuildTime = "2026-10-01T00:00:00Z"

	got := String()
	if !strings.HasPrefix(got, "brewctl 1.2.0 ") {
		t.Errorf("String() = %q, want version prefix", got)
	}
	if !strings.Contains(got, "commit: 0123456,") {
		t.Errorf("String() = %q, want short commit", got)
	}
	if !strings.Contains(got, "built: 2026-10-01T00:00:00Z") {
		t.Errorf("String() = %q, want build time", got)
	}

	Commit = "abc"
	if got := String(); !strings.Contains(got, "commit: abc,") {
		t.Errorf("String() = %q, want unshortened commit", got)
	}
}

func TestShort(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "unknown"},
		{"abc", "abc"},
		{"0123456789", "0123456"},
	}
	for _, tt := range tests {
		if got := short(tt.in); got != tt.want {
			t.Errorf("short(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
