package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestVCSSuffix(t *testing.T) {
	tests := []struct {
		name     string
		info     *debug.BuildInfo
		expected string
	}{
		{
			name:     "no vcs info",
			info:     &debug.BuildInfo{},
			expected: "",
		},
		{
			name: "revision only",
			info: &debug.BuildInfo{
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc123def456789"},
				},
			},
			expected: "+abc123def456",
		},
		{
			name: "short revision",
			info: &debug.BuildInfo{
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc123"},
				},
			},
			expected: "+abc123",
		},
		{
			name: "dirty tree",
			info: &debug.BuildInfo{
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc123def456789"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			expected: "+abc123def456-dirty",
		},
		{
			name: "clean tree",
			info: &debug.BuildInfo{
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc123def456789"},
					{Key: "vcs.modified", Value: "false"},
				},
			},
			expected: "+abc123def456",
		},
		{
			name: "empty revision",
			info: &debug.BuildInfo{
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: ""},
				},
			},
			expected: "",
		},
		{
			name: "unrelated settings ignored",
			info: &debug.BuildInfo{
				Settings: []debug.BuildSetting{
					{Key: "vcs", Value: "git"},
					{Key: "vcs.time", Value: "2025-01-15T12:00:00Z"},
					{Key: "vcs.revision", Value: "abc123def456"},
				},
			},
			expected: "+abc123def456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := vcsSuffix(tt.info)
			if got != tt.expected {
				t.Errorf("vcsSuffix() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	v := Version()

	if v == "" {
		t.Fatal("Version() returned empty string")
	}
	// Whatever build metadata the test binary carries, the pinned release
	// version is always the prefix.
	if !strings.HasPrefix(v, version) {
		t.Errorf("Version() = %q, expected prefix %q", v, version)
	}
}
