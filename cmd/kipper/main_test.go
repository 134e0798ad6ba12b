package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kinoite/kipper/internal/buildinfo"
)

func TestVersionLine(t *testing.T) {
	got := versionLine()

	if !strings.HasPrefix(got, "Kipper v") {
		t.Errorf("version line = %q, want \"Kipper v\" prefix", got)
	}
	if !strings.Contains(got, buildinfo.Version()) {
		t.Errorf("version line %q does not contain version %q", got, buildinfo.Version())
	}
	if !strings.Contains(got, "Kopi Language Installer") {
		t.Errorf("version line %q does not name the product", got)
	}
}

func TestRootCommandFlags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
	}{
		{"uninstall", "u"},
		{"version", "v"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := rootCmd.Flags().Lookup(tt.name)
			if f == nil {
				t.Fatalf("--%s flag not registered", tt.name)
			}
			if f.Shorthand != tt.shorthand {
				t.Errorf("--%s shorthand = %q, want %q", tt.name, f.Shorthand, tt.shorthand)
			}
			if f.DefValue != "false" {
				t.Errorf("--%s default = %q, want false", tt.name, f.DefValue)
			}
		})
	}
}

// redirectCommandOutput points rootCmd's streams at a buffer for the
// duration of the test. The error cases below fail argument validation,
// so runRoot is never reached.
func redirectCommandOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	return &out
}

func TestRootCommandRejectsPositionalArgs(t *testing.T) {
	out := redirectCommandOutput(t)

	rootCmd.SetArgs([]string{"install"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("positional argument should be rejected")
	}
	if !strings.Contains(out.String(), "Usage:") {
		t.Errorf("usage not shown on bad invocation:\n%s", out.String())
	}
}

func TestRootCommandRejectsUnknownFlag(t *testing.T) {
	out := redirectCommandOutput(t)

	rootCmd.SetArgs([]string{"--frobnicate"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("unknown flag should be rejected")
	}
	if !strings.Contains(out.String(), "frobnicate") {
		t.Errorf("error should name the offending flag:\n%s", out.String())
	}
}
