package errmsg

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kinoite/kipper/internal/acquire"
	"github.com/kinoite/kipper/internal/installer"
	"github.com/kinoite/kipper/internal/release"
	"github.com/kinoite/kipper/internal/shellenv"
)

func TestFormat_NilError(t *testing.T) {
	if result := Format(nil); result != "" {
		t.Errorf("expected empty string for nil error, got %q", result)
	}
}

func TestFormat_GenericError(t *testing.T) {
	err := errors.New("something went wrong")
	if result := Format(err); result != "something went wrong" {
		t.Errorf("expected original error message, got %q", result)
	}
}

func TestFormat_DependencyError(t *testing.T) {
	err := &acquire.DependencyError{
		Tool: "cargo",
		Hint: "Install Rust from https://rustup.rs/ to get cargo",
		Err:  errors.New("executable file not found in $PATH"),
	}

	result := Format(err)
	checks := []string{
		"required tool not found: cargo",
		"Possible causes:",
		"cargo is not installed",
		"Suggestions:",
		"rustup.rs",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected result to contain %q, got:\n%s", check, result)
		}
	}
}

func TestFormat_BuildErrorShowsOutputTail(t *testing.T) {
	var lines []string
	for i := 0; i < 40; i++ {
		lines = append(lines, "noise")
	}
	lines = append(lines, "error[E0432]: unresolved import `foo`")

	err := &acquire.BuildError{
		Output: strings.Join(lines, "\n"),
		Err:    errors.New("exit status 101"),
	}

	result := Format(err)
	if !strings.Contains(result, "Output:") {
		t.Errorf("expected captured output section, got:\n%s", result)
	}
	if !strings.Contains(result, "error[E0432]") {
		t.Errorf("expected the compiler error line, got:\n%s", result)
	}
	// Only the tail is replayed.
	if got := strings.Count(result, "noise"); got > buildOutputTail {
		t.Errorf("output not trimmed: %d noise lines", got)
	}
	if !strings.Contains(result, "rustup update") {
		t.Errorf("expected toolchain suggestion, got:\n%s", result)
	}
}

func TestFormat_AcquireErrorByStep(t *testing.T) {
	tests := []struct {
		step string
		want string
	}{
		{"clone", "repository URL"},
		{"download", "No release or asset exists"},
		{"extract", "corrupt or truncated"},
	}

	for _, tt := range tests {
		t.Run(tt.step, func(t *testing.T) {
			err := &acquire.AcquireError{
				Step:   tt.step,
				Output: "fatal: something detailed",
				Err:    errors.New("exit status 128"),
			}
			result := Format(err)
			if !strings.Contains(result, tt.want) {
				t.Errorf("expected cause %q, got:\n%s", tt.want, result)
			}
			if !strings.Contains(result, "fatal: something detailed") {
				t.Errorf("expected captured output, got:\n%s", result)
			}
		})
	}
}

func TestFormat_RateLimitError(t *testing.T) {
	err := &release.RateLimitError{
		Limit:         60,
		Remaining:     0,
		ResetTime:     time.Now().Add(30 * time.Minute),
		Authenticated: false,
		Err:           errors.New("403"),
	}

	result := Format(err)
	checks := []string{
		"rate limit exceeded",
		"Possible causes:",
		"hourly limit",
		"Suggestions:",
		"GITHUB_TOKEN",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected result to contain %q, got:\n%s", check, result)
		}
	}
}

func TestFormat_FilesystemError(t *testing.T) {
	err := &installer.FilesystemError{
		Op:   "install binary",
		Path: "/home/u/.kopi/kopi",
		Err:  errors.New("permission denied"),
	}

	result := Format(err)
	checks := []string{
		"install binary",
		"Possible causes:",
		"permissions",
		"Suggestions:",
		"/home/u/.kopi/kopi",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected result to contain %q, got:\n%s", check, result)
		}
	}
}

func TestFormat_IntegrationErrorSuggestsManualLine(t *testing.T) {
	err := &shellenv.IntegrationError{
		Profile: "/home/u/.bashrc",
		BinDir:  "/home/u/.local/bin",
		Err:     errors.New("read-only file system"),
	}

	result := Format(err)
	if !strings.Contains(result, `export PATH="/home/u/.local/bin:$PATH"`) {
		t.Errorf("expected the manual export line, got:\n%s", result)
	}
}

func TestFormat_GenericNetworkError(t *testing.T) {
	err := errors.New("dial tcp 140.82.112.3:443: connect: connection refused")

	result := Format(err)
	checks := []string{
		"Possible causes:",
		"Network connectivity issue",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected result to contain %q, got:\n%s", check, result)
		}
	}
}

func TestFormat_GenericPermissionError(t *testing.T) {
	err := errors.New("open /usr/local/bin/kopi: permission denied")

	result := Format(err)
	if !strings.Contains(result, "Possible causes:") {
		t.Errorf("expected causes block, got:\n%s", result)
	}
	if !strings.Contains(result, "different user") {
		t.Errorf("expected permission cause, got:\n%s", result)
	}
}

func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	Fprint(&buf, errors.New("plain failure"))
	if got := buf.String(); got != "plain failure\n" {
		t.Errorf("Fprint wrote %q", got)
	}

	buf.Reset()
	Fprint(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("Fprint wrote %q for nil error", buf.String())
	}
}

func TestTail(t *testing.T) {
	if got := tail("a\nb\nc", 2); got != "b\nc" {
		t.Errorf("tail = %q", got)
	}
	if got := tail("a\nb", 5); got != "a\nb" {
		t.Errorf("tail = %q", got)
	}
	if got := tail("  \n", 3); got != "" {
		t.Errorf("tail = %q", got)
	}
}
