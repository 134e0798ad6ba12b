// Package shellenv makes the kopi binary reachable from new shells by
// appending a PATH export to the user's shell profile.
//
// Profile editing is best-effort: the installer downgrades every error
// here to a warning with manual instructions, so a read-only dotfile or
// an exotic shell never fails an install.
package shellenv

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kinoite/kipper/internal/log"
)

// profileMarker precedes the export line so users scanning their dotfiles
// can tell where the block came from.
const profileMarker = "# Kopi Environment"

// IntegrationError reports a shell profile that could not be updated. The
// installer treats it as a warning and shows the manual instructions from
// Suggestion.
type IntegrationError struct {
	Profile string // profile file we tried to update ("" if undetermined)
	BinDir  string
	Err     error
}

func (e *IntegrationError) Error() string {
	if e.Profile == "" {
		return fmt.Sprintf("failed to update shell profile: %v", e.Err)
	}
	return fmt.Sprintf("failed to update shell profile %s: %v", e.Profile, e.Err)
}

func (e *IntegrationError) Unwrap() error {
	return e.Err
}

// Suggestion returns the manual steps that replace the automatic edit.
func (e *IntegrationError) Suggestion() string {
	profile := e.Profile
	if profile == "" {
		profile = "your shell profile"
	}
	return fmt.Sprintf("Add this line to %s yourself:\n  %s", profile, ExportLine(e.BinDir))
}

// ExportLine returns the PATH export appended to the profile. It is also
// shown verbatim when the profile cannot be edited automatically.
func ExportLine(binDir string) string {
	return fmt.Sprintf("export PATH=\"%s:$PATH\"", binDir)
}

// ProfilePath picks the profile file EnsureOnPath would modify, based on
// the SHELL environment variable. Unknown or unset shells fall back to
// ~/.profile, which login shells source by convention.
func ProfilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}

	shell := os.Getenv("SHELL")
	switch {
	case strings.Contains(shell, "zsh"):
		return filepath.Join(home, ".zshrc"), nil
	case strings.Contains(shell, "bash"):
		return filepath.Join(home, ".bashrc"), nil
	default:
		return filepath.Join(home, ".profile"), nil
	}
}

// EnsureOnPath appends an export for binDir to the user's shell profile.
// The append is idempotent: when the exact export line is already present,
// nothing is written. Existing profile content is never rewritten or
// removed. On Windows there is no profile convention and the call is a
// no-op (the final install message tells the user what to add).
func EnsureOnPath(binDir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}

	profile, err := ProfilePath()
	if err != nil {
		return &IntegrationError{BinDir: binDir, Err: err}
	}

	line := ExportLine(binDir)

	// A missing profile is fine; it will be created by the append.
	content, err := os.ReadFile(profile)
	if err != nil && !os.IsNotExist(err) {
		return &IntegrationError{Profile: profile, BinDir: binDir, Err: err}
	}
	if strings.Contains(string(content), line) {
		log.Default().Debug("shell profile already exports bin directory", "profile", profile)
		return nil
	}

	f, err := os.OpenFile(profile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return &IntegrationError{Profile: profile, BinDir: binDir, Err: err}
	}
	if _, err := fmt.Fprintf(f, "\n%s\n%s\n", profileMarker, line); err != nil {
		_ = f.Close()
		return &IntegrationError{Profile: profile, BinDir: binDir, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IntegrationError{Profile: profile, BinDir: binDir, Err: err}
	}

	log.Default().Debug("appended PATH export to shell profile", "profile", profile, "bin_dir", binDir)
	return nil
}
