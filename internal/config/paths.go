// Package config resolves the installer's filesystem layout and run
// configuration from the host environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	// ToolName is the name of the toolchain this installer provisions.
	ToolName = "kopi"

	// EnvHome overrides the default install root (~/.kopi).
	EnvHome = "KIPPER_HOME"
)

// Error reports an unusable host environment or configuration value.
// These are fatal pre-flight failures and are never retried.
type Error struct {
	Setting string // What was being resolved (e.g., "home directory", "strategy")
	Reason  string // Human-readable explanation
	Err     error  // Underlying error (if any)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error (%s): %s: %v", e.Setting, e.Reason, e.Err)
	}
	return fmt.Sprintf("configuration error (%s): %s", e.Setting, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Suggestion returns an actionable hint for the user.
func (e *Error) Suggestion() string {
	switch e.Setting {
	case "home directory":
		return "Set the HOME environment variable, or KIPPER_HOME to choose an install root directly"
	case "strategy":
		return `Valid strategies are "clone", "tarball", and "prebuilt"`
	default:
		return ""
	}
}

// InstallPaths is the filesystem layout for one installer run. Derived once
// from the environment and treated as immutable afterwards.
//
// InstallRoot is the canonical record of "installed or not": the toolchain
// is installed exactly when the binary exists inside it. BinDir is where
// the binary is made reachable from (a symlink on POSIX hosts; identical
// to InstallRoot on Windows, which has no conventional per-user bin
// directory). ScratchDir is a disposable per-run working area.
type InstallPaths struct {
	InstallRoot string
	BinDir      string
	ScratchDir  string
}

// ResolvePaths derives InstallPaths from the host environment. It reads
// KIPPER_HOME and the user's home directory; it performs no filesystem
// writes. Returns a *Error when no home directory can be determined.
func ResolvePaths() (InstallPaths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return InstallPaths{}, &Error{
			Setting: "home directory",
			Reason:  "cannot determine the user home directory",
			Err:     err,
		}
	}

	root := os.Getenv(EnvHome)
	if root == "" {
		root = filepath.Join(home, "."+ToolName)
	}

	binDir := filepath.Join(home, ".local", "bin")
	if runtime.GOOS == "windows" {
		// No ~/.local/bin convention; the install root doubles as the
		// binary directory and no symlink is created.
		binDir = root
	}

	return InstallPaths{
		InstallRoot: root,
		BinDir:      binDir,
		ScratchDir:  filepath.Join(os.TempDir(), fmt.Sprintf("%s-install-%d", ToolName, os.Getpid())),
	}, nil
}

// EnsureDirectories creates the install root, bin directory, and scratch
// directory. Existing directories are not an error.
func (p InstallPaths) EnsureDirectories() error {
	for _, dir := range []string{p.InstallRoot, p.BinDir, p.ScratchDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// BinaryName returns the platform-appropriate file name of the toolchain
// binary ("kopi", or "kopi.exe" on Windows).
func BinaryName() string {
	if runtime.GOOS == "windows" {
		return ToolName + ".exe"
	}
	return ToolName
}

// BinaryPath returns the canonical installed-binary location. Its
// existence answers "is the toolchain installed".
func (p InstallPaths) BinaryPath() string {
	return filepath.Join(p.InstallRoot, BinaryName())
}

// SymlinkPath returns where the PATH-reachable symlink lives on POSIX
// hosts. Meaningless on Windows (BinDir == InstallRoot).
func (p InstallPaths) SymlinkPath() string {
	return filepath.Join(p.BinDir, BinaryName())
}

// UninstallerPath returns the location of the generated removal script.
func (p InstallPaths) UninstallerPath() string {
	name := "uninstall.sh"
	if runtime.GOOS == "windows" {
		name = "uninstall.bat"
	}
	return filepath.Join(p.InstallRoot, name)
}
