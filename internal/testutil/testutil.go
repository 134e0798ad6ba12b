// Package testutil provides shared helpers for package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kinoite/kipper/internal/config"
)

// NewTestPaths returns an installer layout rooted in a fresh temporary
// directory, with all three directories created. Everything is removed
// when the test finishes.
func NewTestPaths(t *testing.T) config.InstallPaths {
	t.Helper()
	base := t.TempDir()
	paths := config.InstallPaths{
		InstallRoot: filepath.Join(base, "kopi"),
		BinDir:      filepath.Join(base, "bin"),
		ScratchDir:  filepath.Join(base, "scratch"),
	}
	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("failed to create test layout: %v", err)
	}
	return paths
}

// WriteExecutable drops an executable file named name into dir and
// returns its path. Tests use it to put fake git or cargo scripts on
// PATH.
func WriteExecutable(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0755); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// PrependPath puts dir at the front of PATH for the test, so executables
// in dir shadow the real ones while shell utilities like mkdir stay
// reachable for the fake scripts themselves.
func PrependPath(t *testing.T, dir string) {
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// AssertFileExists checks if a file exists at the given path
func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if !FileExists(path) {
		t.Errorf("file does not exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does NOT exist at the given path
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if FileExists(path) {
		t.Errorf("file should not exist: %s", path)
	}
}
