package installer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/kinoite/kipper/internal/shellenv"
)

// seedFullInstall lays out everything Run would leave behind, without
// running a strategy.
func seedFullInstall(t *testing.T, inst *Installer) {
	t.Helper()
	for _, dir := range []string{inst.Paths.InstallRoot, inst.Paths.BinDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(inst.Paths.BinaryPath(), []byte(binaryContent), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(inst.Paths.UninstallerPath(), []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	if runtime.GOOS != "windows" {
		if err := os.Symlink(inst.Paths.BinaryPath(), inst.Paths.SymlinkPath()); err != nil {
			t.Fatal(err)
		}
	}
}

func TestUninstallRemovesEverything(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX layout under test")
	}
	inst, out := newTestInstaller(t)
	seedFullInstall(t, inst)

	if err := inst.Uninstall(); err != nil {
		t.Fatalf("Uninstall() error: %v", err)
	}

	if _, err := os.Stat(inst.Paths.InstallRoot); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("install root still present (stat err = %v)", err)
	}
	if _, err := os.Lstat(inst.Paths.SymlinkPath()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("bin symlink still present (lstat err = %v)", err)
	}
	// The bin directory is shared with other tools and must survive.
	if _, err := os.Stat(inst.Paths.BinDir); err != nil {
		t.Errorf("bin directory was removed: %v", err)
	}
	if !strings.Contains(out.String(), "uninstalled successfully") {
		t.Errorf("output missing success line:\n%s", out.String())
	}
}

func TestUninstallCleanHost(t *testing.T) {
	inst, out := newTestInstaller(t)

	if err := inst.Uninstall(); err != nil {
		t.Fatalf("Uninstall() on a clean host: %v", err)
	}
	if !strings.Contains(out.String(), "uninstalled successfully") {
		t.Errorf("output missing success line:\n%s", out.String())
	}
}

func TestUninstallDanglingSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX layout under test")
	}
	inst, _ := newTestInstaller(t)
	if err := os.MkdirAll(inst.Paths.BinDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(inst.Paths.BinaryPath(), inst.Paths.SymlinkPath()); err != nil {
		t.Fatal(err)
	}

	if err := inst.Uninstall(); err != nil {
		t.Fatalf("Uninstall() error: %v", err)
	}
	if _, err := os.Lstat(inst.Paths.SymlinkPath()); !errors.Is(err, os.ErrNotExist) {
		t.Error("dangling symlink was not removed")
	}
}

func TestUninstallPreservesShellProfile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("profile editing is a no-op on Windows")
	}
	inst, _ := newTestInstaller(t)
	seedFullInstall(t, inst)

	profile := filepath.Join(os.Getenv("HOME"), ".bashrc")
	block := "\n# Kopi Environment\n" + shellenv.ExportLine(inst.Paths.BinDir) + "\n"
	if err := os.WriteFile(profile, []byte(block), 0644); err != nil {
		t.Fatal(err)
	}

	if err := inst.Uninstall(); err != nil {
		t.Fatalf("Uninstall() error: %v", err)
	}

	got, err := os.ReadFile(profile)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != block {
		t.Errorf("uninstall modified the shell profile:\n%s", got)
	}
}

func TestInstallUninstallRoundTrip(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX layout under test")
	}
	inst, _ := newTestInstaller(t)
	ctx := context.Background()

	if err := inst.Run(ctx); err != nil {
		t.Fatalf("first install: %v", err)
	}
	if err := inst.Uninstall(); err != nil {
		t.Fatalf("uninstall: %v", err)
	}

	if _, err := os.Stat(inst.Paths.InstallRoot); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("install root survived uninstall (stat err = %v)", err)
	}
	if _, err := os.Lstat(inst.Paths.SymlinkPath()); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("symlink survived uninstall")
	}

	// A second install from the cleaned state must behave like a first
	// install: no prompt, same artifacts.
	if err := inst.Run(ctx); err != nil {
		t.Fatalf("reinstall after uninstall: %v", err)
	}
	if _, err := os.Stat(inst.Paths.BinaryPath()); err != nil {
		t.Errorf("binary missing after reinstall: %v", err)
	}
	dest, err := os.Readlink(inst.Paths.SymlinkPath())
	if err != nil {
		t.Fatalf("symlink missing after reinstall: %v", err)
	}
	if dest != inst.Paths.BinaryPath() {
		t.Errorf("symlink points at %q, want %q", dest, inst.Paths.BinaryPath())
	}
}
