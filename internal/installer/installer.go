// Package installer drives the install lifecycle: pre-flight checks,
// acquisition, binary placement, uninstaller generation, PATH integration,
// and verification. The scratch directory is removed on every path out of
// a run, including declined reinstalls and failures.
package installer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/kinoite/kipper/internal/acquire"
	"github.com/kinoite/kipper/internal/config"
	"github.com/kinoite/kipper/internal/log"
	"github.com/kinoite/kipper/internal/progress"
	"github.com/kinoite/kipper/internal/shellenv"
	"github.com/kinoite/kipper/internal/ui"
)

// Installer runs the install lifecycle against a resolved environment.
// Optional fields default to production behavior, so normal construction
// is Installer{Paths: paths, Config: cfg}.
type Installer struct {
	Paths  config.InstallPaths
	Config *config.Config

	// Printer renders user-facing status lines. Defaults to ui.Default.
	Printer *ui.Printer

	// Input answers the reinstall prompt. Defaults to os.Stdin.
	Input io.Reader

	// Interactive reports whether the reinstall prompt can be answered.
	// Non-interactive runs keep an existing installation untouched.
	// Defaults to progress.ShouldShowProgress.
	Interactive func() bool

	// Strategy overrides the acquisition method. Defaults to the one
	// acquire.ForConfig selects from Config.
	Strategy acquire.Strategy
}

func (inst *Installer) printer() *ui.Printer {
	if inst.Printer != nil {
		return inst.Printer
	}
	return ui.Default
}

// Run executes the full install lifecycle:
//
//	check existing → confirm → ensure directories → acquire →
//	place binary → write uninstaller → update PATH → verify
//
// A declined reinstall returns nil after printing a cancellation notice:
// keeping a working installation is a success, not a failure. Whatever
// happens, the scratch directory is gone when Run returns.
func (inst *Installer) Run(ctx context.Context) error {
	p := inst.printer()

	// Registered before the first fallible step so that success, declined
	// reinstall, and every error path all remove the scratch area.
	defer func() {
		if err := os.RemoveAll(inst.Paths.ScratchDir); err != nil {
			log.Default().Warn("could not remove scratch directory",
				"dir", inst.Paths.ScratchDir, "error", err)
		}
	}()

	installed, err := inst.checkExisting()
	if err != nil {
		return err
	}
	if installed {
		p.Warn("Kopi is already installed at %s", inst.Paths.BinaryPath())
		if !inst.confirmReinstall(p) {
			p.Info("Installation cancelled")
			return nil
		}
	}

	p.Info("Starting Kopi installation...")

	// Strategy construction resolves the target triple for prebuilt
	// installs, so an unsupported platform fails before any directory is
	// created or byte downloaded.
	strategy := inst.Strategy
	if strategy == nil {
		strategy, err = acquire.ForConfig(inst.Config)
		if err != nil {
			return err
		}
	}

	p.Info("Creating installation directories...")
	if err := inst.Paths.EnsureDirectories(); err != nil {
		return &FilesystemError{Op: "create installation directories", Err: err}
	}

	p.Info("Acquiring Kopi (strategy: %s)...", strategy.Name())
	res, err := strategy.Acquire(ctx, inst.Paths)
	if err != nil {
		return err
	}

	p.Info("Installing Kopi binary...")
	if err := inst.placeBinary(res.BinaryPath); err != nil {
		return err
	}
	p.Success("Kopi binary installed to %s", inst.Paths.BinaryPath())

	if err := inst.writeUninstaller(); err != nil {
		return err
	}

	inst.updatePath(p)

	onPath, err := inst.verify()
	if err != nil {
		return err
	}

	p.Blank()
	p.Success("Kopi installation completed successfully!")
	if onPath {
		p.Info("Kopi is ready to use: run 'kopi --help' to get started")
	} else {
		p.Warn("Kopi is installed but not yet reachable as 'kopi'")
		p.Info("Restart your shell, or add %s to your PATH", inst.Paths.BinDir)
	}
	p.Info("To uninstall later, run: %s", inst.Paths.UninstallerPath())
	p.Blank()
	p.Info("Happy coding with Kopi! ☕")
	return nil
}

// checkExisting reports whether the canonical binary already exists. Only
// the install root counts; a stray symlink without a binary is not an
// installation.
func (inst *Installer) checkExisting() (bool, error) {
	_, err := os.Stat(inst.Paths.BinaryPath())
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, &FilesystemError{Op: "check existing installation", Path: inst.Paths.BinaryPath(), Err: err}
}

// confirmReinstall asks whether to overwrite an existing installation.
// The default answer is no; non-interactive runs never prompt and keep
// what is there.
func (inst *Installer) confirmReinstall(p *ui.Printer) bool {
	interactive := inst.Interactive
	if interactive == nil {
		interactive = progress.ShouldShowProgress
	}
	if !interactive() {
		log.Default().Debug("non-interactive run, keeping existing installation")
		return false
	}

	input := inst.Input
	if input == nil {
		input = os.Stdin
	}

	fmt.Fprint(p.Out, "Do you want to reinstall? (y/N): ")
	scanner := bufio.NewScanner(input)
	if !scanner.Scan() {
		return false
	}
	switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// placeBinary copies the acquired binary into the install root and makes
// it reachable: chmod 0755, plus a BinDir symlink on POSIX hosts replacing
// whatever entry was there. When the acquired path already is the target
// (prebuilt on Windows, where BinDir == InstallRoot) the copy is skipped.
func (inst *Installer) placeBinary(acquiredPath string) error {
	target := inst.Paths.BinaryPath()

	if acquiredPath != target {
		if err := copyFile(acquiredPath, target); err != nil {
			return &FilesystemError{Op: "install binary", Path: target, Err: err}
		}
	}
	if err := os.Chmod(target, 0755); err != nil {
		return &FilesystemError{Op: "make binary executable", Path: target, Err: err}
	}

	if runtime.GOOS == "windows" {
		return nil
	}

	link := inst.Paths.SymlinkPath()
	if _, err := os.Lstat(link); err == nil {
		if err := os.Remove(link); err != nil {
			return &FilesystemError{Op: "replace existing symlink", Path: link, Err: err}
		}
	}
	if err := os.Symlink(target, link); err != nil {
		return &FilesystemError{Op: "create symlink", Path: link, Err: err}
	}
	log.Default().Debug("binary placed", "target", target, "symlink", link)
	return nil
}

// writeUninstaller drops a standalone removal script into the install
// root. It runs strictly after placement, so the script never exists
// without the binary it removes.
func (inst *Installer) writeUninstaller() error {
	path := inst.Paths.UninstallerPath()

	var script string
	if runtime.GOOS == "windows" {
		script = fmt.Sprintf("@echo off\r\n"+
			"echo Uninstalling Kopi Language...\r\n"+
			"del /f /q \"%s\" 2>nul\r\n"+
			"rmdir /s /q \"%s\" 2>nul\r\n"+
			"echo Kopi has been uninstalled successfully\r\n",
			inst.Paths.BinaryPath(), inst.Paths.InstallRoot)
	} else {
		script = fmt.Sprintf("#!/bin/sh\n"+
			"echo \"Uninstalling Kopi Language...\"\n"+
			"rm -f \"%s\"\n"+
			"rm -f \"%s\"\n"+
			"rm -rf \"%s\"\n"+
			"echo \"Kopi has been uninstalled successfully\"\n",
			inst.Paths.BinaryPath(), inst.Paths.SymlinkPath(), inst.Paths.InstallRoot)
	}

	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		return &FilesystemError{Op: "write uninstaller", Path: path, Err: err}
	}
	if runtime.GOOS != "windows" {
		// WriteFile's mode is subject to the umask; the script must stay
		// directly runnable.
		if err := os.Chmod(path, 0755); err != nil {
			return &FilesystemError{Op: "make uninstaller executable", Path: path, Err: err}
		}
	}
	return nil
}

// updatePath makes new shells pick up BinDir. Failure here is a warning,
// never fatal: the binary is already installed and runnable by absolute
// path.
func (inst *Installer) updatePath(p *ui.Printer) {
	if runtime.GOOS == "windows" {
		p.Info("Note: you may need to add %s to your PATH", inst.Paths.InstallRoot)
		return
	}

	p.Info("Making kopi available on your PATH...")
	if err := shellenv.EnsureOnPath(inst.Paths.BinDir); err != nil {
		p.Warn("Could not update your shell profile: %v", err)
		var integErr *shellenv.IntegrationError
		if errors.As(err, &integErr) {
			p.Info("%s", integErr.Suggestion())
		}
	}
}

// verify re-checks the installed binary and probes PATH reachability. A
// missing binary is fatal; an unresolvable name only degrades the final
// message, since fresh shells may pick it up after a profile reload.
func (inst *Installer) verify() (onPath bool, err error) {
	if _, err := os.Stat(inst.Paths.BinaryPath()); err != nil {
		return false, &FilesystemError{Op: "verify installation", Path: inst.Paths.BinaryPath(), Err: err}
	}
	if _, err := exec.LookPath(config.ToolName); err != nil {
		return false, nil
	}
	return true, nil
}

// copyFile copies src to dst, truncating any existing file at dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
