package installer

import (
	"errors"
	"os"
	"runtime"

	"github.com/kinoite/kipper/internal/log"
)

// Uninstall removes everything an install leaves on disk: the binary, the
// POSIX symlink, and then the whole install root (uninstaller script and
// config.toml included). Artifacts that are already gone are skipped, so
// uninstalling a clean host succeeds quietly. The shell profile is left
// untouched; the appended export block is harmless without the directory.
func (inst *Installer) Uninstall() error {
	p := inst.printer()
	p.Info("Uninstalling Kopi...")

	binary := inst.Paths.BinaryPath()
	removed, err := removeIfPresent(binary)
	if err != nil {
		return &FilesystemError{Op: "remove binary", Path: binary, Err: err}
	}
	if removed {
		p.Info("Removed %s", binary)
	}

	if runtime.GOOS != "windows" {
		link := inst.Paths.SymlinkPath()
		removed, err := removeIfPresent(link)
		if err != nil {
			return &FilesystemError{Op: "remove symlink", Path: link, Err: err}
		}
		if removed {
			p.Info("Removed %s", link)
		}
	}

	if err := os.RemoveAll(inst.Paths.InstallRoot); err != nil {
		return &FilesystemError{Op: "remove install root", Path: inst.Paths.InstallRoot, Err: err}
	}
	log.Default().Debug("install root removed", "dir", inst.Paths.InstallRoot)

	p.Success("Kopi has been uninstalled successfully")
	return nil
}

// removeIfPresent removes path, treating "already gone" as success. Lstat
// rather than Stat so a dangling symlink is still found and removed.
func removeIfPresent(path string) (bool, error) {
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := os.Remove(path); err != nil {
		return false, err
	}
	return true, nil
}
