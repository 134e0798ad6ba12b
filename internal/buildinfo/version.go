// Package buildinfo reports the installer's version string.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// version is the release version of the installer. Overridable at build
// time with -ldflags "-X github.com/kinoite/kipper/internal/buildinfo.version=...".
var version = "0.1.0"

// Version returns the version string for the current build.
//
// Release builds report the pinned version (e.g., "0.1.0"). When the
// binary was built from a checkout with uncommitted changes, a
// "+<hash>" or "+<hash>-dirty" suffix is appended so bug reports can be
// traced to the exact tree. Builds without VCS metadata report the
// pinned version alone.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version
	}
	return version + vcsSuffix(info)
}

// vcsSuffix derives a build suffix from VCS settings embedded by the Go
// toolchain. Returns "" when no revision is recorded.
func vcsSuffix(info *debug.BuildInfo) string {
	var revision string
	var modified bool

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}

	if revision == "" {
		return ""
	}
	// Standard Git short hash length.
	if len(revision) > 12 {
		revision = revision[:12]
	}

	suffix := fmt.Sprintf("+%s", revision)
	if modified {
		suffix += "-dirty"
	}
	return suffix
}
