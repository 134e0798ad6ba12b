// Package platform identifies the host platform for release-artifact
// selection.
//
// Prebuilt Kopi archives are published per target triple (the Rust
// toolchain's naming, since that is what upstream builds with). Only the
// pairs listed here have published artifacts; anything else must build
// from source.
package platform

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// Triple is a target triple identifying an (OS, architecture) pair with a
// published prebuilt artifact, e.g. "x86_64-unknown-linux-gnu".
type Triple string

// triples maps GOOS/GOARCH pairs to their release triples.
var triples = map[string]Triple{
	"linux/amd64":   "x86_64-unknown-linux-gnu",
	"linux/arm64":   "aarch64-unknown-linux-gnu",
	"darwin/amd64":  "x86_64-apple-darwin",
	"darwin/arm64":  "aarch64-apple-darwin",
	"windows/amd64": "x86_64-pc-windows-msvc",
}

// UnsupportedError reports an (OS, architecture) pair with no published
// prebuilt artifact. Fatal for the prebuilt strategy; raised before any
// network or filesystem activity.
type UnsupportedError struct {
	OS   string
	Arch string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported platform %s/%s: no prebuilt artifact is published for this combination", e.OS, e.Arch)
}

// Suggestion returns an actionable hint for the user.
func (e *UnsupportedError) Suggestion() string {
	return fmt.Sprintf("Supported platforms: %s. On other platforms, use the \"clone\" or \"tarball\" strategy to build from source.",
		strings.Join(supportedPairs(), ", "))
}

// Resolve returns the target triple for the given GOOS/GOARCH pair, or an
// *UnsupportedError when no artifact exists for it.
func Resolve(goos, goarch string) (Triple, error) {
	t, ok := triples[goos+"/"+goarch]
	if !ok {
		return "", &UnsupportedError{OS: goos, Arch: goarch}
	}
	return t, nil
}

// Host returns the target triple of the running platform.
func Host() (Triple, error) {
	return Resolve(runtime.GOOS, runtime.GOARCH)
}

func supportedPairs() []string {
	pairs := make([]string, 0, len(triples))
	for pair := range triples {
		pairs = append(pairs, pair)
	}
	sort.Strings(pairs)
	return pairs
}
