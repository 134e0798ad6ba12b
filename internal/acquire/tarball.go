package acquire

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/kinoite/kipper/internal/archive"
	"github.com/kinoite/kipper/internal/config"
	"github.com/kinoite/kipper/internal/release"
)

// TarballBuild acquires the toolchain by downloading a tagged source
// tarball and building it. It needs cargo on PATH but not git.
type TarballBuild struct {
	Repo     string // owner/name
	BaseURL  string // download host, https://github.com unless overridden
	Version  string // pinned version constraint, "" means latest
	Resolver *release.Resolver
	Client   *http.Client // nil means the hardened default client
}

// Name identifies the strategy.
func (s *TarballBuild) Name() string { return config.StrategyTarball }

// Acquire resolves the release, downloads its source tarball into the
// scratch directory, unpacks it, and runs a release build.
func (s *TarballBuild) Acquire(ctx context.Context, paths config.InstallPaths) (*Result, error) {
	if err := requireTool("cargo"); err != nil {
		return nil, err
	}

	rel, err := s.Resolver.Resolve(ctx, s.Repo, s.Version)
	if err != nil {
		return nil, &AcquireError{Step: "download", Err: err}
	}

	url := release.SourceTarballURL(s.BaseURL, s.Repo, rel.Tag)
	archivePath := filepath.Join(paths.ScratchDir, filepath.Base(url))
	fmt.Printf("   Downloading: %s\n", url)
	if err := download(ctx, s.httpClient(), url, archivePath); err != nil {
		return nil, &AcquireError{Step: "download", Err: err}
	}

	// GitHub source tarballs wrap everything in "<repo>-<version>/".
	srcDir := filepath.Join(paths.ScratchDir, "src")
	if err := archive.Extract(archivePath, srcDir, archive.Options{StripComponents: 1}); err != nil {
		return nil, &AcquireError{Step: "extract", Err: err}
	}

	binary, err := buildRelease(ctx, srcDir)
	if err != nil {
		return nil, err
	}
	return &Result{BinaryPath: binary}, nil
}

func (s *TarballBuild) httpClient() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return newDownloadHTTPClient()
}
