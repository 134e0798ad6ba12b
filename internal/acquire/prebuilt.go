package acquire

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/kinoite/kipper/internal/archive"
	"github.com/kinoite/kipper/internal/config"
	"github.com/kinoite/kipper/internal/platform"
	"github.com/kinoite/kipper/internal/release"
)

// Prebuilt acquires the toolchain by downloading a prebuilt release asset
// for the host target triple. No build tools are needed.
type Prebuilt struct {
	Repo     string // owner/name
	BaseURL  string // download host, https://github.com unless overridden
	Version  string // pinned version constraint, "" means latest
	Triple   platform.Triple
	Resolver *release.Resolver
	Client   *http.Client // nil means the hardened default client
}

// Name identifies the strategy.
func (s *Prebuilt) Name() string { return config.StrategyPrebuilt }

// Acquire resolves the release, downloads the asset matching the target
// triple, and unpacks it directly into the bin directory. This is the one
// strategy whose result is not a scratch path.
func (s *Prebuilt) Acquire(ctx context.Context, paths config.InstallPaths) (*Result, error) {
	rel, err := s.Resolver.Resolve(ctx, s.Repo, s.Version)
	if err != nil {
		return nil, &AcquireError{Step: "download", Err: err}
	}

	url := release.AssetURL(s.BaseURL, s.Repo, rel.Tag, s.Triple)
	archivePath := filepath.Join(paths.ScratchDir, filepath.Base(url))
	fmt.Printf("   Downloading: %s\n", url)
	if err := download(ctx, s.httpClient(), url, archivePath); err != nil {
		return nil, &AcquireError{Step: "download", Err: err}
	}

	if err := archive.Extract(archivePath, paths.BinDir, archive.Options{}); err != nil {
		return nil, &AcquireError{Step: "extract", Err: err}
	}

	binary := filepath.Join(paths.BinDir, config.BinaryName())
	if _, err := os.Stat(binary); err != nil {
		return nil, &AcquireError{
			Step: "extract",
			Err:  fmt.Errorf("release asset did not contain %s", config.BinaryName()),
		}
	}
	return &Result{BinaryPath: binary}, nil
}

func (s *Prebuilt) httpClient() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return newDownloadHTTPClient()
}
