// Package acquire obtains a kopi binary using one of three strategies:
// cloning and building from source, building from a release tarball, or
// downloading a prebuilt release asset.
package acquire

import (
	"context"
	"fmt"

	"github.com/kinoite/kipper/internal/config"
	"github.com/kinoite/kipper/internal/platform"
	"github.com/kinoite/kipper/internal/release"
)

// Result reports where a strategy left the kopi binary. The build
// strategies leave it under the scratch directory; the prebuilt strategy
// unpacks straight into the bin directory. Either way the installer owns
// placement from here.
type Result struct {
	// BinaryPath is the location of the acquired binary.
	BinaryPath string
}

// Strategy is one way of obtaining the kopi binary. The strategy is chosen
// once at configuration time; there is no fallback between variants.
type Strategy interface {
	// Name identifies the strategy in logs and error reports.
	Name() string
	// Acquire produces the binary, staging intermediate files under
	// paths.ScratchDir.
	Acquire(ctx context.Context, paths config.InstallPaths) (*Result, error)
}

// ForConfig builds the strategy selected by cfg. For the prebuilt strategy
// the host target triple is resolved here, before any network or
// filesystem activity, so unsupported platforms fail up front.
func ForConfig(cfg *config.Config) (Strategy, error) {
	switch cfg.Strategy {
	case config.StrategyClone:
		return &CloneBuild{
			RepoURL: release.CloneURL(cfg.BaseURL, cfg.Repo),
		}, nil
	case config.StrategyTarball:
		return &TarballBuild{
			Repo:     cfg.Repo,
			BaseURL:  cfg.BaseURL,
			Version:  cfg.Version,
			Resolver: release.NewResolver(),
		}, nil
	case config.StrategyPrebuilt:
		triple, err := platform.Host()
		if err != nil {
			return nil, err
		}
		return &Prebuilt{
			Repo:     cfg.Repo,
			BaseURL:  cfg.BaseURL,
			Version:  cfg.Version,
			Triple:   triple,
			Resolver: release.NewResolver(),
		}, nil
	}
	return nil, &config.Error{
		Setting: "strategy",
		Reason:  fmt.Sprintf("unknown strategy %q", cfg.Strategy),
	}
}
