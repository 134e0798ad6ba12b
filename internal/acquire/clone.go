package acquire

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/kinoite/kipper/internal/config"
)

// CloneBuild acquires the toolchain by shallow-cloning the repository and
// building it from source. It needs git and cargo on PATH.
type CloneBuild struct {
	// RepoURL is the git clone URL.
	RepoURL string
}

// Name identifies the strategy.
func (s *CloneBuild) Name() string { return config.StrategyClone }

// Acquire clones the repository into the scratch directory and runs a
// release build.
func (s *CloneBuild) Acquire(ctx context.Context, paths config.InstallPaths) (*Result, error) {
	if err := requireTool("git"); err != nil {
		return nil, err
	}
	if err := requireTool("cargo"); err != nil {
		return nil, err
	}

	srcDir := filepath.Join(paths.ScratchDir, "kopi-lang")
	fmt.Printf("   Cloning: %s\n", s.RepoURL)

	// "--" stops git from treating a hostile URL as an option.
	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", "--", s.RepoURL, srcDir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, &AcquireError{Step: "clone", Output: string(output), Err: err}
	}

	binary, err := buildRelease(ctx, srcDir)
	if err != nil {
		return nil, err
	}
	return &Result{BinaryPath: binary}, nil
}
