package acquire

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/kinoite/kipper/internal/config"
	"github.com/kinoite/kipper/internal/log"
	"github.com/kinoite/kipper/internal/progress"
)

// buildRelease compiles the toolchain in sourceDir with cargo and returns
// the path to the built binary. Callers are expected to have verified that
// cargo is on PATH.
func buildRelease(ctx context.Context, sourceDir string) (string, error) {
	cargoToml := filepath.Join(sourceDir, "Cargo.toml")
	if _, err := os.Stat(cargoToml); err != nil {
		return "", &BuildError{Err: fmt.Errorf("Cargo.toml not found at %s: %w", cargoToml, err)}
	}

	log.Default().Debug("starting cargo build", "sourceDir", sourceDir)

	spin := progress.NewSpinner(os.Stdout)
	spin.Start("Compiling Kopi (cargo build --release, this can take a while)...")

	cmd := exec.CommandContext(ctx, "cargo", "build", "--release")
	cmd.Dir = sourceDir
	output, err := cmd.CombinedOutput()
	if err != nil {
		spin.StopWithMessage("Build failed.")
		return "", &BuildError{Output: string(output), Err: err}
	}
	spin.StopWithMessage("Build complete.")

	binary := filepath.Join(sourceDir, "target", "release", config.BinaryName())
	if _, err := os.Stat(binary); err != nil {
		return "", &BuildError{
			Output: string(output),
			Err:    fmt.Errorf("built binary not found at %s", binary),
		}
	}
	return binary, nil
}
