package acquire

import (
	"fmt"
	"os/exec"
)

// requireTool verifies a build dependency is on PATH before any network or
// filesystem work starts, so a missing compiler fails fast with guidance.
func requireTool(tool string) error {
	if _, err := exec.LookPath(tool); err != nil {
		return &DependencyError{Tool: tool, Hint: toolHint(tool), Err: err}
	}
	return nil
}

func toolHint(tool string) string {
	switch tool {
	case "git":
		return "Install git with your package manager (apt install git, dnf install git, brew install git)"
	case "cargo":
		return "Install Rust from https://rustup.rs/ to get cargo"
	}
	return fmt.Sprintf("Install %s and make sure it is on PATH", tool)
}
