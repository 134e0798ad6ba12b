package acquire

import "fmt"

// DependencyError indicates a tool the selected strategy needs (git, cargo)
// is not on PATH.
type DependencyError struct {
	Tool string
	Hint string // Installation guidance shown to the user
	Err  error
}

// Error implements the error interface.
func (e *DependencyError) Error() string {
	return fmt.Sprintf("required tool not found: %s", e.Tool)
}

// Unwrap returns the underlying error.
func (e *DependencyError) Unwrap() error {
	return e.Err
}

// Suggestion returns actionable steps for the user.
func (e *DependencyError) Suggestion() string {
	return e.Hint
}

// AcquireError reports a failed acquisition step (clone, download, extract)
// with any captured command output.
type AcquireError struct {
	Step   string // "clone", "download", "extract"
	Output string // Captured command output, if any
	Err    error
}

// Error implements the error interface.
func (e *AcquireError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
}

// Unwrap returns the underlying error.
func (e *AcquireError) Unwrap() error {
	return e.Err
}

// Suggestion returns actionable steps for the user.
func (e *AcquireError) Suggestion() string {
	switch e.Step {
	case "clone":
		return "Check your network connection and that the repository URL is reachable"
	case "download":
		return "Check your network connection, or pin a different release with KIPPER_VERSION"
	case "extract":
		return "The downloaded archive may be corrupt; delete it and retry"
	}
	return ""
}

// BuildError reports a failed cargo build of the toolchain.
type BuildError struct {
	Output string // Captured cargo output
	Err    error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("cargo build failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *BuildError) Unwrap() error {
	return e.Err
}

// Suggestion returns actionable steps for the user.
func (e *BuildError) Suggestion() string {
	return "Review the build output above; an outdated Rust toolchain is the usual cause (run rustup update)"
}
