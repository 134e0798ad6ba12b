package installer

import "fmt"

// FilesystemError reports a failed filesystem operation while placing,
// verifying, or removing installation artifacts. Always fatal: unlike a
// flaky network, a failing disk write will not succeed on retry without
// the user changing something.
type FilesystemError struct {
	Op   string // what was being attempted, e.g. "install binary"
	Path string // the path involved ("" when spread across several)
	Err  error
}

func (e *FilesystemError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// Suggestion returns an actionable hint for the user.
func (e *FilesystemError) Suggestion() string {
	if e.Path != "" {
		return fmt.Sprintf("Check permissions on %s and that the disk is not full, then run the installer again", e.Path)
	}
	return "Check directory permissions and free disk space, then run the installer again"
}
