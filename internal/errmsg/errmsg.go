// Package errmsg formats installer errors for the terminal: the message
// itself, likely causes, any captured subprocess output, and actionable
// suggestions pulled from the typed errors.
package errmsg

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/kinoite/kipper/internal/acquire"
	"github.com/kinoite/kipper/internal/installer"
	"github.com/kinoite/kipper/internal/release"
)

// buildOutputTail limits how much captured compiler output is replayed;
// cargo puts the actual error at the end.
const buildOutputTail = 20

// suggester is implemented by the typed errors across the codebase that
// carry an actionable hint.
type suggester interface {
	Suggestion() string
}

// Format returns err's message expanded with possible causes, captured
// tool output, and suggestions. Errors that carry no extra context come
// back unchanged.
func Format(err error) string {
	if err == nil {
		return ""
	}

	var blocks strings.Builder
	writeCauses(&blocks, err)
	writeCapturedOutput(&blocks, err)
	writeSuggestions(&blocks, err)

	if blocks.Len() == 0 {
		return err.Error()
	}
	return err.Error() + "\n" + blocks.String()
}

// Fprint writes the formatted message for err to w, ending with a
// newline.
func Fprint(w io.Writer, err error) {
	if err == nil {
		return
	}
	msg := Format(err)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(w, msg)
}

func writeCauses(sb *strings.Builder, err error) {
	causes := causesFor(err)
	if len(causes) == 0 {
		return
	}
	sb.WriteString("\nPossible causes:\n")
	for _, cause := range causes {
		sb.WriteString("  - ")
		sb.WriteString(cause)
		sb.WriteString("\n")
	}
}

func causesFor(err error) []string {
	var (
		depErr *acquire.DependencyError
		aqErr  *acquire.AcquireError
		bldErr *acquire.BuildError
		rlErr  *release.RateLimitError
		fsErr  *installer.FilesystemError
		netErr net.Error
	)

	switch {
	case errors.As(err, &depErr):
		return []string{
			fmt.Sprintf("%s is not installed", depErr.Tool),
			fmt.Sprintf("%s is installed but not on PATH", depErr.Tool),
		}
	case errors.As(err, &rlErr):
		return []string{
			"Too many requests to the GitHub API from this address",
			"Unauthenticated requests share a low hourly limit",
		}
	case errors.As(err, &bldErr):
		return []string{
			"The Kopi source does not compile with the installed Rust toolchain",
			"A build dependency is missing",
		}
	case errors.As(err, &aqErr):
		switch aqErr.Step {
		case "clone":
			return []string{
				"Network connectivity issue",
				"The repository URL is wrong or unreachable",
			}
		case "download":
			return []string{
				"Network connectivity issue",
				"No release or asset exists for the requested version",
			}
		case "extract":
			return []string{
				"The downloaded archive is corrupt or truncated",
			}
		}
		return nil
	case errors.As(err, &fsErr):
		return []string{
			"Insufficient permissions on the installation directories",
			"The disk is full",
		}
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			return []string{
				"Request timed out",
				"Slow or unstable network connection",
				"Firewall or proxy blocking the connection",
			}
		}
		return []string{
			"Network connectivity issue",
			"DNS resolution failure",
			"Firewall or proxy blocking the connection",
		}
	case isNetworkError(err.Error()):
		return []string{
			"Network connectivity issue",
			"DNS resolution failure",
			"Service temporarily unavailable",
		}
	case isPermissionError(err.Error()):
		return []string{
			"Insufficient permissions on the target directory",
			"File or directory owned by a different user",
		}
	}
	return nil
}

// writeCapturedOutput replays subprocess output carried inside
// acquisition and build errors, indented under its own heading.
func writeCapturedOutput(sb *strings.Builder, err error) {
	var (
		aqErr  *acquire.AcquireError
		bldErr *acquire.BuildError
		output string
	)
	switch {
	case errors.As(err, &bldErr):
		output = tail(bldErr.Output, buildOutputTail)
	case errors.As(err, &aqErr):
		output = strings.TrimSpace(aqErr.Output)
	}
	if output == "" {
		return
	}
	sb.WriteString("\nOutput:\n")
	for _, line := range strings.Split(output, "\n") {
		sb.WriteString("  ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}

func writeSuggestions(sb *strings.Builder, err error) {
	var s suggester
	if !errors.As(err, &s) {
		return
	}
	text := s.Suggestion()
	if text == "" {
		return
	}
	sb.WriteString("\nSuggestions:\n")
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sb.WriteString("  - ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}

// tail returns the last n lines of s.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}

// isNetworkError checks if the error message indicates a network issue.
func isNetworkError(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "connection reset") ||
		strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "network is unreachable") ||
		strings.Contains(lower, "dial tcp") ||
		strings.Contains(lower, "timeout")
}

// isPermissionError checks if the error message indicates a permission
// issue.
func isPermissionError(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "access denied") ||
		strings.Contains(lower, "operation not permitted")
}
