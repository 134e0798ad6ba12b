package release

import (
	"fmt"
	"strings"
	"time"
)

// RateLimitError indicates the GitHub API rate limit was exceeded while
// resolving a release.
type RateLimitError struct {
	Limit         int       // Requests allowed per window
	Remaining     int       // Requests left in the current window
	ResetTime     time.Time // When the limit resets
	Authenticated bool      // Whether the request carried a token
	Err           error     // Underlying error
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	used := e.Limit - e.Remaining
	auth := "unauthenticated"
	if e.Authenticated {
		auth = "authenticated"
	}
	return fmt.Sprintf("GitHub API rate limit exceeded (%d/%d requests used, %s)", used, e.Limit, auth)
}

// Unwrap returns the underlying error.
func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// Suggestion returns actionable steps for the user.
func (e *RateLimitError) Suggestion() string {
	minutes := int(time.Until(e.ResetTime).Minutes())
	if minutes < 1 {
		minutes = 1
	}
	var b strings.Builder
	fmt.Fprintf(&b, "The rate limit resets in about %d minutes", minutes)
	if !e.Authenticated {
		b.WriteString("\nSet GITHUB_TOKEN for higher limits (5000 requests/hour)")
	}
	b.WriteString("\nOr pin a release with KIPPER_VERSION to skip the lookup")
	return b.String()
}
