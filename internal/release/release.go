// Package release resolves Kopi releases from GitHub and computes the
// download URLs derived from them.
package release

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/kinoite/kipper/internal/platform"
)

// Release identifies a resolved Kopi release.
type Release struct {
	Tag     string // Tag as published (e.g. "v0.4.2")
	Version string // Normalized version (e.g. "0.4.2")
}

// Resolver answers "which release should be installed" questions against
// the GitHub API.
type Resolver struct {
	gh            *github.Client
	authenticated bool
}

type resolverOptions struct {
	httpClient  *http.Client
	apiEndpoint string
}

// Option adjusts resolver construction.
type Option func(*resolverOptions)

// WithHTTPClient substitutes the HTTP client used for GitHub API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *resolverOptions) { o.httpClient = hc }
}

// WithAPIEndpoint points the resolver at an alternate GitHub API endpoint.
func WithAPIEndpoint(endpoint string) Option {
	return func(o *resolverOptions) { o.apiEndpoint = endpoint }
}

// NewResolver creates a release resolver. When GITHUB_TOKEN is set it is
// used for authenticated requests, which raises the API rate limit.
func NewResolver(opts ...Option) *Resolver {
	var o resolverOptions
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	authenticated := false
	if httpClient == nil {
		if token := os.Getenv("GITHUB_TOKEN"); token != "" {
			ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
			httpClient = oauth2.NewClient(context.Background(), ts)
			authenticated = true
		}
	}

	gh := github.NewClient(httpClient)
	if o.apiEndpoint != "" {
		if u, err := url.Parse(strings.TrimSuffix(o.apiEndpoint, "/") + "/"); err == nil {
			gh.BaseURL = u
		}
	}

	return &Resolver{gh: gh, authenticated: authenticated}
}

// Resolve turns a version constraint into a concrete release. An empty
// constraint or "latest" queries the repository's latest release; anything
// else must be a valid semantic version (with or without the "v" prefix)
// and is used verbatim without a network round trip.
func (r *Resolver) Resolve(ctx context.Context, repo, constraint string) (*Release, error) {
	if constraint == "" || constraint == "latest" {
		return r.Latest(ctx, repo)
	}

	v, err := semver.NewVersion(strings.TrimPrefix(constraint, "v"))
	if err != nil {
		return nil, fmt.Errorf("invalid pinned version %q: %w", constraint, err)
	}
	return &Release{Tag: "v" + v.Original(), Version: v.Original()}, nil
}

// Latest resolves the most recent release of repo. Repositories that tag
// versions without publishing releases return 404 from the releases API,
// so that case falls back to scanning tags.
func (r *Resolver) Latest(ctx context.Context, repo string) (*Release, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	rel, _, err := r.gh.Repositories.GetLatestRelease(ctx, owner, name)
	if err != nil {
		if rlErr := r.wrapRateLimitError(err); rlErr != nil {
			return nil, rlErr
		}
		if isNetworkUnavailable(err) {
			return nil, fmt.Errorf("network unavailable: %w", err)
		}
		if strings.Contains(err.Error(), "404") {
			return r.latestFromTags(ctx, owner, name)
		}
		return nil, fmt.Errorf("failed to get latest release: %w", err)
	}

	tag := rel.GetTagName()
	if tag == "" {
		return nil, fmt.Errorf("latest release of %s has no tag", repo)
	}
	return &Release{Tag: tag, Version: strings.TrimPrefix(tag, "v")}, nil
}

// Tag pages are fetched at 100 per page; three pages is far beyond what
// the toolchain repository accumulates between releases.
const tagPageLimit = 3

func (r *Resolver) latestFromTags(ctx context.Context, owner, name string) (*Release, error) {
	opts := &github.ListOptions{PerPage: 100}
	var bestTag string
	var best *semver.Version

	for page := 1; page <= tagPageLimit; page++ {
		opts.Page = page
		tags, _, err := r.gh.Repositories.ListTags(ctx, owner, name, opts)
		if err != nil {
			if rlErr := r.wrapRateLimitError(err); rlErr != nil {
				return nil, rlErr
			}
			return nil, fmt.Errorf("failed to list tags: %w", err)
		}
		if len(tags) == 0 {
			break
		}

		for _, tag := range tags {
			tagName := tag.GetName()
			v, err := semver.NewVersion(strings.TrimPrefix(tagName, "v"))
			if err != nil || v.Prerelease() != "" {
				continue
			}
			if best == nil || v.GreaterThan(best) {
				best = v
				bestTag = tagName
			}
		}
	}

	if bestTag == "" {
		return nil, fmt.Errorf("no release tags found for %s/%s", owner, name)
	}
	return &Release{Tag: bestTag, Version: best.Original()}, nil
}

// wrapRateLimitError converts a go-github rate limit error into a
// RateLimitError with enough detail to advise the user. Returns nil when
// the error is anything else.
func (r *Resolver) wrapRateLimitError(err error) *RateLimitError {
	var rlErr *github.RateLimitError
	if errors.As(err, &rlErr) {
		return &RateLimitError{
			Limit:         rlErr.Rate.Limit,
			Remaining:     rlErr.Rate.Remaining,
			ResetTime:     rlErr.Rate.Reset.Time,
			Authenticated: r.authenticated,
			Err:           err,
		}
	}
	return nil
}

func isNetworkUnavailable(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "network is unreachable") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "dial tcp")
}

func splitRepo(repo string) (owner, name string, err error) {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo format: %s (expected owner/repo)", repo)
	}
	return parts[0], parts[1], nil
}

// SourceTarballURL returns the source archive URL for a tagged release.
func SourceTarballURL(base, repo, tag string) string {
	return fmt.Sprintf("%s/%s/archive/refs/tags/%s.tar.gz", strings.TrimRight(base, "/"), repo, tag)
}

// AssetURL returns the prebuilt release asset URL for a tag and target triple.
func AssetURL(base, repo, tag string, triple platform.Triple) string {
	return fmt.Sprintf("%s/%s/releases/download/%s/kopi-%s-%s.tar.gz",
		strings.TrimRight(base, "/"), repo, tag, tag, triple)
}

// CloneURL returns the git clone URL for repo.
func CloneURL(base, repo string) string {
	return fmt.Sprintf("%s/%s.git", strings.TrimRight(base, "/"), repo)
}
