package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Acquisition strategies. Exactly one is selected per run; there is no
// fallback between them.
const (
	StrategyClone    = "clone"
	StrategyTarball  = "tarball"
	StrategyPrebuilt = "prebuilt"
)

const (
	// EnvStrategy overrides the acquisition strategy from config.toml.
	EnvStrategy = "KIPPER_STRATEGY"

	// EnvVersion overrides the toolchain version to install.
	EnvVersion = "KIPPER_VERSION"

	// EnvBaseURL overrides the download host, e.g. for mirrors or
	// GitHub Enterprise deployments.
	EnvBaseURL = "KIPPER_BASE_URL"

	// EnvAPITimeout configures the timeout for network requests.
	EnvAPITimeout = "KIPPER_API_TIMEOUT"

	// DefaultRepo is the upstream repository of the Kopi toolchain.
	DefaultRepo = "kinoite/kopi-lang"

	// DefaultBaseURL is the host that source tarballs and release
	// archives are downloaded from.
	DefaultBaseURL = "https://github.com"

	// DefaultAPITimeout is the default timeout for network requests.
	DefaultAPITimeout = 30 * time.Second
)

// Config is the run configuration: which acquisition strategy to use and
// where to fetch the toolchain from. Loaded from <install root>/config.toml
// when present, with environment variables taking precedence. The zero
// file (or no file at all) yields the defaults.
type Config struct {
	// Strategy selects how the toolchain is acquired: "clone" (fetch
	// source via git and compile), "tarball" (download a source archive
	// and compile), or "prebuilt" (download a release archive for this
	// platform). Default "clone".
	Strategy string `toml:"strategy"`

	// Version is the toolchain version to install: "latest" or an exact
	// semantic version like "0.3.1". Default "latest".
	Version string `toml:"version"`

	// Repo is the upstream "owner/name" repository. Default
	// "kinoite/kopi-lang".
	Repo string `toml:"repo"`

	// BaseURL is the download host. Default "https://github.com".
	BaseURL string `toml:"base_url"`
}

// ConfigFilePath returns the location of the optional run configuration
// file inside the install root.
func (p InstallPaths) ConfigFilePath() string {
	return filepath.Join(p.InstallRoot, "config.toml")
}

// Load reads the run configuration for the given paths. A missing
// config.toml is not an error; a malformed one, or an unknown strategy
// from any source, is a *Error.
func Load(paths InstallPaths) (*Config, error) {
	cfg := &Config{
		Strategy: StrategyClone,
		Version:  "latest",
		Repo:     DefaultRepo,
		BaseURL:  DefaultBaseURL,
	}

	file := paths.ConfigFilePath()
	if _, err := toml.DecodeFile(file, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, &Error{
			Setting: "config file",
			Reason:  fmt.Sprintf("cannot parse %s", file),
			Err:     err,
		}
	}

	// Environment variables win over the file.
	if v := os.Getenv(EnvStrategy); v != "" {
		cfg.Strategy = v
	}
	if v := os.Getenv(EnvVersion); v != "" {
		cfg.Version = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}

	cfg.Strategy = strings.ToLower(strings.TrimSpace(cfg.Strategy))
	switch cfg.Strategy {
	case StrategyClone, StrategyTarball, StrategyPrebuilt:
	default:
		return nil, &Error{
			Setting: "strategy",
			Reason:  fmt.Sprintf("unknown acquisition strategy %q", cfg.Strategy),
		}
	}

	if cfg.Version == "" {
		cfg.Version = "latest"
	}
	if cfg.Repo == "" {
		cfg.Repo = DefaultRepo
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return cfg, nil
}

// GetAPITimeout returns the configured network timeout from
// KIPPER_API_TIMEOUT. If not set or invalid, returns DefaultAPITimeout.
// Accepts duration strings like "30s", "1m", "2m30s"; values are clamped
// to [1s, 10m].
func GetAPITimeout() time.Duration {
	envValue := os.Getenv(EnvAPITimeout)
	if envValue == "" {
		return DefaultAPITimeout
	}

	duration, err := time.ParseDuration(envValue)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid %s value %q, using default %v\n",
			EnvAPITimeout, envValue, DefaultAPITimeout)
		return DefaultAPITimeout
	}

	if duration < 1*time.Second {
		fmt.Fprintf(os.Stderr, "Warning: %s too low (%v), using minimum 1s\n",
			EnvAPITimeout, duration)
		return 1 * time.Second
	}
	if duration > 10*time.Minute {
		fmt.Fprintf(os.Stderr, "Warning: %s too high (%v), using maximum 10m\n",
			EnvAPITimeout, duration)
		return 10 * time.Minute
	}

	return duration
}
