// Package config provides filesystem layout and environment-derived
// settings for orbit.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// EnvOrbitHome is the environment variable to override the default
	// orbit home directory.
	EnvOrbitHome = "ORBIT_HOME"

	// EnvAPITimeout is the environment variable to configure network
	// request timeouts.
	EnvAPITimeout = "ORBIT_API_TIMEOUT"

	// DefaultAPITimeout is the default timeout for network requests.
	DefaultAPITimeout = 30 * time.Second
)

// DefaultHomeOverride allows tests to redirect the home directory
// without touching the environment.
var DefaultHomeOverride = ""

// Config holds the filesystem layout for orbit state.
type Config struct {
	HomeDir       string // $ORBIT_HOME
	CacheDir      string // $ORBIT_HOME/cache
	PatchCacheDir string // $ORBIT_HOME/cache/patches
	KeyCacheDir   string // $ORBIT_HOME/cache/keys (PGP public keys)
	ConfigFile    string // $ORBIT_HOME/config.toml
	PluginsFile   string // $ORBIT_HOME/plugins.txt (installed plugins)
	ExcludedFile  string // $ORBIT_HOME/excluded_plugins.txt
	PendingFile   string // $ORBIT_HOME/pending_removal.txt
	InstallIDFile string // $ORBIT_HOME/installation_id
	NoticeFile    string // $ORBIT_HOME/telemetry_notice_shown
}

// DefaultConfig returns the default configuration.
// The home directory resolves from ORBIT_HOME, then
// DefaultHomeOverride, then ~/.orbit.
func DefaultConfig() (*Config, error) {
	orbitHome := os.Getenv(EnvOrbitHome)
	if orbitHome == "" {
		orbitHome = DefaultHomeOverride
	}
	if orbitHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		orbitHome = filepath.Join(home, ".orbit")
	}

	return &Config{
		HomeDir:       orbitHome,
		CacheDir:      filepath.Join(orbitHome, "cache"),
		PatchCacheDir: filepath.Join(orbitHome, "cache", "patches"),
		KeyCacheDir:   filepath.Join(orbitHome, "cache", "keys"),
		ConfigFile:    filepath.Join(orbitHome, "config.toml"),
		PluginsFile:   filepath.Join(orbitHome, "plugins.txt"),
		ExcludedFile:  filepath.Join(orbitHome, "excluded_plugins.txt"),
		PendingFile:   filepath.Join(orbitHome, "pending_removal.txt"),
		InstallIDFile: filepath.Join(orbitHome, "installation_id"),
		NoticeFile:    filepath.Join(orbitHome, "telemetry_notice_shown"),
	}, nil
}

// EnsureDirectories creates all directories orbit writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.HomeDir, c.CacheDir, c.PatchCacheDir, c.KeyCacheDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetAPITimeout returns the configured network timeout from
// ORBIT_API_TIMEOUT. If unset or invalid, returns DefaultAPITimeout.
// Accepts duration strings like "30s", "1m", "2m30s".
func GetAPITimeout() time.Duration {
	raw := os.Getenv(EnvAPITimeout)
	if raw == "" {
		return DefaultAPITimeout
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid %s value %q, using default %v\n",
			EnvAPITimeout, raw, DefaultAPITimeout)
		return DefaultAPITimeout
	}

	// Clamp to a sane range.
	const minTimeout, maxTimeout = 1 * time.Second, 10 * time.Minute
	switch {
	case d < minTimeout:
		fmt.Fprintf(os.Stderr, "Warning: %s too low (%v), using minimum %v\n",
			EnvAPITimeout, d, minTimeout)
		return minTimeout
	case d > maxTimeout:
		fmt.Fprintf(os.Stderr, "Warning: %s too high (%v), using maximum %v\n",
			EnvAPITimeout, d, maxTimeout)
		return maxTimeout
	}
	return d
}
