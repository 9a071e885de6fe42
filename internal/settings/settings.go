// Package settings provides user configuration for orbit.
// Settings are stored in ~/.orbit/config.toml and modified via the
// `orbit config` command.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/orbit-updates/orbit/internal/build"
	"github.com/orbit-updates/orbit/internal/config"
)

// ChannelStatus is the user's update channel preference. It bounds
// which channels the strategy evaluator may propose: a release user
// never sees eap builds, an eap user sees everything.
type ChannelStatus string

const (
	// StatusRelease restricts checks to stable builds.
	StatusRelease ChannelStatus = "release"
	// StatusBeta additionally allows beta and release-candidate builds.
	StatusBeta ChannelStatus = "beta"
	// StatusEAP allows every channel including early-access builds.
	StatusEAP ChannelStatus = "eap"
)

// rank orders channel statuses from most to least stable.
func (s ChannelStatus) rank() int {
	switch s {
	case StatusRelease:
		return 0
	case StatusBeta:
		return 1
	case StatusEAP:
		return 2
	default:
		return -1
	}
}

// Allows reports whether a channel with the given status is visible
// under this preference.
func (s ChannelStatus) Allows(other ChannelStatus) bool {
	return other.rank() >= 0 && other.rank() <= s.rank()
}

// ParseChannelStatus validates a channel status string.
func ParseChannelStatus(v string) (ChannelStatus, error) {
	switch ChannelStatus(strings.ToLower(v)) {
	case StatusRelease:
		return StatusRelease, nil
	case StatusBeta:
		return StatusBeta, nil
	case StatusEAP:
		return StatusEAP, nil
	default:
		return "", fmt.Errorf("invalid channel status %q: must be release, beta, or eap", v)
	}
}

// DefaultPlatformURL is where the update descriptor is fetched from.
const DefaultPlatformURL = "https://updates.orbit.dev/updates.xml"

// DefaultInterval is the default delay between scheduled checks.
const DefaultInterval = 4 * time.Hour

// Settings represents user-configurable settings.
type Settings struct {
	// Channel is the update channel preference (release, beta, eap).
	Channel string `toml:"channel"`

	// Build is the locally installed platform build number
	// (e.g. "OB-145.970").
	Build string `toml:"build"`

	// SelectedChannel pins the user's own channel by id. Empty means
	// the channel matching the preference with the newest build.
	SelectedChannel string `toml:"selected_channel"`

	// SecureOnly forbids plain-HTTP endpoints. Default is true;
	// the descriptor and repositories are fetched over HTTPS unless
	// the user explicitly opts out.
	SecureOnly bool `toml:"secure_only"`

	// Interval is the delay between scheduled checks, as a duration
	// string ("4h", "30m").
	Interval string `toml:"interval"`

	// PlatformURL overrides the update descriptor location.
	PlatformURL string `toml:"platform_url"`

	// PluginHosts lists plugin repository endpoints in query order.
	// The first host is the primary repository; a failure there aborts
	// the plugin scan. The rest are optional.
	PluginHosts []string `toml:"plugin_hosts"`

	// Telemetry enables or disables anonymous usage statistics.
	// Default is true (enabled).
	Telemetry bool `toml:"telemetry"`
}

// Default returns Settings with default values.
func Default() *Settings {
	return &Settings{
		Channel:     string(StatusRelease),
		SecureOnly:  true,
		Interval:    DefaultInterval.String(),
		PlatformURL: DefaultPlatformURL,
		PluginHosts: nil,
		Telemetry:   true,
	}
}

// Load reads the config file and returns the settings.
// Returns defaults if the file doesn't exist; errors only on
// unreadable or unparsable files.
func Load() (*Settings, error) {
	cfg, err := config.DefaultConfig()
	if err != nil {
		return Default(), nil
	}
	return LoadFrom(cfg.ConfigFile)
}

// LoadFrom reads settings from a specific file path.
func LoadFrom(path string) (*Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if _, err := toml.Decode(string(data), s); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return s, nil
}

// Save writes the settings to the config file.
func (s *Settings) Save() error {
	cfg, err := config.DefaultConfig()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return s.SaveTo(cfg.ConfigFile)
}

// SaveTo writes settings to a specific file path.
func (s *Settings) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ChannelStatus returns the parsed channel preference, falling back
// to release on an invalid stored value.
func (s *Settings) ChannelStatus() ChannelStatus {
	status, err := ParseChannelStatus(s.Channel)
	if err != nil {
		return StatusRelease
	}
	return status
}

// CheckInterval returns the parsed scheduled-check interval, falling
// back to DefaultInterval on an invalid stored value.
func (s *Settings) CheckInterval() time.Duration {
	d, err := time.ParseDuration(s.Interval)
	if err != nil || d <= 0 {
		return DefaultInterval
	}
	return d
}

// Get returns the value of a config key as a string.
// Returns empty string and false if the key doesn't exist.
func (s *Settings) Get(key string) (string, bool) {
	switch strings.ToLower(key) {
	case "channel":
		return s.Channel, true
	case "build":
		return s.Build, true
	case "selected_channel":
		return s.SelectedChannel, true
	case "secure_only":
		return strconv.FormatBool(s.SecureOnly), true
	case "interval":
		return s.Interval, true
	case "platform_url":
		return s.PlatformURL, true
	case "plugin_hosts":
		return strings.Join(s.PluginHosts, ","), true
	case "telemetry":
		return strconv.FormatBool(s.Telemetry), true
	default:
		return "", false
	}
}

// Set updates a config value from a string.
// Returns an error if the key doesn't exist or the value is invalid.
func (s *Settings) Set(key, value string) error {
	switch strings.ToLower(key) {
	case "channel":
		status, err := ParseChannelStatus(value)
		if err != nil {
			return err
		}
		s.Channel = string(status)
		return nil
	case "build":
		if _, err := build.Parse(value); err != nil {
			return fmt.Errorf("invalid value for build: %w", err)
		}
		s.Build = value
		return nil
	case "selected_channel":
		s.SelectedChannel = value
		return nil
	case "secure_only":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for secure_only: must be true or false")
		}
		s.SecureOnly = b
		return nil
	case "interval":
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid value for interval: must be a positive duration like 4h or 30m")
		}
		s.Interval = value
		return nil
	case "platform_url":
		if !strings.HasPrefix(value, "https://") && !strings.HasPrefix(value, "http://") {
			return fmt.Errorf("invalid value for platform_url: must be an http(s) URL")
		}
		s.PlatformURL = value
		return nil
	case "plugin_hosts":
		var hosts []string
		for _, h := range strings.Split(value, ",") {
			h = strings.TrimSpace(h)
			if h != "" {
				hosts = append(hosts, h)
			}
		}
		s.PluginHosts = hosts
		return nil
	case "telemetry":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for telemetry: must be true or false")
		}
		s.Telemetry = b
		return nil
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}

// AvailableKeys returns all configurable keys with descriptions.
func AvailableKeys() map[string]string {
	return map[string]string{
		"channel":          "Update channel preference: release, beta, or eap",
		"build":            "Locally installed platform build number",
		"selected_channel": "Pinned update channel id (empty selects by preference)",
		"secure_only":      "Require HTTPS for all endpoints (true/false)",
		"interval":         "Delay between scheduled checks (e.g. 4h, 30m)",
		"platform_url":     "Update descriptor URL",
		"plugin_hosts":     "Comma-separated plugin repository URLs; first is primary",
		"telemetry":        "Enable anonymous usage statistics (true/false)",
	}
}
