package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	s := Default()

	if s.Channel != "release" {
		t.Errorf("Channel = %q, want release", s.Channel)
	}
	if !s.SecureOnly {
		t.Error("SecureOnly should default to true")
	}
	if !s.Telemetry {
		t.Error("Telemetry should default to true")
	}
	if s.CheckInterval() != DefaultInterval {
		t.Errorf("CheckInterval = %v, want %v", s.CheckInterval(), DefaultInterval)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	s, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if s.Channel != "release" {
		t.Errorf("missing file should yield defaults, got channel %q", s.Channel)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	s := Default()
	s.Channel = "eap"
	s.SecureOnly = false
	s.Interval = "30m"
	s.PluginHosts = []string{"https://plugins.example.com", "https://mirror.example.com"}

	if err := s.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Channel != "eap" {
		t.Errorf("Channel = %q, want eap", loaded.Channel)
	}
	if loaded.SecureOnly {
		t.Error("SecureOnly should round-trip as false")
	}
	if loaded.CheckInterval() != 30*time.Minute {
		t.Errorf("CheckInterval = %v, want 30m", loaded.CheckInterval())
	}
	if len(loaded.PluginHosts) != 2 {
		t.Errorf("PluginHosts = %v", loaded.PluginHosts)
	}
}

func TestLoadFromMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("channel = [broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error for malformed TOML")
	}
}

func TestSetValidation(t *testing.T) {
	s := Default()

	if err := s.Set("channel", "beta"); err != nil {
		t.Errorf("Set(channel, beta): %v", err)
	}
	if err := s.Set("channel", "nightly"); err == nil {
		t.Error("Set(channel, nightly) should fail")
	}
	if err := s.Set("interval", "-5m"); err == nil {
		t.Error("Set(interval, -5m) should fail")
	}
	if err := s.Set("platform_url", "ftp://example.com"); err == nil {
		t.Error("Set(platform_url, ftp://...) should fail")
	}
	if err := s.Set("no_such_key", "x"); err == nil {
		t.Error("Set on unknown key should fail")
	}

	if err := s.Set("plugin_hosts", "https://a.example, https://b.example ,"); err != nil {
		t.Errorf("Set(plugin_hosts): %v", err)
	}
	if got, _ := s.Get("plugin_hosts"); got != "https://a.example,https://b.example" {
		t.Errorf("plugin_hosts = %q", got)
	}
}

func TestGetUnknownKey(t *testing.T) {
	if _, ok := Default().Get("bogus"); ok {
		t.Error("Get(bogus) should report missing key")
	}
}

func TestChannelStatusAllows(t *testing.T) {
	tests := []struct {
		pref, channel ChannelStatus
		want          bool
	}{
		{StatusRelease, StatusRelease, true},
		{StatusRelease, StatusBeta, false},
		{StatusRelease, StatusEAP, false},
		{StatusBeta, StatusRelease, true},
		{StatusBeta, StatusBeta, true},
		{StatusBeta, StatusEAP, false},
		{StatusEAP, StatusEAP, true},
		{StatusEAP, StatusRelease, true},
		{StatusEAP, ChannelStatus("nightly"), false},
	}

	for _, tt := range tests {
		if got := tt.pref.Allows(tt.channel); got != tt.want {
			t.Errorf("%s.Allows(%s) = %v, want %v", tt.pref, tt.channel, got, tt.want)
		}
	}
}

func TestInstallationIDStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "installation_id")

	first, err := installationIDAt(path)
	if err != nil {
		t.Fatalf("installationIDAt: %v", err)
	}
	second, err := installationIDAt(path)
	if err != nil {
		t.Fatalf("installationIDAt (second): %v", err)
	}
	if first != second {
		t.Errorf("installation id not stable: %q then %q", first, second)
	}
}

func TestInstallationIDRegeneratesCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "installation_id")
	if err := os.WriteFile(path, []byte("not-a-uuid\n"), 0644); err != nil {
		t.Fatal(err)
	}

	id, err := installationIDAt(path)
	if err != nil {
		t.Fatalf("installationIDAt: %v", err)
	}
	if id == "not-a-uuid" {
		t.Error("corrupt id should have been regenerated")
	}
}
