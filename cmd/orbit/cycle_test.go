package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/orbit-updates/orbit/internal/build"
	"github.com/orbit-updates/orbit/internal/config"
	"github.com/orbit-updates/orbit/internal/log"
	"github.com/orbit-updates/orbit/internal/notify"
	"github.com/orbit-updates/orbit/internal/settings"
	"github.com/orbit-updates/orbit/internal/updates"
)

const testDescriptor = `<?xml version="1.0" encoding="UTF-8"?>
<updates>
  <product name="Orbit Platform" code="OB">
    <channel id="stable" name="Stable Releases" status="release" url="https://orbit.dev/download">
      <build number="145.970" version="2.1.3"/>
    </channel>
  </product>
</updates>`

const testPluginList = `<plugins>
  <plugin id="org.example.navigator" url="https://plugins.example.com/navigator-2.1.0.zip">
    <name>Navigator</name>
    <version>2.1.0</version>
  </plugin>
</plugins>`

// testEnv builds a checkEnv against local httptest servers with the
// orbit home redirected into a temp directory.
func testEnv(t *testing.T, localBuild string) *checkEnv {
	t.Helper()
	t.Setenv("ORBIT_NO_TELEMETRY", "1")

	home := t.TempDir()
	t.Setenv(config.EnvOrbitHome, home)
	cfg, err := config.DefaultConfig()
	if err != nil {
		t.Fatal(err)
	}

	descriptors := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testDescriptor)
	}))
	t.Cleanup(descriptors.Close)

	repo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testPluginList)
	}))
	t.Cleanup(repo.Close)

	if err := os.WriteFile(cfg.PluginsFile, []byte("org.example.navigator 1.0.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := settings.Default()
	s.Build = localBuild
	s.PlatformURL = descriptors.URL
	s.PluginHosts = []string{repo.URL}

	return &checkEnv{
		cfg:      cfg,
		settings: s,
		build:    build.MustParse(localBuild),
		client:   descriptors.Client(),
		logger:   log.NewNoop(),
	}
}

func TestRunCycleManualFindsUpdates(t *testing.T) {
	env := testEnv(t, "145.597")

	out := runCycle(context.Background(), env, notify.NewState(), notify.TriggerManual)

	if out.Result.State != updates.Loaded {
		t.Fatalf("state = %v, want Loaded (err: %v)", out.Result.State, out.Result.Err)
	}
	if out.Result.UpdatedChannel == nil {
		t.Error("expected a newer build in the stable channel")
	}
	if out.PluginErr != nil {
		t.Fatalf("plugin scan failed: %v", out.PluginErr)
	}
	if len(out.PluginUpdates) != 1 || out.PluginUpdates[0].Version != "2.1.0" {
		t.Errorf("expected the navigator update, got %+v", out.PluginUpdates)
	}
	if len(out.Decisions) != 1 || out.Decisions[0].Action != notify.ActionDialog {
		t.Errorf("manual check should produce one dialog, got %+v", out.Decisions)
	}
}

func TestRunCycleScheduledDedupsAcrossCycles(t *testing.T) {
	env := testEnv(t, "145.597")
	state := notify.NewState()

	first := runCycle(context.Background(), env, state, notify.TriggerScheduled)
	if len(first.Decisions) == 0 {
		t.Fatal("first scheduled cycle should notify")
	}

	second := runCycle(context.Background(), env, state, notify.TriggerScheduled)
	if len(second.Decisions) != 0 {
		t.Fatalf("second scheduled cycle re-notified: %+v", second.Decisions)
	}
}

func TestRunCycleUpToDate(t *testing.T) {
	env := testEnv(t, "145.970")
	// The remote plugin version must not beat the installed one.
	if err := os.WriteFile(env.cfg.PluginsFile, []byte("org.example.navigator 2.1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := runCycle(context.Background(), env, notify.NewState(), notify.TriggerScheduled)
	if out.Result.UpdateAvailable() {
		t.Errorf("nothing should be newer than the local build: %+v", out.Result)
	}
	if len(out.PluginUpdates) != 0 {
		t.Errorf("expected no plugin updates, got %+v", out.PluginUpdates)
	}
	if len(out.Decisions) != 0 {
		t.Errorf("an empty scheduled cycle should stay silent, got %+v", out.Decisions)
	}
}

func TestRunCycleIgnoresForeignProducts(t *testing.T) {
	env := testEnv(t, "OB-145.970")

	// A descriptor carrying a second product whose builds are far
	// ahead; its channels must never be offered to an OB user.
	multi := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>
<updates>
  <product name="Orbit Platform" code="OB">
    <channel id="stable" name="Stable Releases" status="release">
      <build number="145.970" version="2.1.3"/>
    </channel>
  </product>
  <product name="Xenon" code="XX">
    <channel id="xx-stable" name="Xenon Stable" status="release">
      <build number="900.1" version="9.0"/>
    </channel>
  </product>
</updates>`)
	}))
	t.Cleanup(multi.Close)
	env.settings.PlatformURL = multi.URL

	out := runCycle(context.Background(), env, notify.NewState(), notify.TriggerScheduled)
	if out.Result.State != updates.Loaded {
		t.Fatalf("state = %v, want Loaded (err: %v)", out.Result.State, out.Result.Err)
	}
	if out.Result.UpdateAvailable() {
		t.Errorf("another product's channel leaked into the result: %+v", out.Result)
	}
}

func TestRunCycleConnectionError(t *testing.T) {
	env := testEnv(t, "145.597")
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	down.Close()
	env.settings.PlatformURL = down.URL

	out := runCycle(context.Background(), env, notify.NewState(), notify.TriggerScheduled)
	if out.Result.State != updates.ConnectionError {
		t.Fatalf("state = %v, want ConnectionError", out.Result.State)
	}
	if out.Result.Err == nil {
		t.Error("the original error must be preserved for logging")
	}
	if len(out.Decisions) != 0 {
		t.Errorf("a failed scheduled check must stay silent, got %+v", out.Decisions)
	}
}

func TestNewCheckEnvRequiresBuild(t *testing.T) {
	t.Setenv(config.EnvOrbitHome, t.TempDir())

	if _, err := newCheckEnv(""); err == nil {
		t.Fatal("expected an error without a configured build")
	}
	if _, err := newCheckEnv("not a build"); err == nil {
		t.Fatal("expected an error for a malformed build override")
	}
}

func TestTestEnvPendingRemovalSkipped(t *testing.T) {
	env := testEnv(t, "145.597")
	if err := os.WriteFile(env.cfg.PendingFile, []byte("org.example.navigator\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	available, incompatible, err := runPluginScan(context.Background(), env)
	if err != nil {
		t.Fatalf("runPluginScan failed: %v", err)
	}
	if len(available) != 0 || len(incompatible) != 0 {
		t.Errorf("a plugin pending removal should be skipped, got %+v %+v", available, incompatible)
	}

	// The pending file only affects the scan; the plugins file stays.
	if _, err := os.Stat(filepath.Join(env.cfg.HomeDir, "plugins.txt")); err != nil {
		t.Errorf("plugins file missing: %v", err)
	}
}
