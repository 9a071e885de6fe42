package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/orbit-updates/orbit/internal/build"
	"github.com/orbit-updates/orbit/internal/buildinfo"
	"github.com/orbit-updates/orbit/internal/config"
	"github.com/orbit-updates/orbit/internal/external"
	"github.com/orbit-updates/orbit/internal/httputil"
	"github.com/orbit-updates/orbit/internal/log"
	"github.com/orbit-updates/orbit/internal/notify"
	"github.com/orbit-updates/orbit/internal/plugins"
	"github.com/orbit-updates/orbit/internal/settings"
	"github.com/orbit-updates/orbit/internal/telemetry"
	"github.com/orbit-updates/orbit/internal/updates"
)

// checkEnv bundles everything one check cycle needs: resolved
// settings, filesystem layout, the local build, and the shared HTTP
// client.
type checkEnv struct {
	cfg      *config.Config
	settings *settings.Settings
	build    build.Number
	client   *http.Client
	logger   log.Logger
	sources  []external.Source
}

// newCheckEnv loads settings and resolves the local build number.
// buildOverride (from --build) takes precedence over the configured
// build.
func newCheckEnv(buildOverride string) (*checkEnv, error) {
	cfg, err := config.DefaultConfig()
	if err != nil {
		return nil, err
	}
	s, err := settings.Load()
	if err != nil {
		return nil, err
	}

	raw := buildOverride
	if raw == "" {
		raw = s.Build
	}
	if raw == "" {
		return nil, fmt.Errorf("no local build number configured: run 'orbit config set build <number>' or pass --build")
	}
	number, err := build.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid build number %q: %w", raw, err)
	}

	opts := httputil.DefaultOptions()
	opts.Timeout = config.GetAPITimeout()
	opts.AllowPlainHTTP = !s.SecureOnly

	return &checkEnv{
		cfg:      cfg,
		settings: s,
		build:    number,
		client:   httputil.NewSecureClient(opts),
		logger:   log.Default(),
		// The CLI watches its own releases so users hear about new
		// orbit versions alongside platform updates.
		sources: []external.Source{
			external.NewGitHubSource("orbit-updates", "orbit", "orbit", os.Getenv("GITHUB_TOKEN")),
		},
	}, nil
}

// cycleResult is everything one pipeline run produced, handed to the
// command for rendering.
type cycleResult struct {
	Result        updates.CheckResult
	PluginUpdates []*plugins.Downloader
	Incompatible  []string
	PluginErr     error
	External      []external.Update
	Decisions     []notify.Decision
}

// runCycle executes the full pipeline once: platform check, plugin
// scan, external sources, presentation, telemetry. Plugin scan
// failures do not abort the platform result; they are carried
// separately in PluginErr.
func runCycle(ctx context.Context, env *checkEnv, state *notify.State, trigger notify.Trigger) *cycleResult {
	out := &cycleResult{}

	checker := updates.NewChecker(env.settings.PlatformURL, env.client, env.logger)
	out.Result = checker.Check(ctx, updates.EvaluateOptions{
		Build:           env.build,
		ProductCode:     env.build.Product,
		Preference:      env.settings.ChannelStatus(),
		SelectedChannel: env.settings.SelectedChannel,
	})
	if out.Result.State == updates.ConnectionError {
		env.logger.Warn("platform check failed", "error", out.Result.Err)
	}

	out.PluginUpdates, out.Incompatible, out.PluginErr = runPluginScan(ctx, env)
	out.External = runExternalCheck(ctx, env)

	// Report only plugins newly found incompatible this process run.
	out.Incompatible = state.RememberIncompatible(out.Incompatible)

	out.Decisions = notify.Present(state, notify.Input{
		Result:        out.Result,
		PluginUpdates: out.PluginUpdates,
		External:      out.External,
		Trigger:       trigger,
	})

	sendCycleEvent(trigger, out)
	return out
}

// runPluginScan loads local plugin state and queries the configured
// repositories. Plugins staged for removal are dropped from the
// installed set before the scan.
func runPluginScan(ctx context.Context, env *checkEnv) ([]*plugins.Downloader, []string, error) {
	if len(env.settings.PluginHosts) == 0 {
		return nil, nil, nil
	}

	installed, err := plugins.LoadInstalled(env.cfg.PluginsFile, env.logger)
	if err != nil {
		return nil, nil, err
	}
	if len(installed) == 0 {
		return nil, nil, nil
	}

	excluded, err := plugins.LoadExcluded(env.cfg.ExcludedFile, env.logger)
	if err != nil {
		return nil, nil, err
	}
	pending, err := plugins.LoadPendingRemovals(env.cfg.PendingFile, env.logger)
	if err != nil {
		return nil, nil, err
	}

	active := installed[:0]
	for _, p := range installed {
		if pending[p.ID] {
			env.logger.Debug("skipping plugin pending removal", "plugin", p.ID)
			continue
		}
		active = append(active, p)
	}

	installID, err := settings.InstallationID()
	if err != nil {
		env.logger.Warn("no installation id available", "error", err)
		installID = ""
	}

	var repos []*plugins.Repository
	for i, host := range env.settings.PluginHosts {
		repos = append(repos, plugins.NewRepository(host, i == 0, env.client, env.logger))
	}

	result, err := plugins.NewScanner(repos, env.logger).Scan(ctx, active, env.build, excluded, installID)
	if err != nil {
		return nil, nil, err
	}
	return result.Updates, result.Incompatible, nil
}

// runExternalCheck queries the configured external sources.
func runExternalCheck(ctx context.Context, env *checkEnv) []external.Update {
	if len(env.sources) == 0 {
		return nil
	}
	installed := map[string]string{"orbit": buildinfo.Version()}
	return external.CheckAll(ctx, env.sources, installed, env.logger)
}

func sendCycleEvent(trigger notify.Trigger, out *cycleResult) {
	name := "scheduled"
	if trigger == notify.TriggerManual {
		name = "manual"
	}
	var externalCount int
	for _, u := range out.External {
		externalCount += len(u.Components)
	}
	telemetry.NewClient().Send(telemetry.NewCheckEvent(
		name,
		out.Result.State.String(),
		out.Result.UpdatedChannel != nil,
		out.Result.NewChannel != nil,
		len(out.PluginUpdates),
		len(out.Incompatible),
		externalCount,
	))
}
