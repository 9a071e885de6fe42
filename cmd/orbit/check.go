package main

import (
	"errors"
	"fmt"

	"github.com/orbit-updates/orbit/internal/httputil"
	"github.com/orbit-updates/orbit/internal/notify"
	"github.com/orbit-updates/orbit/internal/plugins"
	"github.com/orbit-updates/orbit/internal/telemetry"
	"github.com/orbit-updates/orbit/internal/updates"
	"github.com/spf13/cobra"
)

var checkBuildFlag string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check for platform and plugin updates now",
	Long: `Run one manual update check: fetch the update descriptor, evaluate it
against the local build, scan the plugin repositories, and query
external sources. Results are printed in full; a failed check reports
the error instead of staying silent.

Examples:
  orbit check
  orbit check --build OB-145.970`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		telemetry.ShowNoticeIfNeeded()

		env, err := newCheckEnv(checkBuildFlag)
		if err != nil {
			printError(err)
			exitWithCode(ExitGeneral)
		}

		out := runCycle(cmd.Context(), env, notify.NewState(), notify.TriggerManual)
		renderManualResult(env, out)

		switch {
		case out.Result.State == updates.ConnectionError:
			exitWithCode(ExitNetwork)
		case out.PluginErr != nil:
			exitWithCode(pluginExitCode(out.PluginErr))
		}
	},
}

func pluginExitCode(err error) int {
	var repoErr *plugins.RepositoryError
	if errors.As(err, &repoErr) {
		switch repoErr.Kind {
		case httputil.KindNotFound:
			return ExitNotFound
		default:
			return ExitNetwork
		}
	}
	return ExitGeneral
}

// renderManualResult prints the dialog-equivalent results surface.
func renderManualResult(env *checkEnv, out *cycleResult) {
	printRule()
	for _, d := range out.Decisions {
		printInfo(d.Title)
		printInfo()
		printInfo(d.Message)
	}

	if out.Result.State == updates.Loaded && out.Result.UpdatedChannel != nil {
		if entry := out.Result.UpdatedChannel.Latest(); entry != nil && entry.Message != "" {
			printInfo()
			printInfo(updates.SanitizeHTML(entry.Message))
		}
	}

	if len(out.PluginUpdates) > 0 {
		printInfo()
		printInfof("Plugin updates (%d):\n", len(out.PluginUpdates))
		for _, p := range out.PluginUpdates {
			printInfof("  %s %s (%s)\n", p.ID, p.Version, p.Host)
		}
	}
	if len(out.Incompatible) > 0 {
		printInfo()
		printInfof("Incompatible with build %s:\n", env.build)
		for _, id := range out.Incompatible {
			printInfof("  %s\n", id)
		}
	}
	if out.PluginErr != nil {
		printInfo()
		printError(fmt.Errorf("plugin scan failed: %w", out.PluginErr))
	}
	printRule()
}

func init() {
	checkCmd.Flags().StringVar(&checkBuildFlag, "build", "", "local build number (overrides the configured one)")
	rootCmd.AddCommand(checkCmd)
}
