package main

import (
	"github.com/spf13/cobra"
)

var (
	pluginsBuildFlag string
	pluginsJSONFlag  bool
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "Scan plugin repositories for updates",
	Long: `Query the configured plugin repositories for the installed plugins and
list available updates and plugins incompatible with the local build.

A failure of the first (primary) repository aborts the scan; failures
of the remaining repositories are logged and skipped.

Examples:
  orbit plugins
  orbit plugins --json`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		env, err := newCheckEnv(pluginsBuildFlag)
		if err != nil {
			printError(err)
			exitWithCode(ExitGeneral)
		}
		if len(env.settings.PluginHosts) == 0 {
			printInfo("No plugin repositories configured. Set one with:")
			printInfo("  orbit config set plugin_hosts https://plugins.orbit.dev/list")
			return
		}

		available, incompatible, err := runPluginScan(cmd.Context(), env)
		if err != nil {
			printError(err)
			exitWithCode(pluginExitCode(err))
		}

		if pluginsJSONFlag {
			printJSON(struct {
				Updates      interface{} `json:"updates"`
				Incompatible []string    `json:"incompatible"`
			}{available, incompatible})
			return
		}

		if len(available) == 0 && len(incompatible) == 0 {
			printInfo("All plugins are up to date.")
			return
		}
		if len(available) > 0 {
			printInfof("Plugin updates (%d):\n", len(available))
			for _, p := range available {
				printInfof("  %s %s (%s)\n", p.ID, p.Version, p.Host)
			}
		}
		if len(incompatible) > 0 {
			printInfof("Incompatible with build %s:\n", env.build)
			for _, id := range incompatible {
				printInfof("  %s\n", id)
			}
		}
	},
}

func init() {
	pluginsCmd.Flags().StringVar(&pluginsBuildFlag, "build", "", "local build number (overrides the configured one)")
	pluginsCmd.Flags().BoolVar(&pluginsJSONFlag, "json", false, "print results as JSON")
	rootCmd.AddCommand(pluginsCmd)
}
