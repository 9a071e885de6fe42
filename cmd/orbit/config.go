package main

import (
	"fmt"
	"sort"

	"github.com/orbit-updates/orbit/internal/settings"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change orbit settings",
	Long: `View and change the settings stored in ~/.orbit/config.toml.

Examples:
  orbit config list
  orbit config get channel
  orbit config set channel eap
  orbit config set plugin_hosts https://plugins.orbit.dev/list,https://mirror.example.com/list`,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings and their current values",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		s, err := settings.Load()
		if err != nil {
			printError(err)
			exitWithCode(ExitGeneral)
		}

		keys := settings.AvailableKeys()
		names := make([]string, 0, len(keys))
		for name := range keys {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			value, _ := s.Get(name)
			printInfof("%-18s %-40q %s\n", name, value, keys[name])
		}
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the value of one setting",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := settings.Load()
		if err != nil {
			printError(err)
			exitWithCode(ExitGeneral)
		}
		value, ok := s.Get(args[0])
		if !ok {
			printError(fmt.Errorf("unknown config key: %s", args[0]))
			exitWithCode(ExitUsage)
		}
		fmt.Println(value)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := settings.Load()
		if err != nil {
			printError(err)
			exitWithCode(ExitGeneral)
		}
		if err := s.Set(args[0], args[1]); err != nil {
			printError(err)
			exitWithCode(ExitUsage)
		}
		if err := s.Save(); err != nil {
			printError(err)
			exitWithCode(ExitGeneral)
		}
		printInfof("%s = %s\n", args[0], args[1])
	},
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
