package main

import (
	"fmt"
	"sort"

	"github.com/orbit-updates/orbit/internal/config"
	"github.com/orbit-updates/orbit/internal/log"
	"github.com/orbit-updates/orbit/internal/plugins"
	"github.com/spf13/cobra"
)

var ignoreRemoveFlag bool

var ignoreCmd = &cobra.Command{
	Use:   "ignore [plugin-id]",
	Short: "Exclude plugins from update checks",
	Long: `Manage the excluded-plugins list. Without arguments the current list is
printed; with a plugin id the plugin is added to (or with --remove,
removed from) the list. Excluded plugins are skipped entirely by the
scanner.

Examples:
  orbit ignore
  orbit ignore org.example.navigator
  orbit ignore org.example.navigator --remove`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.DefaultConfig()
		if err != nil {
			printError(err)
			exitWithCode(ExitGeneral)
		}

		excluded, err := plugins.LoadExcluded(cfg.ExcludedFile, log.Default())
		if err != nil {
			printError(err)
			exitWithCode(ExitGeneral)
		}

		if len(args) == 0 {
			if len(excluded) == 0 {
				printInfo("No plugins are excluded.")
				return
			}
			ids := make([]string, 0, len(excluded))
			for id := range excluded {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				printInfo(id)
			}
			return
		}

		id := args[0]
		if !plugins.ValidID(id) {
			printError(fmt.Errorf("invalid plugin id: %s", id))
			exitWithCode(ExitUsage)
		}

		if ignoreRemoveFlag {
			if !excluded[id] {
				printInfof("%s is not excluded\n", id)
				return
			}
			delete(excluded, id)
		} else {
			if excluded[id] {
				printInfof("%s is already excluded\n", id)
				return
			}
			excluded[id] = true
		}

		if err := plugins.SaveExcluded(cfg.ExcludedFile, excluded); err != nil {
			printError(err)
			exitWithCode(ExitGeneral)
		}
		if ignoreRemoveFlag {
			printInfof("Removed %s from the exclusion list\n", id)
		} else {
			printInfof("Excluded %s from update checks\n", id)
		}
	},
}

func init() {
	ignoreCmd.Flags().BoolVar(&ignoreRemoveFlag, "remove", false, "remove the plugin from the exclusion list")
	rootCmd.AddCommand(ignoreCmd)
}
