package main

import (
	"log/slog"
	"os"

	"github.com/orbit-updates/orbit/internal/buildinfo"
	"github.com/orbit-updates/orbit/internal/log"
	"github.com/spf13/cobra"
)

var (
	quietFlag   bool
	verboseFlag bool
	debugFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "orbit",
	Short: "Update checker for the Orbit platform and its plugins",
	Long: `orbit checks a platform installation for updates: new builds in the
configured release channel, newly available channels, plugin updates
from the configured repositories, and separately released tooling.

Checks run manually (orbit check) or on a schedule (orbit watch).`,
	Version: buildinfo.Version(),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetDefault(newLogger())
	},
}

// newLogger builds the process logger from the verbosity flags.
// Default shows warnings and errors; --verbose adds info, --debug
// everything, --quiet silences logging entirely.
func newLogger() log.Logger {
	if quietFlag {
		return log.NewNoop()
	}
	level := slog.LevelWarn
	switch {
	case debugFlag:
		level = slog.LevelDebug
	case verboseFlag:
		level = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return log.New(handler)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "suppress informational output")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable info logging")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitUsage)
	}
}
