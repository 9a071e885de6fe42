package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/orbit-updates/orbit/internal/notify"
	"github.com/orbit-updates/orbit/internal/telemetry"
	"github.com/spf13/cobra"
)

var (
	watchBuildFlag    string
	watchIntervalFlag time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Check for updates on a schedule",
	Long: `Run the update check repeatedly at the configured interval, raising a
notification the first time each kind of update appears. Failed
scheduled checks are logged and retried on the next tick, never
surfaced as errors.

The watcher runs in the foreground until interrupted (Ctrl-C).

Examples:
  orbit watch
  orbit watch --interval 30m`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		telemetry.ShowNoticeIfNeeded()

		env, err := newCheckEnv(watchBuildFlag)
		if err != nil {
			printError(err)
			exitWithCode(ExitGeneral)
		}

		interval := watchIntervalFlag
		if interval <= 0 {
			interval = env.settings.CheckInterval()
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// The shown-category set lives for the whole watch run, so a
		// category notifies once no matter how many cycles fire.
		state := notify.NewState()

		printInfof("Checking every %s (Ctrl-C to stop)\n", interval)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			out := runCycle(ctx, env, state, notify.TriggerScheduled)
			for _, d := range out.Decisions {
				printInfof("[%s] %s: %s\n", time.Now().Format("15:04"), d.Title, d.Message)
			}

			select {
			case <-ctx.Done():
				printInfo("Stopped.")
				return
			case <-ticker.C:
			}
		}
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchBuildFlag, "build", "", "local build number (overrides the configured one)")
	watchCmd.Flags().DurationVar(&watchIntervalFlag, "interval", 0, "delay between checks (overrides the configured interval)")
	rootCmd.AddCommand(watchCmd)
}
