package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"moviedb/scheduler"
)

var flagRunNow bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the website on a schedule until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e := current
		site := e.cfg.Site

		sched := scheduler.NewScheduler(e.logger.With().Str("component", "scheduler").Logger())
		job := scheduler.NewWebsiteJob(e.store, e.generator, site.OutputPath, e.notifier,
			e.logger.With().Str("job", "website_rebuild").Logger())

		if err := sched.AddJob(site.Schedule, job); err != nil {
			return fmt.Errorf("failed to schedule website rebuild: %w", err)
		}

		sched.Start()
		defer sched.Stop()
		fmt.Fprintf(cmd.OutOrStdout(), "Rebuilding %s on schedule %q. Press Ctrl+C to exit\n",
			site.OutputPath, site.Schedule)

		if flagRunNow {
			if err := sched.RunJobNow(job.Name()); err != nil {
				e.logger.Error().Err(err).Msg("initial website rebuild failed")
			}
		}

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		sig := <-quit
		e.logger.Info().Str("signal", sig.String()).Msg("shutting down")
		return nil
	},
}

func init() {
	watchCmd.Flags().BoolVar(&flagRunNow, "now", false, "rebuild once immediately on startup")
	watchCmd.Flags().String("schedule", "", "cron spec with seconds field (default: hourly)")
}
