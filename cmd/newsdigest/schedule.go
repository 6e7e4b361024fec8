package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var flagRunOnStart bool

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the digest on the schedule.cron expression until interrupted",
	RunE:  runSchedule,
}

func init() {
	scheduleCmd.Flags().BoolVar(&flagRunOnStart, "run-now", false, "run one digest immediately before waiting for the schedule")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, cleanup, err := newPipeline(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	run := func() {
		res, err := p.Run(ctx)
		if err != nil {
			log.Error("scheduled run failed", "error", err)
			return
		}
		log.Info("scheduled run finished", "report", res.ReportPath, "status", res.Status)
	}

	if flagRunOnStart {
		run()
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Schedule.Cron, run); err != nil {
		return fmt.Errorf("invalid schedule.cron %q: %w", cfg.Schedule.Cron, err)
	}
	c.Start()
	log.Info("digest scheduled", "cron", cfg.Schedule.Cron)

	<-ctx.Done()
	log.Info("shutting down scheduler")

	// wait for a run in progress
	<-c.Stop().Done()
	return nil
}
