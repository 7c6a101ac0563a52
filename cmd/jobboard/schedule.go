package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the processing batch on a cron schedule",
	Long:  "Run the processing batch repeatedly on the PROCESS_CRON schedule (default every six hours) until interrupted.",
	RunE:  runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	scheduler := cron.New()
	_, err = scheduler.AddFunc(a.cfg.CronSpec, func() {
		report, err := a.service.ProcessAllJobs(ctx, 0)
		if err != nil {
			a.logger.Error("scheduled batch failed", zap.Error(err))
			return
		}
		a.logger.Info("scheduled batch finished", zap.String("summary", report.Message))
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", a.cfg.CronSpec, err)
	}

	a.logger.Info("scheduler starting", zap.String("cron", a.cfg.CronSpec))
	scheduler.Start()
	defer scheduler.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-stop:
	case <-ctx.Done():
	}

	a.logger.Info("scheduler stopping")
	return nil
}
