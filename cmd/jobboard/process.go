package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run one processing batch over pending jobs",
	Long:  "Run the enhancement, role-tagging and remote-EU classification stages over jobs waiting in the lifecycle, then print the batch report.",
	RunE:  runProcess,
}

var processLimit int

func init() {
	processCmd.Flags().IntVar(&processLimit, "limit", 0, "Max jobs per stage for this run (0 uses PROCESS_LIMIT)")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	report, err := a.service.ProcessAllJobs(ctx, processLimit)
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	fmt.Println(report.Message)
	if !report.Success {
		return fmt.Errorf("%d jobs moved to the error state", report.Errors)
	}
	return nil
}
