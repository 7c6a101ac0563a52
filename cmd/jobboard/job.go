package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/remoteeu/jobboard/internal/service"
)

var jobCmd = &cobra.Command{
	Use:   "job <external-id>",
	Short: "Show one job by its external id or trailing slug",
	Args:  cobra.ExactArgs(1),
	RunE:  runJob,
}

var deleteJobCmd = &cobra.Command{
	Use:   "delete-job <id>",
	Short: "Delete a job row",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteJob,
}

func init() {
	rootCmd.AddCommand(jobCmd)
	rootCmd.AddCommand(deleteJobCmd)
}

func runJob(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	job, err := a.service.Job(ctx, args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(job)
}

func runDeleteJob(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid job id %q", args[0])
	}

	ctx := cmd.Context()
	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	// The CLI runs under operator credentials.
	result, err := a.service.DeleteJob(ctx, service.Actor{ID: "cli", Admin: true}, id)
	if err != nil {
		return err
	}

	fmt.Println(result.Message)
	return nil
}
