package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/remoteeu/jobboard/internal/db"
	"github.com/remoteeu/jobboard/internal/status"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List jobs matching the given filters",
	RunE:  runJobs,
}

var (
	jobsSearch     string
	jobsSource     string
	jobsRemoteEU   bool
	jobsConfidence string
	jobsSkills     []string
	jobsExclude    []string
	jobsLimit      int
	jobsOffset     int
)

func init() {
	jobsCmd.Flags().StringVarP(&jobsSearch, "search", "s", "", "Free-text search over title, company, location and description")
	jobsCmd.Flags().StringVar(&jobsSource, "source", "", "Filter by source kind (greenhouse, lever, ashby, workable, commoncrawl)")
	jobsCmd.Flags().BoolVar(&jobsRemoteEU, "eu-remote", false, "Only jobs classified as remote across the EU")
	jobsCmd.Flags().StringVar(&jobsConfidence, "confidence", "", "Minimum remote-EU confidence (high, medium, low)")
	jobsCmd.Flags().StringSliceVar(&jobsSkills, "skill", nil, "Skill filter, repeatable; values OR together")
	jobsCmd.Flags().StringSliceVar(&jobsExclude, "exclude-company", nil, "Company keys to exclude, repeatable")
	jobsCmd.Flags().IntVar(&jobsLimit, "limit", db.DefaultLimit, "Page size")
	jobsCmd.Flags().IntVar(&jobsOffset, "offset", 0, "Page offset")

	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	filters := db.JobFilters{
		Search:            jobsSearch,
		SourceKind:        jobsSource,
		Skills:            jobsSkills,
		ExcludedCompanies: jobsExclude,
		Limit:             jobsLimit,
		Offset:            jobsOffset,
	}
	if cmd.Flags().Changed("eu-remote") {
		filters.IsRemoteEU = &jobsRemoteEU
	}
	if jobsConfidence != "" {
		confidence, err := status.ParseConfidence(jobsConfidence)
		if err != nil {
			return err
		}
		filters.RemoteEUConfidence = confidence
	}

	page := a.service.Jobs(ctx, filters)

	fmt.Printf("%d jobs (showing %d from offset %d)\n\n", page.TotalCount, len(page.Jobs), jobsOffset)
	for _, job := range page.Jobs {
		line := []string{job.Title, job.CompanyKey, string(job.Status)}
		if job.Location != nil {
			line = append(line, *job.Location)
		}
		fmt.Println(strings.Join(line, " | "))
	}
	return nil
}
