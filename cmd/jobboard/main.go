// Package main provides the jobboard CLI: schema migration, job listing,
// batch processing and scheduled processing.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobboard",
	Short: "Remote-EU job aggregation core",
	Long:  "jobboard ingests job postings from ATS boards, runs them through enhancement and remote-EU classification, and serves the filtered listing alongside company provenance data.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
