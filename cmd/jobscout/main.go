// Package main provides the jobscout CLI: scheduled job discovery,
// proposal review, and pipeline health inspection.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobscout",
	Short: "Freelance job discovery and proposal pipeline",
	Long:  "jobscout scrapes freelance job boards, scores listings against your preference profile, drafts proposals for the best matches, and emails you a digest for review.",
}

var (
	flagJSONLogs bool
	flagDebug    bool
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSONLogs, "json-logs", false, "Emit logs as JSON (for scheduled runs)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
