package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var statsCommand = &cobra.Command{
	Use:   "stats",
	Short: "Print a quick census of the database",
	RunE:  runStatsCmd,
}

func init() {
	rootCmd.AddCommand(statsCommand)
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmdContext(cmd)
	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	stats, err := env.store.GetStats(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Listings:     %d (%d unclassified)\n", stats.Listings, stats.Unclassified)
	if len(stats.Proposals) == 0 {
		fmt.Fprintln(os.Stdout, "Proposals:    none")
	} else {
		fmt.Fprintln(os.Stdout, "Proposals:")
		for _, status := range []string{"pending_review", "approved", "submitted", "rejected", "failed"} {
			if n, ok := stats.Proposals[status]; ok {
				fmt.Fprintf(os.Stdout, "  %-15s %d\n", status, n)
			}
		}
	}

	health, err := env.store.LastRunHealth(ctx)
	if err != nil {
		return err
	}
	if health != nil {
		fmt.Fprintf(os.Stdout, "Last run:     %s, %s ago\n",
			health.Status, time.Since(health.StartedAt).Round(time.Second))
	}
	return nil
}
