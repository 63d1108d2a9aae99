package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fenloai/jobscout/internal/config"
	"github.com/fenloai/jobscout/internal/types"
)

var healthCommand = &cobra.Command{
	Use:   "health",
	Short: "Check the last run's outcome and probe external dependencies",
	RunE:  runHealthCmd,
}

var healthMaxAge time.Duration

func init() {
	healthCommand.Flags().DurationVar(&healthMaxAge, "max-age", 0, "Fail if the last run is older than this (e.g. 8h); 0 disables the check")
	rootCmd.AddCommand(healthCommand)
}

const probeTimeout = 5 * time.Second

func runHealthCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmdContext(cmd)
	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	// Probe the externals in parallel; any failure makes the command
	// exit non-zero so a watchdog can alert on it.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		pctx, cancel := context.WithTimeout(gctx, probeTimeout)
		defer cancel()
		if err := env.store.Ping(pctx); err != nil {
			return fmt.Errorf("database unreachable: %w", err)
		}
		fmt.Fprintln(os.Stdout, "ok  database")
		return nil
	})

	g.Go(func() error {
		if !env.cfg.EmailConfigured() {
			fmt.Fprintln(os.Stdout, "--  smtp not configured")
			return nil
		}
		addr := fmt.Sprintf("%s:%d", env.cfg.SMTPHost, env.cfg.SMTPPort)
		conn, err := net.DialTimeout("tcp", addr, probeTimeout)
		if err != nil {
			return fmt.Errorf("smtp unreachable at %s: %w", addr, err)
		}
		_ = conn.Close()
		fmt.Fprintln(os.Stdout, "ok  smtp")
		return nil
	})

	g.Go(func() error {
		if _, err := config.LoadPreferences(env.preferencesPath()); err != nil {
			return fmt.Errorf("preference profile unusable: %w", err)
		}
		fmt.Fprintln(os.Stdout, "ok  preferences")
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	health, err := env.store.LastRunHealth(ctx)
	if err != nil {
		return err
	}
	if health == nil {
		fmt.Fprintln(os.Stdout, "--  no run recorded yet")
		return nil
	}

	age := time.Since(health.StartedAt)
	fmt.Fprintf(os.Stdout, "Last run %s: %s, %s ago (%.1fs, stages: %v)\n",
		health.RunID, health.Status, age.Round(time.Second),
		health.DurationSeconds, health.StagesCompleted)
	if health.QuotaExhausted {
		fmt.Fprintln(os.Stdout, "    daily proposal cap was exhausted")
	}
	if health.Error != "" {
		fmt.Fprintf(os.Stdout, "    error: %s\n", health.Error)
	}

	if health.Status == types.RunFailure {
		return fmt.Errorf("last run failed: %s", health.Error)
	}
	if healthMaxAge > 0 && age > healthMaxAge {
		return fmt.Errorf("last run is stale: %s ago (max %s)", age.Round(time.Second), healthMaxAge)
	}
	return nil
}
