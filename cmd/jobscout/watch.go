package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fenloai/jobscout/internal/pipeline"
)

var watchCommand = &cobra.Command{
	Use:   "watch",
	Short: "Run the pipeline on a cron schedule until interrupted",
	Long:  "Starts a scheduler that runs the full pipeline on the given cron expression. The lock file still guards each run, so a slow run simply makes the next tick a no-op.",
	RunE:  runWatchCmd,
}

var watchSchedule string

func init() {
	watchCommand.Flags().StringVar(&watchSchedule, "schedule", "0 */6 * * *", "Cron expression for pipeline runs")
	rootCmd.AddCommand(watchCommand)
}

func runWatchCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmdContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	scheduler := cron.New()
	_, err = scheduler.AddFunc(watchSchedule, func() {
		runner, cleanup, err := buildRunner(ctx, env, false)
		if err != nil {
			env.log.Error("failed to build pipeline", zap.Error(err))
			return
		}
		defer cleanup()

		if _, err := runner.Run(ctx); err != nil {
			if errors.Is(err, pipeline.ErrAlreadyRunning) {
				env.log.Info("previous run still in progress, skipping tick")
				return
			}
			if ctx.Err() != nil {
				return
			}
			env.log.Error("scheduled run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", watchSchedule, err)
	}

	env.log.Info("watch started", zap.String("schedule", watchSchedule))
	fmt.Fprintf(os.Stdout, "Watching on schedule %q. Ctrl-C to stop.\n", watchSchedule)

	scheduler.Start()
	<-ctx.Done()

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	env.log.Info("watch stopped")
	return nil
}
