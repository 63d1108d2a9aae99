package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fenloai/jobscout/internal/classify"
	"github.com/fenloai/jobscout/internal/config"
	"github.com/fenloai/jobscout/internal/llm"
	"github.com/fenloai/jobscout/internal/notify"
	"github.com/fenloai/jobscout/internal/pipeline"
	"github.com/fenloai/jobscout/internal/proposal"
	"github.com/fenloai/jobscout/internal/scrape"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full discovery pipeline end-to-end",
	Long: `Orchestrates one discovery run: scrape -> classify -> match -> generate -> notify.

A lock file prevents overlapping runs; if another run is in progress this one exits cleanly. The run outcome is recorded in the run_health table regardless of success.`,
	RunE: runPipelineCmd,
}

var runDryRun bool

func init() {
	runCommand.Flags().BoolVar(&runDryRun, "dry-run", false, "Scrape and match only; skip model calls and email")
	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	runner, cleanup, err := buildRunner(ctx, env, runDryRun)
	if err != nil {
		return err
	}
	defer cleanup()

	health, err := runner.Run(ctx)
	if errors.Is(err, pipeline.ErrAlreadyRunning) {
		fmt.Fprintln(os.Stdout, "Another run is in progress, skipping.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Run %s: %s — %d scraped (%d new), %d matched, %d proposals (%d failed) in %.1fs\n",
		health.RunID, health.Status,
		health.ListingsScraped, health.ListingsNew, health.ListingsMatched,
		health.ProposalsGenerated, health.ProposalsFailed, health.DurationSeconds)
	return nil
}

// buildRunner assembles the pipeline from the environment. The returned
// cleanup closes the browser session and model client.
func buildRunner(ctx context.Context, env *appEnv, dryRun bool) (*pipeline.Runner, func(), error) {
	profile, err := config.LoadPreferences(env.preferencesPath())
	if err != nil {
		return nil, nil, err
	}
	if len(profile.SearchKeywords) == 0 {
		return nil, nil, fmt.Errorf("no search keywords configured in %s", env.preferencesPath())
	}

	opts := scrape.DefaultOptions()
	session, err := scrape.NewSession(ctx, opts.PageTimeout)
	if err != nil {
		return nil, nil, err
	}

	runner := &pipeline.Runner{
		Store:        env.store,
		Scraper:      scrape.NewScraper(session, opts, env.log),
		Profile:      profile,
		Lock:         &pipeline.FileLock{Path: env.cfg.LockPath(), Log: env.log},
		DashboardURL: env.cfg.DashboardURL,
		DryRun:       dryRun,
		Log:          env.log,
	}

	cleanup := func() { session.Close() }

	if dryRun {
		return runner, cleanup, nil
	}

	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), env.cfg.GeminiAPIKey)
	if err != nil {
		session.Close()
		return nil, nil, err
	}

	userProfile, err := config.LoadUserProfile(env.cfg.ConfigDir)
	if err != nil {
		session.Close()
		_ = client.Close()
		return nil, nil, err
	}
	projects, err := config.LoadProjects(env.cfg.ConfigDir)
	if err != nil {
		session.Close()
		_ = client.Close()
		return nil, nil, err
	}
	guidelines, err := config.LoadGuidelines(env.cfg.ConfigDir)
	if err != nil {
		session.Close()
		_ = client.Close()
		return nil, nil, err
	}

	runner.Classifier = classify.NewClassifier(client, nil, env.log)
	runner.Generator = proposal.NewGenerator(client, nil, *userProfile, projects, *guidelines, env.log)

	if env.cfg.EmailConfigured() {
		runner.Notifier = notify.NewMailer(notify.SMTPConfig{
			Host:     env.cfg.SMTPHost,
			Port:     env.cfg.SMTPPort,
			User:     env.cfg.SMTPUser,
			Password: env.cfg.SMTPPassword,
			From:     env.cfg.EmailFrom,
			To:       env.cfg.EmailTo,
		}, env.cfg.DataDir, env.log)
	} else {
		env.log.Warn("email not configured, digests will be saved to the data dir only")
		runner.Notifier = notify.NewMailer(notify.SMTPConfig{}, env.cfg.DataDir, env.log)
	}

	return runner, func() {
		session.Close()
		_ = client.Close()
	}, nil
}
