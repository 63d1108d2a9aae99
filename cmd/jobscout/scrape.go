package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fenloai/jobscout/internal/config"
	"github.com/fenloai/jobscout/internal/scrape"
)

var scrapeCommand = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape listings without running the rest of the pipeline",
	Long:  "Scrapes the configured search keywords (or a single keyword via --keyword) and stores what it finds. No classification, matching, or proposals.",
	RunE:  runScrapeCmd,
}

var (
	scrapeKeyword string
	scrapePages   int
)

func init() {
	scrapeCommand.Flags().StringVarP(&scrapeKeyword, "keyword", "k", "", "Scrape a single keyword instead of the configured list")
	scrapeCommand.Flags().IntVarP(&scrapePages, "pages", "p", 0, "Max pages per keyword (0 uses the default)")
	rootCmd.AddCommand(scrapeCommand)
}

func runScrapeCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	env, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	keywords := []string{scrapeKeyword}
	if scrapeKeyword == "" {
		profile, err := config.LoadPreferences(env.preferencesPath())
		if err != nil {
			return err
		}
		if len(profile.SearchKeywords) == 0 {
			return fmt.Errorf("no search keywords configured in %s", env.preferencesPath())
		}
		keywords = profile.SearchKeywords
	}

	opts := scrape.DefaultOptions()
	if scrapePages > 0 {
		opts.MaxPagesPerKeyword = scrapePages
	}

	session, err := scrape.NewSession(ctx, opts.PageTimeout)
	if err != nil {
		return err
	}
	defer session.Close()

	known, err := env.store.KnownUIDs(ctx)
	if err != nil {
		return err
	}

	scraper := scrape.NewScraper(session, opts, env.log)
	listings, err := scraper.Discover(ctx, keywords, known)
	if err != nil {
		return err
	}

	inserted := 0
	if len(listings) > 0 {
		inserted, err = env.store.UpsertListings(ctx, listings)
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stdout, "Scraped %d listings, %d new.\n", len(listings), inserted)
	return nil
}
