package scrape

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/fenloai/jobscout/internal/types"
)

// Options tune how far a scrape run goes before stopping.
type Options struct {
	// SearchURLTemplate receives the url-encoded keyword and the page
	// number via fmt verbs, in that order.
	SearchURLTemplate  string
	MaxPagesPerKeyword int
	// DuplicateRatio stops a keyword early once this share of a page's
	// tiles is already known. Zero disables early termination.
	DuplicateRatio float64
	MinDelay       time.Duration
	MaxDelay       time.Duration
	PageTimeout    time.Duration
}

// DefaultOptions mirrors sensible scraping etiquette: few pages, long
// uneven pauses.
func DefaultOptions() Options {
	return Options{
		SearchURLTemplate:  "https://www.upwork.com/nx/search/jobs/?q=%s&sort=recency&page=%d",
		MaxPagesPerKeyword: 5,
		DuplicateRatio:     0.7,
		MinDelay:           4 * time.Second,
		MaxDelay:           9 * time.Second,
		PageTimeout:        45 * time.Second,
	}
}

// Scraper runs keyword searches through one browser session.
type Scraper struct {
	session *Session
	opts    Options
	log     *zap.Logger
}

// NewScraper wraps an open browser session.
func NewScraper(session *Session, opts Options, log *zap.Logger) *Scraper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scraper{session: session, opts: opts, log: log}
}

// Discover scrapes every keyword and returns the listings not already in
// known. UIDs seen during the run are added to known so overlapping
// keywords do not produce duplicates.
func (s *Scraper) Discover(ctx context.Context, keywords []string, known map[string]bool) ([]types.Listing, error) {
	if known == nil {
		known = make(map[string]bool)
	}

	var all []types.Listing
	for i, keyword := range keywords {
		listings, err := s.scrapeKeyword(ctx, keyword, known)
		if err != nil {
			// One blocked keyword should not sink the whole run, but a
			// cancelled context should.
			if ctx.Err() != nil {
				return all, ctx.Err()
			}
			s.log.Warn("keyword scrape failed",
				zap.String("keyword", keyword),
				zap.Error(err))
			continue
		}
		all = append(all, listings...)

		if i < len(keywords)-1 {
			if err := s.pause(ctx); err != nil {
				return all, err
			}
		}
	}
	return all, nil
}

func (s *Scraper) scrapeKeyword(ctx context.Context, keyword string, known map[string]bool) ([]types.Listing, error) {
	var collected []types.Listing

	for pageNum := 1; pageNum <= s.opts.MaxPagesPerKeyword; pageNum++ {
		pageURL := fmt.Sprintf(s.opts.SearchURLTemplate, url.QueryEscape(keyword), pageNum)
		html, err := s.session.RenderPage(ctx, pageURL)
		if err != nil {
			return collected, err
		}

		result, err := ExtractListings(html, keyword, pageNum, time.Now())
		if err != nil {
			return collected, err
		}

		fresh := make([]types.Listing, 0, len(result.Listings))
		for _, l := range result.Listings {
			if known[l.UID] {
				continue
			}
			known[l.UID] = true
			fresh = append(fresh, l)
		}
		skipped := len(result.Listings) - len(fresh)
		collected = append(collected, fresh...)

		s.log.Info("scraped search page",
			zap.String("keyword", keyword),
			zap.Int("page", pageNum),
			zap.Int("new", len(fresh)),
			zap.Int("skipped", skipped))

		if len(result.Listings) == 0 {
			break
		}
		if s.opts.DuplicateRatio > 0 && skipped > 0 {
			ratio := float64(skipped) / float64(len(result.Listings))
			if ratio > s.opts.DuplicateRatio {
				s.log.Info("stopping keyword early, mostly known listings",
					zap.String("keyword", keyword),
					zap.Float64("duplicate_ratio", ratio))
				break
			}
		}
		if result.MaxPage > 0 && pageNum >= result.MaxPage {
			break
		}

		if err := s.pause(ctx); err != nil {
			return collected, err
		}
	}
	return collected, nil
}

// pause sleeps an uneven interval between page loads.
func (s *Scraper) pause(ctx context.Context) error {
	span := s.opts.MaxDelay - s.opts.MinDelay
	delay := s.opts.MinDelay
	if span > 0 {
		delay += time.Duration(rand.Int63n(int64(span)))
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
