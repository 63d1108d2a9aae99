// Package scrape discovers job listings by rendering board search pages
// in a headless browser and extracting the job tiles.
package scrape

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/chromedp/chromedp"
)

// Session owns one headless browser for the lifetime of a scrape run.
// Job boards sit behind bot detection; keeping a single browser alive
// across pages preserves the challenge cookies it earns.
type Session struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	browserCtx  context.Context
	cancel      context.CancelFunc
	pageTimeout time.Duration
}

// NewSession starts a headless browser. The caller must Close it.
func NewSession(ctx context.Context, pageTimeout time.Duration) (*Session, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
		)...,
	)

	browserCtx, cancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so a missing Chrome fails here, not on
	// the first page.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return nil, &NavigationError{Message: "failed to start headless browser", Cause: err}
	}

	return &Session{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		browserCtx:  browserCtx,
		cancel:      cancel,
		pageTimeout: pageTimeout,
	}, nil
}

// Close shuts the browser down.
func (s *Session) Close() {
	s.cancel()
	s.allocCancel()
}

// RenderPage navigates to a search URL, waits for the job tiles to
// render, scrolls to trigger lazy loading, and returns the full HTML.
func (s *Session) RenderPage(ctx context.Context, url string) (string, error) {
	pageCtx, cancel := context.WithTimeout(s.browserCtx, s.pageTimeout)
	defer cancel()

	var html string
	err := chromedp.Run(pageCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// Let client-side rendering finish before looking for tiles.
		chromedp.Sleep(3*time.Second),
		chromedp.ActionFunc(scrollThrough),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &NavigationError{Message: fmt.Sprintf("failed to render %s", url), Cause: err}
	}
	return html, nil
}

// scrollThrough scrolls the page in uneven steps so skill tokens and
// client info that load lazily make it into the HTML.
func scrollThrough(ctx context.Context) error {
	var pageHeight int
	if err := chromedp.Evaluate(`document.body.scrollHeight`, &pageHeight).Do(ctx); err != nil {
		return err
	}

	scrolled := 0
	for scrolled < pageHeight {
		step := 300 + rand.Intn(300)
		if err := chromedp.Evaluate(fmt.Sprintf(`window.scrollBy(0, %d)`, step), nil).Do(ctx); err != nil {
			return err
		}
		scrolled += step
		if err := chromedp.Sleep(time.Duration(200+rand.Intn(400)) * time.Millisecond).Do(ctx); err != nil {
			return err
		}
		if err := chromedp.Evaluate(`document.body.scrollHeight`, &pageHeight).Do(ctx); err != nil {
			return err
		}
	}
	return nil
}
