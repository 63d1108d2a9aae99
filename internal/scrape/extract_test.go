package scrape

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenloai/jobscout/internal/types"
)

const searchPageHTML = `
<html><body>
<section>
  <article data-test="JobTile" data-ev-job-uid="~0101">
    <small data-test="job-pubilshed-date">Posted 2 hours ago</small>
    <h2><a data-test="job-tile-title-link" href="/jobs/scraping-pipeline_~0101">Build a scraping pipeline</a></h2>
    <ul>
      <li data-test="job-type-label">Hourly: $40.00 - $75.50</li>
      <li data-test="experience-level">Expert</li>
    </ul>
    <div data-test="UpCLineClamp JobDescription"><p>Scrape product listings nightly with Playwright.</p></div>
    <div data-test="TokenClamp JobAttrs">
      <span data-test="token">Python</span>
      <span data-test="token">Web Scraping</span>
      <span data-test="token"> </span>
    </div>
    <ul>
      <li data-test="payment-verified">Payment verified</li>
      <li data-test="total-spent">$50K+ spent</li>
      <li data-test="client-rating">4.9 of 5</li>
      <li data-test="client-country">United States</li>
    </ul>
  </article>

  <article data-test="JobTile" data-ev-job-uid="~0102">
    <h2><a data-test="job-tile-title-link" href="/jobs/one-off_~0102">One-off data cleanup</a></h2>
    <ul>
      <li data-test="job-type-label">Fixed price</li>
      <li data-test="is-fixed-price">Est. budget: $1,200.00</li>
    </ul>
    <div data-test="UpCLineClamp JobDescription"><p>Normalize a messy CSV export.</p></div>
    <ul>
      <li data-test="payment-unverified">Payment unverified</li>
    </ul>
  </article>

  <article data-test="JobTile">
    <h2><a data-test="job-tile-title-link" href="/jobs/no-uid">Tile without a uid</a></h2>
  </article>
</section>
<div data-test="pagination">
  <button data-ev-page_index="1">1</button>
  <button data-ev-page_index="2">2</button>
  <button data-ev-page_index="7">7</button>
</div>
</body></html>`

func TestExtractListings_ParsesJobTiles(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	result, err := ExtractListings(searchPageHTML, "web scraping", 2, now)
	require.NoError(t, err)
	require.Len(t, result.Listings, 2)

	first := result.Listings[0]
	assert.Equal(t, "~0101", first.UID)
	assert.Equal(t, "Build a scraping pipeline", first.Title)
	assert.Equal(t, "/jobs/scraping-pipeline_~0101", first.URL)
	assert.Equal(t, "Posted 2 hours ago", first.PostedText)
	assert.Equal(t, "Scrape product listings nightly with Playwright.", first.Description)
	assert.Equal(t, "Expert", first.ExperienceLevel)
	assert.Equal(t, types.JobTypeHourly, first.JobType)
	require.NotNil(t, first.HourlyRateMin)
	require.NotNil(t, first.HourlyRateMax)
	assert.Equal(t, 40.0, *first.HourlyRateMin)
	assert.Equal(t, 75.5, *first.HourlyRateMax)
	assert.Equal(t, []string{"Python", "Web Scraping"}, first.Skills)
	assert.True(t, first.PaymentVerified)
	assert.Equal(t, "$50K+ spent", first.ClientTotalSpent)
	assert.Equal(t, "4.9 of 5", first.ClientRating)
	assert.Equal(t, "United States", first.ClientCountry)
	assert.Equal(t, "web scraping", first.Keyword)
	assert.Equal(t, 2, first.SourcePage)
	assert.Equal(t, now, first.ScrapedAt)

	second := result.Listings[1]
	assert.Equal(t, "~0102", second.UID)
	assert.Equal(t, types.JobTypeFixed, second.JobType)
	require.NotNil(t, second.FixedPrice)
	assert.Equal(t, 1200.0, *second.FixedPrice)
	assert.Nil(t, second.HourlyRateMin)
	assert.False(t, second.PaymentVerified)
}

func TestExtractListings_MaxPageFromPagination(t *testing.T) {
	result, err := ExtractListings(searchPageHTML, "kw", 1, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 7, result.MaxPage)
}

func TestExtractListings_EmptyPage(t *testing.T) {
	result, err := ExtractListings("<html><body></body></html>", "kw", 1, time.Now())
	require.NoError(t, err)
	assert.Empty(t, result.Listings)
	assert.Zero(t, result.MaxPage)
}

func TestExtractListings_UnverifiedPaymentText(t *testing.T) {
	html := `<article data-test="JobTile" data-ev-job-uid="~0103">
	  <a data-test="job-tile-title-link" href="/x">Job</a>
	  <span data-test="payment-verification-status">Payment unverified</span>
	</article>`

	result, err := ExtractListings(html, "kw", 1, time.Now())
	require.NoError(t, err)
	require.Len(t, result.Listings, 1)
	assert.False(t, result.Listings[0].PaymentVerified)
}

func TestParseMoney(t *testing.T) {
	v := parseMoney("1,200.50")
	require.NotNil(t, v)
	assert.Equal(t, 1200.5, *v)

	assert.Nil(t, parseMoney("not money"))
}
