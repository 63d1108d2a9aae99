// Package types defines the shared data structures flowing through the
// discovery pipeline: scraped listings, the preference profile, match
// results, proposals, and run health records.
package types

import "time"

// JobType identifies how a listing is priced.
type JobType string

// JobType values as they appear on job boards.
const (
	JobTypeHourly  JobType = "Hourly"
	JobTypeFixed   JobType = "Fixed"
	JobTypeUnknown JobType = ""
)

// Listing is a single scraped job posting. The scraper creates it, the
// classifier enriches it in place, and the scoring engine reads it.
// Budget fields are pointers because job boards frequently omit them;
// a nil value means "not stated", which is valid input downstream.
type Listing struct {
	UID         string  `json:"uid"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description string  `json:"description"`
	JobType     JobType `json:"job_type"`

	HourlyRateMin *float64 `json:"hourly_rate_min,omitempty"`
	HourlyRateMax *float64 `json:"hourly_rate_max,omitempty"`
	FixedPrice    *float64 `json:"fixed_price,omitempty"`

	ExperienceLevel string   `json:"experience_level,omitempty"`
	Skills          []string `json:"skills,omitempty"`

	// Client-quality descriptors. Spent and rating are kept as the raw
	// free text the board renders ("$50K+ spent", "4.9 of 5 stars");
	// the scoring engine parses them lazily.
	PaymentVerified  bool   `json:"payment_verified"`
	ClientCountry    string `json:"client_country,omitempty"`
	ClientTotalSpent string `json:"client_total_spent,omitempty"`
	ClientRating     string `json:"client_rating,omitempty"`

	Keyword    string    `json:"keyword,omitempty"`
	PostedText string    `json:"posted_text,omitempty"`
	SourcePage int       `json:"source_page,omitempty"`
	ScrapedAt  time.Time `json:"scraped_at"`

	// Classifier enrichment. Empty Categories with Classified=false means
	// the listing has not been through the classifier yet; Classified=true
	// with empty Categories means the classifier could not place it.
	Categories []string `json:"categories,omitempty"`
	KeyTools   []string `json:"key_tools,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Classified bool     `json:"classified"`
}
