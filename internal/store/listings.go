package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fenloai/jobscout/internal/types"
)

// UpsertListings writes a batch of scraped listings, updating volatile
// fields on conflict. Returns the number of listings that were new to
// the database.
func (s *Store) UpsertListings(ctx context.Context, listings []types.Listing) (int, error) {
	inserted := 0
	for _, l := range listings {
		skills, err := json.Marshal(l.Skills)
		if err != nil {
			return inserted, fmt.Errorf("failed to marshal skills for %s: %w", l.UID, err)
		}

		var isNew bool
		err = s.pool.QueryRow(ctx,
			`INSERT INTO listings (uid, title, url, description, job_type,
			     hourly_rate_min, hourly_rate_max, fixed_price,
			     experience_level, skills, payment_verified, client_country,
			     client_total_spent, client_rating, keyword, posted_text,
			     source_page, scraped_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			 ON CONFLICT (uid) DO UPDATE SET
			     title = EXCLUDED.title,
			     description = EXCLUDED.description,
			     skills = EXCLUDED.skills,
			     payment_verified = EXCLUDED.payment_verified,
			     client_total_spent = EXCLUDED.client_total_spent,
			     client_rating = EXCLUDED.client_rating,
			     scraped_at = EXCLUDED.scraped_at
			 RETURNING (xmax = 0)`,
			l.UID, l.Title, l.URL, l.Description, string(l.JobType),
			l.HourlyRateMin, l.HourlyRateMax, l.FixedPrice,
			l.ExperienceLevel, skills, l.PaymentVerified, l.ClientCountry,
			l.ClientTotalSpent, l.ClientRating, l.Keyword, l.PostedText,
			l.SourcePage, l.ScrapedAt,
		).Scan(&isNew)
		if err != nil {
			return inserted, fmt.Errorf("failed to upsert listing %s: %w", l.UID, err)
		}
		if isNew {
			inserted++
		}
	}
	return inserted, nil
}

// KnownUIDs returns the set of listing UIDs already in the database, so
// the scraper can skip detail fetches for pages it has seen.
func (s *Store) KnownUIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := s.pool.Query(ctx, `SELECT uid FROM listings`)
	if err != nil {
		return nil, fmt.Errorf("failed to query known uids: %w", err)
	}
	defer rows.Close()

	known := make(map[string]bool)
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("failed to scan uid: %w", err)
		}
		known[uid] = true
	}
	return known, rows.Err()
}

// ListUnclassified returns listings that have not been through the
// classifier yet, oldest first, up to limit.
func (s *Store) ListUnclassified(ctx context.Context, limit int) ([]types.Listing, error) {
	rows, err := s.pool.Query(ctx,
		listingColumns+` WHERE classified = FALSE ORDER BY first_seen_at ASC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query unclassified listings: %w", err)
	}
	defer rows.Close()
	return scanListings(rows)
}

// ListingsByUIDs fetches the given listings in one query. UIDs with no
// matching row are silently absent from the result.
func (s *Store) ListingsByUIDs(ctx context.Context, uids []string) ([]types.Listing, error) {
	if len(uids) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx,
		listingColumns+` WHERE uid = ANY($1)`,
		uids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings by uid: %w", err)
	}
	defer rows.Close()
	return scanListings(rows)
}

// GetListing fetches one listing by UID. Returns nil if not found.
func (s *Store) GetListing(ctx context.Context, uid string) (*types.Listing, error) {
	rows, err := s.pool.Query(ctx, listingColumns+` WHERE uid = $1`, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to query listing %s: %w", uid, err)
	}
	defer rows.Close()

	listings, err := scanListings(rows)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, nil
	}
	return &listings[0], nil
}

// SaveClassification records the classifier's enrichment for a listing
// and marks it classified.
func (s *Store) SaveClassification(ctx context.Context, uid string, categories, keyTools []string, summary string) error {
	cats, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}
	tools, err := json.Marshal(keyTools)
	if err != nil {
		return fmt.Errorf("failed to marshal key tools: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`UPDATE listings
		 SET categories = $1, key_tools = $2, summary = $3, classified = TRUE
		 WHERE uid = $4`,
		cats, tools, summary, uid,
	)
	if err != nil {
		return fmt.Errorf("failed to save classification for %s: %w", uid, err)
	}
	return nil
}

const listingColumns = `SELECT uid, title, url, description, job_type,
	hourly_rate_min, hourly_rate_max, fixed_price, experience_level,
	skills, payment_verified, client_country, client_total_spent,
	client_rating, keyword, posted_text, source_page, scraped_at,
	categories, key_tools, summary, classified
	FROM listings`

func scanListings(rows pgx.Rows) ([]types.Listing, error) {
	var listings []types.Listing
	for rows.Next() {
		var l types.Listing
		var jobType string
		var skills, categories, keyTools []byte
		err := rows.Scan(
			&l.UID, &l.Title, &l.URL, &l.Description, &jobType,
			&l.HourlyRateMin, &l.HourlyRateMax, &l.FixedPrice, &l.ExperienceLevel,
			&skills, &l.PaymentVerified, &l.ClientCountry, &l.ClientTotalSpent,
			&l.ClientRating, &l.Keyword, &l.PostedText, &l.SourcePage, &l.ScrapedAt,
			&categories, &keyTools, &l.Summary, &l.Classified,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		l.JobType = types.JobType(jobType)
		if err := json.Unmarshal(skills, &l.Skills); err != nil {
			return nil, fmt.Errorf("failed to unmarshal skills for %s: %w", l.UID, err)
		}
		if err := json.Unmarshal(categories, &l.Categories); err != nil {
			return nil, fmt.Errorf("failed to unmarshal categories for %s: %w", l.UID, err)
		}
		if err := json.Unmarshal(keyTools, &l.KeyTools); err != nil {
			return nil, fmt.Errorf("failed to unmarshal key tools for %s: %w", l.UID, err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
