// Package store provides PostgreSQL persistence for listings, proposals,
// and the pipeline run-health record.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps a PostgreSQL connection pool
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS listings (
		uid TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		description TEXT DEFAULT '',
		job_type TEXT DEFAULT '',
		hourly_rate_min DOUBLE PRECISION,
		hourly_rate_max DOUBLE PRECISION,
		fixed_price DOUBLE PRECISION,
		experience_level TEXT DEFAULT '',
		skills JSONB DEFAULT '[]',
		payment_verified BOOLEAN DEFAULT FALSE,
		client_country TEXT DEFAULT '',
		client_total_spent TEXT DEFAULT '',
		client_rating TEXT DEFAULT '',
		keyword TEXT DEFAULT '',
		posted_text TEXT DEFAULT '',
		source_page INTEGER DEFAULT 0,
		scraped_at TIMESTAMPTZ NOT NULL,
		first_seen_at TIMESTAMPTZ DEFAULT now(),
		categories JSONB DEFAULT '[]',
		key_tools JSONB DEFAULT '[]',
		summary TEXT DEFAULT '',
		classified BOOLEAN DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_keyword ON listings(keyword)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_scraped ON listings(scraped_at)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_classified ON listings(classified)`,
	`CREATE TABLE IF NOT EXISTS proposals (
		id BIGSERIAL PRIMARY KEY,
		listing_uid TEXT NOT NULL REFERENCES listings(uid) ON DELETE CASCADE,
		proposal_text TEXT NOT NULL,
		edited_text TEXT DEFAULT '',
		match_score DOUBLE PRECISION DEFAULT 0.0,
		match_reasons JSONB DEFAULT '[]',
		status TEXT DEFAULT 'pending_review',
		failure_reason TEXT DEFAULT '',
		generated_at TIMESTAMPTZ DEFAULT now(),
		reviewed_at TIMESTAMPTZ,
		submitted_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_proposals_listing_uid ON proposals(listing_uid)`,
	`CREATE INDEX IF NOT EXISTS idx_proposals_status ON proposals(status)`,
	`CREATE INDEX IF NOT EXISTS idx_proposals_generated ON proposals(generated_at)`,
	`CREATE TABLE IF NOT EXISTS run_health (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		run_id TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		duration_seconds DOUBLE PRECISION DEFAULT 0.0,
		listings_scraped INTEGER DEFAULT 0,
		listings_new INTEGER DEFAULT 0,
		listings_classified INTEGER DEFAULT 0,
		listings_matched INTEGER DEFAULT 0,
		proposals_generated INTEGER DEFAULT 0,
		proposals_failed INTEGER DEFAULT 0,
		quota_exhausted BOOLEAN DEFAULT FALSE,
		stages_completed JSONB DEFAULT '[]',
		error_message TEXT DEFAULT ''
	)`,
}

// InitSchema creates the tables and indexes if they don't exist. Safe to
// run on every startup.
func (s *Store) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
