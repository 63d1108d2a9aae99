package store

import (
	"context"
	"fmt"
)

// Stats is a quick census of the database for the stats command.
type Stats struct {
	Listings     int
	Unclassified int
	Proposals    map[string]int
}

// GetStats counts listings and proposals by status.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{Proposals: make(map[string]int)}

	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE classified = FALSE) FROM listings`,
	).Scan(&stats.Listings, &stats.Unclassified)
	if err != nil {
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM proposals GROUP BY status`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count proposals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan proposal count: %w", err)
		}
		stats.Proposals[status] = count
	}
	return stats, rows.Err()
}
