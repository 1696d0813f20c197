// package repositories provides the persistence layer for the finder.
//
// The only persisted state between runs is the failed-URL cache: candidates
// that failed download, conversion, or verification are recorded so later
// searches skip them instead of burning an attempt on a known-bad URL.
package repositories

import (
	"database/sql"
	"fmt"
)

// FailureRepository stores URLs that failed pipeline processing.
type FailureRepository struct {
	db *sql.DB
}

// NewFailureRepository creates a repository and ensures its schema exists.
func NewFailureRepository(db *sql.DB) (*FailureRepository, error) {
	repo := &FailureRepository{db: db}
	if err := repo.migrate(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *FailureRepository) migrate() error {
	schema := `CREATE TABLE IF NOT EXISTS failed_urls (
		url TEXT PRIMARY KEY,
		reason TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create failed_urls table: %w", err)
	}
	return nil
}

// Record stores a failed URL with the stage that rejected it. Recording the
// same URL twice keeps the first reason.
func (r *FailureRepository) Record(url, reason string) error {
	if url == "" {
		return fmt.Errorf("cannot record empty URL")
	}

	_, err := r.db.Exec(
		"INSERT OR IGNORE INTO failed_urls (url, reason) VALUES (?, ?)",
		url, reason,
	)
	if err != nil {
		return fmt.Errorf("failed to record URL: %w", err)
	}
	return nil
}

// Contains reports whether a URL has been recorded as failed.
func (r *FailureRepository) Contains(url string) (bool, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(1) FROM failed_urls WHERE url = ?", url).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query URL: %w", err)
	}
	return count > 0, nil
}

// Set returns all recorded URLs as a lookup set for search exclusion.
func (r *FailureRepository) Set() (map[string]struct{}, error) {
	rows, err := r.db.Query("SELECT url FROM failed_urls")
	if err != nil {
		return nil, fmt.Errorf("failed to list URLs: %w", err)
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan URL: %w", err)
		}
		set[url] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate URLs: %w", err)
	}
	return set, nil
}

// Count returns the number of recorded failed URLs.
func (r *FailureRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(1) FROM failed_urls").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count URLs: %w", err)
	}
	return count, nil
}
