package cache

import (
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the cache tables if they do not exist.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createElevationCacheQuery := `
	CREATE TABLE IF NOT EXISTS elevation_cache (
		point TEXT PRIMARY KEY,
		elevation_m DOUBLE PRECISION NOT NULL
	);
	`

	if _, err := tx.Exec(createElevationCacheQuery); err != nil {
		return fmt.Errorf("init schema: create elevation_cache: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
