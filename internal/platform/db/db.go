package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Open connects to the Postgres instance backing the elevation cache.
// The pool stays small: cache traffic is a handful of batched reads and
// writes per route generation.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("verify postgres connection: %w", err)
	}

	return db, nil
}
