package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"moto-route-service/internal/domain"
	"moto-route-service/internal/platform/obs"
)

// PointKey builds the cache key for a coordinate. Five decimals keeps
// roughly one-meter resolution, so nearby repeat runs hit the cache.
func PointKey(lat, lng float64) string {
	return fmt.Sprintf("%.5f,%.5f", lat, lng)
}

// SQLElevationCache is a SQL-backed cache for terrain elevation lookups.
// Elevation data never changes, so entries have no expiry.
type SQLElevationCache struct {
	DB *sql.DB
}

func NewSQLElevationCache(db *sql.DB) *SQLElevationCache {
	return &SQLElevationCache{DB: db}
}

// GetMany fetches cached elevations for the given points, keyed by
// PointKey. Missing points are simply absent from the result.
func (s *SQLElevationCache) GetMany(ctx context.Context, points []domain.LatLng) (_ map[string]float64, err error) {
	defer obs.Time(ctx, "elevation.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("elevation cache: db is nil")
	}

	if len(points) == 0 {
		return map[string]float64{}, nil
	}

	seen := make(map[string]struct{}, len(points))
	keys := make([]string, 0, len(points))
	for _, p := range points {
		k := PointKey(p.Lat, p.Lng)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	q := `
	SELECT point, elevation_m
	FROM elevation_cache
	WHERE point = ANY($1::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, keys)
	if err != nil {
		return nil, fmt.Errorf("get elevation cache: query elevation_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64, len(keys))
	for rows.Next() {
		var key string
		var elevation float64
		if err := rows.Scan(&key, &elevation); err != nil {
			return nil, fmt.Errorf("get elevation cache: scan rows: %w", err)
		}
		out[key] = elevation
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get elevation cache: row iteration: %w", err)
	}

	return out, nil
}

// PutMany stores freshly looked-up elevations.
func (s *SQLElevationCache) PutMany(ctx context.Context, elevations map[string]float64) error {
	if s.DB == nil {
		return errors.New("elevation cache: db is nil")
	}

	if len(elevations) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert elevation cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO elevation_cache (point, elevation_m)
	VALUES ($1, $2)
	ON CONFLICT (point) DO UPDATE
	SET elevation_m = EXCLUDED.elevation_m;
	`)
	if err != nil {
		return fmt.Errorf("insert elevation cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for key, elevation := range elevations {
		if _, err := stmt.ExecContext(ctx, key, elevation); err != nil {
			return fmt.Errorf("insert elevation cache point=%q: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert elevation cache commit: %w", err)
	}

	return nil
}
