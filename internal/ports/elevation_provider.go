package ports

import (
	"context"

	"moto-route-service/internal/domain"
)

// Port: a boundary for looking up terrain elevation.
type ElevationProvider interface {
	// GetElevations returns the elevation in meters for each point, in
	// input order. A nil entry marks a point whose lookup failed; a failed
	// point never fails the batch.
	GetElevations(ctx context.Context, points []domain.LatLng) ([]*float64, error)
}
