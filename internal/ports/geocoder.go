package ports

import (
	"context"

	"moto-route-service/internal/domain"
)

// Port: a boundary for resolving free-text locations to coordinates and
// back. Reverse lookups are best-effort context only.
type Geocoder interface {
	// Geocode resolves an address to coordinates.
	Geocode(ctx context.Context, location string) (domain.LatLng, error)
	// ReverseRegion returns a human-readable region description for the
	// point, used as geographic context for waypoint selection.
	ReverseRegion(ctx context.Context, point domain.LatLng) (string, error)
}
