package ports

import (
	"context"

	"moto-route-service/internal/domain"
)

// Port: a boundary for nearby-places keyword searches.
type PlacesProvider interface {
	// CountNearby returns the number of places matching keyword within
	// radiusM meters of the point.
	CountNearby(ctx context.Context, point domain.LatLng, radiusM int, keyword string) (int, error)
}
