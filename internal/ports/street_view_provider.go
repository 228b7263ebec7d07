package ports

import (
	"context"

	"moto-route-service/internal/domain"
)

// StreetViewParams controls the rendered image.
type StreetViewParams struct {
	Size    string
	FOV     int
	Pitch   int
	Heading float64
}

// Port: a boundary for street-level imagery. Each image request is
// independently failable; a failed request omits that slot.
type StreetViewProvider interface {
	// ImageURL returns a fetchable URL for an image at the point, or an
	// error when no imagery is available there.
	ImageURL(ctx context.Context, point domain.LatLng, params StreetViewParams) (string, error)
}
