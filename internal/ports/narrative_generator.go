package ports

import (
	"context"

	"moto-route-service/internal/domain"
)

// Port: a boundary for generating the free-text route description.
// Failures are non-fatal; callers fall back to an empty narrative.
type NarrativeGenerator interface {
	Narrative(ctx context.Context, route *domain.ResolvedRoute, prefs domain.RoutePreferences) (string, error)
}
