package ports

import (
	"context"
	"fmt"

	"moto-route-service/internal/domain"
)

// Port: a boundary for turn-by-turn route resolution. Implementations
// must always request routes that avoid motorways and toll roads; that is
// a fixed product constraint, not a per-request option.
type DirectionsProvider interface {
	// Resolve turns an ordered waypoint list into a navigable route. For a
	// loop the route ends back at start; otherwise it ends at the final
	// waypoint. A provider failure or malformed payload is reported as a
	// *ResolutionError.
	Resolve(ctx context.Context, start domain.LatLng, waypoints []domain.LatLng, loop bool) (*domain.ResolvedRoute, error)
}

// ResolutionError reports a directions-provider failure. The retry
// orchestrator treats it as a failed attempt rather than a crash.
type ResolutionError struct {
	Reason string
	Err    error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolve route: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("resolve route: %s", e.Reason)
}

func (e *ResolutionError) Unwrap() error { return e.Err }
