package ports

import (
	"context"
	"fmt"

	"moto-route-service/internal/domain"
)

// SelectionFeedback carries structured detail about a failed attempt so
// the selector can make an informed correction on the next one.
type SelectionFeedback struct {
	// Issues are the validation failures of the previous attempt.
	Issues []string
	// RouteSummary describes the roads and areas the failed route used.
	RouteSummary string
	// PreviousIndices is the selection that produced the failed route.
	PreviousIndices []int
	// Regenerate asks for a completely fresh selection instead of an
	// adjustment of the previous one. Set on late retries.
	Regenerate bool
}

// SelectionRequest is the full input handed to the waypoint selector.
type SelectionRequest struct {
	Candidates  []domain.Candidate
	SelectCount int
	Curviness   float64
	Scenery     domain.SceneryType
	Loop        bool
	Start       domain.LatLng
	// Region is a human-readable description of the surrounding area.
	Region string
	// Feedback is nil on the first attempt.
	Feedback *SelectionFeedback
}

// Port: a boundary for choosing and ordering route waypoints from a
// scored candidate set. Backed by a language model in production and by
// deterministic doubles in tests. The selector owns the geographic
// reasoning; callers verify only the structural contract (exact count,
// valid indices, no duplicates).
type WaypointSelector interface {
	// Select returns indices into req.Candidates, in riding order.
	Select(ctx context.Context, req SelectionRequest) ([]int, error)
}

// SelectionError reports a selector response that violates the structural
// contract. It aborts the run.
type SelectionError struct {
	Reason string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("waypoint selection: %s", e.Reason)
}
