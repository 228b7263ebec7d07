package domain

// Candidate is a geographic point eligible for selection as a route
// waypoint. The generator creates it with position only; the scoring
// service attaches elevation and scenery in place. Read-only thereafter,
// and scoped to a single pipeline run.
type Candidate struct {
	Position LatLng
	// Index is the candidate's position in the generated set: the bearing
	// slot for a loop, the arc index for a one-way route.
	Index int
	// ElevationM is nil when the elevation lookup failed or was skipped.
	ElevationM *float64
	// SceneryScore is the normalized [0,1] nearby-place density for the
	// requested scenery category. Zero when scoring failed.
	SceneryScore float64
}

// SelectedWaypoints is an ordered subset of a candidate set. Order defines
// riding order. The indices refer to the candidate slice the selector was
// given.
type SelectedWaypoints struct {
	Indices    []int
	Candidates []Candidate
}

// Positions returns the waypoint coordinates in riding order.
func (s SelectedWaypoints) Positions() []LatLng {
	out := make([]LatLng, 0, len(s.Candidates))
	for _, c := range s.Candidates {
		out = append(out, c.Position)
	}
	return out
}
