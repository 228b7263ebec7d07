package domain

// ViolationKind identifies one class of route-quality failure.
type ViolationKind string

const (
	ViolationEmptyRoute   ViolationKind = "empty_route"
	ViolationHighway      ViolationKind = "highway_fraction"
	ViolationUTurn        ViolationKind = "u_turn"
	ViolationOverlap      ViolationKind = "polyline_overlap"
	ViolationUrbanDensity ViolationKind = "urban_density"
)

// ValidationVerdict is the result of inspecting one resolved route.
// Produced fresh per attempt, never mutated.
type ValidationVerdict struct {
	Passed          bool
	Violations      []ViolationKind
	HighwayFraction float64
	UTurnIndices    []int
	OverlapFraction float64
	// Issues are human-readable descriptions of each violation, fed back
	// to the waypoint selector on retries.
	Issues []string
}

// Has reports whether the verdict carries the given violation.
func (v ValidationVerdict) Has(kind ViolationKind) bool {
	for _, k := range v.Violations {
		if k == kind {
			return true
		}
	}
	return false
}
