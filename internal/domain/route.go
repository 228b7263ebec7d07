package domain

// RouteStep is a single turn-by-turn instruction within a resolved route.
type RouteStep struct {
	Instruction    string
	DistanceMeters float64
	// StartBearing is the initial road bearing of the step in degrees,
	// nil when the provider supplied no usable geometry.
	StartBearing  *float64
	RoadClassHint string
	StartLocation LatLng
	EndLocation   LatLng
	// Polyline is the encoded step-level geometry.
	Polyline string
}

// ResolvedRoute is the output of the directions provider for one waypoint
// ordering. It is immutable planning data and contains no side effects.
type ResolvedRoute struct {
	Steps                []RouteStep
	TotalDistanceMeters  float64
	TotalDurationSeconds float64
	// OverviewPolyline is the provider's simplified whole-route geometry,
	// used for overlap validation.
	OverviewPolyline string
	// StartAddress is the provider's formatted address of the route origin.
	StartAddress string
}
