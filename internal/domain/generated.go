package domain

// RouteStatus distinguishes a validated route from a best-effort one
// returned after the retry budget ran out.
type RouteStatus string

const (
	StatusAccepted   RouteStatus = "accepted"
	StatusBestEffort RouteStatus = "best_effort"
)

// RouteAttempt binds the artifacts of one Selecting→Resolving→Validating
// cycle. The orchestrator owns the attempt sequence for a run; only the
// final (or first passing) attempt outlives the loop.
type RouteAttempt struct {
	Number    int
	Waypoints SelectedWaypoints
	Route     *ResolvedRoute
	Verdict   ValidationVerdict
}

// GeneratedRoute is the final artifact handed back to the caller. The
// pipeline holds no reference to it after return.
type GeneratedRoute struct {
	Route           *ResolvedRoute
	Status          RouteStatus
	Attempts        int
	Waypoints       []LatLng
	EncodedPolyline string
	Narrative       string
	StreetViewURLs  []string
	PreferencesUsed RoutePreferences
}
