package dto

type GenerateRouteRequest struct {
	// StartLocation is a free-text address or "lat,lng" string.
	StartLocation string   `json:"start_location"`
	Start         *LatLng  `json:"start"`
	DistanceKm    float64  `json:"distance_km"`
	Shape         string   `json:"shape"`
	Scenery       string   `json:"scenery"`
	Curviness     *float64 `json:"curviness"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type RouteStepResponse struct {
	Instruction    string  `json:"instruction"`
	DistanceMeters float64 `json:"distance_meters"`
}

type GenerateRouteResponse struct {
	Status               string              `json:"status"`
	Attempts             int                 `json:"attempts"`
	EncodedPolyline      string              `json:"encoded_polyline"`
	TotalDistanceMeters  float64             `json:"total_distance_meters"`
	TotalDurationSeconds float64             `json:"total_duration_seconds"`
	Waypoints            []LatLng            `json:"waypoints"`
	Steps                []RouteStepResponse `json:"steps"`
	Narrative            string              `json:"narrative"`
	StreetViewURLs       []string            `json:"street_view_urls"`
}
