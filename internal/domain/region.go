package domain

// Region is a named riding area with a representative center point. Used
// to give the waypoint selector geographic context when reverse geocoding
// is unavailable.
type Region struct {
	Name   string
	Center LatLng
}
