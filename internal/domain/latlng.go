package domain

import "fmt"

// Immutable geographic coordinates (latitude, longitude), WGS 84.
type LatLng struct {
	Lat float64
	Lng float64
}

// Return coordinates as "lat,lng" for external API compatibility.
func (p LatLng) String() string { return fmt.Sprintf("%f,%f", p.Lat, p.Lng) }
