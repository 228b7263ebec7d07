// Package geo provides the spherical-Earth geometry used by the route
// pipeline. All functions are pure; randomness is always passed in so
// tests can seed it.
package geo

import (
	"math"
	"math/rand"

	"moto-route-service/internal/domain"
)

// Mean Earth radius.
const (
	earthRadiusKm = 6371.0
	earthRadiusM  = 6371000.0
)

// Haversine returns the great-circle distance between two points in
// kilometers.
func Haversine(a, b domain.LatLng) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// HaversineM returns the great-circle distance in meters.
func HaversineM(a, b domain.LatLng) float64 {
	return Haversine(a, b) * 1000
}

// Bearing returns the initial bearing in degrees (0-360) from a to b.
func Bearing(a, b domain.LatLng) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLng := radians(b.Lng - a.Lng)

	x := math.Sin(dLng) * math.Cos(lat2)
	y := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)
	return math.Mod(degrees(math.Atan2(x, y))+360, 360)
}

// BearingDiff returns the absolute difference between two bearings,
// normalized to 0-180 degrees.
func BearingDiff(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// ProjectPoint returns the point reached by travelling distanceKm from
// origin along the given initial bearing, on a spherical Earth model.
func ProjectPoint(origin domain.LatLng, bearingDeg, distanceKm float64) domain.LatLng {
	lat1 := radians(origin.Lat)
	lng1 := radians(origin.Lng)
	brng := radians(bearingDeg)
	d := distanceKm / earthRadiusKm

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) +
		math.Cos(lat1)*math.Sin(d)*math.Cos(brng))
	lng2 := lng1 + math.Atan2(
		math.Sin(brng)*math.Sin(d)*math.Cos(lat1),
		math.Cos(d)-math.Sin(lat1)*math.Sin(lat2),
	)

	return domain.LatLng{Lat: degrees(lat2), Lng: degrees(lng2)}
}

// Jitter scales v by a factor drawn uniformly from [1-fraction, 1+fraction].
// Deterministic for a seeded rng.
func Jitter(v, fraction float64, rng *rand.Rand) float64 {
	if fraction == 0 {
		return v
	}
	return v * (1 - fraction + rng.Float64()*2*fraction)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
