package services

import (
	"fmt"
	"math"
	"math/rand"

	"moto-route-service/internal/config"
	"moto-route-service/internal/domain"
	"moto-route-service/internal/geo"
)

// One-way candidates sweep across this bearing span ahead of the start.
const onewayArcDegrees = 60.0

// GenerateCandidates synthesizes the geographic candidate set for the
// requested shape and distance. Pure geometry: no network calls, and
// deterministic for a seeded rng.
func GenerateCandidates(prefs domain.RoutePreferences, rules config.Rules, rng *rand.Rand) ([]domain.Candidate, error) {
	if prefs.DistanceKm <= 0 {
		return nil, fmt.Errorf("generate candidates: distance_km must be positive, got %g", prefs.DistanceKm)
	}

	if prefs.Shape == domain.ShapeLoop {
		return loopCandidates(prefs, rules, rng), nil
	}
	return onewayCandidates(prefs, rules, rng), nil
}

// loopCandidates places points evenly spaced by angle around a circle
// centered at the start, with radius distance/(2π) so the circumference
// approximates the requested distance. Each point's effective radius is
// independently jittered before projection.
func loopCandidates(prefs domain.RoutePreferences, rules config.Rules, rng *rand.Rand) []domain.Candidate {
	n := rules.LoopCandidateCount
	radiusKm := prefs.DistanceKm / (2 * math.Pi)

	out := make([]domain.Candidate, 0, n)
	for i := 0; i < n; i++ {
		bearing := float64(i) * 360.0 / float64(n)
		r := geo.Jitter(radiusKm, rules.WaypointJitter, rng)
		out = append(out, domain.Candidate{
			Position: geo.ProjectPoint(prefs.Start, bearing, r),
			Index:    i,
		})
	}
	return out
}

// onewayCandidates chains points along a forward arc: each candidate is
// projected from the previous one at a jittered distance/4 step, with
// bearings sweeping the arc, so later candidates advance further from the
// start along a generally consistent heading.
func onewayCandidates(prefs domain.RoutePreferences, rules config.Rules, rng *rand.Rand) []domain.Candidate {
	n := rules.OnewayCandidateCount
	baseBearing := rng.Float64() * 360.0
	// A selected waypoint covers roughly distance/4 of riding; candidates
	// are denser, so scale the chain step to keep the full sweep near the
	// requested distance.
	stepKm := prefs.DistanceKm / 4 * float64(rules.OnewayWaypointSelect) / float64(n)

	out := make([]domain.Candidate, 0, n)
	pos := prefs.Start
	for i := 0; i < n; i++ {
		bearing := baseBearing - onewayArcDegrees/2
		if n > 1 {
			bearing += onewayArcDegrees * float64(i) / float64(n-1)
		}
		d := geo.Jitter(stepKm, rules.WaypointJitter, rng)
		pos = geo.ProjectPoint(pos, bearing, d)
		out = append(out, domain.Candidate{Position: pos, Index: i})
	}
	return out
}
